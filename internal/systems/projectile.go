package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
	"gloom-server/pkg/utils"
)

// AdvanceProjectiles продвигает все снаряды на один тик: движение вдоль
// направления со скоростью пули, остановка о стены и закрытые двери,
// попадания по живым целям противоположной стороны, списание дальности.
// Снаряд деспавнится при ударе или исчерпании дальности.
func AdvanceProjectiles(w *domain.World) {
	w.ForEachAlive(domain.EntityTypeProjectile, func(e *domain.Entity) bool {
		advanceOne(w, e)
		return true
	})
}

func advanceOne(w *domain.World, e *domain.Entity) {
	p := e.Projectile
	dist := p.Speed
	if dist > p.RangeLeft {
		dist = p.RangeLeft
	}
	if dist <= 0 {
		w.Despawn(e.ID)
		return
	}

	// Расстояние до ближайшей стены по пути.
	wallDist, wallHit := CastRay(w.Grid, e.Pos, p.Dir, dist)

	// Ближайшая цель на отрезке этого тика.
	target, targetDist := nearestTargetOnSegment(w, e, dist)

	if target != nil && (!wallHit || targetDist <= wallDist) {
		ResolveHit(w, p, target)
		w.Despawn(e.ID)
		return
	}
	if wallHit {
		w.Despawn(e.ID)
		return
	}

	w.SetPos(e, e.Pos.Add(p.Dir.Mul(dist)))
	p.RangeLeft -= dist
	if p.RangeLeft <= 0 {
		w.Despawn(e.ID)
	}
}

// nearestTargetOnSegment ищет первую живую цель, которую снаряд задевает
// на отрезке длиной dist. Пули игрока бьют врагов, пули врагов - игрока;
// владелец со своей пулей не сталкивается никогда.
func nearestTargetOnSegment(w *domain.World, e *domain.Entity, dist float64) (*domain.Entity, float64) {
	p := e.Projectile

	targetType := domain.EntityTypePlayer
	if p.Friendly {
		targetType = domain.EntityTypeEnemy
	}

	var best *domain.Entity
	bestT := dist + 1
	w.ForEachAlive(targetType, func(t *domain.Entity) bool {
		if t.ID == p.Owner {
			return true
		}
		if hit, at := segmentHits(e.Pos, p.Dir, dist, t.Pos, (t.Size+e.Size)/2); hit && at < bestT {
			best = t
			bestT = at
		}
		return true
	})
	return best, bestT
}

// segmentHits проверяет, проходит ли отрезок pos + dir*[0,dist] на
// расстоянии radius от центра цели. Возвращает параметр ближайшей точки.
func segmentHits(pos, dir mgl64.Vec2, dist float64, center mgl64.Vec2, radius float64) (bool, float64) {
	oc := center.Sub(pos)
	t := utils.Clamp(oc.Dot(dir), 0, dist)
	closest := pos.Add(dir.Mul(t))
	if closest.Sub(center).Len() <= radius {
		return true, t
	}
	return false, 0
}
