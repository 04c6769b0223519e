package systems

import (
	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

// EnemyIntent - решение врага на текущий тик: куда сместиться и стрелять ли.
type EnemyIntent struct {
	Move mgl64.Vec2 // желаемое смещение в пикселях
	Fire bool
	Aim  mgl64.Vec2
}

// ComputeEnemyIntent решает, что делает враг. Враг запоминает последнюю
// позицию, где видел игрока, преследует её и забывает цель после
// EnemyForgetTicks тиков без контакта. Стреляет только при прямой
// видимости и в пределах дальности своего оружия; без патронов
// отступает, пока игрок способен его достать.
func ComputeEnemyIntent(w *domain.World, enemy, player *domain.Entity) EnemyIntent {
	intent := EnemyIntent{}
	ai := enemy.AI
	if ai == nil || enemy.Combat == nil || player == nil || !player.Alive() {
		return intent
	}

	canSee := HasLineOfSight(w.Grid, enemy.Pos, player.Pos)
	if canSee {
		ai.HasTarget = true
		ai.Target = player.Pos
		ai.TicksWithoutSight = 0
	} else if ai.HasTarget {
		ai.TicksWithoutSight++
		if ai.TicksWithoutSight >= domain.EnemyForgetTicks {
			ai.HasTarget = false
		}
	}

	if !ai.HasTarget {
		return intent
	}

	ws := enemy.Combat.ActiveWeapon()
	if ws == nil {
		return intent
	}

	to := ai.Target.Sub(enemy.Pos)
	dist := to.Len()
	if dist == 0 {
		return intent
	}
	dir := to.Mul(1 / dist)
	speed := enemy.Combat.BaseSpeed

	if ws.TotalAmmo() > 0 {
		if dist > domain.EnemyCloseRangePx {
			// Сближение, замедляясь у цели (как в оригинале: шаг
			// пропорционален остатку дистанции к дальности оружия).
			scale := dist / ws.Spec.RangePx
			if scale > 1 {
				scale = 1
			}
			intent.Move = dir.Mul(speed * scale)
		}
	} else if playerRange(player) >= dist {
		// Патроны кончились, а игрок достает - отходим.
		intent.Move = dir.Mul(-speed)
	}

	if canSee && dist <= ws.Spec.RangePx && ws.InMagazine+ws.Reserve > 0 {
		intent.Fire = true
		intent.Aim = dir
	}

	return intent
}

func playerRange(player *domain.Entity) float64 {
	if player.Combat == nil {
		return 0
	}
	ws := player.Combat.ActiveWeapon()
	if ws == nil {
		return 0
	}
	return ws.Spec.RangePx
}
