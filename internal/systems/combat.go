package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"gloom-server/internal/domain"
	"gloom-server/pkg/logger"
)

// FireResult - итог запроса на выстрел. Блокировка - не ошибка,
// а обычный no-op: вызывающий может повторить на следующем тике.
type FireResult uint8

const (
	FireOK FireResult = iota
	FireBlockedNoWeapon
	FireBlockedCooldown
	FireBlockedEmpty
	FireBlockedReloading
)

func (r FireResult) Blocked() bool { return r != FireOK }

func (r FireResult) String() string {
	switch r {
	case FireOK:
		return "FIRED"
	case FireBlockedNoWeapon:
		return "NO_WEAPON"
	case FireBlockedCooldown:
		return "COOLDOWN"
	case FireBlockedEmpty:
		return "EMPTY"
	case FireBlockedReloading:
		return "RELOADING"
	}
	return "UNKNOWN"
}

// TryFire обрабатывает запрос на выстрел активным оружием стрелка.
// При успехе спавнит по снаряду на каждую пулю залпа: направление - вектор
// прицеливания, повернутый на случайный угол в пределах +-spread/2
// (плюс общий джиттер меткости стрелка, один на залп). Магазин уменьшается
// на каждую реально выпущенную пулю. Возвращает количество снарядов.
func TryFire(w *domain.World, shooter *domain.Entity, rng *rand.Rand) (FireResult, int) {
	if shooter.Combat == nil {
		return FireBlockedNoWeapon, 0
	}
	ws := shooter.Combat.ActiveWeapon()
	if ws == nil {
		return FireBlockedNoWeapon, 0
	}
	if ws.Reloading {
		return FireBlockedReloading, 0
	}
	if ws.CooldownLeft > 0 {
		return FireBlockedCooldown, 0
	}
	if ws.InMagazine <= 0 {
		// Пустой магазин сам уйдет в перезарядку на фазе таймеров.
		return FireBlockedEmpty, 0
	}

	aim := shooter.Combat.Aim
	if aim.Len() == 0 {
		aim = mgl64.Vec2{1, 0}
	} else {
		aim = aim.Normalize()
	}

	// Общий джиттер залпа: у врагов меткость хуже, у игрока почти идеальна.
	if j := shooter.Combat.AimJitter; j > 0 {
		aim = rotate(aim, (rng.Float64()*2-1)*j)
	}

	spec := ws.Spec
	spawned := 0
	for i := 0; i < spec.BulletsPerShot; i++ {
		if ws.InMagazine <= 0 {
			break
		}
		dir := aim
		if spec.SpreadDeg > 0 {
			dir = rotate(aim, (rng.Float64()-0.5)*spec.SpreadDeg)
		}

		w.Spawn(&domain.Entity{
			Type: domain.EntityTypeProjectile,
			Name: spec.Name + " bullet",
			Pos:  shooter.Pos,
			Size: spec.BulletSizePx,
			Projectile: &domain.ProjectileComponent{
				Owner:     shooter.ID,
				Friendly:  shooter.Type == domain.EntityTypePlayer,
				Dir:       dir,
				Speed:     spec.BulletSpeed,
				RangeLeft: spec.RangePx,
				Damage:    spec.Damage,
				PiercePct: spec.PiercePct,
			},
		})
		ws.InMagazine--
		spawned++
	}

	ws.CooldownLeft = spec.FireRateTicks

	logger.Log.WithFields(logrus.Fields{
		"component":  "combat_system",
		"shooter_id": shooter.ID,
		"weapon":     spec.Name,
		"spawned":    spawned,
		"magazine":   ws.InMagazine,
	}).Debug("Fire request accepted.")

	return FireOK, spawned
}

// ResolveHit применяет попадание снаряда к живой цели. При смерти цель
// деспавнится; убитый враг роняет свое активное оружие и прочий дроп.
func ResolveHit(w *domain.World, proj *domain.ProjectileComponent, target *domain.Entity) {
	if target.Stats == nil || target.Stats.IsDead {
		return
	}

	hpBefore := target.Stats.HP
	armorBefore := target.Stats.Armor
	died := target.Stats.ApplyDamage(proj.Damage, proj.PiercePct)

	logger.Log.WithFields(logrus.Fields{
		"component":    "combat_system",
		"target_id":    target.ID,
		"target_name":  target.Name,
		"damage":       proj.Damage,
		"pierce_pct":   proj.PiercePct,
		"hp_before":    hpBefore,
		"hp_after":     target.Stats.HP,
		"armor_before": armorBefore,
		"armor_after":  target.Stats.Armor,
		"target_died":  died,
	}).Info("Hit resolved.")

	if !died {
		return
	}

	if target.Type == domain.EntityTypeEnemy {
		dropLoot(w, target)
	}
	w.Despawn(target.ID)
}

// dropLoot роняет на место смерти врага его активное оружие и предметы
// из списка дропа (например, карточку у босса).
func dropLoot(w *domain.World, enemy *domain.Entity) {
	if enemy.Combat != nil {
		if ws := enemy.Combat.ActiveWeapon(); ws != nil {
			w.Spawn(&domain.Entity{
				Type: domain.EntityTypeItem,
				Name: ws.Spec.Name + " pickup",
				Pos:  enemy.Pos,
				Size: domain.ItemSize,
				Item: &domain.ItemComponent{Effect: domain.EffectWeapon, Weapon: ws.Spec.Name},
			})
		}
	}
	if enemy.AI == nil {
		return
	}
	for i := range enemy.AI.Drops {
		item := enemy.AI.Drops[i]
		name := "drop"
		if item.Effect == domain.EffectKeycard {
			name = item.Keycard.String() + " keycard"
		}
		w.Spawn(&domain.Entity{
			Type: domain.EntityTypeItem,
			Name: name,
			Pos:  enemy.Pos,
			Size: domain.ItemSize,
			Item: &item,
		})
	}
}

// rotate поворачивает вектор на угол в градусах.
func rotate(v mgl64.Vec2, degrees float64) mgl64.Vec2 {
	return mgl64.Rotate2D(mgl64.DegToRad(degrees)).Mul2x1(v)
}
