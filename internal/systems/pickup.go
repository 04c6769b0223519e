package systems

import (
	"github.com/sirupsen/logrus"

	"gloom-server/internal/domain"
	"gloom-server/pkg/logger"
)

// ProcessPickups подбирает все предметы, перекрывающиеся с игроком:
// эффект применяется, предмет деспавнится. Предметы уничтожаются при
// подборе и никогда не создаются им.
func ProcessPickups(w *domain.World, player *domain.Entity) {
	w.ForEachAlive(domain.EntityTypeItem, func(item *domain.Entity) bool {
		if !player.Overlaps(item) {
			return true
		}
		applyItem(player, item.Item)
		w.Despawn(item.ID)

		logger.Log.WithFields(logrus.Fields{
			"component": "pickup_system",
			"item_id":   item.ID,
			"item_name": item.Name,
		}).Info("Item picked up.")
		return true
	})
}

func applyItem(player *domain.Entity, item *domain.ItemComponent) {
	switch item.Effect {
	case domain.EffectMediKit:
		player.Stats.Heal(domain.MediKitHeal)

	case domain.EffectStimPack:
		player.Stats.Heal(domain.StimPackHeal)

	case domain.EffectSupercharge:
		player.Stats.Heal(player.Stats.MaxHP)

	case domain.EffectArmor:
		// Броня всегда выставляется в максимум, не складывается.
		player.Stats.Armor = domain.MaxArmor

	case domain.EffectSpeedBoost:
		if player.Effects == nil {
			player.Effects = &domain.EffectsComponent{}
		}
		// Повторный подбор обновляет длительность, а не складывает её.
		player.Effects.SpeedBoostTicks = domain.SpeedBoostDurationTicks

	case domain.EffectKeycard:
		if player.Combat.Keycards == nil {
			player.Combat.Keycards = make(domain.KeycardSet)
		}
		player.Combat.Keycards.Add(item.Keycard)

	case domain.EffectWeapon:
		spec := domain.WeaponByName(item.Weapon)
		if owned := player.Combat.FindWeapon(spec.Name); owned != nil {
			// Уже есть такая пушка: пополняем запас на один магазин.
			owned.Reserve += spec.MagazineSize
		} else {
			// Новая: полный магазин плюс один магазин в запасе, сразу в руки.
			player.Combat.AddWeapon(domain.NewWeaponState(spec, spec.MagazineSize))
		}
	}
}
