package domain

// ApplyDamage наносит урон по двухканальной модели. piercePct процентов
// урона проходит мимо брони прямо в здоровье; остаток поглощается броней
// до её текущего значения, излишек теряется (в здоровье НЕ переносится).
// Возвращает true, если цель погибла от этого попадания.
func (s *StatsComponent) ApplyDamage(damage, piercePct float64) bool {
	if s.IsDead {
		return false
	}
	if damage < 0 {
		damage = 0
	}

	bodyDamage := damage * piercePct / 100
	armorDamage := damage - bodyDamage

	s.HP -= bodyDamage
	s.Armor -= armorDamage
	if s.Armor < 0 {
		s.Armor = 0
	}

	if s.HP <= 0 {
		s.HP = 0
		s.IsDead = true
		return true
	}
	return false
}

// Heal лечит сущность, не превышая MaxHP. Трупы не лечим.
func (s *StatsComponent) Heal(amount float64) {
	if s.IsDead {
		return
	}
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
}
