package domain

import "github.com/go-gl/mathgl/mgl64"

// EntityID - монотонный идентификатор. Никогда не переиспользуется
// в пределах сессии уровня.
type EntityID uint64

// --- КОМПОНЕНТЫ ---

// StatsComponent - здоровье и броня. Два независимых канала урона, см. stats.go.
type StatsComponent struct {
	HP     float64 `json:"hp"`
	MaxHP  float64 `json:"maxHp"`
	Armor  float64 `json:"armor"`
	IsDead bool    `json:"isDead"`
}

// CombatComponent - оружие, боезапас и доступ. Есть у игрока и врагов.
type CombatComponent struct {
	Weapons  []*WeaponState
	Active   int
	Keycards KeycardSet

	BaseSpeed float64 // пикселей за тик
	AimJitter float64 // градусы случайного отклонения выстрела (0 - идеальная меткость)

	Aim mgl64.Vec2 // текущее направление прицеливания (единичный вектор)
}

// ActiveWeapon возвращает выбранное оружие или nil, если рук пусто.
func (c *CombatComponent) ActiveWeapon() *WeaponState {
	if c.Active < 0 || c.Active >= len(c.Weapons) {
		return nil
	}
	return c.Weapons[c.Active]
}

// FindWeapon ищет оружие по имени конфигурации.
func (c *CombatComponent) FindWeapon(name string) *WeaponState {
	for _, ws := range c.Weapons {
		if ws.Spec.Name == name {
			return ws
		}
	}
	return nil
}

// AddWeapon добавляет оружие и делает его активным (как в оригинале:
// новая пушка сразу в руки).
func (c *CombatComponent) AddWeapon(ws *WeaponState) {
	c.Weapons = append(c.Weapons, ws)
	c.Active = len(c.Weapons) - 1
}

// SwitchTo выбирает оружие по слоту. Возвращает false, если слот пуст.
func (c *CombatComponent) SwitchTo(slot int) bool {
	if slot < 0 || slot >= len(c.Weapons) {
		return false
	}
	c.Active = slot
	return true
}

// AIComponent - память врага о цели.
type AIComponent struct {
	HasTarget         bool
	Target            mgl64.Vec2 // последняя известная позиция цели
	TicksWithoutSight int

	// Drops - что выпадает при смерти (помимо активного оружия).
	Drops []ItemComponent
}

// ItemEffect - что делает предмет при подборе.
type ItemEffect uint8

const (
	EffectNone ItemEffect = iota
	EffectMediKit
	EffectStimPack
	EffectSupercharge
	EffectArmor
	EffectSpeedBoost
	EffectWeapon
	EffectKeycard
)

// ItemComponent - полезная нагрузка предмета.
// Weapon заполняется только для EffectWeapon, Keycard - для EffectKeycard.
type ItemComponent struct {
	Effect  ItemEffect
	Weapon  string
	Keycard DoorColor
}

// DoorComponent привязывает сущность двери к её ячейке и разделяемому состоянию.
type DoorComponent struct {
	State *DoorState
	CellX int
	CellY int
}

// ProjectileComponent - летящая пуля. Урон и пробитие копируются из
// конфигурации оружия в момент выстрела: последующие правки таблицы
// оружия не влияют на пули в полете.
type ProjectileComponent struct {
	Owner     EntityID
	Friendly  bool // true - пуля игрока, false - врага
	Dir       mgl64.Vec2
	Speed     float64
	RangeLeft float64
	Damage    float64
	PiercePct float64
}

// EffectsComponent - активные статусные эффекты.
type EffectsComponent struct {
	SpeedBoostTicks int
}

// SpeedMultiplier возвращает текущий множитель скорости.
func (e *EffectsComponent) SpeedMultiplier() float64 {
	if e != nil && e.SpeedBoostTicks > 0 {
		return SpeedBoostMult
	}
	return 1.0
}

// --- СУЩНОСТЬ ---

// Entity - общая запись для всех вариантов (игрок, враг, предмет, дверь,
// снаряд). Вариант определяется полем Type и набором ненулевых компонентов.
type Entity struct {
	ID   EntityID
	Type string
	Name string

	Pos  mgl64.Vec2 // центр, в пикселях
	Size float64    // сторона AABB, в пикселях

	// Компоненты (nil - свойство отсутствует)
	Stats      *StatsComponent
	Combat     *CombatComponent
	AI         *AIComponent
	Item       *ItemComponent
	Door       *DoorComponent
	Projectile *ProjectileComponent
	Effects    *EffectsComponent

	despawned bool // помечен на удаление в конце тика
}

// Alive сообщает, участвует ли сущность в симуляции.
func (e *Entity) Alive() bool {
	if e.despawned {
		return false
	}
	if e.Stats != nil && e.Stats.IsDead {
		return false
	}
	return true
}

// AABB возвращает углы ограничивающего прямоугольника.
func (e *Entity) AABB() (min, max mgl64.Vec2) {
	half := e.Size / 2
	return mgl64.Vec2{e.Pos.X() - half, e.Pos.Y() - half},
		mgl64.Vec2{e.Pos.X() + half, e.Pos.Y() + half}
}

// Overlaps проверяет пересечение AABB двух сущностей.
func (e *Entity) Overlaps(other *Entity) bool {
	aMin, aMax := e.AABB()
	bMin, bMax := other.AABB()
	return aMin.X() <= bMax.X() && aMax.X() >= bMin.X() &&
		aMin.Y() <= bMax.Y() && aMax.Y() >= bMin.Y()
}
