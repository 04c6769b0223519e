package domain

import (
	"fmt"

	"gloom-server/pkg/utils"
)

// WeaponSpec - конфигурация оружия. Оружие - это данные, а не код:
// новая пушка добавляется строкой в таблицу, без новых типов.
type WeaponSpec struct {
	Name            string
	RangePx         float64
	Damage          float64
	PiercePct       float64 // 0..100, доля урона мимо брони
	BulletSpeed     float64 // пикселей за тик
	SpreadDeg       float64 // полный конус разброса
	MagazineSize    int
	BulletsPerShot  int
	BulletSizePx    float64
	FireRateTicks   int // тиков между выстрелами
	ReloadRateTicks int
}

var weaponTable = map[string]*WeaponSpec{}

// RegisterWeapon проверяет инварианты конфигурации и добавляет её в таблицу.
func RegisterWeapon(spec *WeaponSpec) error {
	if spec.Name == "" {
		return fmt.Errorf("weapon without a name")
	}
	if spec.PiercePct < 0 || spec.PiercePct > 100 {
		return fmt.Errorf("weapon %s: pierce %.1f out of [0,100]", spec.Name, spec.PiercePct)
	}
	if spec.BulletsPerShot < 1 {
		return fmt.Errorf("weapon %s: bullets per shot %d < 1", spec.Name, spec.BulletsPerShot)
	}
	if spec.MagazineSize < 1 {
		return fmt.Errorf("weapon %s: magazine size %d < 1", spec.Name, spec.MagazineSize)
	}
	if _, exists := weaponTable[spec.Name]; exists {
		return fmt.Errorf("weapon %s already registered", spec.Name)
	}
	weaponTable[spec.Name] = spec
	return nil
}

// WeaponByName возвращает конфигурацию. Неизвестное имя - ошибка программиста.
func WeaponByName(name string) *WeaponSpec {
	spec, ok := weaponTable[name]
	if !ok {
		panic("unknown weapon: " + name)
	}
	return spec
}

// WeaponKnown проверяет наличие оружия в таблице (для валидации загрузчиком).
func WeaponKnown(name string) bool {
	_, ok := weaponTable[name]
	return ok
}

func mustRegister(spec *WeaponSpec) {
	if err := RegisterWeapon(spec); err != nil {
		panic(err)
	}
}

// Штатный арсенал.
func init() {
	mustRegister(&WeaponSpec{Name: "Pistol", RangePx: 500, Damage: 10, PiercePct: 50, BulletSpeed: 10, SpreadDeg: 0, MagazineSize: 15, BulletsPerShot: 1, BulletSizePx: 3, FireRateTicks: 25, ReloadRateTicks: 75})
	mustRegister(&WeaponSpec{Name: "Shotgun", RangePx: 400, Damage: 20, PiercePct: 40, BulletSpeed: 15, SpreadDeg: 12, MagazineSize: 5, BulletsPerShot: 5, BulletSizePx: 2, FireRateTicks: 0, ReloadRateTicks: 75})
	mustRegister(&WeaponSpec{Name: "MachineGun", RangePx: 600, Damage: 5, PiercePct: 60, BulletSpeed: 14, SpreadDeg: 0, MagazineSize: 50, BulletsPerShot: 1, BulletSizePx: 1, FireRateTicks: 5, ReloadRateTicks: 75})
	mustRegister(&WeaponSpec{Name: "RocketLauncher", RangePx: 800, Damage: 200, PiercePct: 100, BulletSpeed: 5, SpreadDeg: 0, MagazineSize: 1, BulletsPerShot: 1, BulletSizePx: 25, FireRateTicks: 0, ReloadRateTicks: 150})
	mustRegister(&WeaponSpec{Name: "TouchOfDeath", RangePx: 800, Damage: 200, PiercePct: 100, BulletSpeed: 8, SpreadDeg: 0, MagazineSize: 1, BulletsPerShot: 1, BulletSizePx: 25, FireRateTicks: 0, ReloadRateTicks: 20})
	mustRegister(&WeaponSpec{Name: "DoubleBarrelShotgun", RangePx: 400, Damage: 15, PiercePct: 35, BulletSpeed: 13, SpreadDeg: 20, MagazineSize: 7, BulletsPerShot: 7, BulletSizePx: 2, FireRateTicks: 0, ReloadRateTicks: 125})
	mustRegister(&WeaponSpec{Name: "DesertEagle", RangePx: 500, Damage: 30, PiercePct: 75, BulletSpeed: 12, SpreadDeg: 0, MagazineSize: 15, BulletsPerShot: 1, BulletSizePx: 2.5, FireRateTicks: 50, ReloadRateTicks: 100})
	mustRegister(&WeaponSpec{Name: "AssaultRifle", RangePx: 600, Damage: 3, PiercePct: 60, BulletSpeed: 16, SpreadDeg: 0, MagazineSize: 100, BulletsPerShot: 1, BulletSizePx: 1, FireRateTicks: 1, ReloadRateTicks: 75})
	mustRegister(&WeaponSpec{Name: "QuadBarrelShotgun", RangePx: 400, Damage: 12, PiercePct: 30, BulletSpeed: 15, SpreadDeg: 24, MagazineSize: 12, BulletsPerShot: 12, BulletSizePx: 2, FireRateTicks: 0, ReloadRateTicks: 125})
}

// WeaponState - состояние конкретного экземпляра оружия в руках актора.
type WeaponState struct {
	Spec       *WeaponSpec
	InMagazine int
	Reserve    int

	CooldownLeft int
	ReloadLeft   int
	Reloading    bool
}

// NewWeaponState выдает оружие с полным магазином и заданным запасом.
func NewWeaponState(spec *WeaponSpec, reserve int) *WeaponState {
	return &WeaponState{
		Spec:       spec,
		InMagazine: spec.MagazineSize,
		Reserve:    reserve,
	}
}

// TotalAmmo возвращает суммарный боезапас.
func (ws *WeaponState) TotalAmmo() int {
	return ws.InMagazine + ws.Reserve
}

// StartReload начинает перезарядку. Возвращает false, если перезаряжать
// нечего или нечем.
func (ws *WeaponState) StartReload() bool {
	if ws.Reloading || ws.Reserve <= 0 || ws.InMagazine >= ws.Spec.MagazineSize {
		return false
	}
	ws.Reloading = true
	ws.ReloadLeft = ws.Spec.ReloadRateTicks
	return true
}

// Tick продвигает таймеры оружия на один тик. Пустой магазин при наличии
// запаса запускает перезарядку автоматически.
func (ws *WeaponState) Tick() {
	if ws.CooldownLeft > 0 {
		ws.CooldownLeft--
	}
	if ws.Reloading {
		ws.ReloadLeft--
		if ws.ReloadLeft <= 0 {
			moved := utils.MinInt(ws.Spec.MagazineSize-ws.InMagazine, ws.Reserve)
			ws.InMagazine += moved
			ws.Reserve -= moved
			ws.Reloading = false
			ws.ReloadLeft = 0
		}
		return
	}
	if ws.InMagazine == 0 && ws.Reserve > 0 {
		ws.StartReload()
	}
}
