package maploader

import (
	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

// EnemyArchetype - шаблон врага. Новый вид врага - строка в таблице.
type EnemyArchetype struct {
	Name      string
	Weapon    string
	Ammo      int     // запасные патроны
	AimJitter float64 // градусы; больше - хуже меткость
	Speed     float64 // пикселей за тик
	HP        float64
	Armor     float64
	Drops     []domain.ItemComponent
}

// NewEntity собирает сущность врага по шаблону.
func (a *EnemyArchetype) NewEntity(pos mgl64.Vec2) *domain.Entity {
	return &domain.Entity{
		Type: domain.EntityTypeEnemy,
		Name: a.Name,
		Pos:  pos,
		Size: domain.EnemySize,
		Stats: &domain.StatsComponent{
			HP:    a.HP,
			MaxHP: a.HP,
			Armor: a.Armor,
		},
		Combat: &domain.CombatComponent{
			Weapons:   []*domain.WeaponState{domain.NewWeaponState(domain.WeaponByName(a.Weapon), a.Ammo)},
			Keycards:  make(domain.KeycardSet),
			BaseSpeed: a.Speed,
			AimJitter: a.AimJitter,
		},
		AI: &domain.AIComponent{Drops: a.Drops},
	}
}

// Враги генерально получают оружие послабее: меткость у них лучше игроцкой.
var enemyRoster = map[string]*EnemyArchetype{
	"pistoller":  {Name: "Pistoller", Weapon: "Pistol", Ammo: 30, AimJitter: 3, Speed: 3, HP: 50},
	"shotgunner": {Name: "Shotgunner", Weapon: "Shotgun", Ammo: 20, AimJitter: 10, Speed: 2, HP: 40},
	"defender":   {Name: "Defender", Weapon: "Pistol", Ammo: 200, AimJitter: 10, Speed: 0, HP: 100, Armor: 100},
	"rifleman":   {Name: "Rifleman", Weapon: "AssaultRifle", Ammo: 1000, AimJitter: 40, Speed: 1, HP: 20, Armor: 100},
	"death": {
		Name: "Death", Weapon: "TouchOfDeath", Ammo: 2000000, AimJitter: 0, Speed: 3, HP: 2500, Armor: 500,
		Drops: []domain.ItemComponent{{Effect: domain.EffectKeycard, Keycard: domain.DoorBlue}},
	},
}

func init() {
	// Имя этого класса в файлах первой версии; в наших уровнях он rifleman.
	enemyRoster["schoolshooter"] = enemyRoster["rifleman"]
}

var itemRoster = map[string]domain.ItemComponent{
	"medikit":     {Effect: domain.EffectMediKit},
	"stimpack":    {Effect: domain.EffectStimPack},
	"supercharge": {Effect: domain.EffectSupercharge},
	"armor":       {Effect: domain.EffectArmor},
	"speedboost":  {Effect: domain.EffectSpeedBoost},

	"pistolpickup":       {Effect: domain.EffectWeapon, Weapon: "Pistol"},
	"shotgunpickup":      {Effect: domain.EffectWeapon, Weapon: "Shotgun"},
	"machinegunpickup":   {Effect: domain.EffectWeapon, Weapon: "MachineGun"},
	"doublebarrelpickup": {Effect: domain.EffectWeapon, Weapon: "DoubleBarrelShotgun"},
	"deaglepickup":       {Effect: domain.EffectWeapon, Weapon: "DesertEagle"},
	"arpickup":           {Effect: domain.EffectWeapon, Weapon: "AssaultRifle"},
	"bazpickup":          {Effect: domain.EffectWeapon, Weapon: "RocketLauncher"},
	"quadbarrpickup":     {Effect: domain.EffectWeapon, Weapon: "QuadBarrelShotgun"},

	"bluekeycard":   {Effect: domain.EffectKeycard, Keycard: domain.DoorBlue},
	"redkeycard":    {Effect: domain.EffectKeycard, Keycard: domain.DoorRed},
	"yellowkeycard": {Effect: domain.EffectKeycard, Keycard: domain.DoorYellow},
}

var doorRoster = map[string]domain.DoorColor{
	"door":       domain.DoorNone,
	"bluedoor":   domain.DoorBlue,
	"reddoor":    domain.DoorRed,
	"yellowdoor": domain.DoorYellow,
}
