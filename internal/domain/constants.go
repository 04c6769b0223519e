package domain

// Типы сущностей
const (
	EntityTypePlayer     = "PLAYER"
	EntityTypeEnemy      = "ENEMY"
	EntityTypeItem       = "ITEM"
	EntityTypeDoor       = "DOOR"
	EntityTypeProjectile = "PROJECTILE"
)

// Частота симуляции
const TickRate = 60 // тиков в секунду

// Геометрия (в пикселях)
const (
	DefaultCellSize = 32.0
	PlayerSize      = 20.0
	EnemySize       = 20.0
	ItemSize        = 16.0
)

// Параметры игрока
const (
	PlayerMaxHP      = 100.0
	MaxArmor         = 100.0
	PlayerBaseSpeed  = 3.0 // пикселей за тик
	PlayerAimJitter  = 1.0 // градусы разброса прицеливания
	PlayerStartAmmo  = 200 // запасные патроны стартового пистолета
)

// Эффекты предметов
const (
	MediKitHeal             = 25.0
	StimPackHeal            = 10.0
	SpeedBoostMult          = 1.5
	SpeedBoostDurationTicks = 20 * TickRate
)

// Поведение врагов
const (
	EnemyForgetTicks  = 15 * TickRate // через сколько тиков без контакта враг забывает цель
	EnemyCloseRangePx = 10.0          // ближе не подходит
)
