package engine

import "github.com/go-gl/mathgl/mgl64"

// Intent - ввод игрока, применяемый к одному тику. Симуляция не знает,
// откуда он пришел (сеть, тест, бот) - ей важны только желаемые действия.
type Intent struct {
	Move mgl64.Vec2 // направление движения, каждая ось в [-1, 1]
	Aim  mgl64.Vec2 // направление прицеливания

	Fire   bool // удерживается: запрос на выстрел каждый тик
	Reload bool // однократно: запрос ручной перезарядки

	// SwitchSlot - номер слота оружия для переключения, -1 если не нужно.
	SwitchSlot int
}

// NoIntent - пустой ввод (SwitchSlot = -1).
func NoIntent() Intent {
	return Intent{SwitchSlot: -1}
}
