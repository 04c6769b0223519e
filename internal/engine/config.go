package engine

import (
	"fmt"

	"gloom-server/internal/domain"
)

// CompletionPolicy определяет, когда уровень считается пройденным.
type CompletionPolicy uint8

const (
	// PolicyExit - игрок должен дойти до ячейки выхода.
	PolicyExit CompletionPolicy = iota
	// PolicyClearEnemies - на уровне не должно остаться живых врагов.
	PolicyClearEnemies
)

func (p CompletionPolicy) String() string {
	switch p {
	case PolicyExit:
		return "exit"
	case PolicyClearEnemies:
		return "clear"
	}
	return "unknown"
}

// ParsePolicy разбирает имя политики из флага запуска.
func ParsePolicy(s string) (CompletionPolicy, error) {
	switch s {
	case "exit":
		return PolicyExit, nil
	case "clear":
		return PolicyClearEnemies, nil
	}
	return PolicyExit, fmt.Errorf("unknown completion policy %q (want exit|clear)", s)
}

// Config - параметры симуляции, фиксируемые при создании.
type Config struct {
	Seed        int64
	Policy      CompletionPolicy
	ViewRangePx float64 // радиус обзора игрока в пикселях
	CellSize    float64
}

// NewConfig возвращает конфигурацию по умолчанию.
func NewConfig(seed int64) Config {
	return Config{
		Seed:        seed,
		Policy:      PolicyExit,
		ViewRangePx: 800,
		CellSize:    domain.DefaultCellSize,
	}
}
