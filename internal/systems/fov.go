package systems

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"

	"gloom-server/internal/domain"
	"gloom-server/pkg/logger"
	"gloom-server/pkg/utils"
)

// VisState - классификация ячейки для конкретного наблюдателя.
// Переходы монотонны: Unseen -> Seen|Visible, Visible -> Seen.
// Обратно в Unseen ячейка не возвращается до конца сессии уровня.
type VisState uint8

const (
	Unseen VisState = iota
	Seen            // видели раньше, сейчас заслонена
	Visible         // в прямой видимости сейчас
)

// Visibility хранит по-наблюдательскую память видимости: арена плоских
// массивов фиксированного размера W*H, индексируемых ID наблюдателя.
// Память живет столько же, сколько уровень.
type Visibility struct {
	width, height int
	observers     map[domain.EntityID][]VisState
}

func NewVisibility(g *domain.Grid) *Visibility {
	return &Visibility{
		width:     g.Width,
		height:    g.Height,
		observers: make(map[domain.EntityID][]VisState),
	}
}

func (v *Visibility) states(observer domain.EntityID) []VisState {
	arr, ok := v.observers[observer]
	if !ok {
		arr = make([]VisState, v.width*v.height)
		v.observers[observer] = arr
	}
	return arr
}

// StateAt возвращает классификацию ячейки для наблюдателя.
func (v *Visibility) StateAt(observer domain.EntityID, x, y int) VisState {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return Unseen
	}
	arr, ok := v.observers[observer]
	if !ok {
		return Unseen
	}
	return arr[y*v.width+x]
}

// Snapshot возвращает массив состояний наблюдателя (только для чтения).
func (v *Visibility) Snapshot(observer domain.EntityID) []VisState {
	return v.states(observer)
}

// Compute пересчитывает видимость для наблюдателя: на каждую ячейку-кандидата
// в радиусе rangePx пускается луч от непрерывной позиции наблюдателя к центру
// ячейки. Новые видимые ячейки монотонно вливаются в постоянную память Seen.
// Позиция наблюдателя вне карты - нарушение контракта.
func (v *Visibility) Compute(g *domain.Grid, observer domain.EntityID, from mgl64.Vec2, rangePx float64) {
	ox, oy := g.CellOf(from)
	if !g.InBounds(ox, oy) {
		panic(fmt.Sprintf("observer out of bounds: (%d,%d)", ox, oy))
	}

	arr := v.states(observer)

	// Видимое прошлого тика становится "виденным".
	for i, s := range arr {
		if s == Visible {
			arr[i] = Seen
		}
	}

	// Ограничиваем запрос ячейками в радиусе, а не всей картой.
	r := int(math.Ceil(rangePx/g.CellSize)) + 1
	x0, y0 := utils.ClampInt(ox-r, 0, g.Width-1), utils.ClampInt(oy-r, 0, g.Height-1)
	x1, y1 := utils.ClampInt(ox+r, 0, g.Width-1), utils.ClampInt(oy+r, 0, g.Height-1)

	visibleCount := 0
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			center := g.CellCenter(x, y)
			if center.Sub(from).Len() > rangePx {
				continue
			}
			if HasLineOfSight(g, from, center) {
				arr[y*v.width+x] = Visible
				visibleCount++
			}
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"component":     "fov_system",
		"observer_id":   observer,
		"visible_cells": visibleCount,
	}).Debug("FOV recomputed.")
}
