package domain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// CellKind - тип ячейки уровня.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellWall
	CellDoor
)

// DoorColor - цвет двери / карточки доступа.
type DoorColor uint8

const (
	DoorNone DoorColor = iota
	DoorBlue
	DoorRed
	DoorYellow
)

var doorColorNames = map[DoorColor]string{
	DoorNone:   "none",
	DoorBlue:   "blue",
	DoorRed:    "red",
	DoorYellow: "yellow",
}

func (c DoorColor) String() string {
	if name, ok := doorColorNames[c]; ok {
		return name
	}
	return "unknown"
}

// DoorState - разделяемое состояние двери. На него ссылаются и ячейка сетки,
// и сущность двери в реестре, поэтому открытие видно обоим сразу.
// Открытая дверь никогда не закрывается обратно.
type DoorState struct {
	Color DoorColor
	Open  bool
}

// Cell - одна ячейка сетки. Door != nil только для ячеек-дверей.
type Cell struct {
	Kind CellKind
	Door *DoorState
}

// KeycardSet - набор карточек доступа, которые держит актор.
type KeycardSet map[DoorColor]bool

func (k KeycardSet) Has(c DoorColor) bool { return k[c] }
func (k KeycardSet) Add(c DoorColor)      { k[c] = true }

// Grid - статическая карта уровня. После загрузки меняется только
// состояние дверей, и то через реестр сущностей (World.TryMove).
type Grid struct {
	Width, Height int
	CellSize      float64 // размер ячейки в пикселях

	cells []Cell

	Spawn   Position // ячейка появления игрока (^)
	Exit    Position // ячейка выхода (_)
	HasExit bool
}

func NewGrid(width, height int, cellSize float64) *Grid {
	if width <= 0 || height <= 0 || cellSize <= 0 {
		panic(fmt.Sprintf("invalid grid dimensions %dx%d cell %f", width, height, cellSize))
	}
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		cells:    make([]Cell, width*height),
	}
}

func (g *Grid) Index(x, y int) int {
	return y*g.Width + x
}

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

// CellAt возвращает ячейку. Выход за границы - ошибка программиста,
// а не условие времени выполнения, поэтому паника.
func (g *Grid) CellAt(x, y int) Cell {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("cell access out of bounds: (%d,%d) in %dx%d", x, y, g.Width, g.Height))
	}
	return g.cells[g.Index(x, y)]
}

// SetCell используется загрузчиком уровней при сборке сетки.
func (g *Grid) SetCell(x, y int, c Cell) {
	if !g.InBounds(x, y) {
		panic(fmt.Sprintf("cell write out of bounds: (%d,%d) in %dx%d", x, y, g.Width, g.Height))
	}
	g.cells[g.Index(x, y)] = c
}

// IsOccluding сообщает, заслоняет ли ячейка обзор (и останавливает ли пули).
// Выход за границы считается заслоняющим.
func (g *Grid) IsOccluding(x, y int) bool {
	if !g.InBounds(x, y) {
		return true
	}
	c := g.cells[g.Index(x, y)]
	switch c.Kind {
	case CellWall:
		return true
	case CellDoor:
		return !c.Door.Open
	}
	return false
}

// IsPassable сообщает, может ли актор с данными карточками занять ячейку.
// Дверь проходима, если открыта, бесцветна, или у актора есть подходящая
// карточка (само открытие - побочный эффект прохода, см. World.TryMove).
func (g *Grid) IsPassable(x, y int, keycards KeycardSet) bool {
	if !g.InBounds(x, y) {
		return false
	}
	c := g.cells[g.Index(x, y)]
	switch c.Kind {
	case CellWall:
		return false
	case CellDoor:
		if c.Door.Open || c.Door.Color == DoorNone {
			return true
		}
		return keycards.Has(c.Door.Color)
	}
	return true
}

// DoorAt возвращает состояние двери в ячейке или nil.
func (g *Grid) DoorAt(x, y int) *DoorState {
	if !g.InBounds(x, y) {
		return nil
	}
	return g.cells[g.Index(x, y)].Door
}

// CellOf переводит непрерывные координаты (пиксели) в индексы ячейки.
func (g *Grid) CellOf(p mgl64.Vec2) (int, int) {
	return int(math.Floor(p.X() / g.CellSize)), int(math.Floor(p.Y() / g.CellSize))
}

// CellCenter возвращает центр ячейки в пикселях.
func (g *Grid) CellCenter(x, y int) mgl64.Vec2 {
	return mgl64.Vec2{
		(float64(x) + 0.5) * g.CellSize,
		(float64(y) + 0.5) * g.CellSize,
	}
}

// PixelSize возвращает размеры уровня в пикселях.
func (g *Grid) PixelSize() (float64, float64) {
	return float64(g.Width) * g.CellSize, float64(g.Height) * g.CellSize
}
