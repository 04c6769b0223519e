package domain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// World - реестр всех динамических сущностей уровня плюс сетка.
// Однопоточный: мутации происходят только из тика симуляции.
type World struct {
	Grid *Grid
	Tick int

	nextID   EntityID
	entities map[EntityID]*Entity
	order    []EntityID // порядок появления - для детерминированного обхода

	// SpatialHash: индекс ячейки -> сущности с центром в ней
	spatial map[int][]*Entity

	pending []EntityID // отложенные удаления (выполняются в конце тика)
}

func NewWorld(g *Grid) *World {
	return &World{
		Grid:     g,
		entities: make(map[EntityID]*Entity),
		spatial:  make(map[int][]*Entity),
	}
}

// Spawn регистрирует сущность, выдавая ей следующий ID.
func (w *World) Spawn(e *Entity) EntityID {
	w.nextID++
	e.ID = w.nextID
	w.entities[e.ID] = e
	w.order = append(w.order, e.ID)
	w.spatialAdd(e)
	return e.ID
}

// Despawn помечает сущность на удаление. Физически она исчезает только
// в конце тика (FlushDespawns), чтобы не менять реестр посреди обхода;
// запросы того же тика её уже пропускают.
func (w *World) Despawn(id EntityID) {
	e, ok := w.entities[id]
	if !ok || e.despawned {
		return
	}
	e.despawned = true
	w.pending = append(w.pending, id)
}

// FlushDespawns физически удаляет все помеченные сущности.
func (w *World) FlushDespawns() {
	for _, id := range w.pending {
		e, ok := w.entities[id]
		if !ok {
			continue
		}
		w.spatialRemove(e)
		delete(w.entities, id)
	}
	w.pending = w.pending[:0]

	if len(w.order) > len(w.entities) {
		kept := w.order[:0]
		for _, id := range w.order {
			if _, ok := w.entities[id]; ok {
				kept = append(kept, id)
			}
		}
		w.order = kept
	}
}

// Get возвращает сущность по ID или nil.
func (w *World) Get(id EntityID) *Entity {
	return w.entities[id]
}

// ForEachAlive обходит живые сущности в порядке появления.
// typeFilter == "" означает все типы. fn возвращает false для остановки.
func (w *World) ForEachAlive(typeFilter string, fn func(*Entity) bool) {
	for _, id := range w.order {
		e, ok := w.entities[id]
		if !ok || !e.Alive() {
			continue
		}
		if typeFilter != "" && e.Type != typeFilter {
			continue
		}
		if !fn(e) {
			return
		}
	}
}

// CountAlive возвращает количество живых сущностей типа.
func (w *World) CountAlive(typeFilter string) int {
	n := 0
	w.ForEachAlive(typeFilter, func(*Entity) bool {
		n++
		return true
	})
	return n
}

// EntityAt возвращает первую живую сущность с центром в ячейке.
func (w *World) EntityAt(cellX, cellY int) *Entity {
	if !w.Grid.InBounds(cellX, cellY) {
		return nil
	}
	for _, e := range w.spatial[w.Grid.Index(cellX, cellY)] {
		if e.Alive() {
			return e
		}
	}
	return nil
}

// --- Spatial hash ---

func (w *World) spatialKey(e *Entity) int {
	cx, cy := w.Grid.CellOf(e.Pos)
	if cx < 0 {
		cx = 0
	}
	if cy < 0 {
		cy = 0
	}
	if cx >= w.Grid.Width {
		cx = w.Grid.Width - 1
	}
	if cy >= w.Grid.Height {
		cy = w.Grid.Height - 1
	}
	return w.Grid.Index(cx, cy)
}

func (w *World) spatialAdd(e *Entity) {
	key := w.spatialKey(e)
	w.spatial[key] = append(w.spatial[key], e)
}

func (w *World) spatialRemove(e *Entity) {
	key := w.spatialKey(e)
	bucket := w.spatial[key]
	for i, other := range bucket {
		if other.ID == e.ID {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			w.spatial[key] = bucket[:last]
			return
		}
	}
}

// SetPos перемещает сущность с обновлением индекса. Используется там, где
// движение не проверяется сеткой (снаряды проверяются лучом отдельно).
func (w *World) SetPos(e *Entity, p mgl64.Vec2) {
	oldKey := w.spatialKey(e)
	e.Pos = p
	newKey := w.spatialKey(e)
	if oldKey == newKey {
		return
	}
	bucket := w.spatial[oldKey]
	for i, other := range bucket {
		if other.ID == e.ID {
			last := len(bucket) - 1
			bucket[i] = bucket[last]
			w.spatial[oldKey] = bucket[:last]
			break
		}
	}
	w.spatial[newKey] = append(w.spatial[newKey], e)
}

// --- Движение ---

// MoveResult - итог попытки движения. Блокировка - не ошибка:
// вызывающий (ввод или AI) сам решает, пробовать ли на следующем тике.
type MoveResult struct {
	Moved      bool
	OpenedDoor bool
	BlockedX   bool
	BlockedY   bool
}

// TryMove пытается сместить актора на delta, скользя вдоль препятствий:
// если полный сдвиг заблокирован, оси пробуются по отдельности.
// Закрытая дверь подходящего цвета открывается как побочный эффект
// попытки прохода и остается открытой навсегда.
func (w *World) TryMove(id EntityID, delta mgl64.Vec2) MoveResult {
	e := w.entities[id]
	if e == nil || !e.Alive() {
		return MoveResult{}
	}

	var keycards KeycardSet
	if e.Combat != nil {
		keycards = e.Combat.Keycards
	}

	res := MoveResult{}

	if w.boxFits(e, e.Pos.Add(delta), keycards, &res) {
		w.SetPos(e, e.Pos.Add(delta))
		res.Moved = true
		return res
	}

	// Скольжение: сперва ось X, затем Y.
	if delta.X() != 0 {
		dx := mgl64.Vec2{delta.X(), 0}
		if w.boxFits(e, e.Pos.Add(dx), keycards, &res) {
			w.SetPos(e, e.Pos.Add(dx))
			res.Moved = true
			res.BlockedY = delta.Y() != 0
			return res
		}
		res.BlockedX = true
	}
	if delta.Y() != 0 {
		dy := mgl64.Vec2{0, delta.Y()}
		if w.boxFits(e, e.Pos.Add(dy), keycards, &res) {
			w.SetPos(e, e.Pos.Add(dy))
			res.Moved = true
			res.BlockedX = delta.X() != 0
			return res
		}
		res.BlockedY = true
	}

	return res
}

// boxFits проверяет, помещается ли AABB актора в проходимые ячейки.
// Попутно открывает двери, доступные по карточкам (через res отмечается факт).
func (w *World) boxFits(e *Entity, center mgl64.Vec2, keycards KeycardSet, res *MoveResult) bool {
	half := e.Size / 2
	minX := center.X() - half
	minY := center.Y() - half
	maxX := center.X() + half
	maxY := center.Y() + half

	pw, ph := w.Grid.PixelSize()
	if minX < 0 || minY < 0 || maxX > pw || maxY > ph {
		return false
	}

	cx0 := int(math.Floor(minX / w.Grid.CellSize))
	cy0 := int(math.Floor(minY / w.Grid.CellSize))
	cx1 := int(math.Floor((maxX - 1e-9) / w.Grid.CellSize))
	cy1 := int(math.Floor((maxY - 1e-9) / w.Grid.CellSize))

	// Первый проход: все ячейки должны быть проходимы с нашими карточками.
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			if !w.Grid.IsPassable(cx, cy, keycards) {
				return false
			}
		}
	}

	// Второй проход: открываем закрытые двери, через которые проходим.
	for cy := cy0; cy <= cy1; cy++ {
		for cx := cx0; cx <= cx1; cx++ {
			if door := w.Grid.DoorAt(cx, cy); door != nil && !door.Open {
				door.Open = true
				res.OpenedDoor = true
			}
		}
	}

	return true
}
