package systems

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

// cornerEps - допуск на прохождение луча точно через угол ячейки.
const cornerEps = 1e-9

// HasLineOfSight проверяет прямую видимость между двумя непрерывными точками.
// Ячейки, содержащие начало и конец, не считаются преградой: заслоняет только
// то, что лежит строго между ними. Прохождение точно через угол трактуется
// консервативно: если заслоняет хотя бы одна из примыкающих ячеек, луч
// считается перекрытым (лучше спрятать, чем показать лишнее).
func HasLineOfSight(g *domain.Grid, from, to mgl64.Vec2) bool {
	tx, ty := g.CellOf(to)
	cx, cy := g.CellOf(from)
	if cx == tx && cy == ty {
		return true
	}

	d := to.Sub(from)
	dist := d.Len()
	if dist == 0 {
		return true
	}
	dir := d.Mul(1 / dist)

	stepX, tMaxX, tDeltaX := initAxis(from.X(), dir.X(), cx, g.CellSize)
	stepY, tMaxY, tDeltaY := initAxis(from.Y(), dir.Y(), cy, g.CellSize)

	// Предохранитель от зацикливания при вырожденной геометрии.
	for i := 0; i < g.Width+g.Height+2; i++ {
		if math.Abs(tMaxX-tMaxY) < cornerEps {
			// Угловой случай: луч пересекает сразу обе границы.
			// Исключение для конечной точки: если to лежит ровно на этом углу,
			// CellOf относит её к одной из примыкающих ячеек - луч дошел до
			// конца, и заслон у самого угла его уже не перекрывает. Для целей
			// строго за углом это не срабатывает: центр ячейки всегда строго
			// внутри, и после угла луч попадает только в диагональную ячейку.
			ax, ay := cx+stepX, cy
			bx, by := cx, cy+stepY
			if (ax == tx && ay == ty) || (bx == tx && by == ty) {
				return true
			}
			if g.IsOccluding(ax, ay) || g.IsOccluding(bx, by) {
				return false
			}
			cx += stepX
			cy += stepY
			tMaxX += tDeltaX
			tMaxY += tDeltaY
		} else if tMaxX < tMaxY {
			cx += stepX
			tMaxX += tDeltaX
		} else {
			cy += stepY
			tMaxY += tDeltaY
		}

		if cx == tx && cy == ty {
			return true
		}
		if g.IsOccluding(cx, cy) {
			return false
		}
	}
	return false
}

// CastRay пускает луч из точки в направлении dir (единичный вектор) и
// возвращает расстояние до первой заслоняющей ячейки. Ячейка, содержащая
// начало луча, не проверяется. Если на дистанции maxDist преград нет,
// возвращается (maxDist, false).
func CastRay(g *domain.Grid, from, dir mgl64.Vec2, maxDist float64) (float64, bool) {
	cx, cy := g.CellOf(from)

	stepX, tMaxX, tDeltaX := initAxis(from.X(), dir.X(), cx, g.CellSize)
	stepY, tMaxY, tDeltaY := initAxis(from.Y(), dir.Y(), cy, g.CellSize)

	for {
		var t float64
		if math.Abs(tMaxX-tMaxY) < cornerEps {
			t = tMaxX
			if t >= maxDist {
				return maxDist, false
			}
			// Угол: пуля останавливается, если заслоняет любая из сторон.
			if g.IsOccluding(cx+stepX, cy) || g.IsOccluding(cx, cy+stepY) {
				return t, true
			}
			cx += stepX
			cy += stepY
			tMaxX += tDeltaX
			tMaxY += tDeltaY
		} else if tMaxX < tMaxY {
			t = tMaxX
			if t >= maxDist {
				return maxDist, false
			}
			cx += stepX
			tMaxX += tDeltaX
		} else {
			t = tMaxY
			if t >= maxDist {
				return maxDist, false
			}
			cy += stepY
			tMaxY += tDeltaY
		}

		if g.IsOccluding(cx, cy) {
			return t, true
		}
	}
}

// initAxis готовит параметры DDA-обхода по одной оси: направление шага,
// расстояние до первой границы ячейки и шаг между границами.
func initAxis(pos, dir float64, cell int, cellSize float64) (step int, tMax, tDelta float64) {
	if dir > 0 {
		step = 1
		tMax = (float64(cell+1)*cellSize - pos) / dir
		tDelta = cellSize / dir
	} else if dir < 0 {
		step = -1
		tMax = (pos - float64(cell)*cellSize) / -dir
		tDelta = cellSize / -dir
	} else {
		step = 0
		tMax = math.Inf(1)
		tDelta = math.Inf(1)
	}
	return step, tMax, tDelta
}
