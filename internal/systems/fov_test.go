package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"gloom-server/internal/domain"
)

func TestVisibility_WallShadow(t *testing.T) {
	g := gridFromRows([]string{
		".....",
		"..#..",
		".....",
	})
	vis := NewVisibility(g)
	observer := domain.EntityID(1)

	vis.Compute(g, observer, g.CellCenter(0, 1), 1000)

	if vis.StateAt(observer, 0, 1) != Visible {
		t.Error("Observer's own cell must be visible")
	}
	if vis.StateAt(observer, 2, 1) != Visible {
		t.Error("The wall cell itself must be visible")
	}
	if vis.StateAt(observer, 4, 1) != Unseen {
		t.Error("Cell behind the wall must stay unseen")
	}
}

func TestVisibility_RangeLimit(t *testing.T) {
	g := gridFromRows([]string{"......."})
	vis := NewVisibility(g)
	observer := domain.EntityID(1)

	// Range of two cells: centers further than 64px stay unseen.
	vis.Compute(g, observer, g.CellCenter(0, 0), 64)

	if vis.StateAt(observer, 2, 0) != Visible {
		t.Error("Cell at range boundary must be visible")
	}
	if vis.StateAt(observer, 3, 0) != Unseen {
		t.Error("Cell beyond range must stay unseen")
	}
}

func TestVisibility_MonotonicMemory(t *testing.T) {
	g := gridFromRows([]string{
		".....",
		"..#..",
		".....",
	})
	vis := NewVisibility(g)
	observer := domain.EntityID(1)

	// 1. From the left edge the far column is hidden behind the wall.
	vis.Compute(g, observer, g.CellCenter(0, 1), 1000)
	if vis.StateAt(observer, 4, 1) != Unseen {
		t.Fatal("Cell behind the wall must start unseen")
	}

	// 2. Moving past the wall reveals it.
	vis.Compute(g, observer, g.CellCenter(4, 0), 1000)
	if vis.StateAt(observer, 4, 1) != Visible {
		t.Fatal("Cell must be visible from the new position")
	}

	// 3. Moving back hides it again, but the memory survives: Seen, never Unseen.
	vis.Compute(g, observer, g.CellCenter(0, 1), 1000)
	if got := vis.StateAt(observer, 4, 1); got != Seen {
		t.Errorf("Explored cell must demote to Seen, got %d", got)
	}
}

func TestVisibility_PerObserverIsolation(t *testing.T) {
	g := gridFromRows([]string{"....."})
	vis := NewVisibility(g)

	vis.Compute(g, 1, g.CellCenter(0, 0), 1000)

	if vis.StateAt(2, 0, 0) != Unseen {
		t.Error("Second observer must start with empty memory")
	}
	if vis.StateAt(1, 4, 0) != Visible {
		t.Error("First observer must see the row")
	}
}

func TestVisibility_DoorOpensView(t *testing.T) {
	g := gridFromRows([]string{"..1.."})
	vis := NewVisibility(g)
	observer := domain.EntityID(1)

	vis.Compute(g, observer, g.CellCenter(0, 0), 1000)
	if vis.StateAt(observer, 3, 0) != Unseen {
		t.Fatal("Cell behind closed door must be unseen")
	}

	g.DoorAt(2, 0).Open = true
	vis.Compute(g, observer, g.CellCenter(0, 0), 1000)
	if vis.StateAt(observer, 3, 0) != Visible {
		t.Error("Opening the door must reveal the cell behind it")
	}
}

// segmentStats samples the segment between two points with a small fixed step
// and reports whether an occluding cell lies strictly between them. It also
// flags segments passing close to a lattice corner, where the conservative
// tie-break rule makes sampling and the grid walk legitimately disagree.
func segmentStats(g *domain.Grid, from, to mgl64.Vec2) (blocked, nearCorner bool) {
	fx, fy := g.CellOf(from)
	tx, ty := g.CellOf(to)
	d := to.Sub(from)
	steps := int(d.Len()*2) + 2
	for i := 1; i < steps; i++ {
		p := from.Add(d.Mul(float64(i) / float64(steps)))
		mx := math.Mod(p.X(), g.CellSize)
		if mx > g.CellSize/2 {
			mx = g.CellSize - mx
		}
		my := math.Mod(p.Y(), g.CellSize)
		if my > g.CellSize/2 {
			my = g.CellSize - my
		}
		if mx < 1 && my < 1 {
			nearCorner = true
		}
		cx, cy := g.CellOf(p)
		if (cx == fx && cy == fy) || (cx == tx && cy == ty) {
			continue
		}
		if g.IsOccluding(cx, cy) {
			blocked = true
		}
	}
	return blocked, nearCorner
}

func TestVisibility_RandomOcclusionPatterns(t *testing.T) {
	const width, height = 9, 7
	rng := rand.New(rand.NewSource(1))
	observer := domain.EntityID(1)

	for trial := 0; trial < 30; trial++ {
		g := domain.NewGrid(width, height, 32)
		var open [][2]int
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				border := x == 0 || y == 0 || x == width-1 || y == height-1
				if border || rng.Float64() < 0.3 {
					g.SetCell(x, y, domain.Cell{Kind: domain.CellWall})
				} else {
					open = append(open, [2]int{x, y})
				}
			}
		}
		if len(open) == 0 {
			continue
		}
		oc := open[rng.Intn(len(open))]
		from := g.CellCenter(oc[0], oc[1])

		vis := NewVisibility(g)
		vis.Compute(g, observer, from, 1000)

		// Any occluder strictly between forces not-Visible; an all-empty
		// path forces Visible. Corner-grazing segments are skipped.
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				blocked, nearCorner := segmentStats(g, from, g.CellCenter(x, y))
				if nearCorner {
					continue
				}
				visible := vis.StateAt(observer, x, y) == Visible
				if blocked && visible {
					t.Fatalf("trial %d: cell (%d,%d) visible across an occluder from (%d,%d)",
						trial, x, y, oc[0], oc[1])
				}
				if !blocked && !visible {
					t.Fatalf("trial %d: cell (%d,%d) hidden on a clear path from (%d,%d)",
						trial, x, y, oc[0], oc[1])
				}
			}
		}
	}
}
