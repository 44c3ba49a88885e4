// Package world provides concrete hosts for hpastar: baked local grids with
// rectangular furniture, an island of grids joined by portals, and a plain
// cell field searched without baking.
package world

import (
	"context"
	"slices"
	"sync"

	"github.com/pdrpinto/hpastar"
)

// lerpSamples is the number of points checked along a candidate edge.
const lerpSamples = 100

// Furniture is a rectangular obstacle. It generates the four cells
// diagonally outside its corners as waypoints.
type Furniture struct {
	Area Rect `yaml:"area"`
}

// Waypoints returns the outside corners of the furniture.
func (f Furniture) Waypoints() []Point {
	lo, hi := f.Area.Min(), f.Area.Max()
	return []Point{
		{lo.X - 1, lo.Y - 1},
		{hi.X + 1, hi.Y + 1},
		{lo.X - 1, hi.Y + 1},
		{hi.X + 1, lo.Y - 1},
	}
}

// Grid is a local navigation graph: a bounded cell area centred on its
// origin, baked from furniture corners and portal cells.
type Grid struct {
	ID     int
	Origin Vec
	Size   Point

	mu        sync.RWMutex
	furniture []Furniture

	host *hpastar.Host[Point, Direction]
}

// NewGrid creates an unbaked grid. Call Refresh before searching it.
func NewGrid(id int, origin Vec, size Point, furniture []Furniture, config hpastar.HostConfig) (*Grid, error) {
	grid := &Grid{ID: id, Origin: origin, Size: size}
	host, err := hpastar.NewHost[Point, Direction](grid, grid, config)
	if err != nil {
		return nil, err
	}
	grid.host = host
	grid.SetFurniture(furniture...)
	return grid, nil
}

// Host exposes the grid's graph host.
func (grid *Grid) Host() *hpastar.Host[Point, Direction] { return grid.host }

// Bounds is the walkable area, maximum edge exclusive.
func (grid *Grid) Bounds() Rect {
	return Rect{X: -grid.Size.X / 2, Y: -grid.Size.Y / 2, W: grid.Size.X, H: grid.Size.Y}
}

// Furniture returns a copy of the current obstacles.
func (grid *Grid) Furniture() []Furniture {
	grid.mu.RLock()
	defer grid.mu.RUnlock()
	return slices.Clone(grid.furniture)
}

// SetFurniture replaces the obstacles. Edges are only re-derived by the
// next Refresh, but spliced endpoints see the change immediately.
func (grid *Grid) SetFurniture(furniture ...Furniture) {
	grid.mu.Lock()
	grid.furniture = slices.Clone(furniture)
	grid.mu.Unlock()

	generators := make([]hpastar.Generator[Point], len(furniture))
	for i, f := range furniture {
		generators[i] = hpastar.GeneratorFunc[Point](f.Waypoints)
	}
	grid.host.SetGenerators(generators...)
}

// Refresh rebakes the grid with the given portal cells as special nodes.
func (grid *Grid) Refresh(ctx context.Context, portals []Point) error {
	grid.host.SetSpecialNodes(portals...)
	return grid.host.Rebake(ctx)
}

// FindPath searches between two cells of the grid.
func (grid *Grid) FindPath(ctx context.Context, start, end Point, options ...hpastar.Option) (hpastar.Result[Point], error) {
	return grid.host.FindPath(ctx, start, end, options...)
}

func (grid *Grid) passable(p Point) bool {
	if !grid.Bounds().Contains(p) {
		return false
	}
	grid.mu.RLock()
	defer grid.mu.RUnlock()
	for _, f := range grid.furniture {
		if f.Area.Covers(p) {
			return false
		}
	}
	return true
}

// Possible reports whether p is inside the bounds and outside all furniture.
func (grid *Grid) Possible(p Point) (bool, error) {
	return grid.passable(p), nil
}

// CanBeEdge samples the segment a -> b and rejects it if any sample is blocked.
func (grid *Grid) CanBeEdge(a, b Point) (bool, error) {
	if !grid.passable(a) || !grid.passable(b) {
		return false, nil
	}
	for i := 0; i < lerpSamples; i++ {
		t := float64(i) / lerpSamples
		sample := Point{
			X: int(float64(a.X) + float64(b.X-a.X)*t),
			Y: int(float64(a.Y) + float64(b.Y-a.Y)*t),
		}
		if !grid.passable(sample) {
			return false, nil
		}
	}
	return true, nil
}

// Classify groups an edge by the reduced heading from end to start.
func (grid *Grid) Classify(start, end Point) (Direction, error) {
	return DirectionOf(start.Sub(end)), nil
}

func (grid *Grid) Inverse(d Direction) Direction { return d.Inverse() }

// NeedsReplace keeps the closer of two same-heading neighbors.
func (grid *Grid) NeedsReplace(start, existing, candidate Point) (bool, error) {
	return start.Distance(candidate) < start.Distance(existing), nil
}

func (grid *Grid) Cost(from, to Point) float64 {
	return from.Distance(to)
}

func (grid *Grid) Heuristic(from, target Point) float64 {
	return from.Distance(target)
}
