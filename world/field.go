package world

import (
	"context"

	"github.com/pdrpinto/hpastar"
)

var fieldSteps = []Point{{0, 1}, {0, -1}, {1, 0}, {-1, 0}}

// Field is an unbounded 4-connected cell graph searched directly, without
// baking. Cells are passable unless blocked; NewField walls in the border
// of a Size area. Edits take the write ticket, so they wait for running
// searches and never interleave with one.
type Field struct {
	gate    hpastar.Gate
	Size    Point
	blocked map[Point]bool
}

// NewField creates a field whose border cells from (0,0) to Size are blocked.
func NewField(size Point) *Field {
	field := &Field{Size: size, blocked: make(map[Point]bool)}
	for x := 0; x <= size.X; x++ {
		field.blocked[Point{x, 0}] = true
		field.blocked[Point{x, size.Y}] = true
	}
	for y := 0; y <= size.Y; y++ {
		field.blocked[Point{0, y}] = true
		field.blocked[Point{size.X, y}] = true
	}
	return field
}

// Toggle flips the passability of a cell.
func (field *Field) Toggle(p Point) {
	field.gate.AcquireWrite()
	defer field.gate.ReleaseWrite()
	field.blocked[p] = !field.blocked[p]
}

// SetPassable sets the passability of a cell.
func (field *Field) SetPassable(p Point, passable bool) {
	field.gate.AcquireWrite()
	defer field.gate.ReleaseWrite()
	if passable {
		delete(field.blocked, p)
		return
	}
	field.blocked[p] = true
}

// FindPath searches the field between two cells.
func (field *Field) FindPath(ctx context.Context, start, end Point, options ...hpastar.Option) (hpastar.Result[Point], error) {
	return hpastar.Search[Point](ctx, field, start, end, options...)
}

func (field *Field) Gate() *hpastar.Gate { return &field.gate }

// Neighborhood must only be called while holding a read ticket.
func (field *Field) Neighborhood(p Point) (hpastar.Neighborhood[Point], bool) {
	neighbors := make([]Point, len(fieldSteps))
	for i, step := range fieldSteps {
		neighbors[i] = p.Add(step)
	}
	return hpastar.Neighborhood[Point]{Neighbors: neighbors, Passable: !field.blocked[p]}, true
}

func (field *Field) Cost(from, to Point) float64 {
	return from.Distance(to)
}

func (field *Field) Heuristic(from, target Point) float64 {
	return from.Distance(target)
}
