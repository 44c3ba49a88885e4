package hpastar

import (
	"math"
	"slices"
)

type cell struct{ X, Y int }

func (c cell) add(d cell) cell { return cell{c.X + d.X, c.Y + d.Y} }

var cellSteps = []cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}

// cellGrid is a bounded 4-connected grid with unit step cost.
type cellGrid struct {
	gate          Gate
	width, height int
	walls         map[cell]bool
	// zeroHeuristic turns A* into a breadth-first search.
	zeroHeuristic bool
}

func newCellGrid(width, height int, walls ...cell) *cellGrid {
	grid := &cellGrid{width: width, height: height, walls: make(map[cell]bool)}
	for _, wall := range walls {
		grid.walls[wall] = true
	}
	return grid
}

func (grid *cellGrid) inside(c cell) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < grid.width && c.Y < grid.height
}

func (grid *cellGrid) Gate() *Gate { return &grid.gate }

func (grid *cellGrid) Neighborhood(c cell) (Neighborhood[cell], bool) {
	if !grid.inside(c) {
		return Neighborhood[cell]{}, false
	}
	var neighbors []cell
	for _, step := range cellSteps {
		if next := c.add(step); grid.inside(next) {
			neighbors = append(neighbors, next)
		}
	}
	return Neighborhood[cell]{Neighbors: neighbors, Passable: !grid.walls[c]}, true
}

func (grid *cellGrid) Cost(from, to cell) float64 { return 1 }

func (grid *cellGrid) Heuristic(from, target cell) float64 {
	if grid.zeroHeuristic {
		return 0
	}
	return math.Abs(float64(from.X-target.X)) + math.Abs(float64(from.Y-target.Y))
}

// bfsDistance returns the number of steps of a shortest path, or -1.
// The start cell is entered regardless of its walls, like Search does.
func (grid *cellGrid) bfsDistance(start, goal cell) int {
	distance := map[cell]int{start: 0}
	queue := []cell{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == goal {
			return distance[current]
		}
		for _, step := range cellSteps {
			next := current.add(step)
			if !grid.inside(next) || grid.walls[next] {
				continue
			}
			if _, seen := distance[next]; !seen {
				distance[next] = distance[current] + 1
				queue = append(queue, next)
			}
		}
	}
	return -1
}

// adjacency is an explicit undirected graph over ints with costs taken
// from a weight table.
type adjacency struct {
	gate       Gate
	edges      map[int][]int
	blocked    map[int]bool
	weights    map[[2]int]float64
	heuristics map[int]float64
}

func newAdjacency() *adjacency {
	return &adjacency{
		edges:      make(map[int][]int),
		blocked:    make(map[int]bool),
		weights:    make(map[[2]int]float64),
		heuristics: make(map[int]float64),
	}
}

func (graph *adjacency) link(a, b int, weight float64) *adjacency {
	if !slices.Contains(graph.edges[a], b) {
		graph.edges[a] = append(graph.edges[a], b)
	}
	if !slices.Contains(graph.edges[b], a) {
		graph.edges[b] = append(graph.edges[b], a)
	}
	graph.weights[[2]int{a, b}] = weight
	graph.weights[[2]int{b, a}] = weight
	return graph
}

func (graph *adjacency) Gate() *Gate { return &graph.gate }

func (graph *adjacency) Neighborhood(id int) (Neighborhood[int], bool) {
	neighbors, ok := graph.edges[id]
	if !ok {
		return Neighborhood[int]{}, false
	}
	return Neighborhood[int]{Neighbors: neighbors, Passable: !graph.blocked[id]}, true
}

func (graph *adjacency) Cost(from, to int) float64 { return graph.weights[[2]int{from, to}] }

func (graph *adjacency) Heuristic(from, target int) float64 { return graph.heuristics[from] }

// headingRules bakes cells with edges grouped by reduced heading.
type headingRules struct {
	blocked      map[cell]bool
	visible      func(a, b cell) (bool, error)
	needsReplace func(start, existing, candidate cell) (bool, error)
	possibleErr  error
	classifyErr  error
}

func (rules *headingRules) Possible(c cell) (bool, error) {
	if rules.possibleErr != nil {
		return false, rules.possibleErr
	}
	return !rules.blocked[c], nil
}

func (rules *headingRules) CanBeEdge(a, b cell) (bool, error) {
	if rules.visible == nil {
		return true, nil
	}
	return rules.visible(a, b)
}

func (rules *headingRules) Classify(start, end cell) (cell, error) {
	if rules.classifyErr != nil {
		return cell{}, rules.classifyErr
	}
	d := cell{start.X - end.X, start.Y - end.Y}
	divisor := gcd(abs(d.X), abs(d.Y))
	if divisor == 0 {
		return cell{}, nil
	}
	return cell{d.X / divisor, d.Y / divisor}, nil
}

func (rules *headingRules) Inverse(group cell) cell { return cell{-group.X, -group.Y} }

func (rules *headingRules) NeedsReplace(start, existing, candidate cell) (bool, error) {
	if rules.needsReplace == nil {
		return false, nil
	}
	return rules.needsReplace(start, existing, candidate)
}

func closer(start, existing, candidate cell) (bool, error) {
	return manhattan(start, candidate) < manhattan(start, existing), nil
}

func manhattan(a, b cell) int { return abs(a.X-b.X) + abs(a.Y-b.Y) }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func cells(ids ...cell) Generator[cell] {
	return GeneratorFunc[cell](func() []cell { return ids })
}

// manhattanMetric prices cells by Manhattan distance.
type manhattanMetric struct{}

func (manhattanMetric) Cost(from, to cell) float64 { return float64(manhattan(from, to)) }

func (manhattanMetric) Heuristic(from, target cell) float64 { return float64(manhattan(from, target)) }

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
