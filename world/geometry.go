package world

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Point is an integer cell coordinate.
type Point struct {
	X, Y int
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Distance is the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// Magnitude is the Euclidean length of p.
func (p Point) Magnitude() float64 { return math.Hypot(float64(p.X), float64(p.Y)) }

// UnmarshalYAML accepts both [x, y] and {x: .., y: ..}.
func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []int
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", node.Line, len(pair))
		}
		p.X, p.Y = pair[0], pair[1]
		return nil
	}
	var fields struct {
		X int `yaml:"x"`
		Y int `yaml:"y"`
	}
	if err := node.Decode(&fields); err != nil {
		return err
	}
	p.X, p.Y = fields.X, fields.Y
	return nil
}

// Vec is a continuous world position.
type Vec struct {
	X, Y float64
}

// Distance is the Euclidean distance between v and w.
func (v Vec) Distance(w Vec) float64 { return math.Hypot(v.X-w.X, v.Y-w.Y) }

// UnmarshalYAML accepts both [x, y] and {x: .., y: ..}.
func (v *Vec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var pair []float64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: vector needs 2 coordinates, got %d", node.Line, len(pair))
		}
		v.X, v.Y = pair[0], pair[1]
		return nil
	}
	var fields struct {
		X float64 `yaml:"x"`
		Y float64 `yaml:"y"`
	}
	if err := node.Decode(&fields); err != nil {
		return err
	}
	v.X, v.Y = fields.X, fields.Y
	return nil
}

// Rect is an axis aligned rectangle anchored at its minimum corner.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

func (r Rect) Min() Point { return Point{r.X, r.Y} }
func (r Rect) Max() Point { return Point{r.X + r.W, r.Y + r.H} }

// Contains treats the maximum edge as exclusive.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.X+r.W && p.Y >= r.Y && p.Y < r.Y+r.H
}

// Covers treats both edges as inclusive.
func (r Rect) Covers(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Direction is a heading reduced by the gcd of its components, so all
// collinear offsets pointing the same way compare equal.
type Direction struct {
	DX, DY int
}

// DirectionOf returns the reduced heading of offset d.
func DirectionOf(d Point) Direction {
	divisor := gcd(abs(d.X), abs(d.Y))
	if divisor == 0 {
		return Direction{}
	}
	return Direction{d.X / divisor, d.Y / divisor}
}

// Inverse points the other way.
func (d Direction) Inverse() Direction { return Direction{-d.DX, -d.DY} }

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
