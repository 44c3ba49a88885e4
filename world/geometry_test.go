package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDirectionOf(t *testing.T) {
	tests := []struct {
		in   Point
		want Direction
	}{
		{Point{4, -6}, Direction{2, -3}},
		{Point{0, -5}, Direction{0, -1}},
		{Point{3, 3}, Direction{1, 1}},
		{Point{-7, 0}, Direction{-1, 0}},
		{Point{0, 0}, Direction{}},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			got := DirectionOf(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, got.Inverse().Inverse())
		})
	}
	assert.Equal(t, DirectionOf(Point{2, 4}), DirectionOf(Point{5, 10}))
	assert.Equal(t, DirectionOf(Point{-1, -2}), DirectionOf(Point{1, 2}).Inverse())
}

func TestRect(t *testing.T) {
	r := Rect{X: -1, Y: -3, W: 2, H: 6}
	assert.True(t, r.Contains(Point{-1, -3}))
	assert.False(t, r.Contains(Point{1, 0}))
	assert.True(t, r.Covers(Point{1, 3}))
	assert.False(t, r.Covers(Point{2, 0}))
	assert.Equal(t, Point{1, 3}, r.Max())
}

func TestPointYAML(t *testing.T) {
	var doc struct {
		A Point `yaml:"a"`
		B Point `yaml:"b"`
		V Vec   `yaml:"v"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: [1, -2]\nb: {x: 3, y: 4}\nv: [0.5, 2]\n"), &doc))
	assert.Equal(t, Point{1, -2}, doc.A)
	assert.Equal(t, Point{3, 4}, doc.B)
	assert.Equal(t, Vec{0.5, 2}, doc.V)

	err := yaml.Unmarshal([]byte("a: [1, 2, 3]\n"), &doc)
	assert.ErrorContains(t, err, "2 coordinates")
}
