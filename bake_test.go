package hpastar

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBakeCollectsInOrder(t *testing.T) {
	rules := &headingRules{blocked: map[cell]bool{{9, 9}: true}}
	snapshot, err := Bake[cell, cell](
		[]Generator[cell]{cells(cell{0, 0}, cell{1, 0}, cell{9, 9}), cells(cell{1, 0}, cell{0, 1})},
		[]cell{{5, 5}, {0, 0}},
		rules,
	)
	require.NoError(t, err)
	assert.Equal(t, []cell{{0, 0}, {1, 0}, {0, 1}, {5, 5}}, snapshot.IDs())
	assert.False(t, snapshot.Contains(cell{9, 9}))
}

func TestBakeEmpty(t *testing.T) {
	snapshot, err := Bake[cell, cell](nil, nil, &headingRules{})
	require.NoError(t, err)
	assert.Zero(t, snapshot.Len())
	assert.Zero(t, snapshot.EdgeCount())
}

func TestBakeIsDeterministic(t *testing.T) {
	generators := []Generator[cell]{
		cells(cell{0, 0}, cell{4, 0}, cell{0, 4}, cell{4, 4}),
		cells(cell{2, 2}, cell{2, 0}, cell{6, 3}),
	}
	rules := &headingRules{needsReplace: closer}

	first, err := Bake[cell, cell](generators, []cell{{1, 3}}, rules)
	require.NoError(t, err)
	second, err := Bake[cell, cell](generators, []cell{{1, 3}}, rules)
	require.NoError(t, err)
	assert.True(t, first.Equal(second))
}

func TestBakeOneEdgePerGroup(t *testing.T) {
	var ids []cell
	for x := range 5 {
		for y := range 5 {
			ids = append(ids, cell{x, y})
		}
	}
	for _, needsReplace := range []func(cell, cell, cell) (bool, error){nil, closer} {
		rules := &headingRules{needsReplace: needsReplace}
		snapshot, err := Bake[cell, cell]([]Generator[cell]{cells(ids...)}, nil, rules)
		require.NoError(t, err)

		for _, id := range snapshot.IDs() {
			node, ok := snapshot.Node(id)
			require.True(t, ok)
			groups := make(map[cell]bool)
			for _, edge := range node.Edges {
				assert.False(t, groups[edge.Group], "%v holds group %v twice", id, edge.Group)
				groups[edge.Group] = true

				other, ok := snapshot.Node(edge.To)
				require.True(t, ok)
				back := other.Edges[other.edgeTo(id)]
				assert.Equal(t, rules.Inverse(edge.Group), back.Group)
			}
		}
	}
}

func TestBakeFirstEdgeKeepsSlot(t *testing.T) {
	// (0,0) and (1,0) share the westward slot of (0,0) with (2,0).
	snapshot, err := Bake[cell, cell](
		[]Generator[cell]{cells(cell{0, 0}, cell{2, 0}, cell{1, 0})}, nil, &headingRules{})
	require.NoError(t, err)

	origin, _ := snapshot.Node(cell{0, 0})
	middle, _ := snapshot.Node(cell{1, 0})
	assert.Equal(t, []cell{{2, 0}}, origin.Neighbors())
	assert.Empty(t, middle.Neighbors())
	assert.Equal(t, 1, snapshot.EdgeCount())
}

func TestBakeReplacesFartherNeighbor(t *testing.T) {
	snapshot, err := Bake[cell, cell](
		[]Generator[cell]{cells(cell{0, 0}, cell{2, 0}, cell{1, 0})}, nil, &headingRules{needsReplace: closer})
	require.NoError(t, err)

	origin, _ := snapshot.Node(cell{0, 0})
	middle, _ := snapshot.Node(cell{1, 0})
	far, _ := snapshot.Node(cell{2, 0})
	assert.Equal(t, []cell{{1, 0}}, origin.Neighbors())
	assert.ElementsMatch(t, []cell{{0, 0}, {2, 0}}, middle.Neighbors())
	assert.Equal(t, []cell{{1, 0}}, far.Neighbors())
	assert.Equal(t, 2, snapshot.EdgeCount())
}

func TestBakeRespectsCanBeEdge(t *testing.T) {
	rules := &headingRules{visible: func(a, b cell) (bool, error) {
		return a.Y == b.Y, nil
	}}
	snapshot, err := Bake[cell, cell](
		[]Generator[cell]{cells(cell{0, 0}, cell{1, 0}, cell{0, 1}, cell{1, 1})}, nil, rules)
	require.NoError(t, err)

	for _, id := range snapshot.IDs() {
		node, _ := snapshot.Node(id)
		for _, neighbor := range node.Neighbors() {
			assert.Equal(t, id.Y, neighbor.Y)
		}
	}
	assert.Equal(t, 2, snapshot.EdgeCount())
}

func TestBakePropagatesRuleErrors(t *testing.T) {
	boom := errors.New("boom")
	collinear := []cell{{0, 0}, {2, 0}, {1, 0}}
	tests := []struct {
		name   string
		rules  *headingRules
		errMsg string
	}{
		{
			name:   "possible",
			rules:  &headingRules{possibleErr: boom},
			errMsg: "possible",
		},
		{
			name:   "can be edge",
			rules:  &headingRules{visible: func(a, b cell) (bool, error) { return false, boom }},
			errMsg: "can-be-edge",
		},
		{
			name:   "classify",
			rules:  &headingRules{classifyErr: boom},
			errMsg: "classify",
		},
		{
			name:   "needs replace",
			rules:  &headingRules{needsReplace: func(cell, cell, cell) (bool, error) { return false, boom }},
			errMsg: "needs-replace",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snapshot, err := Bake[cell, cell]([]Generator[cell]{cells(collinear...)}, nil, tt.rules)
			require.ErrorIs(t, err, boom)
			assert.ErrorContains(t, err, tt.errMsg)
			assert.Nil(t, snapshot)
		})
	}
}

func TestSnapshotNodeIsACopy(t *testing.T) {
	snapshot, err := Bake[cell, cell]([]Generator[cell]{cells(cell{0, 0}, cell{1, 0})}, nil, &headingRules{})
	require.NoError(t, err)

	node, ok := snapshot.Node(cell{0, 0})
	require.True(t, ok)
	node.Edges[0].To = cell{7, 7}

	again, _ := snapshot.Node(cell{0, 0})
	assert.Equal(t, []cell{{1, 0}}, again.Neighbors())

	_, ok = snapshot.Node(cell{3, 3})
	assert.False(t, ok)
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	snapshot, err := Bake[cell, cell]([]Generator[cell]{cells(cell{0, 0}, cell{1, 0}, cell{0, 1})}, nil, &headingRules{})
	require.NoError(t, err)

	clone := snapshot.Clone()
	require.True(t, clone.Equal(snapshot))
	clone.nodes[cell{0, 0}].removeEdgeTo(cell{1, 0})
	assert.False(t, clone.Equal(snapshot))
	assert.True(t, snapshot.nodes[cell{0, 0}].HasNeighbor(cell{1, 0}))
}
