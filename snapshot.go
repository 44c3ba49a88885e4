package hpastar

import "slices"

// Edge links a node to one neighbor. Group is the slot the edge occupies on
// its owner; edges added by Splice carry no group and have Spliced set.
type Edge[NodeType comparable, GroupType comparable] struct {
	To      NodeType
	Group   GroupType
	Spliced bool
}

// GraphNode is one baked waypoint with its ordered edges.
type GraphNode[NodeType comparable, GroupType comparable] struct {
	ID       NodeType
	Edges    []Edge[NodeType, GroupType]
	Passable bool
}

// Neighbors returns the neighbor ids in edge order.
func (node *GraphNode[NodeType, GroupType]) Neighbors() []NodeType {
	neighbors := make([]NodeType, len(node.Edges))
	for i, edge := range node.Edges {
		neighbors[i] = edge.To
	}
	return neighbors
}

// HasNeighbor reports whether the node has an edge to id.
func (node *GraphNode[NodeType, GroupType]) HasNeighbor(id NodeType) bool {
	return node.edgeTo(id) >= 0
}

func (node *GraphNode[NodeType, GroupType]) edgeTo(id NodeType) int {
	for i, edge := range node.Edges {
		if edge.To == id {
			return i
		}
	}
	return -1
}

// groupSlot returns the index of the grouped edge tagged with group, or -1.
func (node *GraphNode[NodeType, GroupType]) groupSlot(group GroupType) int {
	for i, edge := range node.Edges {
		if !edge.Spliced && edge.Group == group {
			return i
		}
	}
	return -1
}

func (node *GraphNode[NodeType, GroupType]) removeEdgeTo(id NodeType) {
	if i := node.edgeTo(id); i >= 0 {
		node.Edges = slices.Delete(node.Edges, i, i+1)
	}
}

func (node *GraphNode[NodeType, GroupType]) clone() *GraphNode[NodeType, GroupType] {
	return &GraphNode[NodeType, GroupType]{
		ID:       node.ID,
		Edges:    slices.Clone(node.Edges),
		Passable: node.Passable,
	}
}

// Snapshot is an id -> node mapping produced by Bake. Once published by a
// Host it is never modified; rebakes replace it wholesale.
type Snapshot[NodeType comparable, GroupType comparable] struct {
	order      []NodeType
	nodes      map[NodeType]*GraphNode[NodeType, GroupType]
	generation uint64
}

func newSnapshot[NodeType comparable, GroupType comparable](capacity int) *Snapshot[NodeType, GroupType] {
	return &Snapshot[NodeType, GroupType]{
		order: make([]NodeType, 0, capacity),
		nodes: make(map[NodeType]*GraphNode[NodeType, GroupType], capacity),
	}
}

func (snapshot *Snapshot[NodeType, GroupType]) add(node *GraphNode[NodeType, GroupType]) {
	snapshot.order = append(snapshot.order, node.ID)
	snapshot.nodes[node.ID] = node
}

// Len returns the number of nodes.
func (snapshot *Snapshot[NodeType, GroupType]) Len() int { return len(snapshot.order) }

// Generation identifies the publish that made this snapshot current. It is
// zero for snapshots that were never published.
func (snapshot *Snapshot[NodeType, GroupType]) Generation() uint64 { return snapshot.generation }

// IDs returns the node ids in collection order.
func (snapshot *Snapshot[NodeType, GroupType]) IDs() []NodeType {
	return slices.Clone(snapshot.order)
}

// Contains reports whether id is a node of the snapshot.
func (snapshot *Snapshot[NodeType, GroupType]) Contains(id NodeType) bool {
	_, ok := snapshot.nodes[id]
	return ok
}

// Node returns a copy of the node with the given id.
func (snapshot *Snapshot[NodeType, GroupType]) Node(id NodeType) (GraphNode[NodeType, GroupType], bool) {
	node, ok := snapshot.nodes[id]
	if !ok {
		return GraphNode[NodeType, GroupType]{}, false
	}
	return *node.clone(), true
}

// EdgeCount returns the number of undirected edges.
func (snapshot *Snapshot[NodeType, GroupType]) EdgeCount() int {
	total := 0
	for _, node := range snapshot.nodes {
		total += len(node.Edges)
	}
	return total / 2
}

// Clone returns a deep copy that shares no edge slices with the original.
func (snapshot *Snapshot[NodeType, GroupType]) Clone() *Snapshot[NodeType, GroupType] {
	copied := newSnapshot[NodeType, GroupType](len(snapshot.order))
	for _, id := range snapshot.order {
		copied.add(snapshot.nodes[id].clone())
	}
	copied.generation = snapshot.generation
	return copied
}

// Equal compares the id -> neighbor -> group mappings of two snapshots.
// Generations are ignored.
func (snapshot *Snapshot[NodeType, GroupType]) Equal(other *Snapshot[NodeType, GroupType]) bool {
	if snapshot == nil || other == nil {
		return snapshot == other
	}
	if !slices.Equal(snapshot.order, other.order) {
		return false
	}
	for id, node := range snapshot.nodes {
		otherNode, ok := other.nodes[id]
		if !ok || node.Passable != otherNode.Passable || !slices.Equal(node.Edges, otherNode.Edges) {
			return false
		}
	}
	return true
}
