package hpastar

import "fmt"

// Generator yields candidate waypoints, e.g. the corners of an obstacle.
type Generator[NodeType comparable] interface {
	Waypoints() []NodeType
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc[NodeType comparable] func() []NodeType

// Waypoints calls f.
func (f GeneratorFunc[NodeType]) Waypoints() []NodeType { return f() }

// Rules are the host predicates that drive a bake. They must be
// deterministic; an error from any of them aborts the bake.
type Rules[NodeType comparable, GroupType comparable] interface {
	// Possible reports whether a waypoint may be part of the graph at all.
	Possible(id NodeType) (bool, error)
	// CanBeEdge reports whether a and b may be joined directly.
	CanBeEdge(a, b NodeType) (bool, error)
	// Classify returns the group of the edge start -> end.
	Classify(start, end NodeType) (GroupType, error)
	// Inverse maps the group of a -> b to the group of b -> a.
	// Inverse(Inverse(g)) must equal g.
	Inverse(group GroupType) GroupType
	// NeedsReplace reports whether candidate should take the group slot of
	// start currently held by existing.
	NeedsReplace(start, existing, candidate NodeType) (bool, error)
}

// Bake builds a sparse graph from generator waypoints and special nodes.
//
// Waypoints are collected in generator order, then special nodes; the first
// occurrence of an id wins and ids rejected by Possible are dropped. Every
// ordered pair of collected nodes is then offered as an edge. A node keeps
// at most one edge per group: a candidate whose group slot is taken on
// either endpoint replaces the holder only when NeedsReplace agrees,
// otherwise it is skipped.
//
// Bake does no locking. Hosts publish its result under a write ticket.
func Bake[NodeType comparable, GroupType comparable](
	generators []Generator[NodeType],
	specialNodes []NodeType,
	rules Rules[NodeType, GroupType],
) (*Snapshot[NodeType, GroupType], error) {
	snapshot := newSnapshot[NodeType, GroupType](len(specialNodes))

	collect := func(id NodeType) error {
		if snapshot.Contains(id) {
			return nil
		}
		possible, err := rules.Possible(id)
		if err != nil {
			return fmt.Errorf("bake: possible %v: %w", id, err)
		}
		if possible {
			snapshot.add(&GraphNode[NodeType, GroupType]{ID: id, Passable: true})
		}
		return nil
	}
	for _, generator := range generators {
		for _, id := range generator.Waypoints() {
			if err := collect(id); err != nil {
				return nil, err
			}
		}
	}
	for _, id := range specialNodes {
		if err := collect(id); err != nil {
			return nil, err
		}
	}

	for _, startID := range snapshot.order {
		start := snapshot.nodes[startID]
		for _, endID := range snapshot.order {
			if endID == startID || start.HasNeighbor(endID) {
				continue
			}
			if err := offerEdge(snapshot, rules, start, snapshot.nodes[endID]); err != nil {
				return nil, err
			}
		}
	}
	return snapshot, nil
}

func offerEdge[NodeType comparable, GroupType comparable](
	snapshot *Snapshot[NodeType, GroupType],
	rules Rules[NodeType, GroupType],
	start, end *GraphNode[NodeType, GroupType],
) error {
	feasible, err := rules.CanBeEdge(start.ID, end.ID)
	if err != nil {
		return fmt.Errorf("bake: can-be-edge %v -> %v: %w", start.ID, end.ID, err)
	}
	if !feasible {
		return nil
	}
	group, err := rules.Classify(start.ID, end.ID)
	if err != nil {
		return fmt.Errorf("bake: classify %v -> %v: %w", start.ID, end.ID, err)
	}
	inverse := rules.Inverse(group)

	startHolder, startTaken, err := slotHolder(rules, start, group, end.ID)
	if err != nil || (startTaken && startHolder == nil) {
		return err
	}
	endHolder, endTaken, err := slotHolder(rules, end, inverse, start.ID)
	if err != nil || (endTaken && endHolder == nil) {
		return err
	}

	if startHolder != nil {
		unlink(start, snapshot.nodes[*startHolder])
	}
	if endHolder != nil {
		unlink(end, snapshot.nodes[*endHolder])
	}
	start.Edges = append(start.Edges, Edge[NodeType, GroupType]{To: end.ID, Group: group})
	end.Edges = append(end.Edges, Edge[NodeType, GroupType]{To: start.ID, Group: inverse})
	return nil
}

// slotHolder looks up who holds node's group slot. taken reports an occupied
// slot; holder is nil when the slot is free or the holder keeps it.
func slotHolder[NodeType comparable, GroupType comparable](
	rules Rules[NodeType, GroupType],
	node *GraphNode[NodeType, GroupType],
	group GroupType,
	candidate NodeType,
) (holder *NodeType, taken bool, err error) {
	slot := node.groupSlot(group)
	if slot < 0 {
		return nil, false, nil
	}
	existing := node.Edges[slot].To
	replace, err := rules.NeedsReplace(node.ID, existing, candidate)
	if err != nil {
		return nil, true, fmt.Errorf("bake: needs-replace %v (%v vs %v): %w", node.ID, existing, candidate, err)
	}
	if !replace {
		return nil, true, nil
	}
	return &existing, true, nil
}

func unlink[NodeType comparable, GroupType comparable](a, b *GraphNode[NodeType, GroupType]) {
	a.removeEdgeTo(b.ID)
	b.removeEdgeTo(a.ID)
}
