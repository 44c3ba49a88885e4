package hpastar

import "fmt"

// EdgePredicate reports whether two nodes may be joined directly.
type EdgePredicate[NodeType comparable] func(a, b NodeType) (bool, error)

// WorkingGraph is a private copy of a snapshot with ad-hoc start and end
// nodes spliced in. It belongs to a single query and has its own gate, so
// searching it never contends with other queries or rebakes.
type WorkingGraph[NodeType comparable, GroupType comparable] struct {
	gate   Gate
	nodes  *Snapshot[NodeType, GroupType]
	metric Metric[NodeType]
}

// Splice copies snapshot and joins start and end to every node they can
// reach directly. An id already present in the snapshot is used as it is.
// end is tested after start was inserted, so the two may be joined too.
// Spliced edges carry no group. snapshot itself is never modified.
func Splice[NodeType comparable, GroupType comparable](
	snapshot *Snapshot[NodeType, GroupType],
	start, end NodeType,
	canBeEdge EdgePredicate[NodeType],
	metric Metric[NodeType],
) (*WorkingGraph[NodeType, GroupType], error) {
	working := snapshot.Clone()
	for _, extra := range []NodeType{start, end} {
		if working.Contains(extra) {
			continue
		}
		node := &GraphNode[NodeType, GroupType]{ID: extra, Passable: true}
		for _, id := range working.order {
			feasible, err := canBeEdge(extra, id)
			if err != nil {
				return nil, fmt.Errorf("splice: can-be-edge %v -> %v: %w", extra, id, err)
			}
			if !feasible {
				continue
			}
			node.Edges = append(node.Edges, Edge[NodeType, GroupType]{To: id, Spliced: true})
			other := working.nodes[id]
			other.Edges = append(other.Edges, Edge[NodeType, GroupType]{To: extra, Spliced: true})
		}
		working.add(node)
	}
	return &WorkingGraph[NodeType, GroupType]{nodes: working, metric: metric}, nil
}

// Gate returns the graph's private gate.
func (graph *WorkingGraph[NodeType, GroupType]) Gate() *Gate { return &graph.gate }

// Nodes exposes the spliced node set.
func (graph *WorkingGraph[NodeType, GroupType]) Nodes() *Snapshot[NodeType, GroupType] {
	return graph.nodes
}

func (graph *WorkingGraph[NodeType, GroupType]) Neighborhood(id NodeType) (Neighborhood[NodeType], bool) {
	node, ok := graph.nodes.nodes[id]
	if !ok {
		return Neighborhood[NodeType]{}, false
	}
	return Neighborhood[NodeType]{Neighbors: node.Neighbors(), Passable: node.Passable}, true
}

func (graph *WorkingGraph[NodeType, GroupType]) Cost(from, to NodeType) float64 {
	return graph.metric.Cost(from, to)
}

func (graph *WorkingGraph[NodeType, GroupType]) Heuristic(from, target NodeType) float64 {
	return graph.metric.Heuristic(from, target)
}
