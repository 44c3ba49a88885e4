package hpastar

import (
	"container/heap"
	"fmt"
	"math"

	"github.com/pdrpinto/hpastar/internal"
	"go.uber.org/zap"
)

type recordState uint8

const (
	recordFresh recordState = iota
	recordOpen
	recordClosed
)

// searchRecord is the per-query view of one node. parent indexes the same
// arena and is assigned at most once.
type searchRecord[NodeType comparable] struct {
	id        NodeType
	passable  bool
	neighbors []NodeType
	parent    int
	gCost     float64
	hCost     float64
	gAssigned bool
	hAssigned bool
	state     recordState
}

func (record *searchRecord[NodeType]) fCost() float64 {
	if !record.gAssigned || !record.hAssigned {
		return math.Inf(1)
	}
	return record.gCost + record.hCost
}

// search owns the whole state of one query. It is never shared.
type search[NodeType comparable] struct {
	graph   Graph[NodeType]
	goal    NodeType
	options Options

	records  []searchRecord[NodeType]
	index    map[NodeType]int
	openSet  PriorityQueue
	closed   []int
	sequence int

	expansions int
	current    int
	goalRecord int
}

func newSearch[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	options Options,
) (*search[NodeType], error) {
	s := &search[NodeType]{
		graph:      graph,
		goal:       goalNode,
		options:    options,
		index:      make(map[NodeType]int),
		current:    -1,
		goalRecord: -1,
	}
	start, ok := s.fetch(startNode)
	if !ok {
		return nil, fmt.Errorf("start %v: %w", startNode, ErrNodeNotFound)
	}
	s.records[start].gAssigned = true
	s.push(start)
	return s, nil
}

// fetch materializes a record on first use and memoizes it for the query.
func (s *search[NodeType]) fetch(id NodeType) (int, bool) {
	if record, ok := s.index[id]; ok {
		return record, true
	}
	neighborhood, ok := s.graph.Neighborhood(id)
	if !ok {
		return -1, false
	}
	s.records = append(s.records, searchRecord[NodeType]{
		id:        id,
		passable:  neighborhood.Passable,
		neighbors: neighborhood.Neighbors,
		parent:    -1,
	})
	record := len(s.records) - 1
	s.index[id] = record
	return record, true
}

func (s *search[NodeType]) push(record int) {
	s.records[record].state = recordOpen
	heap.Push(&s.openSet, PriorityQueueItem{
		Record:   record,
		FCost:    s.records[record].fCost(),
		Sequence: s.sequence,
	})
	s.sequence++
}

func (s *search[NodeType]) finished() bool {
	return s.goalRecord >= 0 || s.openSet.Len() == 0 || s.expansions >= s.options.ExpansionLimit
}

// step expands the best open record. It must not be called once finished.
func (s *search[NodeType]) step() {
	item := heap.Pop(&s.openSet).(PriorityQueueItem)
	current := item.Record
	s.records[current].state = recordClosed
	s.closed = append(s.closed, current)
	s.current = current
	s.expansions++

	currentRecord := s.records[current]
	if currentRecord.id == s.goal {
		s.goalRecord = current
		return
	}

	for _, neighborID := range currentRecord.neighbors {
		neighbor, ok := s.fetch(neighborID)
		if !ok {
			s.options.Logger.Debug("neighbor unknown to graph",
				zap.Any("from", currentRecord.id),
				zap.Any("neighbor", neighborID))
			continue
		}
		record := &s.records[neighbor]
		if record.state != recordFresh || !record.passable {
			continue
		}
		record.parent = current
		record.hCost = s.graph.Heuristic(neighborID, s.goal)
		record.gCost = s.graph.Cost(currentRecord.id, neighborID) + currentRecord.gCost
		record.hAssigned = true
		record.gAssigned = true
		s.push(neighbor)
	}
}

func (s *search[NodeType]) path(last int) []NodeType {
	return internal.ReconstructPath(last,
		func(record int) NodeType { return s.records[record].id },
		func(record int) int { return s.records[record].parent },
	)
}

func (s *search[NodeType]) result() (Result[NodeType], error) {
	if s.goalRecord >= 0 {
		return Result[NodeType]{
			Path:          s.path(s.goalRecord),
			TotalCost:     s.records[s.goalRecord].gCost,
			ExpandedNodes: s.expansions,
			Found:         true,
		}, nil
	}

	if s.options.BestEffort && len(s.closed) > 0 {
		nearest := s.nearestClosed()
		return Result[NodeType]{
			Path:          s.path(nearest),
			TotalCost:     s.records[nearest].gCost,
			ExpandedNodes: s.expansions,
			Partial:       true,
		}, nil
	}

	failed := Result[NodeType]{ExpandedNodes: s.expansions}
	if s.openSet.Len() > 0 {
		return failed, fmt.Errorf("goal %v after %d expansions: %w", s.goal, s.expansions, ErrSearchBudgetExceeded)
	}
	return failed, fmt.Errorf("goal %v: %w", s.goal, ErrUnreachable)
}

// nearestClosed picks the closed record with the smallest heuristic to the
// goal, the earliest closed one winning ties.
func (s *search[NodeType]) nearestClosed() int {
	best := -1
	bestDistance := math.Inf(1)
	for _, record := range s.closed {
		distance := s.graph.Heuristic(s.records[record].id, s.goal)
		if best < 0 || distance < bestDistance {
			best = record
			bestDistance = distance
		}
	}
	return best
}
