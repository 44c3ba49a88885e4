package hpastar

import (
	"sync"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot[NodeType comparable] struct {
	Current   NodeType
	Open      map[NodeType]bool
	Closed    map[NodeType]bool
	CameFrom  map[NodeType]NodeType
	Done      bool
	Found     bool
	Path      []NodeType
	StepIndex int
	Err       error
}

// Stepper drives the same search as Search one expansion at a time.
//
// The graph's read ticket is taken by NewStepper and held until the search
// finishes or Close is called, so a stepper left idle blocks rebakes of
// its graph.
type Stepper[NodeType comparable] struct {
	state       *search[NodeType]
	gate        *Gate
	releaseOnce sync.Once
	stepCount   int
	done        bool
	err         error
}

// NewStepper prepares a search from startNode to goalNode.
func NewStepper[NodeType comparable](
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	options ...Option,
) (*Stepper[NodeType], error) {
	gate := graph.Gate()
	gate.AcquireRead()
	state, err := newSearch(graph, startNode, goalNode, applyOptions(options))
	if err != nil {
		gate.ReleaseRead()
		return nil, err
	}
	return &Stepper[NodeType]{state: state, gate: gate}, nil
}

// Close releases the read ticket. It is safe to call more than once.
func (s *Stepper[NodeType]) Close() {
	s.releaseOnce.Do(s.gate.ReleaseRead)
}

// Step advances the search by one node expansion and returns a snapshot
func (s *Stepper[NodeType]) Step() StepSnapshot[NodeType] {
	if !s.done && s.state.finished() {
		s.finish()
	}
	if s.done {
		return s.snapshot()
	}

	s.stepCount++
	s.state.step()
	if s.state.finished() {
		s.finish()
	}
	return s.snapshot()
}

// Result returns the final outcome once Step has reported Done. Before
// that it returns ErrSearchInProgress.
func (s *Stepper[NodeType]) Result() (Result[NodeType], error) {
	if !s.done {
		return Result[NodeType]{}, ErrSearchInProgress
	}
	return s.state.result()
}

func (s *Stepper[NodeType]) finish() {
	s.done = true
	_, s.err = s.state.result()
	s.Close()
}

func (s *Stepper[NodeType]) snapshot() StepSnapshot[NodeType] {
	state := s.state
	snapshot := StepSnapshot[NodeType]{
		Open:      make(map[NodeType]bool),
		Closed:    make(map[NodeType]bool),
		CameFrom:  make(map[NodeType]NodeType),
		Done:      s.done,
		StepIndex: s.stepCount,
		Err:       s.err,
	}
	if state.current >= 0 {
		snapshot.Current = state.records[state.current].id
	}
	for _, record := range state.records {
		switch record.state {
		case recordOpen:
			snapshot.Open[record.id] = true
		case recordClosed:
			snapshot.Closed[record.id] = true
		}
		if record.parent >= 0 {
			snapshot.CameFrom[record.id] = state.records[record.parent].id
		}
	}
	if s.done && state.goalRecord >= 0 {
		snapshot.Found = true
		snapshot.Path = state.path(state.goalRecord)
	}
	return snapshot
}
