package hpastar

import (
	"errors"
	"fmt"
)

// Sentinel errors for search and routing.
var (
	// ErrUnreachable means the goal is not connected to the start in the
	// current graph. It is an ordinary outcome, not a fault.
	ErrUnreachable = errors.New("goal unreachable")

	// ErrSearchBudgetExceeded means the expansion cap stopped the search
	// before the goal was closed. It wraps ErrUnreachable so callers may
	// treat both alike, while diagnostics can still tell them apart.
	ErrSearchBudgetExceeded = fmt.Errorf("%w: search budget exceeded", ErrUnreachable)

	// ErrSearchInProgress is returned by Stepper.Result before the search
	// has finished.
	ErrSearchInProgress = errors.New("search still in progress")

	// ErrNodeNotFound is returned when the graph does not know the start node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrPartialRoute means at least one region segment of a hierarchical
	// route failed. No partial path is returned.
	ErrPartialRoute = errors.New("route segment failed")

	// ErrNoConnector means two consecutive regions share no connector.
	ErrNoConnector = errors.New("no connector between regions")

	// ErrNoSnapshot is returned when a host is queried before its first bake.
	ErrNoSnapshot = errors.New("graph not baked")
)

// SegmentError reports which region segment broke a hierarchical route.
type SegmentError struct {
	Index  int
	Region any
	Err    error
}

func (e *SegmentError) Error() string {
	return fmt.Sprintf("segment %d (region %v): %v", e.Index, e.Region, e.Err)
}

func (e *SegmentError) Unwrap() error { return e.Err }

// Is makes every SegmentError match ErrPartialRoute.
func (e *SegmentError) Is(target error) bool { return target == ErrPartialRoute }
