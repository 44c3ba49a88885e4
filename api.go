package hpastar

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultExpansionLimit caps the number of node expansions of one search.
const DefaultExpansionLimit = 1000

// Graph is generic over node type N.
// N must be comparable so it can be used in maps.
//
// Search holds a read ticket of Gate for its whole duration, so Gate must
// never return nil.
type Graph[NodeType comparable] interface {
	Metric[NodeType]
	Gate() *Gate
	// Neighborhood reports the neighbors and passability of a node. The
	// second result is false when the graph does not know the node.
	Neighborhood(node NodeType) (Neighborhood[NodeType], bool)
}

// Metric prices edges and estimates remaining distance.
type Metric[NodeType comparable] interface {
	Cost(from NodeType, to NodeType) float64
	Heuristic(from NodeType, target NodeType) float64
}

// Neighborhood is what a graph exposes about a single node.
type Neighborhood[NodeType comparable] struct {
	Neighbors []NodeType
	Passable  bool
}

// Result contains the outcome of a search
type Result[NodeType comparable] struct {
	Path          []NodeType
	TotalCost     float64
	ExpandedNodes int
	Found         bool
	// Partial is set when best-effort mode returned a route ending at the
	// explored node closest to the goal instead of the goal itself.
	Partial bool
}

// Options defines parameters for the search.
type Options struct {
	ExpansionLimit  int
	BestEffort      bool
	NumberOfWorkers int
	Logger          *zap.Logger
	ConnectorPicker func(count int) int
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithExpansionLimit overrides the expansion cap. Values <= 0 are ignored.
func WithExpansionLimit(limit int) Option {
	return func(options *Options) {
		if limit > 0 {
			options.ExpansionLimit = limit
		}
	}
}

// WithBestEffort makes an unreachable goal return the route to the closed
// node with the smallest heuristic distance to the goal instead of failing.
func WithBestEffort(enabled bool) Option {
	return func(options *Options) { options.BestEffort = enabled }
}

// WithWorkers specifies how many region segments a Router searches at once.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(options *Options) {
		if logger != nil {
			options.Logger = logger
		}
	}
}

// WithConnectorPicker replaces the uniform random connector choice of a
// Router. The picker receives the number of candidates and returns an index.
func WithConnectorPicker(picker func(count int) int) Option {
	return func(options *Options) { options.ConnectorPicker = picker }
}

func applyOptions(options []Option) Options {
	searchOptions := Options{
		ExpansionLimit: DefaultExpansionLimit,
		Logger:         zap.NewNop(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	return searchOptions
}

// Search runs A* from startNode to goalNode.
//
// The graph's read ticket is held from entry to return on every path. ctx
// only carries tracing; there is no early abort, a search always runs to
// the goal, an empty open list or the expansion cap.
//
// A goal that cannot be reached yields ErrUnreachable, or
// ErrSearchBudgetExceeded when the cap stopped the search first, unless
// best-effort mode is enabled.
func Search[NodeType comparable](
	contextObject context.Context,
	graph Graph[NodeType],
	startNode NodeType,
	goalNode NodeType,
	options ...Option,
) (Result[NodeType], error) {
	searchOptions := applyOptions(options)

	contextObject, span := tracer.Start(contextObject, "hpastar.Search",
		trace.WithAttributes(attribute.Int("expansion_limit", searchOptions.ExpansionLimit)))
	defer span.End()

	gate := graph.Gate()
	gate.AcquireRead()
	defer gate.ReleaseRead()

	state, err := newSearch(graph, startNode, goalNode, searchOptions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordSearch(contextObject, 0, err)
		return Result[NodeType]{}, err
	}
	for !state.finished() {
		state.step()
	}

	result, err := state.result()
	span.SetAttributes(
		attribute.Int("expanded_nodes", result.ExpandedNodes),
		attribute.Bool("found", result.Found),
		attribute.Bool("partial", result.Partial),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		searchOptions.Logger.Debug("search failed",
			zap.Any("start", startNode),
			zap.Any("goal", goalNode),
			zap.Int("expanded", result.ExpandedNodes),
			zap.Error(err))
	}
	recordSearch(contextObject, result.ExpandedNodes, err)
	return result, err
}
