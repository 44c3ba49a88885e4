package hpastar

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// HostConfig tunes a Host.
type HostConfig struct {
	// Name labels log lines and spans.
	Name string
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// RouteCacheSize enables an LRU of found routes per snapshot
	// generation when positive.
	RouteCacheSize int
}

// routeKey includes the options that change a search outcome.
type routeKey[NodeType comparable] struct {
	start      NodeType
	end        NodeType
	generation uint64
	limit      int
	bestEffort bool
}

// Host owns one navigation graph: its gate, the published snapshot and the
// inputs of the next bake. Snapshots are swapped atomically under the write
// ticket and never modified after publish.
//
// Host implements Graph over the published snapshot, so baked ids can be
// searched directly; FindPath additionally splices arbitrary endpoints.
type Host[NodeType comparable, GroupType comparable] struct {
	name    string
	gate    Gate
	current atomic.Pointer[Snapshot[NodeType, GroupType]]
	rules   Rules[NodeType, GroupType]
	metric  Metric[NodeType]
	logger  *zap.Logger
	routes  *lru.Cache[routeKey[NodeType], Result[NodeType]]

	inputMu    sync.Mutex
	generators []Generator[NodeType]
	specials   []NodeType
}

// NewHost creates a host without a snapshot. Call Rebake before querying.
func NewHost[NodeType comparable, GroupType comparable](
	rules Rules[NodeType, GroupType],
	metric Metric[NodeType],
	config HostConfig,
) (*Host[NodeType, GroupType], error) {
	host := &Host[NodeType, GroupType]{
		name:   config.Name,
		rules:  rules,
		metric: metric,
		logger: config.Logger,
	}
	if host.logger == nil {
		host.logger = zap.NewNop()
	}
	if config.Name != "" {
		host.logger = host.logger.With(zap.String("graph", config.Name))
	}
	if config.RouteCacheSize > 0 {
		routes, err := lru.New[routeKey[NodeType], Result[NodeType]](config.RouteCacheSize)
		if err != nil {
			return nil, fmt.Errorf("route cache: %w", err)
		}
		host.routes = routes
	}
	return host, nil
}

// Gate returns the host's gate.
func (host *Host[NodeType, GroupType]) Gate() *Gate { return &host.gate }

// SetGenerators replaces the waypoint generators used by the next rebake.
func (host *Host[NodeType, GroupType]) SetGenerators(generators ...Generator[NodeType]) {
	host.inputMu.Lock()
	defer host.inputMu.Unlock()
	host.generators = slices.Clone(generators)
}

// SetSpecialNodes replaces the special nodes used by the next rebake.
func (host *Host[NodeType, GroupType]) SetSpecialNodes(ids ...NodeType) {
	host.inputMu.Lock()
	defer host.inputMu.Unlock()
	host.specials = slices.Clone(ids)
}

// Snapshot returns the published snapshot, or nil before the first bake.
// The caller must not modify it.
func (host *Host[NodeType, GroupType]) Snapshot() *Snapshot[NodeType, GroupType] {
	return host.current.Load()
}

// Generation returns the generation of the published snapshot.
func (host *Host[NodeType, GroupType]) Generation() uint64 {
	if snapshot := host.current.Load(); snapshot != nil {
		return snapshot.generation
	}
	return 0
}

// Rebake bakes a fresh snapshot while holding the write ticket and
// publishes it. If a rule fails the previous snapshot stays published.
// Readers arriving continuously can delay Rebake indefinitely.
func (host *Host[NodeType, GroupType]) Rebake(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "hpastar.Host.Rebake",
		trace.WithAttributes(attribute.String("graph", host.name)))
	defer span.End()

	host.inputMu.Lock()
	generators := slices.Clone(host.generators)
	specials := slices.Clone(host.specials)
	host.inputMu.Unlock()

	started := time.Now()
	host.gate.AcquireWrite()
	defer host.gate.ReleaseWrite()

	snapshot, err := Bake(generators, specials, host.rules)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		recordBake(ctx, time.Since(started), 0, err)
		host.logger.Warn("rebake failed, keeping previous snapshot",
			zap.Uint64("generation", host.Generation()),
			zap.Error(err))
		return err
	}
	snapshot.generation = host.Generation() + 1
	host.current.Store(snapshot)

	elapsed := time.Since(started)
	span.SetAttributes(
		attribute.Int("nodes", snapshot.Len()),
		attribute.Int("edges", snapshot.EdgeCount()),
		attribute.Int64("generation", int64(snapshot.generation)),
	)
	recordBake(ctx, elapsed, snapshot.Len(), nil)
	host.logger.Debug("snapshot published",
		zap.Uint64("generation", snapshot.generation),
		zap.Int("nodes", snapshot.Len()),
		zap.Int("edges", snapshot.EdgeCount()),
		zap.Duration("elapsed", elapsed))
	return nil
}

// FindPath searches from start to end, which need not be baked waypoints.
//
// The snapshot is read and spliced under a read ticket; the search then
// runs on the private working graph.
func (host *Host[NodeType, GroupType]) FindPath(
	ctx context.Context,
	start, end NodeType,
	options ...Option,
) (Result[NodeType], error) {
	ctx, span := tracer.Start(ctx, "hpastar.Host.FindPath",
		trace.WithAttributes(attribute.String("graph", host.name)))
	defer span.End()

	settings := applyOptions(options)
	working, key, cached, err := host.splice(start, end, settings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Result[NodeType]{}, err
	}
	if working == nil {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		return cached, nil
	}

	options = append([]Option{WithLogger(host.logger)}, options...)
	result, err := Search(ctx, working, start, end, options...)
	if err == nil && result.Found && host.routes != nil {
		host.routes.Add(key, cloneResult(result))
	}
	return result, err
}

// splice returns either a working graph or, on a cache hit, a nil graph and
// the cached result.
func (host *Host[NodeType, GroupType]) splice(start, end NodeType, settings Options) (
	*WorkingGraph[NodeType, GroupType], routeKey[NodeType], Result[NodeType], error,
) {
	host.gate.AcquireRead()
	defer host.gate.ReleaseRead()

	snapshot := host.current.Load()
	if snapshot == nil {
		return nil, routeKey[NodeType]{}, Result[NodeType]{}, ErrNoSnapshot
	}
	key := routeKey[NodeType]{
		start:      start,
		end:        end,
		generation: snapshot.generation,
		limit:      settings.ExpansionLimit,
		bestEffort: settings.BestEffort,
	}
	if host.routes != nil {
		if cached, ok := host.routes.Get(key); ok {
			return nil, key, cloneResult(cached), nil
		}
	}
	working, err := Splice(snapshot, start, end, host.rules.CanBeEdge, host.metric)
	if err != nil {
		return nil, key, Result[NodeType]{}, err
	}
	return working, key, Result[NodeType]{}, nil
}

func cloneResult[NodeType comparable](result Result[NodeType]) Result[NodeType] {
	result.Path = slices.Clone(result.Path)
	return result
}

func (host *Host[NodeType, GroupType]) Neighborhood(id NodeType) (Neighborhood[NodeType], bool) {
	snapshot := host.current.Load()
	if snapshot == nil {
		return Neighborhood[NodeType]{}, false
	}
	node, ok := snapshot.nodes[id]
	if !ok {
		return Neighborhood[NodeType]{}, false
	}
	return Neighborhood[NodeType]{Neighbors: node.Neighbors(), Passable: node.Passable}, true
}

func (host *Host[NodeType, GroupType]) Cost(from, to NodeType) float64 {
	return host.metric.Cost(from, to)
}

func (host *Host[NodeType, GroupType]) Heuristic(from, target NodeType) float64 {
	return host.metric.Heuristic(from, target)
}
