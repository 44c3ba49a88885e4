package hpastar

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Connector joins two regions. Exit lies in region From, Entry in region To.
type Connector[RegionType comparable, PointType comparable] struct {
	From  RegionType
	To    RegionType
	Exit  PointType
	Entry PointType
}

// Planner finds local paths inside one region. *Host implements it.
type Planner[PointType comparable] interface {
	FindPath(ctx context.Context, start, end PointType, options ...Option) (Result[PointType], error)
}

// Atlas is what the router needs to know about regions beyond the coarse graph.
type Atlas[RegionType comparable, PointType comparable] interface {
	// Connectors lists the connectors leading from one region into another.
	Connectors(from, to RegionType) []Connector[RegionType, PointType]
	// Planner returns the local planner of a region.
	Planner(region RegionType) (Planner[PointType], bool)
}

// Waypoint is a point tagged with the region it lies in.
type Waypoint[RegionType comparable, PointType comparable] struct {
	Region RegionType
	Point  PointType
}

// Route is the outcome of a hierarchical search.
type Route[RegionType comparable, PointType comparable] struct {
	Regions   []RegionType
	Waypoints []Waypoint[RegionType, PointType]
}

// Router runs a coarse search over regions and one local search per
// traversed region, joined through connectors.
type Router[RegionType comparable, PointType comparable] struct {
	regions Graph[RegionType]
	atlas   Atlas[RegionType, PointType]
	options []Option
}

// NewRouter creates a router over the coarse region graph. Options apply to
// every coarse and local search; WithWorkers bounds the local fan-out and
// WithConnectorPicker replaces the uniform random connector choice.
func NewRouter[RegionType comparable, PointType comparable](
	regions Graph[RegionType],
	atlas Atlas[RegionType, PointType],
	options ...Option,
) *Router[RegionType, PointType] {
	return &Router[RegionType, PointType]{regions: regions, atlas: atlas, options: options}
}

// SeededPicker returns a deterministic uniform connector picker that is
// safe for concurrent use.
func SeededPicker(seed uint64) func(count int) int {
	var mu sync.Mutex
	source := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return func(count int) int {
		mu.Lock()
		defer mu.Unlock()
		return source.IntN(count)
	}
}

// Route finds a path from start in startRegion to end in endRegion.
//
// Any failure, coarse or local, fails the whole route; no partial path is
// returned. Best-effort mode is ignored here for that reason.
func (router *Router[RegionType, PointType]) Route(
	ctx context.Context,
	startRegion RegionType, start PointType,
	endRegion RegionType, end PointType,
) (Route[RegionType, PointType], error) {
	ctx, span := tracer.Start(ctx, "hpastar.Router.Route")
	defer span.End()

	route, err := router.route(ctx, startRegion, start, endRegion, end)
	span.SetAttributes(
		attribute.Int("regions", len(route.Regions)),
		attribute.Int("waypoints", len(route.Waypoints)),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	recordRoute(ctx, err)
	return route, err
}

func (router *Router[RegionType, PointType]) route(
	ctx context.Context,
	startRegion RegionType, start PointType,
	endRegion RegionType, end PointType,
) (Route[RegionType, PointType], error) {
	options := append(append([]Option(nil), router.options...), WithBestEffort(false))
	settings := applyOptions(options)
	workers := settings.NumberOfWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pick := settings.ConnectorPicker
	if pick == nil {
		pick = rand.IntN
	}

	coarse, err := Search(ctx, router.regions, startRegion, endRegion, options...)
	if err != nil {
		return Route[RegionType, PointType]{}, fmt.Errorf("coarse search: %w", err)
	}
	regions := coarse.Path
	settings.Logger.Debug("coarse route found", zap.Any("regions", regions))

	tasks := make([]segmentTask[RegionType, PointType], len(regions))
	entry := start
	for i, region := range regions {
		tasks[i] = segmentTask[RegionType, PointType]{Index: i, Region: region, Entry: entry, Exit: end}
		if i == len(regions)-1 {
			break
		}
		candidates := router.atlas.Connectors(region, regions[i+1])
		if len(candidates) == 0 {
			return Route[RegionType, PointType]{}, &SegmentError{
				Index:  i,
				Region: region,
				Err:    fmt.Errorf("%v -> %v: %w", region, regions[i+1], ErrNoConnector),
			}
		}
		connector := candidates[pick(len(candidates))]
		tasks[i].Exit = connector.Exit
		entry = connector.Entry
	}

	results := runSegments(ctx, router.atlas, tasks, workers, settings.Logger, options)

	route := Route[RegionType, PointType]{Regions: regions}
	for i, result := range results {
		if result.Err != nil {
			settings.Logger.Info("route segment failed",
				zap.Int("segment", i),
				zap.Any("region", regions[i]),
				zap.Error(result.Err))
			return Route[RegionType, PointType]{}, &SegmentError{Index: i, Region: regions[i], Err: result.Err}
		}
		for j, point := range result.Path {
			last := len(route.Waypoints) - 1
			if j == 0 && last >= 0 && route.Waypoints[last].Point == point {
				continue
			}
			route.Waypoints = append(route.Waypoints, Waypoint[RegionType, PointType]{Region: regions[i], Point: point})
		}
	}
	return route, nil
}
