package world

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/pdrpinto/hpastar"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Portal joins cell CoordA of grid GridA with cell CoordB of grid GridB.
type Portal struct {
	GridA  int   `yaml:"grid_a"`
	CoordA Point `yaml:"coord_a"`
	GridB  int   `yaml:"grid_b"`
	CoordB Point `yaml:"coord_b"`
}

// Link is the group of a region edge: the ordered pair of grids it joins.
type Link struct {
	From, To int
}

// IslandConfig tunes an Island.
type IslandConfig struct {
	Logger         *zap.Logger
	RouteCacheSize int
	// SearchOptions apply to the coarse and every local search.
	SearchOptions []hpastar.Option
}

// Island is the region level: grids are its nodes and portals its edges.
type Island struct {
	grids   map[int]*Grid
	order   []int
	portals []Portal
	logger  *zap.Logger

	host   *hpastar.Host[int, Link]
	router *hpastar.Router[int, Point]
}

// NewIsland wires grids and portals into a region graph. Every portal must
// reference known grids.
func NewIsland(grids []*Grid, portals []Portal, config IslandConfig) (*Island, error) {
	island := &Island{
		grids:   make(map[int]*Grid, len(grids)),
		portals: slices.Clone(portals),
		logger:  config.Logger,
	}
	if island.logger == nil {
		island.logger = zap.NewNop()
	}
	for _, grid := range grids {
		if _, dup := island.grids[grid.ID]; dup {
			return nil, fmt.Errorf("duplicate grid id %d", grid.ID)
		}
		island.grids[grid.ID] = grid
		island.order = append(island.order, grid.ID)
	}
	slices.Sort(island.order)
	for i, portal := range portals {
		if _, ok := island.grids[portal.GridA]; !ok {
			return nil, fmt.Errorf("portal %d: unknown grid %d", i, portal.GridA)
		}
		if _, ok := island.grids[portal.GridB]; !ok {
			return nil, fmt.Errorf("portal %d: unknown grid %d", i, portal.GridB)
		}
	}

	host, err := hpastar.NewHost[int, Link](island, island, hpastar.HostConfig{
		Name:   "island",
		Logger: island.logger,
	})
	if err != nil {
		return nil, err
	}
	generators := make([]hpastar.Generator[int], len(island.order))
	for i, id := range island.order {
		generators[i] = hpastar.GeneratorFunc[int](func() []int { return []int{id} })
	}
	host.SetGenerators(generators...)
	island.host = host

	options := append([]hpastar.Option{hpastar.WithLogger(island.logger)}, config.SearchOptions...)
	island.router = hpastar.NewRouter[int, Point](host, island, options...)
	return island, nil
}

// Host exposes the region graph host.
func (island *Island) Host() *hpastar.Host[int, Link] { return island.host }

// Grid returns the grid with the given id.
func (island *Island) Grid(id int) (*Grid, bool) {
	grid, ok := island.grids[id]
	return grid, ok
}

// Refresh rebakes the region graph and then every grid, each with the
// portal cells that lie in it. Grids are rebaked concurrently.
func (island *Island) Refresh(ctx context.Context) error {
	if err := island.host.Rebake(ctx); err != nil {
		return fmt.Errorf("island: %w", err)
	}
	group, groupCtx := errgroup.WithContext(ctx)
	for _, id := range island.order {
		grid := island.grids[id]
		group.Go(func() error {
			var cells []Point
			for _, connector := range island.NeighborPortals(id) {
				cells = append(cells, connector.Exit)
			}
			if err := grid.Refresh(groupCtx, cells); err != nil {
				return fmt.Errorf("grid %d: %w", id, err)
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	island.logger.Debug("island refreshed",
		zap.Int("grids", len(island.order)),
		zap.Int("portals", len(island.portals)))
	return nil
}

// Route finds a path from start in grid startGrid to end in grid endGrid.
func (island *Island) Route(ctx context.Context, startGrid int, start Point, endGrid int, end Point) (hpastar.Route[int, Point], error) {
	return island.router.Route(ctx, startGrid, start, endGrid, end)
}

// NeighborPortals lists the connectors leaving grid id, oriented so that
// Exit lies in id.
func (island *Island) NeighborPortals(id int) []hpastar.Connector[int, Point] {
	var connectors []hpastar.Connector[int, Point]
	for _, portal := range island.portals {
		switch id {
		case portal.GridA:
			connectors = append(connectors, hpastar.Connector[int, Point]{
				From: portal.GridA, To: portal.GridB, Exit: portal.CoordA, Entry: portal.CoordB,
			})
		case portal.GridB:
			connectors = append(connectors, hpastar.Connector[int, Point]{
				From: portal.GridB, To: portal.GridA, Exit: portal.CoordB, Entry: portal.CoordA,
			})
		}
	}
	return connectors
}

// Connectors lists the connectors from one grid into another.
func (island *Island) Connectors(from, to int) []hpastar.Connector[int, Point] {
	var connectors []hpastar.Connector[int, Point]
	for _, connector := range island.NeighborPortals(from) {
		if connector.To == to {
			connectors = append(connectors, connector)
		}
	}
	return connectors
}

// Planner returns the grid as the local planner of a region.
func (island *Island) Planner(region int) (hpastar.Planner[Point], bool) {
	grid, ok := island.grids[region]
	if !ok {
		return nil, false
	}
	return grid, true
}

// Possible accepts every known grid.
func (island *Island) Possible(id int) (bool, error) {
	_, ok := island.grids[id]
	return ok, nil
}

// CanBeEdge reports whether a portal joins the two grids.
func (island *Island) CanBeEdge(a, b int) (bool, error) {
	return len(island.Connectors(a, b)) > 0, nil
}

func (island *Island) Classify(start, end int) (Link, error) {
	return Link{From: start, To: end}, nil
}

func (island *Island) Inverse(link Link) Link { return Link{From: link.To, To: link.From} }

// NeedsReplace never evicts: every link already has its own slot.
func (island *Island) NeedsReplace(start, existing, candidate int) (bool, error) {
	return false, nil
}

// Cost is the distance between grid origins plus the size of the target grid.
func (island *Island) Cost(from, to int) float64 {
	a, okA := island.grids[from]
	b, okB := island.grids[to]
	if !okA || !okB {
		return math.Inf(1)
	}
	return a.Origin.Distance(b.Origin) + b.Size.Magnitude()
}

// Heuristic is the distance between grid origins.
func (island *Island) Heuristic(from, target int) float64 {
	a, okA := island.grids[from]
	b, okB := island.grids[target]
	if !okA || !okB {
		return math.Inf(1)
	}
	return a.Origin.Distance(b.Origin)
}
