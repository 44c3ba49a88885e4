package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdrpinto/hpastar"
	"github.com/pdrpinto/hpastar/world"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route [GRID:X,Y GRID:X,Y]",
	Short: "Route between two cells of the scene",
	Long: `Route finds a path between two cells, each given as GRID:X,Y.
Without arguments the query stored in the scene is used.`,
	Example: "  navroute route --scene house.yaml 0:-3,-3 1:2,4",
	Args:    routeArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		var query world.Query
		switch {
		case len(args) == 2:
			if query.Start, err = parseLocation(args[0]); err != nil {
				return err
			}
			if query.End, err = parseLocation(args[1]); err != nil {
				return err
			}
		case s.scene.Query != nil:
			query = *s.scene.Query
		default:
			return errors.New("no query given and the scene has none")
		}

		if err := s.island.Refresh(ctx); err != nil {
			return err
		}
		route, err := s.island.Route(ctx, query.Start.Grid, query.Start.Point, query.End.Grid, query.End.Point)
		if err != nil {
			var segment *hpastar.SegmentError
			if errors.As(err, &segment) {
				return fmt.Errorf("route broken in grid %v (segment %d): %w", segment.Region, segment.Index, err)
			}
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("ROUTE"))
		fmt.Fprintf(out, "  %s %v\n", labelStyle.Render("grids:"), route.Regions)
		for _, waypoint := range route.Waypoints {
			fmt.Fprintf(out, "  %s %s\n", labelStyle.Render(fmt.Sprintf("grid %d", waypoint.Region)), waypoint.Point)
		}
		return nil
	},
}

func routeArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 0 && len(args) != 2 {
		return errors.New("route takes no locations or exactly two")
	}
	return nil
}

// parseLocation reads GRID:X,Y.
func parseLocation(s string) (world.Location, error) {
	gridPart, pointPart, ok := strings.Cut(s, ":")
	if !ok {
		return world.Location{}, fmt.Errorf("location %q: want GRID:X,Y", s)
	}
	xPart, yPart, ok := strings.Cut(pointPart, ",")
	if !ok {
		return world.Location{}, fmt.Errorf("location %q: want GRID:X,Y", s)
	}
	var values [3]int
	for i, part := range []string{gridPart, xPart, yPart} {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return world.Location{}, fmt.Errorf("location %q: %w", s, err)
		}
		values[i] = n
	}
	return world.Location{Grid: values[0], Point: world.Point{X: values[1], Y: values[2]}}, nil
}
