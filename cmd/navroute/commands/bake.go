package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bakeCmd = &cobra.Command{
	Use:   "bake",
	Short: "Bake every graph of the scene and print its size",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := open(ctx)
		if err != nil {
			return err
		}
		defer s.close(ctx)

		if err := s.island.Refresh(ctx); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render("ISLAND"))
		region := s.island.Host().Snapshot()
		fmt.Fprintf(out, "  %s grids=%d links=%d\n", labelStyle.Render("regions:"), region.Len(), region.EdgeCount())

		fmt.Fprintln(out, titleStyle.Render("GRIDS"))
		for _, spec := range s.scene.Grids {
			grid, _ := s.island.Grid(spec.ID)
			snapshot := grid.Host().Snapshot()
			fmt.Fprintf(out, "  %s nodes=%d edges=%d furniture=%d\n",
				labelStyle.Render(fmt.Sprintf("grid %d:", spec.ID)),
				snapshot.Len(), snapshot.EdgeCount(), len(grid.Furniture()))
		}
		return nil
	},
}
