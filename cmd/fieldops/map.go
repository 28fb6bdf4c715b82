package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rmonterde/fieldops"
)

var mapOpts fieldops.RouteMapOptions

var mapCmd = &cobra.Command{
	Use:   "map",
	Short: "Render the corridor graph and shortest path over the road network",
	Long: `map draws the six city corridor graph, highlights the shortest path
between two of its cities and underlays the cached Geofabrik road
network. With --satellite it also fetches a Sentinel Hub true color
underlay, which needs credentials in the environment.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := toolkit().RouteMap(cmd.Context(), mapOpts)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Map saved to %s\n", path)
		return nil
	},
}

func init() {
	mapCmd.Flags().StringVar(&mapOpts.From, "from", "", `origin city (default "Tapachula")`)
	mapCmd.Flags().StringVar(&mapOpts.To, "to", "", `destination city (default "Ciudad Juárez")`)
	mapCmd.Flags().BoolVar(&mapOpts.Satellite, "satellite", false, "underlay satellite imagery")
	mapCmd.Flags().StringVarP(&mapOpts.OutPath, "out", "o", "", `output path (default "route_map.png")`)
	rootCmd.AddCommand(mapCmd)
}
