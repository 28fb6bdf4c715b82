package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmonterde/fieldops"
	"github.com/rmonterde/fieldops/geo"
	"github.com/rmonterde/fieldops/sentinel"
)

var (
	satviewCenter string
	satviewOut    string
)

var satviewCmd = &cobra.Command{
	Use:   "satview",
	Short: "Save satellite views of a point with the road network overlaid",
	Long: `satview fetches a true color Sentinel Hub tile around a point, draws
the road network and a position marker over it, and saves the PNG named
after the coordinates. It then prompts for further coordinates: each
"lat,lon" entered saves a high resolution detail view of that point.
Enter "exit" or close the input to quit.

Sentinel Hub credentials must be set in the environment or a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		center := fieldops.DefaultViewpoint
		if satviewCenter != "" {
			parsed, err := geo.ParseLatLon(satviewCenter)
			if err != nil {
				return err
			}
			center = parsed
		}

		tk := toolkit()
		path, err := tk.SatelliteView(cmd.Context(), center, sentinel.DefaultTileSize, satviewOut)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Satellite view saved to %s\n", path)

		sc := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "Enter lat,lon for a detail view (or 'exit'): ")
			if !sc.Scan() {
				break
			}
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			if strings.EqualFold(line, "exit") {
				break
			}
			point, err := geo.ParseLatLon(line)
			if err != nil {
				fmt.Fprintf(out, "Invalid coordinates %q: %v\n", line, err)
				continue
			}
			path, err := tk.SatelliteView(cmd.Context(), point, sentinel.HighResTileSize, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Detail view saved to %s\n", path)
		}
		fmt.Fprintln(out)
		return sc.Err()
	},
}

func init() {
	satviewCmd.Flags().StringVar(&satviewCenter, "center", "", `initial view center as "lat,lon" (default the Palacio de Puebla)`)
	satviewCmd.Flags().StringVarP(&satviewOut, "out", "o", "", "output path for the initial view (default derived from the coordinates)")
	rootCmd.AddCommand(satviewCmd)
}
