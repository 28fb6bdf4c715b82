package main

import (
	"github.com/spf13/cobra"

	"github.com/rmonterde/fieldops/lasersim"
)

var (
	laserFrequency float64
	laserNoCrystal bool
	laserProfile   string
)

var laserCmd = &cobra.Command{
	Use:   "laser",
	Short: "Run the interactive pulsed laser bench simulation",
	Long: `laser traces a parallel ray bundle through the pump train, derives the
focused spot size, and evaluates the plate heating and ORC generation
model. Commands inside the loop: 'b' runs the simulation, 'f <hz>' sets
the spark frequency, 'y' toggles the YAG crystal, 'exit' quits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []lasersim.Option{lasersim.WithFrequency(laserFrequency)}
		if laserNoCrystal {
			opts = append(opts, lasersim.WithoutCrystal())
		}
		if laserProfile != "" {
			opts = append(opts, lasersim.WithProfilePath(laserProfile))
		}
		session := lasersim.NewSession(cmd.OutOrStdout(), opts...)
		return session.Run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	laserCmd.Flags().Float64Var(&laserFrequency, "frequency", 250, "spark frequency in Hz")
	laserCmd.Flags().BoolVar(&laserNoCrystal, "no-crystal", false, "start with the YAG crystal removed")
	laserCmd.Flags().StringVar(&laserProfile, "profile", "", "save a ray trace diagram PNG to this path after each run")
	rootCmd.AddCommand(laserCmd)
}
