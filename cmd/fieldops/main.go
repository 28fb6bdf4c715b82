// Command fieldops plans and visualizes a convoy corridor: it writes
// route planning reports, renders corridor and satellite maps, and runs
// the pulsed laser bench simulation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/rmonterde/fieldops"
	"github.com/rmonterde/fieldops/internal/log"
	"github.com/rmonterde/fieldops/sentinel"
)

var (
	// Global flags
	verbose  bool
	cacheDir string
	envFile  string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "fieldops",
	Short: "Convoy route planning and corridor visualization toolkit",
	Long: `fieldops plans a convoy corridor across Mexico.

It writes the route planning report as a .docx document, renders the
corridor graph and its shortest path over Geofabrik road data, overlays
Sentinel Hub satellite imagery, and runs a pulsed laser heating
simulation over a traced optical train.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
		} else {
			_ = godotenv.Load()
		}

		level := "info"
		if verbose {
			level = "debug"
		}
		log.Configure(log.Config{Level: level, Console: true})
		return nil
	},
}

// toolkit builds the shared facade from the global flags.
func toolkit() *fieldops.Toolkit {
	tk := fieldops.New()
	if cacheDir != "" {
		tk = tk.WithCacheDir(cacheDir)
	}
	return tk
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", `root directory for downloaded data (default "data")`)
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "load environment variables from this file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, sentinel.ErrMissingCredentials) {
			fmt.Fprintln(os.Stderr, "Sentinel Hub credentials missing: set SENTINEL_INSTANCE_ID, SENTINEL_CLIENT_ID and SENTINEL_CLIENT_SECRET, or put them in a .env file.")
		} else if !errors.Is(err, context.Canceled) {
			logger := log.Base()
			logger.Error().Err(err).Msg("command failed")
		}
		os.Exit(1)
	}
}
