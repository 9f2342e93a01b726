// shipline runs the deployment pipeline for a repository from inside CI.
// A run evaluates the triggering event, builds and deploys the
// configured components, and when warranted publishes a release and
// proposes the next version bump.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	dryRun     bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "shipline",
		Short: "Stage-gated build, deploy, and release pipeline",
		Long: `shipline evaluates a repository event against its commit-message gates,
then runs the build, deploy, and release stages that the event warrants.
A release tags the current version, publishes it on the hosting system,
and opens a pull request bumping the tracked version for the next cycle.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default shipline.toml)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "log commands and remote writes instead of performing them")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
}

func main() {
	// Local overrides for dev runs; harmless in CI.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process logger. Debug level is opt-in.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
