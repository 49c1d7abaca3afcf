// Promodeck shows a game's promo codes as cards whose full code stays hidden
// behind a checking animation and an optional disclosure gate.
//
// It runs as an interactive terminal page, or serves the same cards as a
// web page driven over WebSocket.
//
// Usage:
//
//	promodeck [command] [flags]
//
// Running without arguments opens the terminal page for the default catalog.
// See 'promodeck --help' for available commands.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/promodeck/internal/catalog"
	"github.com/muurk/promodeck/internal/config"
	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/unlock"
	"github.com/muurk/promodeck/internal/urls"
	"github.com/muurk/promodeck/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "promodeck",
	Short: "Promo code cards with a checking animation",
	Long: `Promodeck presents the promo codes of a game as cards.

Each card shows a benefit, rating, usage and stock, and only a masked
version of its code. Choosing "Show Full Code" runs a short checking
animation, then hands over to an optional disclosure gate.

If no command is specified, the interactive terminal page opens.`,
	Version: version.Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: runBrowse,
}

// Flags shared by every command
var (
	logLevel    string
	catalogPath string
)

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to $"+logging.LogLevelEnvVar)
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog YAML file (default: embedded catalog or preferences.catalog_path)")

	addBrowseFlags(rootCmd)

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "promodeck %s\n", version.Full())
	},
}

// loadPreferences returns the user preferences, or the defaults when the
// config file is missing
func loadPreferences() (*config.Preferences, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return registry.Preferences, nil
}

// loadCatalog resolves --catalog, then preferences.catalog_path, then the
// embedded catalog
func loadCatalog(prefs *config.Preferences) (*catalog.Game, error) {
	path := catalogPath
	if path == "" && prefs != nil {
		path = prefs.CatalogPath
	}
	game, err := catalog.Load(path)
	if err != nil {
		var verr *catalog.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Catalog fields are described at %s\n", urls.CatalogFormat)
		}
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return game, nil
}

// Timing overrides
var (
	timingFlags = unlock.Timing{}
)

// resolveTiming applies the timing flags that were set on top of prefs
func resolveTiming(cmd *cobra.Command, prefs *config.Preferences) (unlock.Timing, error) {
	timing := prefs.Timing.Timing()
	if cmd.Flags().Changed("duration") {
		timing.Duration = timingFlags.Duration
	}
	if cmd.Flags().Changed("interval") {
		timing.Interval = timingFlags.Interval
	}
	if cmd.Flags().Changed("settle") {
		timing.SettleDelay = timingFlags.SettleDelay
	}
	if err := timing.Validate(); err != nil {
		return unlock.Timing{}, fmt.Errorf("invalid timing: %w", err)
	}
	return timing, nil
}

func addTimingFlags(cmd *cobra.Command) {
	cmd.Flags().DurationVar(&timingFlags.Duration, "duration", unlock.DefaultDuration, "Time for the checking animation to reach 100%")
	cmd.Flags().DurationVar(&timingFlags.Interval, "interval", unlock.DefaultInterval, "Period between progress updates")
	cmd.Flags().DurationVar(&timingFlags.SettleDelay, "settle", unlock.DefaultSettleDelay, "Pause between 100% and the reveal")
}
