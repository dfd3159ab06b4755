// Command ls-starfield loads zoned star catalogs, queries them and shows
// the sky in a terminal.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/version"
)

var (
	commit = "none"
	date   = "unknown"
)

// logger is configured from --log-level before any command runs.
var logger = logging.Discard()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ls-starfield",
	Short: "Zoned binary star catalogs in the terminal",
	Long: `ls-starfield loads star catalogs stored as zone-partitioned binary
tiers, answers cone searches and Hipparcos lookups against them, and
renders the sky for an observer.

Catalog tiers and their label tables are listed in a JSON manifest.
Use "ls-starfield gen" to write a sample catalog directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, _ := cmd.Flags().GetString("log-level")
		level, err := logging.ParseLevel(s)
		if err != nil {
			return err
		}
		logger = logging.New(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringP("catalog", "c", "catalog/manifest.json", "Catalog manifest")
	rootCmd.PersistentFlags().Int("grid-level", state.DefaultConfig().GridLevel, "Deepest geodesic grid level")
	rootCmd.PersistentFlags().Bool("mmap", false, "Map native-order catalogs instead of reading them")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(hipCmd)
	rootCmd.AddCommand(genCmd)
	rootCmd.AddCommand(skyCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ls-starfield %s (commit %s, built %s)\n", version.Version, commit, date)
	},
}

// openManager builds a manager from the persistent flags and loads the
// manifest. Tier failures are reported but only fatal when nothing loaded.
func openManager(cmd *cobra.Command) (*state.Manager, error) {
	path, _ := cmd.Flags().GetString("catalog")
	gridLevel, _ := cmd.Flags().GetInt("grid-level")
	useMmap, _ := cmd.Flags().GetBool("mmap")

	man, err := state.LoadManifest(path)
	if err != nil {
		return nil, err
	}

	cfg := state.DefaultConfig()
	cfg.GridLevel = gridLevel
	cfg.UseMmap = useMmap
	mgr, err := state.NewManager(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := mgr.Load(man); err != nil {
		if !mgr.HasData() {
			mgr.Close()
			return nil, err
		}
		logger.Warn("some tiers failed to load: %v", err)
	}
	return mgr, nil
}

// epochJD converts an epoch flag in years to a Julian day. Zero means now.
func epochJD(epoch float64) float64 {
	if epoch == 0 {
		return astro.JulianDate(time.Now())
	}
	return astro.J2000 + (epoch-2000)*astro.DaysPerJulianYear
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

var errNotFound = errors.New("not found")
