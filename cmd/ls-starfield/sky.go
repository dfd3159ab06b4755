package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/ui"
)

var errNoTerminal = errors.New("sky needs an interactive terminal")

// sky command
var skyCmd = &cobra.Command{
	Use:   "sky",
	Short: "Show the sky for an observer",
	Long: `Render the loaded tiers as seen by an observer at --lat/--lon.

Keys: arrows pan, c centers the brightest nearby star, x hides the
brightest identified star near the center, a shows all stars again,
r toggles refraction, n cycles labels, +/- change the limiting
magnitude, [ and ] shift the epoch by a thousand years.`,
	Args: cobra.NoArgs,
	RunE: runSky,
}

func init() {
	skyCmd.Flags().Float64("lat", 51.48, "Observer latitude in degrees (north positive)")
	skyCmd.Flags().Float64("lon", 0, "Observer longitude in degrees (east positive)")
}

func runSky(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNoTerminal
	}
	lat, _ := cmd.Flags().GetFloat64("lat")
	lon, _ := cmd.Flags().GetFloat64("lon")

	// The TUI owns the screen; keep diagnostics out of it
	logger.SetOutput(io.Discard)

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer mgr.Close()

	return ui.Run(mgr, astro.Observer{LatDeg: lat, LonDeg: lon})
}
