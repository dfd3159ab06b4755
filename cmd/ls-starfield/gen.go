package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/geodesic"
	"github.com/litescript/ls-starfield/internal/state"
)

// gen command
var genCmd = &cobra.Command{
	Use:   "gen <dir>",
	Short: "Write a sample catalog directory",
	Long: `Write a sample catalog directory: an identifier tier built from the
built-in bright star list, two random faint tiers, the common-name and
spectral type tables, and a manifest listing them.`,
	Args: cobra.ExactArgs(1),
	RunE: runGen,
}

func init() {
	genCmd.Flags().Int("mid", 20000, "Number of random stars in the mid tier")
	genCmd.Flags().Int("lean", 100000, "Number of random stars in the lean tier")
	genCmd.Flags().Uint64("seed", 1, "Random seed")
	genCmd.Flags().Bool("big-endian", false, "Write the identifier tier in big-endian order")
	genCmd.Flags().Bool("compress", false, "Compress the faint tiers with zstd")
}

// spectralTypes is the spectral label table written by gen, hot to cool.
var spectralTypes = []string{
	"O5V", "B0V", "B5V", "A0V", "A5V", "F0V", "F5V", "G0V", "G5V", "K0III", "K5III", "M0III", "M2Iab",
}

// spectralIndex picks a label for a colour index.
func spectralIndex(bv float64) int {
	// B-V at the cool end of each class
	limits := []float64{-0.30, -0.20, -0.10, 0.05, 0.20, 0.35, 0.50, 0.60, 0.75, 1.10, 1.40, 1.70}
	for i, l := range limits {
		if bv < l {
			return i
		}
	}
	return len(spectralTypes) - 1
}

// tierPlan is one tier written by gen.
type tierPlan struct {
	level  int
	layout catalog.Layout
	stars  []catalog.SourceStar
	big    bool
}

func runGen(cmd *cobra.Command, args []string) error {
	dir := args[0]
	nMid, _ := cmd.Flags().GetInt("mid")
	nLean, _ := cmd.Flags().GetInt("lean")
	seed, _ := cmd.Flags().GetUint64("seed")
	bigEndian, _ := cmd.Flags().GetBool("big-endian")
	compress, _ := cmd.Flags().GetBool("compress")

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	r := rand.New(rand.NewPCG(seed, seed^0x5eed))
	plans := []tierPlan{
		{level: 0, layout: catalog.LayoutHip, stars: brightTier(), big: bigEndian},
		{level: 1, layout: catalog.LayoutMid, stars: randomStars(r, nMid, 4.5, 7.5, 60)},
		{level: 2, layout: catalog.LayoutLean, stars: randomStars(r, nLean, 7.5, 10.5, 0)},
	}

	grid, err := geodesic.NewGrid(2)
	if err != nil {
		return err
	}

	man := &state.Manifest{Names: "names.fab", Spectral: "spectral.txt"}
	for _, p := range plans {
		name := fmt.Sprintf("stars_%d_%s.cat", p.level, p.layout)
		if compress && p.layout != catalog.LayoutHip {
			name += catalog.CompressedExt
		}
		cfg := catalog.DefaultWriterConfig(p.level, p.layout)
		if p.big {
			cfg.Order = binary.BigEndian
		}
		n, err := catalog.WriteCatalogFile(filepath.Join(dir, name), grid, cfg, p.stars)
		if err != nil {
			return err
		}
		logger.Info("wrote %s: %d stars", name, n)
		man.Tiers = append(man.Tiers, state.TierSpec{File: name})
	}

	names := make(map[int]string)
	for _, s := range astro.BrightStars() {
		names[s.Hip] = s.Name
	}
	var buf bytes.Buffer
	if err := catalog.WriteCommonNames(&buf, names); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, man.Names), buf.Bytes(), 0o644); err != nil {
		return err
	}
	spectral := strings.Join(spectralTypes, "\n") + "\n"
	if err := os.WriteFile(filepath.Join(dir, man.Spectral), []byte(spectral), 0o644); err != nil {
		return err
	}

	manifestPath := filepath.Join(dir, "manifest.json")
	if err := man.Save(manifestPath); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d tiers to %s\n", len(plans), manifestPath)
	return nil
}

func brightTier() []catalog.SourceStar {
	stars := astro.BrightStars()
	out := make([]catalog.SourceStar, len(stars))
	for i, s := range stars {
		out[i] = catalog.SourceStar{
			Hip:    s.Hip,
			SpInt:  spectralIndex(s.BV),
			RAdeg:  s.RAdeg,
			DecDeg: s.DecDeg,
			PMRA:   s.PMRA,
			PMDec:  s.PMDec,
			Mag:    s.Mag,
			BV:     s.BV,
		}
	}
	return out
}

// randomStars scatters n stars uniformly over the sphere with magnitudes
// in [magLo, magHi) and proper motions up to maxPM mas/yr per axis.
func randomStars(r *rand.Rand, n int, magLo, magHi, maxPM float64) []catalog.SourceStar {
	out := make([]catalog.SourceStar, n)
	for i := range out {
		z := 2*r.Float64() - 1
		out[i] = catalog.SourceStar{
			RAdeg:  360 * r.Float64(),
			DecDeg: math.Asin(z) * 180 / math.Pi,
			PMRA:   maxPM * (2*r.Float64() - 1),
			PMDec:  maxPM * (2*r.Float64() - 1),
			Mag:    magLo + (magHi-magLo)*r.Float64(),
			BV:     -0.2 + 1.9*r.Float64(),
		}
	}
	return out
}
