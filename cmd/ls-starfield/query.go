package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/state"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135"))

// info command
var infoCmd = &cobra.Command{
	Use:   "info [file.cat ...]",
	Short: "Show catalog tiers or file headers",
	Long: `Without arguments, load the manifest and list its tiers.
With arguments, print the header of each catalog file without loading it.`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().Bool("json", false, "Output JSON")
}

// fileInfo is the header summary printed for a single catalog file.
type fileInfo struct {
	Path     string  `json:"path"`
	Layout   string  `json:"layout"`
	Version  string  `json:"version"`
	Level    uint32  `json:"level"`
	Foreign  bool    `json:"foreign"`
	MagMin   float64 `json:"mag_min"`
	MagMax   float64 `json:"mag_max"`
	MagSteps uint32  `json:"mag_steps"`
}

func readFileInfo(path string) (fileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return fileInfo{}, err
	}
	defer f.Close()

	h, order, err := catalog.ReadHeader(f)
	if err != nil {
		return fileInfo{}, fmt.Errorf("%s: %w", path, err)
	}
	return fileInfo{
		Path:     path,
		Layout:   h.Type.String(),
		Version:  fmt.Sprintf("%d.%d", h.Major, h.Minor),
		Level:    h.Level,
		Foreign:  catalog.IsForeign(order),
		MagMin:   h.Magnitude(0),
		MagMax:   float64(h.MagMin+int32(h.MagRange)) / 1000,
		MagSteps: h.MagSteps,
	}, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	out := cmd.OutOrStdout()

	if len(args) > 0 {
		infos := make([]fileInfo, 0, len(args))
		for _, path := range args {
			info, err := readFileInfo(path)
			if err != nil {
				return err
			}
			infos = append(infos, info)
		}
		if asJSON {
			return writeJSON(out, infos)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("File", "Layout", "Version", "Level", "Order", "Magnitudes")
		for _, info := range infos {
			order := "native"
			if info.Foreign {
				order = "foreign"
			}
			t.Row(filepath.Base(info.Path), info.Layout, info.Version,
				strconv.Itoa(int(info.Level)), order,
				fmt.Sprintf("%.2f..%.2f / %d", info.MagMin, info.MagMax, info.MagSteps))
		}
		fmt.Fprintln(out, t.Render())
		return nil
	}

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer mgr.Close()

	snap := mgr.Snapshot()
	if asJSON {
		return writeJSON(out, struct {
			Tiers   []state.TierInfo `json:"tiers"`
			Indexed int              `json:"indexed"`
			Names   int              `json:"names"`
			Events  []state.Event    `json:"events"`
		}{snap.Tiers, snap.Indexed, snap.Names, snap.Events})
	}

	total := 0
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Level", "Layout", "Stars", "Magnitudes", "Mapped", "File")
	for _, ti := range snap.Tiers {
		total += ti.Stars
		t.Row(strconv.Itoa(ti.Level), ti.Layout.String(), strconv.Itoa(ti.Stars),
			fmt.Sprintf("%.2f..%.2f", ti.MagMin, ti.MagMax),
			strconv.FormatBool(ti.Mapped), filepath.Base(ti.Path))
	}
	fmt.Fprintln(out, t.Render())
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d stars in %d tiers, %d identified, %d named",
		total, len(snap.Tiers), snap.Indexed, snap.Names)))
	return nil
}

// search command
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "List stars within a radius of a position",
	Long: `List every star within --radius degrees of (--ra, --dec), brightest
first, at the given epoch.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Float64("ra", 0, "Right ascension in degrees (J2000)")
	searchCmd.Flags().Float64("dec", 0, "Declination in degrees (J2000)")
	searchCmd.Flags().Float64P("radius", "r", 1, "Search radius in degrees")
	searchCmd.Flags().Float64("epoch", 0, "Epoch in years, e.g. 2100.5 (default: now)")
	searchCmd.Flags().IntP("limit", "n", 25, "Maximum number of stars (0 for all)")
	searchCmd.Flags().Bool("json", false, "Output JSON")
}

// starJSON is the JSON form of a search or lookup result.
type starJSON struct {
	Hip       int     `json:"hip,omitempty"`
	Name      string  `json:"name,omitempty"`
	Spectral  string  `json:"spectral,omitempty"`
	Component string  `json:"component,omitempty"`
	RAdeg     float64 `json:"ra"`
	DecDeg    float64 `json:"dec"`
	Mag       float64 `json:"mag"`
	BV        float64 `json:"bv"`
	Tier      int     `json:"tier"`
	Zone      int     `json:"zone"`
}

func toJSON(s state.Star) starJSON {
	ra, dec := s.Dir.RADec()
	return starJSON{
		Hip:       s.Record.Hip,
		Name:      s.Name,
		Spectral:  s.Spectral,
		Component: s.Component,
		RAdeg:     ra,
		DecDeg:    dec,
		Mag:       s.Mag,
		BV:        catalog.ColorIndex(s.Record.BV),
		Tier:      s.Tier,
		Zone:      s.Zone,
	}
}

func starTable(stars []state.Star) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("HIP", "Name", "RA", "Dec", "Mag", "B-V", "Sp", "Tier")
	for _, s := range stars {
		j := toJSON(s)
		hip := ""
		if j.Hip != 0 {
			hip = strconv.Itoa(j.Hip)
		}
		t.Row(hip, j.Name,
			fmt.Sprintf("%.4f", j.RAdeg), fmt.Sprintf("%+.4f", j.DecDeg),
			fmt.Sprintf("%.2f", j.Mag), fmt.Sprintf("%.2f", j.BV),
			j.Spectral, strconv.Itoa(j.Tier))
	}
	return t
}

func runSearch(cmd *cobra.Command, args []string) error {
	ra, _ := cmd.Flags().GetFloat64("ra")
	dec, _ := cmd.Flags().GetFloat64("dec")
	radius, _ := cmd.Flags().GetFloat64("radius")
	epoch, _ := cmd.Flags().GetFloat64("epoch")
	limit, _ := cmd.Flags().GetInt("limit")
	asJSON, _ := cmd.Flags().GetBool("json")

	if radius <= 0 || radius > 180 {
		return fmt.Errorf("radius must be in (0, 180], got %g", radius)
	}
	if dec < -90 || dec > 90 {
		return fmt.Errorf("declination must be in [-90, 90], got %g", dec)
	}

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer mgr.Close()

	stars := mgr.Search(astro.FromRADec(ra, dec), radius, epochJD(epoch))
	if limit > 0 && len(stars) > limit {
		stars = stars[:limit]
	}

	out := cmd.OutOrStdout()
	if asJSON {
		results := make([]starJSON, len(stars))
		for i, s := range stars {
			results[i] = toJSON(s)
		}
		return writeJSON(out, results)
	}
	if len(stars) == 0 {
		fmt.Fprintln(out, "no stars found")
		return nil
	}
	fmt.Fprintln(out, starTable(stars).Render())
	return nil
}

// hip command
var hipCmd = &cobra.Command{
	Use:   "hip <number>",
	Short: "Look up a star by Hipparcos number",
	Args:  cobra.ExactArgs(1),
	RunE:  runHip,
}

func init() {
	hipCmd.Flags().Float64("epoch", 0, "Epoch in years (default: now)")
	hipCmd.Flags().Bool("json", false, "Output JSON")
}

func runHip(cmd *cobra.Command, args []string) error {
	hip, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid Hipparcos number %q", args[0])
	}
	epoch, _ := cmd.Flags().GetFloat64("epoch")
	asJSON, _ := cmd.Flags().GetBool("json")

	mgr, err := openManager(cmd)
	if err != nil {
		return err
	}
	defer mgr.Close()

	s, ok := mgr.StarByHip(hip, epochJD(epoch))
	if !ok {
		return fmt.Errorf("HIP %d: %w", hip, errNotFound)
	}
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), toJSON(s))
	}
	fmt.Fprintln(cmd.OutOrStdout(), starTable([]state.Star{s}).Render())
	return nil
}
