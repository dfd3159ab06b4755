package ui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/state"
)

var (
	testObserver = astro.Observer{LatDeg: 40, LonDeg: -75, Name: "test"}
	testTime     = time.Date(2025, 1, 1, 3, 0, 0, 0, time.UTC)
)

// testStarHip sits at az 190, el 48 for testObserver at testTime.
const testStarHip = 1000

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// newTestManager loads one identifier tier holding a bright star in the
// default view and a faint one below the horizon.
func newTestManager(t *testing.T) *state.Manager {
	t.Helper()
	cfg := state.DefaultConfig()
	cfg.GridLevel = 3
	mgr, err := state.NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	frame := astro.NewHorizontalFrame(testObserver, testTime)
	up := frame.HorizontalToEquatorial(astro.HorizontalVector(190, 48))
	down := frame.HorizontalToEquatorial(astro.HorizontalVector(20, -50))
	upRA, upDec := up.RADec()
	downRA, downDec := down.RADec()

	stars := []catalog.SourceStar{
		{Hip: testStarHip, RAdeg: upRA, DecDeg: upDec, Mag: 0.5, BV: 0.6},
		{Hip: testStarHip + 1, RAdeg: downRA, DecDeg: downDec, Mag: 3.5, BV: 1.2},
	}
	path := filepath.Join(t.TempDir(), "hip-0.cat")
	if _, err := catalog.WriteCatalogFile(path, mgr.Grid(), catalog.DefaultWriterConfig(0, catalog.LayoutHip), stars); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	if _, err := mgr.LoadTier(path); err != nil {
		t.Fatalf("LoadTier: %v", err)
	}
	return mgr
}

func newTestSkyView(t *testing.T) (SkyViewModel, *state.Manager) {
	t.Helper()
	mgr := newTestManager(t)
	m := NewSkyViewModel(mgr, testObserver).SetTime(testTime).SetSize(100, 40)
	return m, mgr
}
