package catalog

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/geodesic"
)

var (
	gridOnce sync.Once
	grid     *geodesic.Grid
)

func testGrid() *geodesic.Grid {
	gridOnce.Do(func() {
		grid = geodesic.MustGrid(3)
	})
	return grid
}

// brightSources converts the built-in bright star list to writer input.
func brightSources() []SourceStar {
	stars := astro.BrightStars()
	out := make([]SourceStar, len(stars))
	for i, s := range stars {
		out[i] = SourceStar{
			Hip:         s.Hip,
			RAdeg:       s.RAdeg,
			DecDeg:      s.DecDeg,
			PMRA:        s.PMRA,
			PMDec:       s.PMDec,
			Mag:         s.Mag,
			BV:          s.BV,
			SpInt:       i % 7,
			ParallaxMas: 10,
		}
	}
	return out
}

// writeFixture writes stars with cfg into a temp file and returns its path.
func writeFixture(t *testing.T, cfg WriterConfig, stars []SourceStar) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stars.cat")
	n, err := WriteCatalogFile(path, testGrid(), cfg, stars)
	if err != nil {
		t.Fatalf("WriteCatalogFile: %v", err)
	}
	if n != len(stars) {
		t.Fatalf("wrote %d records, want %d", n, len(stars))
	}
	return path
}

func mustCreate(t *testing.T, path string, opts ...Option) *ZoneArray {
	t.Helper()
	a, err := Create(testGrid(), path, opts...)
	if err != nil {
		t.Fatalf("Create(%s): %v", path, err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

// recordingLogger counts log calls by level.
type recordingLogger struct {
	debug  []string
	errors []string
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.debug = append(l.debug, format)
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.errors = append(l.errors, format)
}

// pairGrid is a two-zone grid on the celestial equator.
type pairGrid struct{}

func (pairGrid) HasLevel(level int) bool { return level == 0 }
func (pairGrid) ZoneCount(int) int       { return 2 }

func (pairGrid) Corners(level, zone int) (c0, c1, c2 astro.Vec3) {
	ra := float64(zone) * 40
	return astro.FromRADec(ra, -10), astro.FromRADec(ra+20, -10), astro.FromRADec(ra+10, 10)
}

// rawCatalog hand-assembles a catalog file.
func rawCatalog(t *testing.T, h Header, order binary.ByteOrder, counts []uint32, body []byte) string {
	t.Helper()
	buf := encodeHeader(h, order)
	word := make([]byte, 4)
	for _, c := range counts {
		order.PutUint32(word, c)
		buf = append(buf, word...)
	}
	buf = append(buf, body...)

	path := filepath.Join(t.TempDir(), "raw.cat")
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func leanHeader() Header {
	return Header{
		Magic:    MagicNative,
		Type:     LayoutLean,
		MagMin:   -2000,
		MagRange: 14000,
		MagSteps: 31,
	}
}

// allRecords decodes every record of an array, zone by zone.
func allRecords(a *ZoneArray) []Record {
	var out []Record
	for z := 0; z < a.ZoneCount(); z++ {
		a.ForEach(z, func(_ int, r Record) bool {
			out = append(out, r)
			return true
		})
	}
	return out
}

func firstNonEmpty(a *ZoneArray) int {
	for z := 0; z < a.ZoneCount(); z++ {
		if a.Zone(z).Size > 0 {
			return z
		}
	}
	return -1
}
