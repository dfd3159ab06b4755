package catalog

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/litescript/ls-starfield/internal/astro"
)

var allLayouts = []Layout{LayoutHip, LayoutMid, LayoutLean}

func TestCreate_CountsMatchRecords(t *testing.T) {
	stars := brightSources()
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, layout), stars))

			if !a.IsInitialized() {
				t.Fatal("array not initialized")
			}
			if a.ZoneCount() != 80 {
				t.Errorf("ZoneCount = %d, want 80", a.ZoneCount())
			}
			sum := 0
			next := 0
			for z := 0; z < a.ZoneCount(); z++ {
				zone := a.Zone(z)
				if zone.Offset != next {
					t.Errorf("zone %d offset = %d, want %d", z, zone.Offset, next)
				}
				next += zone.Size
				sum += zone.Size
			}
			if sum != a.StarCount() || sum != len(stars) {
				t.Errorf("sum(counts) = %d, StarCount = %d, stars = %d", sum, a.StarCount(), len(stars))
			}
			if got := len(allRecords(a)); got != len(stars) {
				t.Errorf("decoded %d records, want %d", got, len(stars))
			}
			if a.Layout() != layout || a.Level() != 1 {
				t.Errorf("layout/level = %s/%d", a.Layout(), a.Level())
			}
		})
	}
}

func TestCreate_PairScenario(t *testing.T) {
	body := make([]byte, 8*6)
	for i := 0; i < 8; i++ {
		encodeLean(body[i*6:], Record{X0: int32(i * 100), X1: -int32(i), Mag: uint8(i), BV: uint8(10 + i)})
	}
	path := rawCatalog(t, leanHeader(), binary.LittleEndian, []uint32{3, 5}, body)

	a, err := Create(pairGrid{}, path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()

	if a.StarCount() != 8 {
		t.Fatalf("StarCount = %d, want 8", a.StarCount())
	}
	z0, z1 := a.Zone(0), a.Zone(1)
	if z0.Offset != 0 || z0.Size != 3 || z1.Offset != 3 || z1.Size != 5 {
		t.Fatalf("zones = {%d,%d} {%d,%d}, want {0,3} {3,5}", z0.Offset, z0.Size, z1.Offset, z1.Size)
	}
	for i := 0; i < 3; i++ {
		if r := a.Record(0, i); int(r.Mag) != i || r.X0 != int32(i*100) {
			t.Errorf("zone 0 record %d = %+v", i, r)
		}
	}
	for i := 0; i < 5; i++ {
		if r := a.Record(1, i); int(r.Mag) != 3+i || r.X1 != -int32(3+i) {
			t.Errorf("zone 1 record %d = %+v", i, r)
		}
	}
}

func TestRoundTrip_Quantization(t *testing.T) {
	stars := brightSources()
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			a := mustCreate(t, writeFixture(t, DefaultWriterConfig(2, layout), stars))
			unit := positionUnit(a.PositionScale(), layout.MaxPos())
			byHip := make(map[int]SourceStar, len(stars))
			for _, s := range stars {
				byHip[s.Hip] = s
			}

			n := 0
			for z := 0; z < a.ZoneCount(); z++ {
				zone := a.Zone(z)
				a.ForEach(z, func(i int, r Record) bool {
					d := a.Direction(z, r, astro.J2000)

					// re-project onto the scaled axes: d.Axis = unit * gnomonic * (d.Center)
					c := d.Dot(zone.Center)
					x0 := d.Dot(zone.Axis0) / c / (unit * unit)
					x1 := d.Dot(zone.Axis1) / c / (unit * unit)
					if math.Abs(x0-float64(r.X0)) > 0.01 || math.Abs(x1-float64(r.X1)) > 0.01 {
						t.Errorf("zone %d record %d: reprojected (%.3f, %.3f), stored (%d, %d)",
							z, i, x0, x1, r.X0, r.X1)
					}
					n++
					return true
				})
			}
			if n != len(stars) {
				t.Errorf("visited %d stars, want %d", n, len(stars))
			}

			// the identifier layout lets us match each record to its source
			if layout != LayoutHip {
				return
			}
			tol := 2 * unit * 180 / math.Pi
			for z := 0; z < a.ZoneCount(); z++ {
				a.ForEach(z, func(_ int, r Record) bool {
					s := byHip[r.Hip]
					want := astro.FromRADec(s.RAdeg, s.DecDeg)
					if sep := astro.AngularSeparation(a.Direction(z, r, astro.J2000), want); sep > tol {
						t.Errorf("hip %d: %.3g deg from source, tolerance %.3g", r.Hip, sep, tol)
					}
					return true
				})
			}
		})
	}
}

func TestZoneContainment(t *testing.T) {
	g := testGrid()
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			a := mustCreate(t, writeFixture(t, DefaultWriterConfig(2, layout), brightSources()))
			for z := 0; z < a.ZoneCount(); z++ {
				limit := g.CosHalfRadius(2, z) - 1e-6
				center := a.Zone(z).Center
				a.ForEach(z, func(i int, r Record) bool {
					if got := a.Direction(z, r, astro.J2000).Dot(center); got < limit {
						t.Errorf("zone %d record %d: cos to center %.9f < %.9f", z, i, got, limit)
					}
					return true
				})
			}
		})
	}
}

func TestByteSwapIdempotence(t *testing.T) {
	stars := brightSources()
	for _, layout := range allLayouts {
		t.Run(layout.String(), func(t *testing.T) {
			native := DefaultWriterConfig(1, layout)
			foreign := native
			foreign.Order = binary.BigEndian
			swapped := native
			swapped.Swapped = true

			want := mustCreate(t, writeFixture(t, native, stars))
			for name, cfg := range map[string]WriterConfig{"foreign": foreign, "swapped": swapped} {
				got := mustCreate(t, writeFixture(t, cfg, stars))
				if got.StarCount() != want.StarCount() {
					t.Fatalf("%s: StarCount = %d, want %d", name, got.StarCount(), want.StarCount())
				}
				hg, hw := got.Header(), want.Header()
				hg.Magic, hw.Magic = 0, 0
				if hg != hw {
					t.Errorf("%s: header = %+v, want %+v", name, hg, hw)
				}
				gr, wr := allRecords(got), allRecords(want)
				for i := range wr {
					if gr[i] != wr[i] {
						t.Errorf("%s: record %d = %+v, want %+v", name, i, gr[i], wr[i])
					}
				}
				for z := 0; z < want.ZoneCount(); z++ {
					if got.Zone(z) != want.Zone(z) {
						t.Errorf("%s: zone %d differs", name, z)
					}
				}
			}
		})
	}
}

func TestCreate_BadMagic(t *testing.T) {
	h := leanHeader()
	h.Magic = 0xdeadbeef
	path := rawCatalog(t, h, binary.LittleEndian, []uint32{0, 0}, nil)

	log := &recordingLogger{}
	a, err := Create(pairGrid{}, path, WithLogger(log))
	if a != nil {
		t.Error("Create returned an array for a bad magic")
	}
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("err = %v, want ErrBadMagic", err)
	}
	if len(log.errors) != 1 {
		t.Errorf("logged %d errors, want exactly 1", len(log.errors))
	}
}

func TestCreate_Errors(t *testing.T) {
	leanBody := func(n int) []byte { return make([]byte, 6*n) }
	mod := func(f func(*Header)) Header {
		h := leanHeader()
		f(&h)
		return h
	}

	tests := []struct {
		name   string
		header Header
		counts []uint32
		body   []byte
		want   error
	}{
		{"major version", mod(func(h *Header) { h.Major = MaxMajorVersion + 1 }), []uint32{1, 0}, leanBody(1), ErrVersion},
		{"record type", mod(func(h *Header) { h.Type = 7 }), []uint32{1, 0}, leanBody(1), ErrRecordType},
		{"level", mod(func(h *Header) { h.Level = 3 }), []uint32{1, 0}, leanBody(1), ErrLevel},
		{"magnitude steps", mod(func(h *Header) { h.MagSteps = 0 }), []uint32{1, 0}, leanBody(1), ErrHeader},
		{"short body", leanHeader(), []uint32{2, 2}, leanBody(3), ErrShortRead},
		{"missing counts", leanHeader(), []uint32{1}, nil, ErrShortRead},
		{"record size mismatch", leanHeader(), []uint32{2, 1}, leanBody(4), ErrRecordSize},
		{"odd trailing bytes", leanHeader(), []uint32{1, 0}, make([]byte, 10), ErrRecordSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := rawCatalog(t, tt.header, binary.LittleEndian, tt.counts, tt.body)
			log := &recordingLogger{}
			a, err := Create(pairGrid{}, path, WithLogger(log))
			if a != nil {
				t.Error("Create returned an array")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(log.errors) != 1 {
				t.Errorf("logged %d errors, want 1", len(log.errors))
			}
		})
	}
}

func TestCreate_MissingFile(t *testing.T) {
	_, err := Create(pairGrid{}, filepath.Join(t.TempDir(), "absent.cat"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestCreate_EmptyCatalog(t *testing.T) {
	path := rawCatalog(t, leanHeader(), binary.LittleEndian, []uint32{0, 0}, nil)
	a, err := Create(pairGrid{}, path, WithMmap(true))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()
	if a.StarCount() != 0 || !a.IsInitialized() || a.Mapped() {
		t.Errorf("empty catalog: count %d init %t mapped %t", a.StarCount(), a.IsInitialized(), a.Mapped())
	}
}

func TestClose(t *testing.T) {
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(0, LayoutMid), brightSources()))
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.IsInitialized() || a.StarCount() != 0 {
		t.Error("array still initialized after Close")
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	var nilArray *ZoneArray
	if nilArray.IsInitialized() || nilArray.Close() != nil {
		t.Error("nil array should be uninitialized and close cleanly")
	}
}

func TestClosedArrayQueries(t *testing.T) {
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(0, LayoutHip), brightSources()))
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if z := a.Zone(0); z != (Zone{}) {
		t.Errorf("Zone(0) = %+v, want zero", z)
	}
	if r := a.Record(0, 0); r != (Record{}) {
		t.Errorf("Record(0, 0) = %+v, want zero", r)
	}
	calls := 0
	a.ForEach(0, func(int, Record) bool {
		calls++
		return true
	})
	if calls != 0 {
		t.Errorf("ForEach made %d calls on a closed array", calls)
	}
	if got := a.SearchAround(0, astro.FromRADec(0, 0), -1, astro.J2000, nil); len(got) != 0 {
		t.Errorf("SearchAround found %d stars", len(got))
	}
	if n := a.Draw(0, true, DrawParams{}); n != 0 {
		t.Errorf("Draw painted %d stars", n)
	}
	if n := a.UpdateHipIndex(NewHipIndex()); n != 0 {
		t.Errorf("UpdateHipIndex added %d entries", n)
	}
}

func TestForEach_Stops(t *testing.T) {
	body := make([]byte, 5*6)
	path := rawCatalog(t, leanHeader(), binary.LittleEndian, []uint32{5, 0}, body)
	a, err := Create(pairGrid{}, path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	defer a.Close()

	calls := 0
	a.ForEach(0, func(i int, _ Record) bool {
		calls++
		return i < 1
	})
	if calls != 2 {
		t.Errorf("ForEach made %d calls, want 2", calls)
	}
}

func TestMotionFactor(t *testing.T) {
	// 500 mas/yr fits the mid layout's motion field unclamped
	stars := []SourceStar{{Hip: 1, RAdeg: 101.287, DecDeg: -16.716, PMRA: -300, PMDec: -400, Mag: 1}}

	tests := []struct {
		layout Layout
		moves  bool
	}{
		{LayoutHip, true},
		{LayoutMid, true},
		{LayoutLean, false},
	}

	jd := astro.J2000 + 100*astro.DaysPerJulianYear
	for _, tt := range tests {
		t.Run(tt.layout.String(), func(t *testing.T) {
			a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, tt.layout), stars))
			z := firstNonEmpty(a)
			r := a.Record(z, 0)
			then := a.Direction(z, r, astro.J2000)
			now := a.Direction(z, r, jd)
			moved := astro.AngularSeparation(then, now) * 3600
			if tt.moves && math.Abs(moved-50) > 0.5 {
				t.Errorf("moved %.2f arcsec in a century, want 50", moved)
			}
			if !tt.moves && moved != 0 {
				t.Errorf("lean record moved %.3g arcsec", moved)
			}
		})
	}
}
