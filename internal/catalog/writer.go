package catalog

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"github.com/litescript/ls-starfield/internal/astro"
)

// ErrHipRange is returned when a source star's catalog number does not fit
// the 24-bit identifier field.
var ErrHipRange = errors.New("catalog number does not fit the identifier field")

// ZoneLocator is a Grid that can also find the zone containing a direction.
// *geodesic.Grid satisfies it.
type ZoneLocator interface {
	Grid
	ZoneOf(level int, v astro.Vec3) int
}

// SourceStar is one input star for WriteCatalog, in J2000 coordinates.
type SourceStar struct {
	Hip         int
	Component   int
	SpInt       int
	RAdeg       float64
	DecDeg      float64
	PMRA        float64 // mas/yr, includes cos(dec)
	PMDec       float64 // mas/yr
	Mag         float64
	BV          float64
	ParallaxMas float64
}

// WriterConfig selects the encoding of a written catalog.
type WriterConfig struct {
	Level  int
	Layout Layout
	// Order is the byte order of the file. Big-endian output is read back
	// through the foreign-magic swap path.
	Order binary.ByteOrder
	// Swapped marks little-endian output with MagicSwapped.
	Swapped  bool
	Minor    uint32
	MagMin   int32 // milli-magnitudes
	MagRange uint32
	MagSteps uint32
}

// DefaultWriterConfig returns a little-endian configuration whose
// magnitude scale covers -2 to 12.
func DefaultWriterConfig(level int, layout Layout) WriterConfig {
	steps := uint32(layouts[layout].maxMag)
	return WriterConfig{
		Level:    level,
		Layout:   layout,
		Order:    binary.LittleEndian,
		MagMin:   -2000,
		MagRange: 14000,
		MagSteps: steps,
	}
}

func (c WriterConfig) header() Header {
	magic := MagicNative
	if c.Swapped && !IsForeign(c.order()) {
		magic = MagicSwapped
	}
	return Header{
		Magic:    magic,
		Type:     c.Layout,
		Minor:    c.Minor,
		Level:    uint32(c.Level),
		MagMin:   c.MagMin,
		MagRange: c.MagRange,
		MagSteps: c.MagSteps,
	}
}

func (c WriterConfig) order() binary.ByteOrder {
	if c.Order == nil {
		return binary.LittleEndian
	}
	return c.Order
}

// WriteCatalog encodes stars into a catalog laid out on grid and writes it
// to w. Stars are bucketed by zone and stored brightest first within each
// zone. Values beyond a layout's range are clamped. It returns the number
// of records written.
func WriteCatalog(w io.Writer, grid ZoneLocator, cfg WriterConfig, stars []SourceStar) (int, error) {
	if !cfg.Layout.valid() {
		return 0, fmt.Errorf("%w: %d", ErrRecordType, uint32(cfg.Layout))
	}
	if !grid.HasLevel(cfg.Level) {
		return 0, fmt.Errorf("%w: %d", ErrLevel, cfg.Level)
	}
	h := cfg.header()
	if err := h.validate(); err != nil {
		return 0, err
	}
	spec := &layouts[cfg.Layout]
	order := cfg.order()

	zones, scale, err := initZones(grid, cfg.Level)
	if err != nil {
		return 0, err
	}
	unit := positionUnit(scale, spec.maxPos)

	buckets := make([][]Record, len(zones))
	mags := make([][]float64, len(zones))
	for i := range stars {
		s := &stars[i]
		if cfg.Layout.HasIdentifier() && (s.Hip < 0 || s.Hip > 0xffffff) {
			return 0, fmt.Errorf("%w: %d", ErrHipRange, s.Hip)
		}
		v := astro.FromRADec(s.RAdeg, s.DecDeg)
		z := grid.ZoneOf(cfg.Level, v)
		r := encodeStar(&zones[z], s, v, unit, spec, h)
		buckets[z] = append(buckets[z], r)
		mags[z] = append(mags[z], s.Mag)
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(encodeHeader(h, order)); err != nil {
		return 0, err
	}
	word := make([]byte, 4)
	for z := range zones {
		sortBrightestFirst(buckets[z], mags[z])
		order.PutUint32(word, uint32(len(buckets[z])))
		if _, err := bw.Write(word); err != nil {
			return 0, err
		}
	}

	rec := make([]byte, spec.size)
	n := 0
	for z := range zones {
		for _, r := range buckets[z] {
			clear(rec)
			spec.encode(rec, r)
			if IsForeign(order) && spec.swap != nil {
				spec.swap(rec)
			}
			if _, err := bw.Write(rec); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, bw.Flush()
}

// WriteCatalogFile writes a catalog to path, replacing any existing file.
// A path ending in CompressedExt is written zstd-compressed.
func WriteCatalogFile(path string, grid ZoneLocator, cfg WriterConfig, stars []SourceStar) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	var w io.Writer = f
	var zw io.WriteCloser
	if IsCompressed(path) {
		if zw, err = compressWriter(f); err != nil {
			f.Close()
			return 0, err
		}
		w = zw
	}
	n, err := WriteCatalog(w, grid, cfg, stars)
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write catalog %s: %w", path, err)
	}
	return n, nil
}

// encodeStar quantizes one star against its zone's unit-axis frame.
func encodeStar(zone *Zone, s *SourceStar, v astro.Vec3, unit float64, spec *layoutSpec, h Header) Record {
	c := v.Dot(zone.Center)
	g0 := v.Dot(zone.Axis0) / c
	g1 := v.Dot(zone.Axis1) / c
	r := Record{
		X0:  clampFixed(g0/unit, spec.maxPos),
		X1:  clampFixed(g1/unit, spec.maxPos),
		BV:  BVIndex(s.BV),
		Mag: h.MagnitudeIndex(s.Mag, spec.maxMag),
	}
	if spec.maxDX > 0 {
		// Rate of change of the gnomonic coordinates, so that the linear
		// advance done on load matches the true motion at the epoch.
		m := motionVector(s)
		mc := m.Dot(zone.Center) / c
		// mas/yr to 0.1 mas/yr
		r.DX0 = clampFixed((m.Dot(zone.Axis0)/c-g0*mc)*10, spec.maxDX)
		r.DX1 = clampFixed((m.Dot(zone.Axis1)/c-g1*mc)*10, spec.maxDX)
	}
	if h.Type.HasIdentifier() {
		r.Hip = s.Hip
		r.Component = s.Component & 0xff
		r.SpInt = s.SpInt & 0xffff
		r.Plx = clampFixed(s.ParallaxMas*100, math.MaxInt32)
	}
	return r
}

// motionVector returns the proper motion of s as a tangent vector in mas/yr.
func motionVector(s *SourceStar) astro.Vec3 {
	ra := s.RAdeg * math.Pi / 180
	dec := s.DecDeg * math.Pi / 180
	east := astro.Vec3{X: -math.Sin(ra), Y: math.Cos(ra)}
	north := astro.Vec3{
		X: -math.Sin(dec) * math.Cos(ra),
		Y: -math.Sin(dec) * math.Sin(ra),
		Z: math.Cos(dec),
	}
	return east.Scale(s.PMRA).Add(north.Scale(s.PMDec))
}

func clampFixed(x float64, max int32) int32 {
	x = math.Round(x)
	if x > float64(max) {
		return max
	}
	if x < -float64(max) {
		return -max
	}
	return int32(x)
}

func sortBrightestFirst(recs []Record, mags []float64) {
	idx := make([]int, len(recs))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case mags[a] < mags[b]:
			return -1
		case mags[a] > mags[b]:
			return 1
		default:
			return 0
		}
	})
	sorted := make([]Record, len(recs))
	for i, j := range idx {
		sorted[i] = recs[j]
	}
	copy(recs, sorted)
}
