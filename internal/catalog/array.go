package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/litescript/ls-starfield/internal/astro"
)

// Logger receives load diagnostics. *logging.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...interface{})
	Error(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Error(string, ...interface{}) {}

type options struct {
	logger Logger
	mmap   bool
}

// Option configures Create.
type Option func(*options)

// WithLogger sets the diagnostics sink.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMmap enables mapping the record region of native-order files
// instead of copying it to the heap.
func WithMmap(enabled bool) Option {
	return func(o *options) {
		o.mmap = enabled
	}
}

// ZoneArray is one loaded catalog tier: its zones and the contiguous,
// zone-ordered record run behind them.
//
// A ZoneArray is immutable after Create apart from its hide set. It does
// no locking: concurrent queries are safe, but HideStar/ShowStar and
// Close must not race with them.
type ZoneArray struct {
	path   string
	header Header
	spec   *layoutSpec
	zones  []Zone
	total  int
	scale  float64 // largest gnomonic corner offset
	unit   float64 // tangent-plane length of one fixed-point step
	data   store
	hidden map[int]struct{}
}

// Create loads the catalog at path laid out on grid. Any failure leaves
// nothing allocated, logs one error through the logger and returns a nil
// array; callers treat that tier as unavailable.
func Create(grid Grid, path string, opts ...Option) (*ZoneArray, error) {
	o := options{logger: nopLogger{}}
	for _, opt := range opts {
		opt(&o)
	}

	a, err := load(grid, path, &o)
	if err != nil {
		o.logger.Error("load catalog %s: %v", path, err)
		return nil, err
	}
	o.logger.Debug("loaded catalog %s: level %d, %s layout, %d stars in %d zones (mapped=%t)",
		path, a.header.Level, a.header.Type, a.total, len(a.zones), a.data.Mapped())
	return a, nil
}

func load(grid Grid, path string, o *options) (*ZoneArray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	keepOpen := false
	defer func() {
		if !keepOpen {
			f.Close()
		}
	}()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	src := io.Reader(f)
	size := info.Size()
	mappable := true
	var raw []byte
	if IsCompressed(path) {
		if raw, err = decompress(f); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCompressed, err)
		}
		src, size, mappable = bytes.NewReader(raw), int64(len(raw)), false
	}

	header, order, err := ReadHeader(src)
	if err != nil {
		return nil, err
	}
	level := int(header.Level)
	if !grid.HasLevel(level) {
		return nil, fmt.Errorf("%w: %d", ErrLevel, level)
	}
	spec := &layouts[header.Type]

	zones, scale, err := initZones(grid, level)
	if err != nil {
		return nil, err
	}
	unit := scaleAxes(zones, scale, spec.maxPos)

	total, err := readCounts(src, order, zones)
	if err != nil {
		return nil, err
	}

	bodyOffset := int64(HeaderSize + 4*len(zones))
	need := int64(total) * int64(spec.size)
	if need > math.MaxInt {
		return nil, ErrTooManyStar
	}
	switch body := size - bodyOffset; {
	case body < need:
		return nil, fmt.Errorf("%w: %d record bytes, want %d", ErrShortRead, body, need)
	case body > need:
		return nil, fmt.Errorf("%w: %d bytes for %d %s records of %d bytes",
			ErrRecordSize, body, total, header.Type, spec.size)
	}

	var data store
	switch {
	case raw != nil:
		data = &ownedStore{buf: raw[bodyOffset:]}
	case o.mmap && mmapSupported && mappable && !IsForeign(order) && need > 0:
		data, err = mapRegion(f, bodyOffset, int(need))
		if err != nil {
			o.logger.Debug("catalog %s: %v; reading into memory instead", path, err)
			data = nil
		} else {
			keepOpen = true
		}
	}
	if data == nil {
		owned, err := readOwned(src, int(need))
		if err != nil {
			return nil, err
		}
		data = owned
	}
	// Mapped stores are native-order, so only owned buffers get here
	if IsForeign(order) && spec.swap != nil {
		buf := data.Bytes()
		for off := 0; off < len(buf); off += spec.size {
			spec.swap(buf[off : off+spec.size])
		}
	}

	return &ZoneArray{
		path:   path,
		header: header,
		spec:   spec,
		zones:  zones,
		total:  total,
		scale:  scale,
		unit:   unit,
		data:   data,
		hidden: make(map[int]struct{}),
	}, nil
}

// readCounts reads one star count per zone and assigns each zone its run.
func readCounts(r io.Reader, order binary.ByteOrder, zones []Zone) (int, error) {
	buf := make([]byte, 4*len(zones))
	if _, err := io.ReadFull(r, buf); err != nil {
		return 0, fmt.Errorf("%w: zone counts: %v", ErrShortRead, err)
	}

	total := 0
	for i := range zones {
		n := int(order.Uint32(buf[4*i:]))
		if n < 0 || total > math.MaxInt32-n {
			return 0, ErrTooManyStar
		}
		zones[i].Offset = total
		zones[i].Size = n
		total += n
	}
	return total, nil
}

// Close releases the record memory: it drops the heap buffer or unmaps the
// file. It is safe to call more than once.
func (a *ZoneArray) Close() error {
	if a == nil || a.data == nil {
		return nil
	}
	err := a.data.Close()
	a.data = nil
	a.zones = nil
	a.total = 0
	return err
}

// IsInitialized reports whether the array holds loaded records.
func (a *ZoneArray) IsInitialized() bool {
	return a != nil && a.data != nil
}

// Path returns the file the array was loaded from.
func (a *ZoneArray) Path() string { return a.path }

// Header returns the parsed file header.
func (a *ZoneArray) Header() Header { return a.header }

// Level returns the grid level of the array.
func (a *ZoneArray) Level() int { return int(a.header.Level) }

// Layout returns the record layout of the array.
func (a *ZoneArray) Layout() Layout { return a.header.Type }

// StarCount returns the number of stars in the array.
func (a *ZoneArray) StarCount() int { return a.total }

// ZoneCount returns the number of zones.
func (a *ZoneArray) ZoneCount() int { return len(a.zones) }

// Zone returns zone i, or the zero Zone once the array is closed.
func (a *ZoneArray) Zone(i int) Zone {
	if !a.IsInitialized() {
		return Zone{}
	}
	return a.zones[i]
}

// Mapped reports whether the records are a memory-mapped view.
func (a *ZoneArray) Mapped() bool { return a.data != nil && a.data.Mapped() }

// PositionScale returns the largest gnomonic corner offset over all zones.
func (a *ZoneArray) PositionScale() float64 { return a.scale }

// Record decodes record i of zone z. A closed array yields the zero Record.
func (a *ZoneArray) Record(z, i int) Record {
	if !a.IsInitialized() {
		return Record{}
	}
	off := (a.zones[z].Offset + i) * a.spec.size
	return a.spec.decode(a.data.Bytes()[off : off+a.spec.size])
}

// Direction returns the apparent J2000 direction of record r of zone z at
// Julian day jd, advanced by its proper motion.
func (a *ZoneArray) Direction(z int, r Record, jd float64) astro.Vec3 {
	if !a.IsInitialized() {
		return astro.Vec3{}
	}
	return a.zones[z].direction(&r, a.motionFactor(jd))
}

// Magnitude returns the visual magnitude of a record.
func (a *ZoneArray) Magnitude(r Record) float64 {
	return a.header.Magnitude(r.Mag)
}

func (a *ZoneArray) motionFactor(jd float64) float64 {
	if a.header.Type == LayoutLean {
		return 0
	}
	return motionFactor(jd, a.unit)
}

// ForEach calls fn for every record of zone z in storage order until fn
// returns false. It does nothing on a closed array.
func (a *ZoneArray) ForEach(z int, fn func(i int, r Record) bool) {
	if !a.IsInitialized() {
		return
	}
	zone := &a.zones[z]
	buf := a.data.Bytes()
	size := a.spec.size
	decode := a.spec.decode
	off := zone.Offset * size
	for i := 0; i < zone.Size; i++ {
		if !fn(i, decode(buf[off:off+size])) {
			return
		}
		off += size
	}
}
