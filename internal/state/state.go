// Package state owns the loaded catalog tiers and everything resolved
// against them: the HIP index, label tables, common names and the hide set.
package state

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/geodesic"
	"github.com/litescript/ls-starfield/internal/logging"
	"github.com/litescript/ls-starfield/internal/stringtable"
)

// Label table sizes: the spectral field is 16 bits, the component 8.
const (
	spectralTableSize  = 1 << 16
	componentTableSize = 1 << 8
)

// EventType represents the type of tier event.
type EventType string

const (
	EventTierLoaded   EventType = "TIER_LOADED"
	EventTierFailed   EventType = "TIER_FAILED"
	EventTierUnloaded EventType = "TIER_UNLOADED"
)

// Event records a change to the set of loaded tiers.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Level     int       `json:"level"`
	Stars     int       `json:"stars,omitempty"`
	Err       string    `json:"error,omitempty"`
}

// TierInfo summarizes one loaded tier.
type TierInfo struct {
	Level  int            `json:"level"`
	Layout catalog.Layout `json:"-"`
	Stars  int            `json:"stars"`
	Path   string         `json:"path"`
	Mapped bool           `json:"mapped"`
	MagMin float64        `json:"mag_min"`
	MagMax float64        `json:"mag_max"`
}

// Star is a search or lookup result with its labels resolved.
type Star struct {
	catalog.Found
	Name      string
	Spectral  string
	Component string
}

type hideOp struct {
	hip  int
	show bool
	all  bool
}

// Manager owns the loaded tiers.
//
// The mutex guards the manager's own maps and queues. Zone arrays are not
// locked themselves: queries run under the read lock and hide/show changes
// are queued and applied under the write lock by ApplyPending, so they
// never race with a query.
type Manager struct {
	mu sync.RWMutex

	grid    *geodesic.Grid
	log     *logging.Logger
	useMmap bool
	now     func() time.Time

	tiers  map[int]*catalog.ZoneArray
	hip    *catalog.HipIndex
	hidden map[int]struct{}

	names      map[int]string
	spectral   []string
	components []string

	pending []hideOp

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int
}

// Config holds configuration for the state manager.
type Config struct {
	// GridLevel is the deepest grid level built; tiers above it fail to load.
	GridLevel int
	// UseMmap maps native-order catalogs instead of reading them.
	UseMmap   bool
	MaxEvents int
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		GridLevel: 7,
		UseMmap:   false,
		MaxEvents: 50,
	}
}

// NewManager creates a manager and builds its grid.
func NewManager(cfg Config, log *logging.Logger) (*Manager, error) {
	grid, err := geodesic.NewGrid(cfg.GridLevel)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	return &Manager{
		grid:      grid,
		log:       log,
		useMmap:   cfg.UseMmap,
		now:       time.Now,
		tiers:     make(map[int]*catalog.ZoneArray),
		hip:       catalog.NewHipIndex(),
		hidden:    make(map[int]struct{}),
		names:     make(map[int]string),
		maxEvents: maxEvents,
		events:    make([]Event, 0, maxEvents),
	}, nil
}

// Grid returns the grid tiers are laid out on.
func (m *Manager) Grid() *geodesic.Grid {
	return m.grid
}

// Load loads the label tables and every tier of a manifest. A tier that
// fails to load is logged and skipped; the returned error joins the
// failures of non-optional tiers and is nil when all of them loaded.
func (m *Manager) Load(man *Manifest) error {
	if err := m.loadLabels(man); err != nil {
		return err
	}

	var errs []error
	for _, t := range man.Tiers {
		path := man.Resolve(t.File)
		if t.Optional {
			if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
				m.log.Debug("optional tier %s not present", path)
				continue
			}
		}
		if _, err := m.LoadTier(path); err != nil && !t.Optional {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *Manager) loadLabels(man *Manifest) error {
	enc, err := stringtable.ParseEncoding(man.Encoding)
	if err != nil {
		return err
	}

	var spectral, components []string
	if man.Spectral != "" {
		if spectral, err = stringtable.Load(man.Resolve(man.Spectral), spectralTableSize, enc); err != nil {
			return err
		}
	}
	if man.Components != "" {
		if components, err = stringtable.Load(man.Resolve(man.Components), componentTableSize, enc); err != nil {
			return err
		}
	}
	var names map[int]string
	if man.Names != "" {
		if names, err = catalog.LoadCommonNames(man.Resolve(man.Names), enc); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if spectral != nil {
		m.spectral = spectral
	}
	if components != nil {
		m.components = components
	}
	for hip, name := range names {
		m.names[hip] = name
	}
	return nil
}

// LoadTier loads one catalog file. A tier already loaded at the same level
// is replaced. The current hide set is applied to the new tier.
func (m *Manager) LoadTier(path string) (TierInfo, error) {
	a, err := catalog.Create(m.grid, path,
		catalog.WithLogger(m.log.With("catalog")),
		catalog.WithMmap(m.useMmap))

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.addEvent(Event{Type: EventTierFailed, Timestamp: m.now(), Path: path, Level: -1, Err: err.Error()})
		return TierInfo{}, fmt.Errorf("load tier %s: %w", path, err)
	}

	level := a.Level()
	if old, ok := m.tiers[level]; ok {
		m.unloadLocked(level, old)
	}
	m.tiers[level] = a
	for hip := range m.hidden {
		a.HideStar(hip)
	}
	n := a.UpdateHipIndex(m.hip)

	m.log.Info("tier %d: %d stars from %s (%d newly indexed)", level, a.StarCount(), path, n)
	m.addEvent(Event{Type: EventTierLoaded, Timestamp: m.now(), Path: path, Level: level, Stars: a.StarCount()})
	return tierInfo(a), nil
}

// Unload drops the tier at level. It reports whether one was loaded.
func (m *Manager) Unload(level int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.tiers[level]
	if !ok {
		return false
	}
	m.unloadLocked(level, a)
	return true
}

func (m *Manager) unloadLocked(level int, a *catalog.ZoneArray) {
	delete(m.tiers, level)
	if m.hip.Forget(level) > 0 {
		// numbers the dropped tier shadowed resolve to the tiers still loaded
		for _, l := range m.levelsLocked() {
			m.tiers[l].FillHipIndex(m.hip)
		}
	}
	if err := a.Close(); err != nil {
		m.log.Warn("close tier %d: %v", level, err)
	}
	m.addEvent(Event{Type: EventTierUnloaded, Timestamp: m.now(), Path: a.Path(), Level: level})
}

// Close unloads every tier.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, level := range m.levelsLocked() {
		m.unloadLocked(level, m.tiers[level])
	}
	return nil
}

func (m *Manager) levelsLocked() []int {
	levels := make([]int, 0, len(m.tiers))
	for level := range m.tiers {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	return levels
}

func tierInfo(a *catalog.ZoneArray) TierInfo {
	h := a.Header()
	return TierInfo{
		Level:  a.Level(),
		Layout: a.Layout(),
		Stars:  a.StarCount(),
		Path:   a.Path(),
		Mapped: a.Mapped(),
		MagMin: h.Magnitude(0),
		MagMax: h.Magnitude(uint8(min(h.MagSteps, 255))),
	}
}

// Tiers returns the loaded tiers ordered by level.
func (m *Manager) Tiers() []TierInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]TierInfo, 0, len(m.tiers))
	for _, level := range m.levelsLocked() {
		infos = append(infos, tierInfo(m.tiers[level]))
	}
	return infos
}

// ForEachTier calls fn for every loaded tier in level order while holding
// the read lock. fn must not call back into the manager's mutating methods.
func (m *Manager) ForEachTier(fn func(a *catalog.ZoneArray)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, level := range m.levelsLocked() {
		fn(m.tiers[level])
	}
}

// Search returns every star within radiusDeg of dir at Julian day jd,
// over all tiers, brightest first.
func (m *Manager) Search(dir astro.Vec3, radiusDeg, jd float64) []Star {
	dir = dir.Normalized()
	cosLimit := astro.CosRadius(radiusDeg)

	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []catalog.Found
	for _, level := range m.levelsLocked() {
		a := m.tiers[level]
		inside, border := m.grid.Search(level, dir, cosLimit)
		for _, z := range inside {
			found = a.SearchAround(z, dir, cosLimit, jd, found)
		}
		for _, z := range border {
			found = a.SearchAround(z, dir, cosLimit, jd, found)
		}
	}

	stars := make([]Star, len(found))
	for i, f := range found {
		stars[i] = m.resolveLocked(f)
	}
	slices.SortStableFunc(stars, func(a, b Star) int {
		switch {
		case a.Mag < b.Mag:
			return -1
		case a.Mag > b.Mag:
			return 1
		default:
			return 0
		}
	})
	return stars
}

// StarByHip returns the star with catalog number hip at Julian day jd.
// When several tiers hold the number, the tier loaded last wins; unloading
// it falls back to one of the tiers still loaded. It fails when no loaded
// tier holds the number.
func (m *Manager) StarByHip(hip int, jd float64) (Star, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.hip.Lookup(hip)
	if !ok {
		return Star{}, false
	}
	a, ok := m.tiers[e.Tier]
	if !ok {
		return Star{}, false
	}
	r := a.Record(e.Zone, e.Record)
	return m.resolveLocked(catalog.Found{
		Tier:   e.Tier,
		Zone:   e.Zone,
		Index:  e.Record,
		Record: r,
		Dir:    a.Direction(e.Zone, r, jd),
		Mag:    a.Magnitude(r),
	}), true
}

func (m *Manager) resolveLocked(f catalog.Found) Star {
	s := Star{Found: f}
	if f.Record.Hip != 0 {
		s.Name = m.names[f.Record.Hip]
		s.Spectral = stringtable.Lookup(m.spectral, f.Record.SpInt)
		s.Component = stringtable.Lookup(m.components, f.Record.Component)
	}
	return s
}

// Name returns the common name of hip, or "".
func (m *Manager) Name(hip int) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.names[hip]
}

// NameTable returns a copy of the common-name table, for use where the
// manager's lock is already held, such as inside ForEachTier.
func (m *Manager) NameTable() map[int]string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make(map[int]string, len(m.names))
	for hip, name := range m.names {
		names[hip] = name
	}
	return names
}

// IndexedStars returns the number of entries in the HIP index.
func (m *Manager) IndexedStars() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.hip.Len()
}

// Hide queues hiding hip. It takes effect at the next ApplyPending.
func (m *Manager) Hide(hip int) {
	m.queue(hideOp{hip: hip})
}

// Show queues showing hip again.
func (m *Manager) Show(hip int) {
	m.queue(hideOp{hip: hip, show: true})
}

// ShowAll queues clearing the hide set.
func (m *Manager) ShowAll() {
	m.queue(hideOp{all: true, show: true})
}

func (m *Manager) queue(op hideOp) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, op)
}

// ApplyPending applies queued hide/show requests to every tier, in order.
// Call it at a frame boundary, outside any draw. It returns the number of
// requests applied.
func (m *Manager) ApplyPending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.pending)
	for _, op := range m.pending {
		switch {
		case op.all:
			clear(m.hidden)
		case op.show:
			delete(m.hidden, op.hip)
		default:
			m.hidden[op.hip] = struct{}{}
		}
		for _, a := range m.tiers {
			switch {
			case op.all:
				a.ShowAllStar()
			case op.show:
				a.ShowStar(op.hip)
			default:
				a.HideStar(op.hip)
			}
		}
	}
	m.pending = m.pending[:0]
	return n
}

// Hidden returns the applied hide set in ascending order.
func (m *Manager) Hidden() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	hips := make([]int, 0, len(m.hidden))
	for hip := range m.hidden {
		hips = append(hips, hip)
	}
	sort.Ints(hips)
	return hips
}

// addEvent adds an event to the ring buffer.
func (m *Manager) addEvent(e Event) {
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	// Ring buffer is full, reorder from oldest to newest
	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events.
func (m *Manager) RecentEvents(n int) []Event {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Tiers   []TierInfo
	Indexed int
	Hidden  int
	Pending int
	Names   int
	Events  []Event
	TakenAt time.Time
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	tiers := make([]TierInfo, 0, len(m.tiers))
	for _, level := range m.levelsLocked() {
		tiers = append(tiers, tierInfo(m.tiers[level]))
	}
	return Snapshot{
		Tiers:   tiers,
		Indexed: m.hip.Len(),
		Hidden:  len(m.hidden),
		Pending: len(m.pending),
		Names:   len(m.names),
		Events:  m.getEventsOrdered(),
		TakenAt: m.now(),
	}
}

// HasData reports whether at least one tier is loaded.
func (m *Manager) HasData() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiers) > 0
}
