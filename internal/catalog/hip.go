package catalog

import "fmt"

// NrOfHip is the largest Hipparcos catalogue number.
const NrOfHip = 120416

// HipEntry locates one identified star: the tier (grid level) of the
// array holding it, its zone and its index within the zone.
type HipEntry struct {
	Tier   int
	Zone   int
	Record int
}

// HipIndex maps Hipparcos numbers to storage locations. It holds handles
// only; resolving an entry needs the array for its tier, so unloading a
// tier cannot leave a dangling reference.
type HipIndex struct {
	entries []HipEntry
	set     []bool
	n       int
}

// NewHipIndex returns an empty index covering 1..NrOfHip.
func NewHipIndex() *HipIndex {
	return &HipIndex{
		entries: make([]HipEntry, NrOfHip+1),
		set:     make([]bool, NrOfHip+1),
	}
}

// Lookup returns the entry for hip.
func (x *HipIndex) Lookup(hip int) (HipEntry, bool) {
	if hip <= 0 || hip > NrOfHip || !x.set[hip] {
		return HipEntry{}, false
	}
	return x.entries[hip], true
}

// Len returns the number of populated entries.
func (x *HipIndex) Len() int { return x.n }

// Forget clears every entry pointing into tier.
func (x *HipIndex) Forget(tier int) int {
	cleared := 0
	for hip := range x.entries {
		if x.set[hip] && x.entries[hip].Tier == tier {
			x.set[hip] = false
			x.entries[hip] = HipEntry{}
			cleared++
		}
	}
	x.n -= cleared
	return cleared
}

// put stores e for hip. Unless overwrite is set an existing entry is kept.
// It reports whether hip was newly added.
func (x *HipIndex) put(hip int, e HipEntry, overwrite bool) bool {
	if x.set[hip] {
		if overwrite {
			x.entries[hip] = e
		}
		return false
	}
	x.set[hip] = true
	x.n++
	x.entries[hip] = e
	return true
}

// IntegrityError reports a catalog number outside the index range. The
// data behind it cannot be trusted, so it is raised as a panic.
type IntegrityError struct {
	Path string
	Zone int
	Hip  int
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("catalog %s zone %d: hip %d outside 1..%d", e.Path, e.Zone, e.Hip, NrOfHip)
}

// UpdateHipIndex records the location of every identified star in idx and
// returns how many numbers it newly added. Entries already present are
// overwritten, so the array indexed last wins. A number repeated within
// the array keeps its last record. Layouts without identifiers leave idx
// untouched. Records with number 0 carry no identifier and are skipped.
//
// A number above NrOfHip panics with *IntegrityError.
func (a *ZoneArray) UpdateHipIndex(idx *HipIndex) int {
	return a.indexHip(idx, true)
}

// FillHipIndex is UpdateHipIndex without overwriting: it adds only numbers
// idx does not hold yet. Use it to restore entries after HipIndex.Forget
// dropped another tier.
func (a *ZoneArray) FillHipIndex(idx *HipIndex) int {
	return a.indexHip(idx, false)
}

func (a *ZoneArray) indexHip(idx *HipIndex, overwrite bool) int {
	if !a.IsInitialized() || !a.header.Type.HasIdentifier() {
		return 0
	}
	tier := a.Level()
	added := 0
	for z := range a.zones {
		a.ForEach(z, func(i int, r Record) bool {
			if r.Hip == 0 {
				return true
			}
			if r.Hip < 0 || r.Hip > NrOfHip {
				panic(&IntegrityError{Path: a.path, Zone: z, Hip: r.Hip})
			}
			if idx.put(r.Hip, HipEntry{Tier: tier, Zone: z, Record: i}, overwrite) {
				added++
			}
			return true
		})
	}
	return added
}
