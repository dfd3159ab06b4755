package catalog

import "github.com/litescript/ls-starfield/internal/astro"

// Found is one star returned by a query. Tier, Zone and Index locate the
// record inside its array.
type Found struct {
	Tier   int
	Zone   int
	Index  int
	Record Record
	Dir    astro.Vec3
	Mag    float64
}

// SearchAround scans zone z and appends every star whose direction at
// Julian day jd has a dot product with dir greater than cosLimitFov.
// dir must be a unit vector. The scan does no culling of its own; pick
// candidate zones with the grid's Search first.
func (a *ZoneArray) SearchAround(z int, dir astro.Vec3, cosLimitFov, jd float64, results []Found) []Found {
	if !a.IsInitialized() {
		return results
	}
	zone := &a.zones[z]
	mf := a.motionFactor(jd)
	tier := a.Level()
	a.ForEach(z, func(i int, r Record) bool {
		v := zone.direction(&r, mf)
		if v.Dot(dir) > cosLimitFov {
			results = append(results, Found{
				Tier:   tier,
				Zone:   z,
				Index:  i,
				Record: r,
				Dir:    v,
				Mag:    a.header.Magnitude(r.Mag),
			})
		}
		return true
	})
	return results
}
