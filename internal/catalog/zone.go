package catalog

import (
	"fmt"
	"math"

	"github.com/litescript/ls-starfield/internal/astro"
)

// Grid is the geodesic grid a catalog level is laid out on.
type Grid interface {
	HasLevel(level int) bool
	ZoneCount(level int) int
	Corners(level, zone int) (c0, c1, c2 astro.Vec3)
}

// Zone is one grid triangle and its contiguous run of records.
//
// After loading, Axis0 and Axis1 are scaled so that a record's fixed-point
// offsets multiply them directly: direction = Center + X0*Axis0 + X1*Axis1.
type Zone struct {
	Center astro.Vec3
	Axis0  astro.Vec3
	Axis1  astro.Vec3
	Offset int // index of the first record of the zone
	Size   int // number of records
}

// initZone derives the tangent frame of one triangle and returns the
// largest gnomonic offset of its corners along either axis.
func initZone(c0, c1, c2 astro.Vec3) (Zone, float64, error) {
	var z Zone
	z.Center = c0.Add(c1).Add(c2).Normalized()

	east := astro.North.Cross(z.Center)
	if east.Norm() < 1e-12 {
		return Zone{}, 0, ErrPolarZone
	}
	z.Axis0 = east.Normalized()
	z.Axis1 = z.Center.Cross(z.Axis0)

	var max float64
	for _, c := range [3]astro.Vec3{c0, c1, c2} {
		d := c.Sub(z.Center)
		mu0 := d.Dot(z.Axis0)
		mu1 := d.Dot(z.Axis1)
		// 1/f is the corner's component along Center
		f := 1 / math.Sqrt(1-mu0*mu0-mu1*mu1)
		max = math.Max(max, math.Abs(mu0)*f)
		max = math.Max(max, math.Abs(mu1)*f)
	}
	return z, max, nil
}

// initZones is the first geometry pass: it builds unit-axis zones for a
// level and returns the position scale, the largest gnomonic corner
// offset over every zone.
func initZones(grid Grid, level int) ([]Zone, float64, error) {
	n := grid.ZoneCount(level)
	zones := make([]Zone, n)
	var scale float64
	for i := 0; i < n; i++ {
		z, h, err := initZone(grid.Corners(level, i))
		if err != nil {
			return nil, 0, fmt.Errorf("zone %d: %w", i, err)
		}
		zones[i] = z
		if h > scale {
			scale = h
		}
	}
	return zones, scale, nil
}

// positionUnit is the tangent-plane length of one fixed-point step.
func positionUnit(scale float64, maxPos int32) float64 {
	return scale / float64(maxPos)
}

// scaleAxes is the second geometry pass: it multiplies every zone's axes
// by the position unit and returns that unit.
func scaleAxes(zones []Zone, scale float64, maxPos int32) float64 {
	unit := positionUnit(scale, maxPos)
	for i := range zones {
		zones[i].Axis0 = zones[i].Axis0.Scale(unit)
		zones[i].Axis1 = zones[i].Axis1.Scale(unit)
	}
	return unit
}

// direction reconstructs a record's unit vector. mf is the motion factor
// from motionFactor, in fixed-point units per 0.1 mas/yr.
func (z *Zone) direction(r *Record, mf float64) astro.Vec3 {
	x0 := float64(r.X0) + mf*float64(r.DX0)
	x1 := float64(r.X1) + mf*float64(r.DX1)
	return astro.Vec3{
		X: z.Center.X + x0*z.Axis0.X + x1*z.Axis1.X,
		Y: z.Center.Y + x0*z.Axis0.Y + x1*z.Axis1.Y,
		Z: z.Center.Z + x0*z.Axis0.Z + x1*z.Axis1.Z,
	}.Normalized()
}

// tenthMasRad is 0.1 milliarcsecond in radians.
const tenthMasRad = math.Pi / 180 * 0.0001 / 3600

// motionFactor converts elapsed time since J2000 into the multiplier
// applied to stored proper motion.
func motionFactor(jd, unit float64) float64 {
	return tenthMasRad * astro.YearsSinceJ2000(jd) / unit
}
