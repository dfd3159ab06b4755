// Package astro provides astronomical coordinate transformations and sky math.
package astro

import (
	"math"
)

// Vec3 represents a 3D vector in any reference frame.
//
// Equatorial unit vectors use X toward RA=0/Dec=0, Y toward RA=90°,
// and Z toward the north celestial pole.
type Vec3 struct {
	X, Y, Z float64
}

// North is the unit vector toward the north celestial pole.
var North = Vec3{Z: 1}

// Norm returns the magnitude of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Normalized returns a unit vector in the same direction.
func (v Vec3) Normalized() Vec3 {
	n := v.Norm()
	if n == 0 {
		return Vec3{}
	}
	return Vec3{X: v.X / n, Y: v.Y / n, Z: v.Z / n}
}

// Scale returns the vector scaled by a factor.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns the sum of two vectors.
func (v Vec3) Add(u Vec3) Vec3 {
	return Vec3{X: v.X + u.X, Y: v.Y + u.Y, Z: v.Z + u.Z}
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(u Vec3) Vec3 {
	return Vec3{X: v.X - u.X, Y: v.Y - u.Y, Z: v.Z - u.Z}
}

// Dot returns the scalar product.
func (v Vec3) Dot(u Vec3) float64 {
	return v.X*u.X + v.Y*u.Y + v.Z*u.Z
}

// Cross returns the vector product v × u.
func (v Vec3) Cross(u Vec3) Vec3 {
	return Vec3{
		X: v.Y*u.Z - v.Z*u.Y,
		Y: v.Z*u.X - v.X*u.Z,
		Z: v.X*u.Y - v.Y*u.X,
	}
}

// FromRADec returns the equatorial unit vector for RA/Dec in degrees.
func FromRADec(raDeg, decDeg float64) Vec3 {
	ra := degToRad(raDeg)
	dec := degToRad(decDeg)
	cd := math.Cos(dec)
	return Vec3{
		X: cd * math.Cos(ra),
		Y: cd * math.Sin(ra),
		Z: math.Sin(dec),
	}
}

// RADec returns the right ascension (0-360) and declination of a direction
// in degrees. The vector does not need to be normalized.
func (v Vec3) RADec() (raDeg, decDeg float64) {
	n := v.Norm()
	if n == 0 {
		return 0, 0
	}
	ra := radToDeg(math.Atan2(v.Y, v.X))
	if ra < 0 {
		ra += 360
	}
	z := v.Z / n
	if z > 1 {
		z = 1
	} else if z < -1 {
		z = -1
	}
	return ra, radToDeg(math.Asin(z))
}

// AngularSeparation returns the angle between two directions in degrees.
func AngularSeparation(a, b Vec3) float64 {
	// atan2 of |a×b| and a·b stays accurate for tiny angles where acos does not
	return radToDeg(math.Atan2(a.Cross(b).Norm(), a.Dot(b)))
}

// CosRadius returns the cosine of an angular radius given in degrees.
func CosRadius(radiusDeg float64) float64 {
	return math.Cos(degToRad(radiusDeg))
}
