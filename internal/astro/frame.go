package astro

import (
	"math"
	"time"
)

// HorizontalFrame converts direction vectors between the equatorial frame
// and an observer's local horizontal frame at a fixed instant.
//
// Horizontal vectors use X toward north, Y toward east and Z toward the
// zenith. The sidereal time is computed once, so a frame is cheap to
// apply to every star of a draw pass.
type HorizontalFrame struct {
	latDeg float64
	lstDeg float64
}

// NewHorizontalFrame returns the frame for an observer at time t.
func NewHorizontalFrame(obs Observer, t time.Time) HorizontalFrame {
	return HorizontalFrame{
		latDeg: obs.LatDeg,
		lstDeg: localSiderealTime(t, obs.LonDeg),
	}
}

// LST returns the local sidereal time of the frame in degrees.
func (f HorizontalFrame) LST() float64 {
	return f.lstDeg
}

// EquatorialToHorizontal maps an equatorial direction into the frame.
func (f HorizontalFrame) EquatorialToHorizontal(v Vec3) Vec3 {
	ra, dec := v.RADec()
	h := equatorialToHorizontalLST(SkyCoord{RAdeg: ra, DecDeg: dec}, f.latDeg, f.lstDeg)
	return HorizontalVector(h.AzDeg, h.ElDeg)
}

// HorizontalToEquatorial maps a horizontal direction back to equatorial.
func (f HorizontalFrame) HorizontalToEquatorial(h Vec3) Vec3 {
	az, el := AzEl(h)
	eq := horizontalToEquatorialLST(SkyCoord{AzDeg: az, ElDeg: el}, f.latDeg, f.lstDeg)
	return FromRADec(eq.RAdeg, eq.DecDeg)
}

// HorizontalVector returns the horizontal unit vector for Az/El in degrees.
func HorizontalVector(azDeg, elDeg float64) Vec3 {
	az := degToRad(azDeg)
	el := degToRad(elDeg)
	ce := math.Cos(el)
	return Vec3{
		X: ce * math.Cos(az),
		Y: ce * math.Sin(az),
		Z: math.Sin(el),
	}
}

// AzEl returns azimuth (0-360, from north through east) and elevation of a
// horizontal vector in degrees.
func AzEl(h Vec3) (azDeg, elDeg float64) {
	n := h.Norm()
	if n == 0 {
		return 0, 0
	}
	az := radToDeg(math.Atan2(h.Y, h.X))
	if az < 0 {
		az += 360
	}
	return az, radToDeg(math.Asin(clampUnit(h.Z / n)))
}
