package astro

import "math"

// Refraction applies the Saemundsson empirical formula for atmospheric
// refraction, scaled for pressure and temperature.
type Refraction struct {
	PressureMbar float64
	TemperatureC float64
}

// DefaultRefraction returns standard conditions (1010 mbar, 10 °C).
func DefaultRefraction() Refraction {
	return Refraction{PressureMbar: 1010, TemperatureC: 10}
}

const (
	// Below this geometric altitude the formula diverges; the correction
	// fades linearly to zero at refractionFadeEnd.
	refractionMinAltitude = -3.54
	refractionFadeEnd     = -5.0
)

// Offset returns the refraction in degrees to add to a geometric altitude.
func (r Refraction) Offset(altDeg float64) float64 {
	if altDeg < refractionFadeEnd {
		return 0
	}
	h := altDeg
	if h < refractionMinAltitude {
		h = refractionMinAltitude
	}

	// R in arcminutes
	R := 1.02 / math.Tan(degToRad(h+10.3/(h+5.11)))
	R *= (r.PressureMbar / 1010) * (283 / (273 + r.TemperatureC))
	// the fit dips just below zero near the zenith
	if R < 0 {
		R = 0
	}

	if altDeg < refractionMinAltitude {
		R *= (altDeg - refractionFadeEnd) / (refractionMinAltitude - refractionFadeEnd)
	}
	return R / 60
}

// Apply lifts a horizontal direction by the refraction at its altitude.
func (r Refraction) Apply(h Vec3) Vec3 {
	az, el := AzEl(h)
	el += r.Offset(el)
	if el > 90 {
		el = 90
	}
	return HorizontalVector(az, el)
}
