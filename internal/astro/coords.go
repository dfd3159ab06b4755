package astro

import (
	"math"
	"time"
)

// J2000 is the Julian Day of the J2000.0 epoch (2000-01-01 12:00 TT).
const J2000 = 2451545.0

// DaysPerJulianYear is the length of the Julian year used for proper motion.
const DaysPerJulianYear = 365.25

// SkyCoord represents celestial coordinates with both equatorial (RA/Dec)
// and horizontal (Az/El) components.
type SkyCoord struct {
	// Equatorial coordinates (J2000)
	RAdeg  float64 // Right Ascension in degrees (0-360)
	DecDeg float64 // Declination in degrees (-90 to +90)

	// Horizontal coordinates (observer-relative)
	AzDeg float64 // Azimuth in degrees (0=N, 90=E, 180=S, 270=W)
	ElDeg float64 // Elevation/Altitude in degrees (0=horizon, 90=zenith)
}

// Observer represents a ground-based observer location.
type Observer struct {
	LatDeg float64 // Latitude in degrees (north positive)
	LonDeg float64 // Longitude in degrees (east positive)
	Name   string  // Optional name for the site
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec) to horizontal
// coordinates (Az/El) for a given observer and time.
//
// The function preserves the input RA/Dec values and populates Az/El.
// Uses standard astronomical conventions:
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith
func EquatorialToHorizontal(eq SkyCoord, obs Observer, t time.Time) SkyCoord {
	return equatorialToHorizontalLST(eq, obs.LatDeg, localSiderealTime(t, obs.LonDeg))
}

func equatorialToHorizontalLST(eq SkyCoord, latDeg, lstDeg float64) SkyCoord {
	lat := degToRad(latDeg)
	ra := degToRad(eq.RAdeg)
	dec := degToRad(eq.DecDeg)

	// Hour Angle = LST - RA
	ha := degToRad(lstDeg) - ra

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(clampUnit(sinAlt))

	// Azimuth from north through east; atan2 keeps the zenith and poles finite
	y := -math.Cos(dec) * math.Sin(ha)
	x := math.Sin(dec)*math.Cos(lat) - math.Cos(dec)*math.Sin(lat)*math.Cos(ha)
	az := math.Atan2(y, x)
	if az < 0 {
		az += 2 * math.Pi
	}

	return SkyCoord{
		RAdeg:  eq.RAdeg,
		DecDeg: eq.DecDeg,
		AzDeg:  radToDeg(az),
		ElDeg:  radToDeg(alt),
	}
}

// HorizontalToEquatorial converts Az/El back to RA/Dec for a given observer
// and time. It is the inverse of EquatorialToHorizontal.
func HorizontalToEquatorial(h SkyCoord, obs Observer, t time.Time) SkyCoord {
	return horizontalToEquatorialLST(h, obs.LatDeg, localSiderealTime(t, obs.LonDeg))
}

func horizontalToEquatorialLST(h SkyCoord, latDeg, lstDeg float64) SkyCoord {
	lat := degToRad(latDeg)
	az := degToRad(h.AzDeg)
	alt := degToRad(h.ElDeg)

	sinDec := math.Sin(alt)*math.Sin(lat) + math.Cos(alt)*math.Cos(lat)*math.Cos(az)
	dec := math.Asin(clampUnit(sinDec))

	ha := math.Atan2(
		-math.Cos(alt)*math.Sin(az),
		math.Sin(alt)*math.Cos(lat)-math.Cos(alt)*math.Sin(lat)*math.Cos(az),
	)

	ra := math.Mod(lstDeg-radToDeg(ha), 360)
	if ra < 0 {
		ra += 360
	}

	return SkyCoord{
		RAdeg:  ra,
		DecDeg: radToDeg(dec),
		AzDeg:  h.AzDeg,
		ElDeg:  h.ElDeg,
	}
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	lst := math.Mod(greenwichMeanSiderealTime(t)+lonDeg, 360)
	if lst < 0 {
		lst += 360
	}
	return lst
}

// greenwichMeanSiderealTime calculates GMST in degrees for a given UTC time.
// Uses the IAU formula based on Julian Date.
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)

	// Julian centuries since J2000.0
	T := (jd - J2000) / 36525.0

	// GMST = 280.46061837 + 360.98564736629*(JD-2451545) + 0.000387933*T^2 - T^3/38710000
	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	gmst = math.Mod(gmst, 360)
	if gmst < 0 {
		gmst += 360
	}

	return gmst
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	h := float64(t.Hour())
	min := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := (h + min/60 + sec/3600 + ns/3600e9) / 24.0

	// Treat January/February as months 13/14 of the previous year
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

// YearsSinceJ2000 returns the elapsed Julian years between J2000.0 and jd.
func YearsSinceJ2000(jd float64) float64 {
	return (jd - J2000) / DaysPerJulianYear
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
