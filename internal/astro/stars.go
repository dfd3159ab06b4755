package astro

// Star represents a cataloged star with position, motion and brightness.
type Star struct {
	Name   string  // Common name (e.g., "Sirius", "Vega")
	Hip    int     // Hipparcos catalog number
	RAdeg  float64 // Right Ascension in degrees (J2000)
	DecDeg float64 // Declination in degrees (J2000)
	PMRA   float64 // Proper motion in RA * cos(Dec), mas/yr
	PMDec  float64 // Proper motion in Dec, mas/yr
	Mag    float64 // Apparent visual magnitude (lower = brighter)
	BV     float64 // B-V colour index
}

// Direction returns the J2000 unit vector of the star.
func (s Star) Direction() Vec3 {
	return FromRADec(s.RAdeg, s.DecDeg)
}

// BrightStars returns a seed list of named bright stars, brightest first.
// Coordinates are J2000; proper motions are from Hipparcos.
func BrightStars() []Star {
	out := make([]Star, len(brightStars))
	copy(out, brightStars)
	return out
}

var brightStars = []Star{
	// Magnitude < 0.5
	{"Sirius", 32349, 101.287, -16.716, -546.01, -1223.07, -1.46, 0.00},
	{"Canopus", 30438, 95.988, -52.696, 19.93, 23.24, -0.74, 0.15},
	{"Arcturus", 69673, 213.915, 19.182, -1093.39, -1999.40, -0.05, 1.23},
	{"Vega", 91262, 279.235, 38.784, 200.94, 286.23, 0.03, 0.00},
	{"Capella", 24608, 79.172, 45.998, 75.52, -427.11, 0.08, 0.80},
	{"Rigel", 24436, 78.634, -8.202, 1.31, 0.50, 0.13, -0.03},
	{"Procyon", 37279, 114.826, 5.225, -714.59, -1036.80, 0.34, 0.42},
	{"Achernar", 7588, 24.429, -57.237, 88.02, -40.08, 0.46, -0.16},

	// Magnitude 0.5-1.0
	{"Betelgeuse", 27989, 88.793, 7.407, 27.54, 11.30, 0.50, 1.85},
	{"Hadar", 68702, 210.956, -60.373, -33.27, -23.16, 0.61, -0.23},
	{"Altair", 97649, 297.696, 8.868, 536.23, 385.29, 0.76, 0.22},
	{"Acrux", 60718, 186.650, -63.099, -35.83, -14.86, 0.76, -0.24},
	{"Aldebaran", 21421, 68.980, 16.509, 63.45, -188.94, 0.85, 1.54},
	{"Antares", 80763, 247.352, -26.432, -12.11, -23.30, 0.96, 1.83},
	{"Spica", 65474, 201.298, -11.161, -42.35, -30.67, 0.97, -0.23},

	// Magnitude 1.0-1.5
	{"Pollux", 37826, 116.329, 28.026, -626.55, -45.80, 1.14, 1.00},
	{"Fomalhaut", 113368, 344.413, -29.622, 328.95, -164.67, 1.16, 0.09},
	{"Deneb", 102098, 310.358, 45.280, 2.01, 1.85, 1.25, 0.09},
	{"Mimosa", 62434, 191.930, -59.689, -42.97, -16.18, 1.25, -0.23},
	{"Regulus", 49669, 152.093, 11.967, -248.73, 5.59, 1.35, -0.11},
	{"Adhara", 33579, 104.656, -28.972, 3.24, 1.33, 1.50, -0.21},

	// Magnitude 1.5-2.0
	{"Castor", 36850, 113.650, 31.889, -191.45, -145.19, 1.58, 0.03},
	{"Gacrux", 61084, 187.791, -57.113, 28.23, -265.08, 1.63, 1.60},
	{"Shaula", 85927, 263.402, -37.104, -8.53, -30.80, 1.63, -0.22},
	{"Bellatrix", 25336, 81.283, 6.350, -8.11, -12.88, 1.64, -0.22},
	{"Elnath", 25428, 81.573, 28.608, 22.76, -173.58, 1.65, -0.13},
	{"Miaplacidus", 45238, 138.300, -69.717, -156.47, 108.95, 1.68, 0.07},
	{"Alnilam", 26311, 84.053, -1.202, 1.44, -0.78, 1.69, -0.18},
	{"Alnair", 109268, 332.058, -46.961, 126.69, -147.47, 1.74, -0.07},
	{"Alnitak", 26727, 85.190, -1.943, 3.99, 2.54, 1.77, -0.20},
	{"Alioth", 62956, 193.507, 55.960, 111.74, -8.99, 1.77, -0.02},
	{"Dubhe", 54061, 165.932, 61.751, -136.46, -35.25, 1.79, 1.07},
	{"Mirfak", 15863, 51.081, 49.861, 24.11, -26.01, 1.79, 0.48},
	{"Wezen", 34444, 107.098, -26.393, -3.12, 3.31, 1.84, 0.68},
	{"Kaus Australis", 90185, 276.043, -34.384, -39.61, -124.05, 1.85, -0.03},
	{"Avior", 41037, 125.629, -59.509, -25.34, 22.72, 1.86, 1.28},
	{"Alkaid", 67301, 206.885, 49.313, -121.23, -15.56, 1.86, -0.10},
	{"Sargas", 86228, 264.330, -42.998, 6.06, -0.95, 1.87, 0.40},
	{"Menkalinan", 28360, 89.882, 44.948, -56.41, -0.88, 1.90, 0.03},
	{"Atria", 82273, 252.166, -69.028, 17.85, -32.92, 1.92, 1.44},
	{"Alhena", 31681, 99.428, 16.399, -2.04, -66.92, 1.93, 0.00},
	{"Peacock", 100751, 306.412, -56.735, 7.71, -86.15, 1.94, -0.12},
	{"Mirzam", 30324, 95.675, -17.956, -3.45, -0.47, 1.98, -0.24},
	{"Alphard", 46390, 141.897, -8.659, -14.49, 33.25, 2.00, 1.44},

	// Magnitude 2.0-2.5
	{"Hamal", 9884, 31.793, 23.463, 188.55, -148.08, 2.00, 1.15},
	{"Polaris", 11767, 37.954, 89.264, 44.22, -11.74, 2.02, 0.64},
	{"Diphda", 3419, 10.897, -17.987, 232.79, 32.71, 2.04, 1.02},
	{"Nunki", 92855, 283.816, -26.297, 13.87, -52.65, 2.02, -0.13},
	{"Mizar", 65378, 200.981, 54.925, 121.23, -22.01, 2.04, 0.06},
	{"Alpheratz", 677, 2.097, 29.091, 135.68, -162.95, 2.06, -0.04},
	{"Mirach", 5447, 17.433, 35.621, 175.59, -112.23, 2.05, 1.58},
	{"Kochab", 72607, 222.676, 74.156, -32.29, 11.91, 2.08, 1.47},
	{"Rasalhague", 86032, 263.734, 12.560, 108.07, -221.57, 2.08, 0.16},
	{"Saiph", 27366, 86.939, -9.670, 1.55, -1.20, 2.09, -0.17},
	{"Algol", 14576, 47.042, 40.957, 2.39, -1.44, 2.12, -0.05},
	{"Denebola", 57632, 177.265, 14.572, -499.02, -113.78, 2.13, 0.09},
	{"Mintaka", 25930, 83.002, -0.299, 1.67, 0.56, 2.23, -0.22},
	{"Sadr", 100453, 305.557, 40.257, 2.43, -0.93, 2.23, 0.67},
	{"Eltanin", 87833, 269.152, 51.489, -8.52, -23.05, 2.23, 1.52},
	{"Schedar", 3179, 10.127, 56.537, 50.36, -32.17, 2.24, 1.17},
	{"Caph", 746, 2.295, 59.150, 523.39, -180.42, 2.27, 0.34},
	{"Merak", 53910, 165.460, 56.382, 81.66, 33.74, 2.37, -0.02},

	// Magnitude 2.5 and fainter
	{"Enif", 107315, 326.046, 9.875, 30.02, 1.38, 2.38, 1.52},
	{"Ankaa", 2081, 6.571, -42.306, 233.05, -356.30, 2.38, 1.09},
	{"Phecda", 58001, 178.458, 53.695, 107.76, 11.16, 2.44, 0.04},
	{"Scheat", 113881, 345.944, 28.083, 187.76, 137.61, 2.42, 1.66},
	{"Markab", 113963, 346.190, 15.205, 61.10, -42.56, 2.49, -0.04},
	{"Zosma", 54872, 168.527, 20.524, 143.44, -130.43, 2.56, 0.13},
	{"Arneb", 25985, 83.183, -17.822, 3.27, 1.54, 2.58, 0.21},
	{"Alcyone", 17702, 56.871, 24.105, 19.35, -43.11, 2.87, -0.09},
	{"Albireo", 95947, 292.680, 27.960, -7.09, -5.63, 3.05, 1.13},
	{"Thuban", 68756, 211.097, 64.376, -56.52, 17.19, 3.65, -0.05},
	{"Megrez", 59774, 183.857, 57.033, 103.56, 7.81, 3.31, 0.08},
	{"Alcor", 65477, 201.306, 54.988, 120.35, -16.94, 3.99, 0.17},
}
