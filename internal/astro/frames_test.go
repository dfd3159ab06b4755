package astro

import (
	"math"
	"testing"
)

func TestVec3Norm(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want float64
	}{
		{"zero", Vec3{0, 0, 0}, 0},
		{"unit x", Vec3{1, 0, 0}, 1},
		{"unit y", Vec3{0, 1, 0}, 1},
		{"unit z", Vec3{0, 0, 1}, 1},
		{"3-4-5", Vec3{3, 4, 0}, 5},
		{"negative", Vec3{-3, -4, 0}, 5},
		{"3D", Vec3{1, 2, 2}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Norm()
			if math.Abs(got-tt.want) > 1e-10 {
				t.Errorf("Norm() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec3Normalized(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		want Vec3
	}{
		{"unit x", Vec3{5, 0, 0}, Vec3{1, 0, 0}},
		{"unit y", Vec3{0, 3, 0}, Vec3{0, 1, 0}},
		{"diagonal", Vec3{1, 1, 0}, Vec3{1 / math.Sqrt(2), 1 / math.Sqrt(2), 0}},
		{"zero", Vec3{0, 0, 0}, Vec3{0, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Normalized()
			if math.Abs(got.X-tt.want.X) > 1e-10 ||
				math.Abs(got.Y-tt.want.Y) > 1e-10 ||
				math.Abs(got.Z-tt.want.Z) > 1e-10 {
				t.Errorf("Normalized() = %v, want %v", got, tt.want)
			}
		})
	}
}


func TestVec3Cross(t *testing.T) {
	x := Vec3{X: 1}
	y := Vec3{Y: 1}
	z := x.Cross(y)
	if z != (Vec3{Z: 1}) {
		t.Errorf("X × Y = %+v, want +Z", z)
	}
	if got := y.Cross(x); got != (Vec3{Z: -1}) {
		t.Errorf("Y × X = %+v, want -Z", got)
	}
	if got := x.Cross(x); got.Norm() != 0 {
		t.Errorf("X × X = %+v, want zero", got)
	}
}

func TestFromRADec_RoundTrip(t *testing.T) {
	tests := []struct {
		ra, dec float64
	}{
		{0, 0},
		{90, 0},
		{279.235, 38.784},
		{101.287, -16.716},
		{359.9, -89.5},
	}

	for _, tt := range tests {
		v := FromRADec(tt.ra, tt.dec)
		if math.Abs(v.Norm()-1) > 1e-12 {
			t.Errorf("FromRADec(%v, %v) not unit: %v", tt.ra, tt.dec, v.Norm())
		}
		ra, dec := v.RADec()
		if math.Abs(ra-tt.ra) > 1e-9 || math.Abs(dec-tt.dec) > 1e-9 {
			t.Errorf("RADec() = (%v, %v), want (%v, %v)", ra, dec, tt.ra, tt.dec)
		}
	}
}

func TestFromRADec_Poles(t *testing.T) {
	if got := FromRADec(123, 90); math.Abs(got.Z-1) > 1e-12 {
		t.Errorf("north pole Z = %v, want 1", got.Z)
	}
	if got := FromRADec(0, -90); math.Abs(got.Z+1) > 1e-12 {
		t.Errorf("south pole Z = %v, want -1", got.Z)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want float64
	}{
		{"same", FromRADec(10, 10), FromRADec(10, 10), 0},
		{"right angle", Vec3{X: 1}, Vec3{Y: 1}, 90},
		{"opposite", Vec3{Z: 1}, Vec3{Z: -1}, 180},
		{"one arcsecond", FromRADec(0, 0), FromRADec(0, 1.0/3600), 1.0 / 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("AngularSeparation = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosRadius(t *testing.T) {
	if got := CosRadius(60); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("CosRadius(60) = %v, want 0.5", got)
	}
}
