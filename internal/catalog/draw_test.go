package catalog

import (
	"testing"

	"github.com/litescript/ls-starfield/internal/astro"
)

type paintedStar struct {
	x, y float64
	s    Sample
}

type recordingPainter struct {
	stars  []paintedStar
	labels []string
}

func (p *recordingPainter) PaintStar(x, y float64, s Sample) {
	p.stars = append(p.stars, paintedStar{x, y, s})
}

func (p *recordingPainter) PaintLabel(x, y float64, text string, s Sample) {
	p.labels = append(p.labels, text)
}

func (p *recordingPainter) has(hip int) bool {
	for _, s := range p.stars {
		if s.s.Hip == hip {
			return true
		}
	}
	return false
}

// raProjector maps directions to (RA, Dec) and treats a Dec band as the
// viewport.
type raProjector struct {
	minDec, maxDec float64
	checks         int
}

func (p *raProjector) Project(v astro.Vec3) (float64, float64) {
	return v.RADec()
}

func (p *raProjector) ProjectCheck(v astro.Vec3) (float64, float64, bool) {
	p.checks++
	ra, dec := v.RADec()
	return ra, dec, dec >= p.minDec && dec <= p.maxDec
}

// countingNavigator is an identity frame that counts conversions.
type countingNavigator struct {
	toHorizontal, toEquatorial int
}

func (n *countingNavigator) EquatorialToHorizontal(v astro.Vec3) astro.Vec3 {
	n.toHorizontal++
	return v
}

func (n *countingNavigator) HorizontalToEquatorial(h astro.Vec3) astro.Vec3 {
	n.toEquatorial++
	return h
}

// drawAll draws every zone as fully inside the viewport.
func drawAll(a *ZoneArray, p DrawParams) int {
	n := 0
	for z := 0; z < a.ZoneCount(); z++ {
		n += a.Draw(z, true, p)
	}
	return n
}

func baseParams(a *ZoneArray, painter Painter) DrawParams {
	return DrawParams{
		JD:          astro.J2000,
		RadiusTable: a.Header().RadiusTable(20),
		Projector:   &raProjector{minDec: -90, maxDec: 90},
		Painter:     painter,
		LabelMag:    -10,
	}
}

func TestDraw_HideShow(t *testing.T) {
	stars := brightSources()
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, LayoutHip), stars))
	const sirius, vega = 32349, 91262

	p := &recordingPainter{}
	if n := drawAll(a, baseParams(a, p)); n != len(stars) {
		t.Fatalf("painted %d stars, want %d", n, len(stars))
	}

	a.HideStar(sirius)
	a.HideStar(vega)
	if !a.IsHidden(sirius) || a.HiddenCount() != 2 {
		t.Fatalf("hide set = %d entries", a.HiddenCount())
	}
	p = &recordingPainter{}
	drawAll(a, baseParams(a, p))
	if p.has(sirius) || p.has(vega) {
		t.Error("hidden star was drawn")
	}
	if len(p.stars) != len(stars)-2 {
		t.Errorf("painted %d stars, want %d", len(p.stars), len(stars)-2)
	}

	a.ShowStar(sirius)
	p = &recordingPainter{}
	drawAll(a, baseParams(a, p))
	if !p.has(sirius) || p.has(vega) {
		t.Error("ShowStar did not restore only the shown star")
	}

	a.ShowAllStar()
	if a.HiddenCount() != 0 || a.IsHidden(vega) {
		t.Error("ShowAllStar left entries in the hide set")
	}
	p = &recordingPainter{}
	drawAll(a, baseParams(a, p))
	if !p.has(vega) {
		t.Error("star not drawn after ShowAllStar")
	}
}

func TestDraw_MagnitudeLimit(t *testing.T) {
	stars := brightSources()
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, LayoutMid), stars))

	p := &recordingPainter{}
	params := baseParams(a, p)
	params.RadiusTable = a.Header().RadiusTable(1.0)
	drawAll(a, params)

	want := 0
	for _, s := range stars {
		idx := a.Header().MagnitudeIndex(s.Mag, layouts[LayoutMid].maxMag)
		if a.Header().Magnitude(idx) <= 1.0 {
			want++
		}
	}
	if len(p.stars) != want {
		t.Errorf("painted %d stars, want %d", len(p.stars), want)
	}
	for _, s := range p.stars {
		if s.s.Mag > 1.0 || s.s.Radius <= 0 {
			t.Errorf("painted mag %.2f radius %.2f", s.s.Mag, s.s.Radius)
		}
	}
}

func TestDraw_Labels(t *testing.T) {
	stars := brightSources()

	tests := []struct {
		name   string
		layout Layout
		names  func(int) string
		want   func(hip int) string
	}{
		{"numbers", LayoutHip, nil, nil},
		{"names", LayoutHip, func(hip int) string {
			if hip == 32349 {
				return "Sirius"
			}
			return ""
		}, nil},
		{"no identifiers", LayoutMid, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, tt.layout), stars))
			p := &recordingPainter{}
			params := baseParams(a, p)
			params.LabelMag = 0.5
			params.Names = tt.names
			drawAll(a, params)

			switch tt.name {
			case "numbers":
				bright := 0
				for _, s := range p.stars {
					if s.s.Mag < 0.5 {
						bright++
					}
				}
				if len(p.labels) != bright || bright == 0 {
					t.Errorf("labels = %d, want %d", len(p.labels), bright)
				}
			case "names":
				if len(p.labels) != 1 || p.labels[0] != "Sirius" {
					t.Errorf("labels = %q, want [Sirius]", p.labels)
				}
			default:
				if len(p.labels) != 0 {
					t.Errorf("labels = %q, want none", p.labels)
				}
			}
		})
	}
}

func TestDraw_ViewportCheck(t *testing.T) {
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, LayoutLean), brightSources()))
	p := &recordingPainter{}
	proj := &raProjector{minDec: 0, maxDec: 90}
	params := baseParams(a, p)
	params.Projector = proj

	for z := 0; z < a.ZoneCount(); z++ {
		a.Draw(z, false, params)
	}
	if proj.checks != a.StarCount() {
		t.Errorf("ProjectCheck called %d times, want %d", proj.checks, a.StarCount())
	}
	for _, s := range p.stars {
		if s.y < 0 {
			t.Errorf("star at dec %.2f drawn outside the viewport", s.y)
		}
	}
}

func TestDraw_Refraction(t *testing.T) {
	a := mustCreate(t, writeFixture(t, DefaultWriterConfig(1, LayoutMid), brightSources()))

	nav := &countingNavigator{}
	refr := astro.DefaultRefraction()
	p := &recordingPainter{}
	params := baseParams(a, p)
	params.Navigator = nav
	params.Refraction = &refr
	n := drawAll(a, params)

	if nav.toHorizontal != n || nav.toEquatorial != n {
		t.Errorf("navigator calls = %d/%d, want %d each", nav.toHorizontal, nav.toEquatorial, n)
	}

	// refraction only ever raises a star
	plain := &recordingPainter{}
	drawAll(a, baseParams(a, plain))
	for i := range plain.stars {
		if p.stars[i].y < plain.stars[i].y-1e-9 {
			t.Errorf("star %d lowered by refraction: %.6f -> %.6f", i, plain.stars[i].y, p.stars[i].y)
		}
	}

	nav = &countingNavigator{}
	params.Refraction = nil
	params.Navigator = nav
	drawAll(a, params)
	if nav.toHorizontal != 0 {
		t.Error("navigator used without a refraction model")
	}
}
