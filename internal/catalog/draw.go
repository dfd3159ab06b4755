package catalog

import (
	"fmt"

	"github.com/litescript/ls-starfield/internal/astro"
)

// Projector maps equatorial (or, with a Navigator, horizontal) directions
// to screen coordinates.
type Projector interface {
	// Project maps v without checking that it lands in the viewport.
	Project(v astro.Vec3) (x, y float64)
	// ProjectCheck maps v and reports whether it is visible.
	ProjectCheck(v astro.Vec3) (x, y float64, ok bool)
}

// Navigator converts between the equatorial frame and the observer's
// horizontal frame. It is only consulted when refraction is applied.
type Navigator interface {
	EquatorialToHorizontal(v astro.Vec3) astro.Vec3
	HorizontalToEquatorial(h astro.Vec3) astro.Vec3
}

// Sample is what a painter learns about one drawn star.
type Sample struct {
	Hip      int
	Mag      float64
	BV       float64
	MagIndex uint8
	Radius   float64
}

// Painter receives the screen-space output of Draw.
type Painter interface {
	PaintStar(x, y float64, s Sample)
	PaintLabel(x, y float64, text string, s Sample)
}

// DrawParams carries everything Draw needs beyond the zone itself.
type DrawParams struct {
	JD float64
	// RadiusTable holds a point radius per magnitude index; stars whose
	// entry is <= 0 are not drawn. See Header.RadiusTable.
	RadiusTable []float64
	Projector   Projector
	// Navigator and Refraction are both required for the refraction
	// correction; either nil disables it.
	Navigator  Navigator
	Refraction *astro.Refraction
	Painter    Painter
	// LabelMag is the faintest magnitude that still gets a label.
	LabelMag float64
	// Names resolves a catalog number to a display name. A nil func
	// labels stars by number; an empty name means no label.
	Names func(hip int) string
}

// Draw paints the stars of zone z. isInside tells whether the whole zone
// lies within the viewport, in which case projection skips the bounds
// check. It returns the number of stars painted.
func (a *ZoneArray) Draw(z int, isInside bool, p DrawParams) int {
	if !a.IsInitialized() {
		return 0
	}
	zone := &a.zones[z]
	mf := a.motionFactor(p.JD)
	refract := p.Navigator != nil && p.Refraction != nil
	labels := a.header.Type.HasIdentifier()

	painted := 0
	a.ForEach(z, func(_ int, r Record) bool {
		if int(r.Mag) >= len(p.RadiusTable) {
			return true
		}
		radius := p.RadiusTable[r.Mag]
		if radius <= 0 {
			return true
		}
		if r.Hip != 0 && a.IsHidden(r.Hip) {
			return true
		}

		v := zone.direction(&r, mf)
		if refract {
			h := p.Navigator.EquatorialToHorizontal(v)
			v = p.Navigator.HorizontalToEquatorial(p.Refraction.Apply(h))
		}

		var x, y float64
		if isInside {
			x, y = p.Projector.Project(v)
		} else {
			var ok bool
			if x, y, ok = p.Projector.ProjectCheck(v); !ok {
				return true
			}
		}

		s := Sample{
			Hip:      r.Hip,
			Mag:      a.header.Magnitude(r.Mag),
			BV:       ColorIndex(r.BV),
			MagIndex: r.Mag,
			Radius:   radius,
		}
		p.Painter.PaintStar(x, y, s)
		painted++

		if labels && r.Hip != 0 && s.Mag < p.LabelMag {
			if name := labelFor(r.Hip, p.Names); name != "" {
				p.Painter.PaintLabel(x, y, name, s)
			}
		}
		return true
	})
	return painted
}

func labelFor(hip int, names func(int) string) string {
	if names == nil {
		return fmt.Sprintf("HIP %d", hip)
	}
	return names(hip)
}
