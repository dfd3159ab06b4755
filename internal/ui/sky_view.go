package ui

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/catalog"
	"github.com/litescript/ls-starfield/internal/geodesic"
	"github.com/litescript/ls-starfield/internal/state"
)

const (
	// Field of view in degrees
	fovAz = 120.0 // horizontal FOV
	fovEl = 60.0  // vertical FOV

	// Zones are fetched from a cap around the camera large enough to hold
	// the whole viewport. Zones wholly inside insideCapRadius skip the
	// per-star viewport check when the camera elevation allows it.
	viewCapRadius   = 70.0
	insideCapRadius = 25.0

	// Animation
	animDuration  = 400 * time.Millisecond
	animFrameRate = 30 * time.Millisecond

	// Star glyphs by magnitude
	glyphStarBright  = '✶' // mag < 1.5
	glyphStarMedium  = '✸' // mag 1.5-3.0
	glyphStarDim     = '·' // mag 3.0-4.0
	glyphStarVeryDim = '.' // mag > 4.0

	colorBackground = "236"
	colorHorizon    = "60"
	colorLabel      = "#d0c8ff"
	colorObserver   = "46"
)

// Star colors by B-V, hot to cool. Faint stars fall back to grays.
var (
	colorsByBV = []struct {
		maxBV float64
		color lipgloss.Color
	}{
		{0.0, "153"}, // blue-white
		{0.3, "255"}, // white
		{0.6, "230"}, // yellow-white
		{1.0, "222"}, // yellow
		{1.4, "215"}, // orange
		{99, "209"},  // red
	}
	colorStarDim     = lipgloss.Color("244")
	colorStarVeryDim = lipgloss.Color("240")
)

// LabelMode controls which stars get name labels.
type LabelMode int

const (
	LabelNone   LabelMode = iota // No labels
	LabelBright                  // Stars brighter than magnitude 1.5
	LabelAll                     // Every named star within the limit
)

func (l LabelMode) limit(limitMag float64) float64 {
	switch l {
	case LabelBright:
		return 1.5
	case LabelAll:
		return limitMag
	default:
		return math.Inf(-1)
	}
}

// SkyViewModel renders the loaded catalog tiers as seen by an observer.
type SkyViewModel struct {
	width  int
	height int

	mgr      *state.Manager
	observer astro.Observer

	// Camera position (center of view)
	camAz float64
	camEl float64

	// Animation state
	animating   bool
	animStartAz float64
	animStartEl float64
	animTargAz  float64
	animTargEl  float64
	animStart   time.Time

	// Clock and epoch shift for proper motion
	now        time.Time
	yearOffset int

	refraction bool
	refr       astro.Refraction
	limitMag   float64
	labelMode  LabelMode

	status string
}

// NewSkyViewModel creates a sky view over the tiers of mgr.
func NewSkyViewModel(mgr *state.Manager, obs astro.Observer) SkyViewModel {
	return SkyViewModel{
		mgr:        mgr,
		observer:   obs,
		camAz:      180,
		camEl:      45,
		now:        time.Now(),
		refraction: true,
		refr:       astro.DefaultRefraction(),
		limitMag:   5.5,
		labelMode:  LabelBright,
	}
}

// SetSize updates the viewport size.
func (m SkyViewModel) SetSize(width, height int) SkyViewModel {
	m.width = width
	m.height = height
	return m
}

// SetTime sets the wall-clock time the sky is drawn for.
func (m SkyViewModel) SetTime(t time.Time) SkyViewModel {
	m.now = t
	return m
}

// when returns the instant being drawn, including the epoch shift.
func (m SkyViewModel) when() time.Time {
	return m.now.AddDate(m.yearOffset, 0, 0)
}

func (m SkyViewModel) frame() astro.HorizontalFrame {
	return astro.NewHorizontalFrame(m.observer, m.when())
}

// cameraDirection returns the equatorial direction at the view center.
func (m SkyViewModel) cameraDirection(f astro.HorizontalFrame) astro.Vec3 {
	return f.HorizontalToEquatorial(astro.HorizontalVector(m.camAz, m.camEl))
}

// animTickMsg is sent during animation
type animTickMsg time.Time

func animTick() tea.Cmd {
	return tea.Tick(animFrameRate, func(t time.Time) tea.Msg {
		return animTickMsg(t)
	})
}

// Update handles messages.
func (m SkyViewModel) Update(msg tea.Msg) (SkyViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h":
			m.camAz = math.Mod(m.camAz+350, 360)
		case "right", "l":
			m.camAz = math.Mod(m.camAz+10, 360)
		case "up", "k":
			m.camEl = math.Min(m.camEl+5, 90)
		case "down", "j":
			m.camEl = math.Max(m.camEl-5, -10)
		case "0":
			return m.startAnimation(180, 45)
		case "c":
			return m.centerBrightest()
		case "r":
			m.refraction = !m.refraction
		case "n":
			m.labelMode = (m.labelMode + 1) % 3
		case "+", "=":
			m.limitMag = math.Min(m.limitMag+0.5, 12)
		case "-":
			m.limitMag = math.Max(m.limitMag-0.5, 0)
		case "]":
			m.yearOffset += 1000
		case "[":
			m.yearOffset -= 1000
		case "x":
			m = m.hideNearest()
		case "a":
			if m.mgr != nil {
				m.mgr.ShowAll()
				m.status = "showing all stars"
			}
		}

	case animTickMsg:
		if m.animating {
			return m.updateAnimation()
		}
	}

	return m, nil
}

// nearby returns stars around the view center, brightest first.
func (m SkyViewModel) nearby(radiusDeg float64) []state.Star {
	if m.mgr == nil {
		return nil
	}
	f := m.frame()
	return m.mgr.Search(m.cameraDirection(f), radiusDeg, astro.JulianDate(m.when()))
}

// hideNearest queues hiding the brightest identified star near the center.
func (m SkyViewModel) hideNearest() SkyViewModel {
	for _, s := range m.nearby(10) {
		if s.Record.Hip == 0 {
			continue
		}
		m.mgr.Hide(s.Record.Hip)
		m.status = "hiding " + starName(s)
		return m
	}
	m.status = "no identified star near the center"
	return m
}

func (m SkyViewModel) centerBrightest() (SkyViewModel, tea.Cmd) {
	stars := m.nearby(30)
	if len(stars) == 0 {
		m.status = "no star near the center"
		return m, nil
	}
	s := stars[0]
	az, el := astro.AzEl(m.frame().EquatorialToHorizontal(s.Dir))
	m.status = "centered on " + starName(s)
	return m.startAnimation(az, el)
}

func starName(s state.Star) string {
	switch {
	case s.Name != "":
		return s.Name
	case s.Record.Hip != 0:
		return fmt.Sprintf("HIP %d", s.Record.Hip)
	default:
		return fmt.Sprintf("mag %.1f star", s.Mag)
	}
}

func (m SkyViewModel) startAnimation(az, el float64) (SkyViewModel, tea.Cmd) {
	m.animating = true
	m.animStartAz = m.camAz
	m.animStartEl = m.camEl
	m.animTargAz = az
	m.animTargEl = el
	m.animStart = time.Now()

	return m, animTick()
}

func (m SkyViewModel) updateAnimation() (SkyViewModel, tea.Cmd) {
	elapsed := time.Since(m.animStart)
	t := float64(elapsed) / float64(animDuration)

	if t >= 1.0 {
		// Animation complete
		m.animating = false
		m.camAz = m.animTargAz
		m.camEl = m.animTargEl
		return m, nil
	}

	// Ease-out cubic
	t = 1 - math.Pow(1-t, 3)

	// Interpolate azimuth with wrap-around handling
	m.camAz = lerpAngle(m.animStartAz, m.animTargAz, t)
	m.camEl = lerp(m.animStartEl, m.animTargEl, t)

	return m, animTick()
}

// View renders the sky view.
func (m SkyViewModel) View() string {
	if m.width < 20 || m.height < 10 {
		return "Sky view requires larger terminal"
	}

	// Reserve lines for header and status
	viewHeight := m.height - 4
	viewWidth := m.width

	canvas := m.renderSkyCanvas(viewWidth, viewHeight)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(canvas)
	b.WriteString("\n")
	b.WriteString(m.renderStatus())

	return b.String()
}

func (m SkyViewModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")) // violet
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))               // muted purple
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorLabel))      // soft purple

	title := titleStyle.Render("Sky View")

	stars, tiers := 0, 0
	if m.mgr != nil {
		for _, t := range m.mgr.Tiers() {
			stars += t.Stars
			tiers++
		}
	}
	catalogStr := dimStyle.Render(fmt.Sprintf("%d tiers, %d stars", tiers, stars))

	refrStr := dimStyle.Render("Refraction: off")
	if m.refraction {
		refrStr = accentStyle.Render("Refraction: on")
	}

	var labelStr string
	switch m.labelMode {
	case LabelNone:
		labelStr = dimStyle.Render("Labels: off")
	case LabelBright:
		labelStr = accentStyle.Render("Labels: bright")
	case LabelAll:
		labelStr = accentStyle.Render("Labels: all")
	}

	compass := dimStyle.Render(fmt.Sprintf("Az:%.0f° El:%.0f° | mag<%.1f", m.camAz, m.camEl, m.limitMag))

	return fmt.Sprintf("%s | %s | %s | %s | %s", title, catalogStr, refrStr, labelStr, compass)
}

func (m SkyViewModel) renderStatus() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229"))

	epoch := m.when().UTC().Format("2006-01-02 15:04 MST")
	line := fmt.Sprintf(">>> %s | lat %.2f° lon %.2f°", epoch, m.observer.LatDeg, m.observer.LonDeg)
	if m.yearOffset != 0 {
		line += fmt.Sprintf(" | epoch %+d yr", m.yearOffset)
	}
	if m.mgr != nil {
		if hidden := len(m.mgr.Hidden()); hidden > 0 {
			line += fmt.Sprintf(" | %d hidden", hidden)
		}
	}
	status := accentStyle.Render(line)
	if m.status != "" {
		status += "\n" + dimStyle.Render("    "+m.status)
	}
	return status
}

func (m SkyViewModel) renderSkyCanvas(width, height int) string {
	c := newCanvasPainter(width, height)
	f := m.frame()
	proj := skyProjector{frame: f, camAz: m.camAz, camEl: m.camEl, width: width, height: height}

	if m.mgr != nil {
		m.drawStars(c, f, proj)
	}

	// Draw horizon line (purple tint)
	horizonY := height - 2
	for x := 0; x < width; x++ {
		c.canvas[horizonY][x] = '─'
		c.colors[horizonY][x] = colorHorizon
	}

	// Draw cardinal directions on horizon
	m.drawCardinal(c, width, height, "N", 0)
	m.drawCardinal(c, width, height, "E", 90)
	m.drawCardinal(c, width, height, "S", 180)
	m.drawCardinal(c, width, height, "W", 270)

	c.renderLabels()

	// Observer marker at bottom center
	if x, y := width/2, height-1; y >= 0 && x < width {
		c.canvas[y][x] = '▲'
		c.colors[y][x] = colorObserver
	}

	return c.String()
}

// drawStars paints every tier through catalog.Draw. Zones come from the
// grid's cap search around the camera.
func (m SkyViewModel) drawStars(c *canvasPainter, f astro.HorizontalFrame, proj skyProjector) {
	names := m.mgr.NameTable()
	grid := m.mgr.Grid()
	camDir := m.cameraDirection(f)
	cosView := astro.CosRadius(viewCapRadius)
	insideOK := m.camEl-insideCapRadius > 0 && m.camEl+insideCapRadius <= fovEl

	params := catalog.DrawParams{
		JD:        astro.JulianDate(m.when()),
		Projector: proj,
		Painter:   c,
		LabelMag:  m.labelMode.limit(m.limitMag),
		Names:     func(hip int) string { return names[hip] },
	}
	if m.refraction {
		refr := m.refr
		params.Navigator = f
		params.Refraction = &refr
	}

	m.mgr.ForEachTier(func(a *catalog.ZoneArray) {
		params.RadiusTable = a.Header().RadiusTable(m.limitMag)
		level := a.Level()
		inside, border := grid.Search(level, camDir, cosView)
		for _, z := range inside {
			a.Draw(z, insideOK && zoneWithin(grid, level, z, camDir, insideCapRadius), params)
		}
		for _, z := range border {
			a.Draw(z, false, params)
		}
	})
}

// zoneWithin reports whether zone z lies entirely within radiusDeg of dir.
func zoneWithin(grid *geodesic.Grid, level, z int, dir astro.Vec3, radiusDeg float64) bool {
	c0, c1, c2 := grid.Corners(level, z)
	center := c0.Add(c1).Add(c2).Normalized()
	half := math.Acos(math.Min(1, grid.CosHalfRadius(level, z))) * 180 / math.Pi
	return astro.AngularSeparation(center, dir)+half < radiusDeg
}

// starGlyph returns the glyph and color for a star of magnitude mag and
// colour index bv. Brighter stars get more prominent symbols.
func starGlyph(mag, bv float64) (rune, lipgloss.Color) {
	switch {
	case mag < 1.5:
		return glyphStarBright, bvColor(bv)
	case mag < 3.0:
		return glyphStarMedium, bvColor(bv)
	case mag < 4.0:
		return glyphStarDim, colorStarDim
	default:
		return glyphStarVeryDim, colorStarVeryDim
	}
}

func bvColor(bv float64) lipgloss.Color {
	for _, c := range colorsByBV {
		if bv < c.maxBV {
			return c.color
		}
	}
	return colorsByBV[len(colorsByBV)-1].color
}

func (m SkyViewModel) drawCardinal(c *canvasPainter, width, height int, label string, az float64) {
	x, _, visible := m.projectToScreen(az, 0, width, height)
	if !visible {
		return
	}
	y := height - 2 // horizon line

	if x >= 0 && x < width && y >= 0 && y < height {
		c.canvas[y][x] = rune(label[0])
		c.colors[y][x] = "252"
	}
}

// projectToScreen converts az/el to screen coordinates relative to camera
func (m SkyViewModel) projectToScreen(az, el float64, width, height int) (int, int, bool) {
	p := skyProjector{camAz: m.camAz, camEl: m.camEl, width: width, height: height}
	x, y, ok := p.project(az, el)
	return int(x), int(y), ok
}

// skyProjector maps equatorial directions onto the az/el canvas through
// the observer's horizontal frame.
type skyProjector struct {
	frame         astro.HorizontalFrame
	camAz, camEl  float64
	width, height int
}

// Project maps v without the field-of-view check.
func (p skyProjector) Project(v astro.Vec3) (float64, float64) {
	az, el := astro.AzEl(p.frame.EquatorialToHorizontal(v))
	x, y, _ := p.project(az, el)
	return x, y
}

// ProjectCheck maps v and reports whether it is above the horizon and in
// the field of view.
func (p skyProjector) ProjectCheck(v astro.Vec3) (float64, float64, bool) {
	az, el := astro.AzEl(p.frame.EquatorialToHorizontal(v))
	if el <= 0 {
		return 0, 0, false
	}
	return p.project(az, el)
}

func (p skyProjector) project(az, el float64) (float64, float64, bool) {
	// Calculate angular offset from camera center
	dAz := normalizeAngle(az - p.camAz)
	dEl := el - p.camEl

	// Map to screen coordinates
	// X: -fovAz/2..+fovAz/2 -> 0..width
	// Y: +fovEl/2..-fovEl/2 -> 0..height (inverted, higher el = higher on screen)
	horizonY := p.height - 2

	x := (dAz + fovAz/2) / fovAz * float64(p.width)
	y := (fovEl/2 - dEl) / fovEl * float64(horizonY)

	if dAz < -fovAz/2 || dAz > fovAz/2 || dEl < -fovEl/2 || dEl > fovEl/2 {
		return x, y, false
	}
	return x, y, true
}

// canvasPainter collects catalog.Draw output on a character grid.
type canvasPainter struct {
	width, height int
	horizonY      int
	canvas        [][]rune
	colors        [][]lipgloss.Color
	mags          [][]float64
	labels        []starLabel
	stars         int
}

// starLabel is a label queued by PaintLabel
type starLabel struct {
	x, y int
	text string
	mag  float64
}

func newCanvasPainter(width, height int) *canvasPainter {
	c := &canvasPainter{
		width:    width,
		height:   height,
		horizonY: height - 2,
		canvas:   make([][]rune, height),
		colors:   make([][]lipgloss.Color, height),
		mags:     make([][]float64, height),
	}
	for y := 0; y < height; y++ {
		c.canvas[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		c.mags[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			c.canvas[y][x] = ' '
			c.colors[y][x] = colorBackground
			c.mags[y][x] = math.Inf(1)
		}
	}
	return c
}

func (c *canvasPainter) cell(x, y float64) (int, int, bool) {
	xi, yi := int(math.Floor(x)), int(math.Floor(y))
	if xi < 0 || xi >= c.width || yi < 0 || yi >= c.horizonY {
		return 0, 0, false
	}
	return xi, yi, true
}

// PaintStar draws a star glyph. The brightest star in a cell wins.
func (c *canvasPainter) PaintStar(x, y float64, s catalog.Sample) {
	xi, yi, ok := c.cell(x, y)
	if !ok || s.Mag >= c.mags[yi][xi] {
		return
	}
	glyph, color := starGlyph(s.Mag, s.BV)
	c.canvas[yi][xi] = glyph
	c.colors[yi][xi] = color
	c.mags[yi][xi] = s.Mag
	c.stars++
}

// PaintLabel queues a label; labels are laid out after all stars.
func (c *canvasPainter) PaintLabel(x, y float64, text string, s catalog.Sample) {
	xi, yi, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.labels = append(c.labels, starLabel{x: xi, y: yi, text: text, mag: s.Mag})
}

// renderLabels writes labels to the right of their stars with a one-cell
// gap. Brighter stars claim cells first; a label never covers a star.
func (c *canvasPainter) renderLabels() {
	sort.SliceStable(c.labels, func(i, j int) bool {
		return c.labels[i].mag < c.labels[j].mag
	})

	claimed := make(map[[2]int]bool)
	for _, l := range c.labels {
		runes := []rune(l.text)
		start := l.x + 2
		if start+len(runes) > c.width {
			continue
		}
		free := true
		for i := range runes {
			cell := [2]int{start + i, l.y}
			if claimed[cell] || !math.IsInf(c.mags[l.y][start+i], 1) {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		for i, r := range runes {
			claimed[[2]int{start + i, l.y}] = true
			c.canvas[l.y][start+i] = r
			c.colors[l.y][start+i] = colorLabel
		}
	}
}

// String renders the canvas with lipgloss colors.
func (c *canvasPainter) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.canvas[y][x])))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// normalizeAngle wraps angle to -180..+180 range
func normalizeAngle(a float64) float64 {
	for a > 180 {
		a -= 360
	}
	for a < -180 {
		a += 360
	}
	return a
}

// lerpAngle interpolates between angles, taking shortest path
func lerpAngle(a, b, t float64) float64 {
	diff := normalizeAngle(b - a)
	return a + diff*t
}

// lerp linear interpolation
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Init returns nil cmd
func (m SkyViewModel) Init() tea.Cmd {
	return nil
}
