// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/astro"
	"github.com/litescript/ls-starfield/internal/state"
	"github.com/litescript/ls-starfield/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewSky ViewMode = iota
	ViewCatalog
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int // Animation tick for shimmer effects

	// Sub-models
	skyView     SkyViewModel
	catalogView CatalogViewModel

	// Data snapshot (refreshed on TickMsg)
	snapshot state.Snapshot
}

// New creates a new root UI model.
func New(stateMgr *state.Manager, obs astro.Observer) Model {
	snap := stateMgr.Snapshot()
	return Model{
		state:       stateMgr,
		viewMode:    ViewSky,
		skyView:     NewSkyViewModel(stateMgr, obs),
		catalogView: NewCatalogViewModel().UpdateData(snap),
		snapshot:    snap,
	}
}

// Run starts the interface on the alternate screen and blocks until the
// user quits.
func Run(stateMgr *state.Manager, obs astro.Observer) error {
	p := tea.NewProgram(New(stateMgr, obs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1":
			m.viewMode = ViewSky
			return m, nil

		case "2":
			m.viewMode = ViewCatalog
			return m, nil

		case "tab":
			m.viewMode = (m.viewMode + 1) % 2
			return m, nil
		}

		// Pass to active view
		cmds = append(cmds, m.updateActiveView(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Logo and tabs take the top, footer the bottom
		contentHeight := msg.Height - 14
		if contentHeight < 10 {
			contentHeight = 10
		}
		m.skyView = m.skyView.SetSize(msg.Width, contentHeight)
		m.catalogView = m.catalogView.SetSize(msg.Width, contentHeight)

	case TickMsg:
		// Hide/show requests queued by the views land here, between frames
		if n := m.state.ApplyPending(); n > 0 {
			m.statusMsg = fmt.Sprintf("applied %d hide/show change(s)", n)
		}
		m.snapshot = m.state.Snapshot()
		m.catalogView = m.catalogView.UpdateData(m.snapshot)
		m.skyView = m.skyView.SetTime(time.Time(msg))
		cmds = append(cmds, tickCmd())

	case AnimTickMsg:
		m.animTick++
		cmds = append(cmds, animTickCmd())

	case animTickMsg:
		var cmd tea.Cmd
		m.skyView, cmd = m.skyView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewSky:
		m.skyView, cmd = m.skyView.Update(msg)
	case ViewCatalog:
		m.catalogView, cmd = m.catalogView.Update(msg)
	}
	return cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewSky:
		content = m.skyView.View()
	case ViewCatalog:
		content = m.catalogView.View()
	}

	return m.renderFrame(content)
}

func (m Model) renderFrame(content string) string {
	header := m.renderHeader()
	footer := m.renderFooter()

	return header + "\n" + content + "\n" + footer
}

func (m Model) renderHeader() string {
	return m.renderLogo() + m.renderTabs() + "\n"
}

func (m Model) renderLogo() string {
	// ASCII art with smooth truecolor gradient
	logo := []string{
		`  ██╗     ███████╗    ███████╗████████╗ █████╗ ██████╗ ███████╗██╗███████╗██╗     ██████╗ `,
		`  ██║     ██╔════╝    ██╔════╝╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║██╔════╝██║     ██╔══██╗`,
		`  ██║     ███████╗    ███████╗   ██║   ███████║██████╔╝█████╗  ██║█████╗  ██║     ██║  ██║`,
		`  ██║     ╚════██║    ╚════██║   ██║   ██╔══██║██╔══██╗██╔══╝  ██║██╔══╝  ██║     ██║  ██║`,
		`  ███████╗███████║    ███████║   ██║   ██║  ██║██║  ██║██║     ██║███████╗███████╗██████╔╝`,
		`  ╚══════╝╚══════╝    ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝╚═╝     ╚═╝╚══════╝╚══════╝╚═════╝ `,
	}

	var b strings.Builder
	b.WriteString("\n")

	// Render each line with a horizontal truecolor gradient
	for row, line := range logo {
		runes := []rune(line)
		lineLen := len(runes)

		for col, r := range runes {
			color := gradientColor(col, row, lineLen, len(logo))
			style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			b.WriteString(style.Render(string(r)))
		}
		b.WriteString("\n")
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render("  Zoned Star Catalogs · Terminal Planetarium"))
	b.WriteString("\n")

	copyright := fmt.Sprintf("  (c) 2025 litescript.net | v%s", version.Version)
	b.WriteString(muted.Render(copyright))
	b.WriteString("\n\n")

	return b.String()
}

// gradientColor returns a hex color for a position in the logo gradient.
// Creates a vibrant nebula effect: blue -> purple -> magenta -> pink
func gradientColor(col, row, width, height int) string {
	// Normalize positions to 0-1
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	// Blue (#3B82F6) -> Purple (#8B5CF6) -> Magenta (#D946EF) -> Pink (#EC4899)
	var r, g, b float64

	if xRatio < 0.33 {
		// Blue to Purple
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		// Purple to Magenta
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		// Magenta to Pink
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top, darker toward bottom
	brightnessFactor := 1.0 - (yRatio * 0.5)

	return fmt.Sprintf("#%02X%02X%02X",
		clampByte(r*brightnessFactor), clampByte(g*brightnessFactor), clampByte(b*brightnessFactor))
}

func clampByte(v float64) int {
	switch {
	case v > 255:
		return 255
	case v < 0:
		return 0
	default:
		return int(v)
	}
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Sky", "[2] Catalog"}
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, dimStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	// Animated spinner frames
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	if len(m.snapshot.Tiers) == 0 {
		status = accentStyle.Render(spinner) + " " + m.renderShimmerText("No catalog tiers loaded")
	} else {
		stars := 0
		for _, t := range m.snapshot.Tiers {
			stars += t.Stars
		}
		status = accentStyle.Render(spinner) + dimStyle.Render(fmt.Sprintf(" %d stars in %d tiers", stars, len(m.snapshot.Tiers)))
	}

	var help string
	switch m.viewMode {
	case ViewSky:
		help = dimStyle.Render("arrows: pan | c: center | x: hide | a: show all | r: refraction | n: labels | +/-: limit | [/]: epoch")
	default:
		help = dimStyle.Render("↑↓: select tier | tab: switch view | q: quit")
	}

	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}

	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	// Shimmer sweeps smoothly across
	pos := m.animTick % (textLen + 8)

	var result strings.Builder

	for i, r := range runes {
		// Distance from shimmer center
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		hexColor := fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor))
		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
