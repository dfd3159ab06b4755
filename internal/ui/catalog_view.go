package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-starfield/internal/state"
)

// Styles for the catalog panel
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("183")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	dimRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E84A27"))
)

// CatalogViewModel lists the loaded tiers and the tier event log.
type CatalogViewModel struct {
	width    int
	height   int
	cursor   int
	snapshot state.Snapshot
}

// NewCatalogViewModel creates a new catalog panel.
func NewCatalogViewModel() CatalogViewModel {
	return CatalogViewModel{}
}

// Init implements the Bubble Tea model interface.
func (m CatalogViewModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the viewport size.
func (m CatalogViewModel) SetSize(width, height int) CatalogViewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with a new snapshot.
func (m CatalogViewModel) UpdateData(snapshot state.Snapshot) CatalogViewModel {
	m.snapshot = snapshot
	if m.cursor >= len(snapshot.Tiers) {
		m.cursor = max(len(snapshot.Tiers)-1, 0)
	}
	return m
}

// Update handles messages.
func (m CatalogViewModel) Update(msg tea.Msg) (CatalogViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		n := len(m.snapshot.Tiers)
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if n > 0 {
				m.cursor = n - 1
			}
		}
	}

	return m, nil
}

// SelectedTier returns the tier under the cursor, if any.
func (m CatalogViewModel) SelectedTier() (state.TierInfo, bool) {
	if m.cursor < 0 || m.cursor >= len(m.snapshot.Tiers) {
		return state.TierInfo{}, false
	}
	return m.snapshot.Tiers[m.cursor], true
}

// View renders the panel.
func (m CatalogViewModel) View() string {
	var b strings.Builder

	b.WriteString(m.renderSummary())
	b.WriteString("\n")
	b.WriteString(m.renderTierTable())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())

	return b.String()
}

func (m CatalogViewModel) renderSummary() string {
	stars := 0
	for _, t := range m.snapshot.Tiers {
		stars += t.Stars
	}
	line := fmt.Sprintf("%d tiers | %d stars | %d indexed | %d named | %d hidden",
		len(m.snapshot.Tiers), stars, m.snapshot.Indexed, m.snapshot.Names, m.snapshot.Hidden)
	if m.snapshot.Pending > 0 {
		line += fmt.Sprintf(" | %d pending", m.snapshot.Pending)
	}
	return titleStyle.Render("Catalog") + "\n  " + rowStyle.Render(line) + "\n"
}

func (m CatalogViewModel) renderTierTable() string {
	var b strings.Builder

	header := fmt.Sprintf("%-5s %-6s %-10s %-13s %-6s %s",
		"Level", "Layout", "Stars", "Magnitudes", "Mapped", "File")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(m.snapshot.Tiers) == 0 {
		b.WriteString(dimRowStyle.Render("  No tiers loaded"))
		b.WriteString("\n")
		return b.String()
	}

	for i, t := range m.snapshot.Tiers {
		mapped := "no"
		if t.Mapped {
			mapped = "yes"
		}
		row := fmt.Sprintf("%-5d %-6s %-10d %5.2f..%-6.2f %-6s %s",
			t.Level, t.Layout, t.Stars, t.MagMin, t.MagMax, mapped,
			truncate(filepath.Base(t.Path), 32))

		if i == m.cursor {
			b.WriteString(selectedRowStyle.Render(row))
		} else {
			b.WriteString(rowStyle.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m CatalogViewModel) renderEvents() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")

	events := m.snapshot.Events
	if len(events) == 0 {
		b.WriteString(dimRowStyle.Render("  No events"))
		return b.String()
	}

	// Newest last; keep what fits below the tier table
	maxRows := m.height - len(m.snapshot.Tiers) - 8
	if maxRows < 3 {
		maxRows = 3
	}
	if len(events) > maxRows {
		events = events[len(events)-maxRows:]
	}

	for _, e := range events {
		line := fmt.Sprintf("  %s %-13s level %d %s",
			e.Timestamp.Format("15:04:05"), e.Type, e.Level, truncate(filepath.Base(e.Path), 32))
		switch e.Type {
		case state.EventTierFailed:
			b.WriteString(errorStyle.Render(line + ": " + e.Err))
		case state.EventTierUnloaded:
			b.WriteString(dimRowStyle.Render(line))
		default:
			b.WriteString(rowStyle.Render(fmt.Sprintf("%s (%d stars)", line, e.Stars)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
