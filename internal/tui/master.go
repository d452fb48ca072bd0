package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// listShare is the percentage of the width given to the appliance list
const listShare = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))

	highlightStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("3"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("252"))

	brandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

// MasterView lists appliances on the left and the selected one on the right
type MasterView struct {
	selection Selection
	offset    int
	keys      keyMap
	help      help.Model
}

// NewMasterView selects the first appliance of state
func NewMasterView(state *State) *MasterView {
	return &MasterView{
		selection: NewSelection(len(state.Appliances)),
		keys:      keys,
		help:      help.New(),
	}
}

// Selection returns the current cursor
func (m *MasterView) Selection() Selection {
	return m.selection
}

// Handle implements View
func (m *MasterView) Handle(k tea.Key, state *State) (Signal, error) {
	m.selection.Resize(len(state.Appliances))

	switch {
	case key.Matches(k, m.keys.Quit):
		return Exit, nil

	case key.Matches(k, m.keys.Down):
		m.selection.Next()

	case key.Matches(k, m.keys.Up):
		m.selection.Prev()

	case key.Matches(k, m.keys.Enter):
		// Opening the detail view is not implemented yet

	case key.Matches(k, m.keys.Reload):
		// Appliances are fetched once at startup

	case key.Matches(k, m.keys.Back):
		// Already on the top-level view
	}

	return Continue, nil
}

// Render implements View
func (m *MasterView) Render(state *State, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	m.selection.Resize(len(state.Appliances))

	m.help.Width = width
	footer := m.help.ShortHelpView(m.keys.ShortHelp())

	bodyHeight := height - 1
	listWidth := width * listShare / 100
	detailWidth := width - listWidth

	list := panel("Appliances", m.listLines(state, listWidth-2, bodyHeight-3), listWidth, bodyHeight)

	var detail string
	if cursor, ok := m.selection.Selected(); ok {
		app := state.Appliances[cursor]
		detail = panel(app.DisplayName(), m.detailLines(state, cursor, detailWidth-2), detailWidth, bodyHeight)
	} else {
		detail = panel("Home", homeLines(detailWidth-2), detailWidth, bodyHeight)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

// listLines renders the visible window of nicknames, scrolled so the
// cursor stays on screen
func (m *MasterView) listLines(state *State, width, rows int) []string {
	cursor, ok := m.selection.Selected()
	if !ok || width <= 0 || rows <= 0 {
		return nil
	}

	if cursor < m.offset {
		m.offset = cursor
	}
	if cursor >= m.offset+rows {
		m.offset = cursor - rows + 1
	}

	end := m.offset + rows
	if end > len(state.Appliances) {
		end = len(state.Appliances)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		name := runewidth.Truncate(state.Appliances[i].DisplayName(), width, "…")
		if i == cursor {
			name = highlightStyle.Width(width).Render(name)
		}
		lines = append(lines, name)
	}
	return lines
}

// detailLines is the placeholder body for the selected appliance
func (m *MasterView) detailLines(state *State, cursor, width int) []string {
	if width <= 0 {
		return nil
	}
	app := state.Appliances[cursor]

	field := func(label, value string) string {
		return runewidth.Truncate(fmt.Sprintf("%-9s%s", label+":", value), width, "…")
	}

	lines := []string{
		field("Type", string(app.Type)),
		field("Device", app.Device.Name),
		field("Signals", fmt.Sprintf("%d", len(app.Signals))),
		"",
		runewidth.Truncate("Controls for this appliance are not available yet.", width, "…"),
	}
	return lines
}

// homeLines is the welcome panel shown when there is nothing to select
func homeLines(width int) []string {
	if width <= 0 {
		return nil
	}
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return []string{
		"",
		center.Render("Welcome"),
		"",
		center.Render("to"),
		"",
		center.Render(brandStyle.Render(runewidth.Truncate("Nature Remo TUI", width, "…"))),
	}
}

// panel draws a bordered box of exactly width x height cells with a
// title row; lines past the bottom edge are dropped
func panel(title string, lines []string, width, height int) string {
	innerWidth, innerHeight := width-2, height-2
	if innerWidth <= 0 || innerHeight <= 0 {
		return ""
	}

	content := make([]string, 0, innerHeight)
	content = append(content, titleStyle.Render(runewidth.Truncate(title, innerWidth, "…")))
	for _, line := range lines {
		if len(content) == innerHeight {
			break
		}
		content = append(content, line)
	}

	return panelStyle.
		Width(innerWidth).
		Height(innerHeight).
		Render(strings.Join(content, "\n"))
}

var _ View = (*MasterView)(nil)
