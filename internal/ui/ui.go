// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
	"github.com/litescript/ls-almanac/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewTable ViewMode = iota
	ViewDay
)

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// DataUpdateMsg signals that state changed outside the UI, such as a
	// watch event firing.
	DataUpdateMsg struct {
		Snapshot state.Snapshot
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	state *state.Manager
	now   func() time.Time

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string

	// Sub-models
	table TableModel
	day   DayModel

	snapshot state.Snapshot
}

// New creates a new root UI model. The manager should already hold a date.
func New(stateMgr *state.Manager) Model {
	m := Model{
		state:    stateMgr,
		now:      time.Now,
		viewMode: ViewTable,
		table:    NewTableModel(),
		day:      NewDayModel(),
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.state.RefreshInterval())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case "1", "a":
			m.viewMode = ViewTable
		case "2", "o":
			m.viewMode = ViewDay
		case "tab":
			m.viewMode = (m.viewMode + 1) % 2

		case "left", "h":
			m.state.ShiftDate(-1)
			m.refresh()
		case "right", "l":
			m.state.ShiftDate(1)
			m.refresh()
		case "pgup":
			m.state.ShiftDate(-7)
			m.refresh()
		case "pgdown":
			m.state.ShiftDate(7)
			m.refresh()
		case "t":
			m.state.SetDate(m.now())
			m.refresh()
			m.statusMsg = "Jumped to today"

		case "enter":
			// Observe from the highlighted latitude
			if m.viewMode == ViewTable {
				if lat, ok := m.table.SelectedLatitude(); ok {
					obs := m.snapshot.Observer
					obs.Latitude = lat
					m.state.SetObserver(obs)
					m.refresh()
					m.viewMode = ViewDay
					m.statusMsg = fmt.Sprintf("Observer moved to latitude %+.2f°", float64(lat))
				}
			}

		default:
			cmds = append(cmds, m.updateActiveView(msg))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Header takes 4 lines, footer up to 5
		contentHeight := msg.Height - 9
		m.table = m.table.SetSize(msg.Width, contentHeight)
		m.day = m.day.SetSize(msg.Width, contentHeight)

	case TickMsg:
		cmds = append(cmds, tickCmd(m.state.RefreshInterval()))
		m.refresh()

	case DataUpdateMsg:
		m.setSnapshot(msg.Snapshot)

	default:
		cmds = append(cmds, m.updateActiveView(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) refresh() {
	m.setSnapshot(m.state.Snapshot())
}

func (m *Model) setSnapshot(snap state.Snapshot) {
	m.snapshot = snap
	m.table = m.table.UpdateData(snap)
	m.day = m.day.UpdateData(snap, m.now())
}

func (m *Model) updateActiveView(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch m.viewMode {
	case ViewTable:
		m.table, cmd = m.table.Update(msg)
	case ViewDay:
		m.day, cmd = m.day.Update(msg)
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
	case ViewTable:
		content = m.table.View()
	case ViewDay:
		content = m.day.View()
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

var (
	logoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))

	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))

	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	activeTabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
)

func (m Model) renderHeader() string {
	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(logoStyle.Render("☀ LS-ALMANAC"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  Sun events by latitude · v%s", version.Version)))
	b.WriteString("\n")

	b.WriteString("  ")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderStatusLine() string {
	snap := m.snapshot
	if snap.Table == nil {
		return mutedStyle.Render("No date selected")
	}

	obs := snap.Observer
	alt := astro.SunAltitude(m.now(), obs)

	parts := []string{
		fmt.Sprintf("%s (JD %.1f)", snap.Table.Date(), snap.Table.JulianDay),
		fmt.Sprintf("%s %s", observerName(obs), formatPosition(obs)),
		fmt.Sprintf("Sun now %+.1f° %s", float64(alt), skyState(alt)),
	}
	return accentStyle.Render(parts[0]) + mutedStyle.Render(" | "+parts[1]+" | "+parts[2])
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Almanac", "[2] Observer"}

	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeTabStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, mutedStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	var b strings.Builder

	events := m.snapshot.Events
	if n := len(events); n > 3 {
		events = events[n-3:]
	}
	for _, e := range events {
		b.WriteString("  ")
		b.WriteString(renderWatchEvent(e))
		b.WriteString("\n")
	}

	var help string
	switch m.viewMode {
	case ViewDay:
		help = "←/→: day | pgup/pgdn: week | t: today | tab: switch view | q: quit"
	default:
		help = "←/→: day | ↑↓: latitude | enter: observe | t: today | tab: switch view | q: quit"
	}
	b.WriteString("  ")
	b.WriteString(mutedStyle.Render(help))

	if m.statusMsg != "" {
		b.WriteString("\n  ")
		b.WriteString(mutedStyle.Render(m.statusMsg))
	}
	return b.String()
}

func renderWatchEvent(e state.Event) string {
	line := fmt.Sprintf("%-8s %-18s %s", e.Type, e.Name, e.Timestamp.UTC().Format("2006-01-02 15:04:05Z"))
	if e.Type != state.EventNoneDue {
		line += fmt.Sprintf("  sun %+.2f°", float64(e.Altitude))
	}
	if e.Type == state.EventFired {
		return accentStyle.Render(line)
	}
	return errorStyle.Render(line)
}

// skyState names the part of the day for a solar altitude.
func skyState(alt astro.Degrees) string {
	switch {
	case alt >= 90-astro.RiseOrSet:
		return "day"
	case alt >= 90-astro.CivilTwilight:
		return "civil twilight"
	case alt >= 90-astro.NauticalTwilight:
		return "nautical twilight"
	case alt >= 90-astro.AstronomicalTwilight:
		return "astronomical twilight"
	default:
		return "night"
	}
}

func observerName(obs astro.Observer) string {
	if obs.Name == "" {
		return "Observer"
	}
	return obs.Name
}

func formatPosition(obs astro.Observer) string {
	ns, ew := "N", "E"
	lat, lon := float64(obs.Latitude), float64(obs.Longitude)
	if lat < 0 {
		ns, lat = "S", -lat
	}
	if lon < 0 {
		ew, lon = "W", -lon
	}
	return fmt.Sprintf("%.4f°%s %.4f°%s", lat, ns, lon, ew)
}

func tickCmd(interval time.Duration) tea.Cmd {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// SendDataUpdate returns a command delivering a fresh snapshot to the UI.
func SendDataUpdate(snapshot state.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return DataUpdateMsg{Snapshot: snapshot}
	}
}
