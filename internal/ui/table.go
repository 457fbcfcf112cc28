package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/almanac"
	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

// Styles for the almanac table
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	absentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
)

// TableModel shows the almanac page for the current date.
type TableModel struct {
	width    int
	height   int
	cursor   int
	offset   int
	snapshot state.Snapshot
}

// NewTableModel creates a new table model.
func NewTableModel() TableModel {
	return TableModel{}
}

// SetSize updates the viewport size.
func (m TableModel) SetSize(width, height int) TableModel {
	m.width = width
	m.height = height
	m.clampScroll()
	return m
}

// UpdateData updates the model with new data.
func (m TableModel) UpdateData(snapshot state.Snapshot) TableModel {
	m.snapshot = snapshot
	if n := m.rowCount(); m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
	m.clampScroll()
	return m
}

func (m TableModel) rowCount() int {
	if m.snapshot.Table == nil {
		return 0
	}
	return len(m.snapshot.Table.Rows)
}

// Update handles messages.
func (m TableModel) Update(msg tea.Msg) (TableModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		rows := m.rowCount()

		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < rows-1 {
				m.cursor++
			}
		case "home":
			m.cursor = 0
		case "end":
			if rows > 0 {
				m.cursor = rows - 1
			}
		}
		m.clampScroll()
	}

	return m, nil
}

// SelectedLatitude returns the latitude under the cursor.
func (m TableModel) SelectedLatitude() (astro.Degrees, bool) {
	if m.cursor < 0 || m.cursor >= m.rowCount() {
		return 0, false
	}
	return m.snapshot.Table.Rows[m.cursor].Latitude, true
}

// visibleRows is how many table rows fit below the title and header.
func (m TableModel) visibleRows() int {
	if m.height <= 0 {
		return m.rowCount()
	}
	return max(m.height-3, 1)
}

// clampScroll keeps the cursor inside the visible window.
func (m *TableModel) clampScroll() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the table.
func (m TableModel) View() string {
	var b strings.Builder

	table := m.snapshot.Table
	if table == nil {
		b.WriteString(absentStyle.Render("  No almanac computed"))
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render(fmt.Sprintf("Sun events %s, UTC at Greenwich", table.Date())))
	b.WriteString("\n\n")

	var header strings.Builder
	header.WriteString(fmt.Sprintf(" %-5s", "Lat"))
	for _, e := range table.Events {
		header.WriteString(fmt.Sprintf("  %-5s", almanac.ColumnLabel(e)))
	}
	b.WriteString("  ")
	b.WriteString(headerStyle.Render(header.String() + " "))
	b.WriteString("\n")

	end := min(m.offset+m.visibleRows(), len(table.Rows))
	for i := m.offset; i < end; i++ {
		b.WriteString("  ")
		b.WriteString(m.renderRow(table.Rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	if hidden := len(table.Rows) - (end - m.offset); hidden > 0 {
		b.WriteString(absentStyle.Render(fmt.Sprintf("  … %d more latitudes", hidden)))
		b.WriteString("\n")
	}

	return b.String()
}

func (m TableModel) renderRow(row almanac.Row, selected bool) string {
	var line strings.Builder
	line.WriteString(fmt.Sprintf(" %+5.1f", float64(row.Latitude)))
	for _, t := range row.Times {
		line.WriteString("  ")
		line.WriteString(almanac.FormatMinutes(t))
	}
	line.WriteString(" ")

	if selected {
		return selectedRowStyle.Render(line.String())
	}
	return rowStyle.Render(line.String())
}
