package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-almanac/internal/astro"
	"github.com/litescript/ls-almanac/internal/state"
)

// SparklineWidth is the fixed width of the altitude sparkline.
const SparklineWidth = 48

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Altitude gradient: night (dark blue) → horizon (amber) → high sun (pale yellow).
var (
	altColorNight   = [3]uint8{0x1b, 0x2b, 0x4b}
	altColorHorizon = [3]uint8{0xf5, 0x9e, 0x0b}
	altColorHigh    = [3]uint8{0xfe, 0xf3, 0xc7}
)

// sparkline range in degrees of altitude
const (
	sparkMinAlt = -18.0
	sparkMaxAlt = 72.0
)

// DayModel shows the observer's events for the current date.
type DayModel struct {
	width    int
	height   int
	snapshot state.Snapshot
	now      time.Time
	trace    []float64
	noon     time.Time
	noonAlt  astro.Degrees
}

// NewDayModel creates a new observer day model.
func NewDayModel() DayModel {
	return DayModel{}
}

// SetSize updates the viewport size.
func (m DayModel) SetSize(width, height int) DayModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData updates the model with new data and recomputes the altitude
// trace when the date or observer changed.
func (m DayModel) UpdateData(snapshot state.Snapshot, now time.Time) DayModel {
	if m.trace == nil || !snapshot.Date.Equal(m.snapshot.Date) || snapshot.Observer != m.snapshot.Observer {
		m.trace = AltitudeTrace(snapshot.Date, snapshot.Observer, SparklineWidth)
		m.noon, m.noonAlt = time.Time{}, 0
		if !snapshot.Date.IsZero() {
			m.noon, m.noonAlt = astro.Transit(astro.SampleDay(snapshot.Observer, snapshot.Date, 10*time.Minute))
		}
	}
	m.snapshot = snapshot
	m.now = now
	return m
}

// Update handles messages.
func (m DayModel) Update(msg tea.Msg) (DayModel, tea.Cmd) {
	return m, nil
}

// View renders the observer's day.
func (m DayModel) View() string {
	var b strings.Builder
	snap := m.snapshot

	if snap.Date.IsZero() {
		b.WriteString(absentStyle.Render("  No date selected"))
		return b.String()
	}

	b.WriteString("  ")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s at %s", snap.Date.Format("Monday 2 January 2006"), observerName(snap.Observer))))
	b.WriteString("\n\n")

	for _, oe := range snap.ObserverEvents {
		b.WriteString(fmt.Sprintf("  %-18s ", oe.Event))
		if !oe.OK {
			b.WriteString(absentStyle.Render("does not occur"))
		} else {
			b.WriteString(rowStyle.Render(oe.Time.UTC().Format("15:04:05") + " UTC"))
			if oe.Source != "" && oe.Source != "meeus" {
				b.WriteString(absentStyle.Render(" via " + oe.Source))
			}
			if oe.Time.UTC().Format("2006-01-02") != snap.Date.Format("2006-01-02") {
				b.WriteString(absentStyle.Render(" (" + oe.Time.UTC().Format("Jan 2") + ")"))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n  ")
	b.WriteString(rowStyle.Render("Day length: " + DayLength(snap.ObserverEvents, m.trace)))
	if !m.noon.IsZero() {
		b.WriteString("\n  ")
		b.WriteString(rowStyle.Render(fmt.Sprintf("Solar noon: %s UTC at %+.1f°", m.noon.UTC().Format("15:04:05"), float64(m.noonAlt))))
	}
	b.WriteString("\n\n  ")
	b.WriteString(m.renderAltitudeSparkline())
	b.WriteString("\n")

	return b.String()
}

// renderAltitudeSparkline renders the Sun's altitude over the UTC day.
func (m DayModel) renderAltitudeSparkline() string {
	if len(m.trace) == 0 {
		return absentStyle.Render("No altitude data")
	}

	var sb strings.Builder
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	sb.WriteString(labelStyle.Render("00h "))

	for _, alt := range m.trace {
		t := (alt - sparkMinAlt) / (sparkMaxAlt - sparkMinAlt)
		t = min(max(t, 0), 1)

		blockIdx := min(int(t*7.0), 7)
		r, g, b := interpolateAltColor(alt)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)

		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[blockIdx])))
	}
	sb.WriteString(labelStyle.Render(" 24h"))

	// Current altitude when today is shown
	if !m.now.IsZero() && m.now.UTC().Format("2006-01-02") == m.snapshot.Date.Format("2006-01-02") {
		alt := astro.SunAltitude(m.now, m.snapshot.Observer)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Render(fmt.Sprintf(" now: %+.0f°", float64(alt))))
	}

	return sb.String()
}

// interpolateAltColor returns the RGB color for an altitude in degrees.
func interpolateAltColor(alt float64) (uint8, uint8, uint8) {
	lerp := func(a, b [3]uint8, s float64) (uint8, uint8, uint8) {
		s = min(max(s, 0), 1)
		return uint8(float64(a[0])*(1-s) + float64(b[0])*s),
			uint8(float64(a[1])*(1-s) + float64(b[1])*s),
			uint8(float64(a[2])*(1-s) + float64(b[2])*s)
	}
	if alt < 0 {
		return lerp(altColorNight, altColorHorizon, (alt-sparkMinAlt)/-sparkMinAlt)
	}
	return lerp(altColorHorizon, altColorHigh, alt/sparkMaxAlt)
}

// AltitudeTrace samples the Sun's altitude for obs at n evenly spaced
// instants across the UTC day starting at date.
func AltitudeTrace(date time.Time, obs astro.Observer, n int) []float64 {
	if n <= 0 || date.IsZero() {
		return nil
	}
	step := 24 * time.Hour / time.Duration(n)
	result := make([]float64, n)
	for i := range result {
		// Sample the middle of each bucket
		t := date.Add(time.Duration(i)*step + step/2)
		result[i] = float64(astro.SunAltitude(t, obs))
	}
	return result
}

// DayLength describes the time between sunrise and sunset. Without both
// events it reports midnight sun or polar night from the altitude trace.
func DayLength(events []state.ObserverEvent, trace []float64) string {
	var rise, set state.ObserverEvent
	for _, oe := range events {
		switch oe.Event {
		case astro.Sunrise:
			rise = oe
		case astro.Sunset:
			set = oe
		}
	}

	if rise.OK && set.OK {
		d := set.Time.Sub(rise.Time)
		if d < 0 {
			d += 24 * time.Hour
		}
		return formatDuration(d)
	}

	horizon := 90 - float64(astro.RiseOrSet)
	above := 0
	for _, alt := range trace {
		if alt > horizon {
			above++
		}
	}
	switch {
	case len(trace) == 0:
		return "unknown"
	case above == len(trace):
		return "midnight sun"
	case above == 0:
		return "polar night"
	default:
		return "sun crosses the horizon only once"
	}
}

// formatDuration formats a duration as "Xh YYm".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh %02dm", int(d.Hours()), int(d.Minutes())%60)
}
