package almanac

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/litescript/ls-almanac/internal/astro"
)

// TableExport is the JSON-serializable representation of a table.
type TableExport struct {
	Date      string      `json:"date"`
	JulianDay float64     `json:"julian_day"`
	Events    []string    `json:"events"`
	Rows      []RowExport `json:"rows"`
}

// RowExport holds one latitude's times keyed by event name. Absent events
// encode as null.
type RowExport struct {
	Latitude float64             `json:"latitude"`
	Minutes  map[string]*float64 `json:"minutes_utc"`
	Times    map[string]*string  `json:"times_utc"`
}

// Export converts a table to its exportable form.
func Export(t *Table) *TableExport {
	if t == nil {
		return &TableExport{}
	}

	export := &TableExport{
		Date:      t.Date(),
		JulianDay: t.JulianDay,
	}
	for _, e := range t.Events {
		export.Events = append(export.Events, e.String())
	}

	for _, row := range t.Rows {
		r := RowExport{
			Latitude: float64(row.Latitude),
			Minutes:  make(map[string]*float64, len(t.Events)),
			Times:    make(map[string]*string, len(t.Events)),
		}
		for j, e := range t.Events {
			m := row.Times[j]
			if !m.Valid() {
				r.Minutes[e.String()] = nil
				r.Times[e.String()] = nil
				continue
			}
			v := float64(m)
			s := FormatClock(m)
			r.Minutes[e.String()] = &v
			r.Times[e.String()] = &s
		}
		export.Rows = append(export.Rows, r)
	}

	return export
}

// WriteJSON writes the table as JSON to the given writer.
func (e *TableExport) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}

// FormatMinutes renders minutes after midnight as "HH MM", rounded to the
// nearest minute. NaN and negative values render as " N/A ".
func FormatMinutes(m astro.Minutes) string {
	if !m.Valid() || m < 0 {
		return " N/A "
	}
	minutes := int(math.Round(float64(m)))
	return fmt.Sprintf("%02d %02d", minutes/60, minutes%60)
}

// FormatClock renders minutes after midnight as "HH:MM:SS", wrapping into
// [0, 24h). NaN renders as "--:--:--".
func FormatClock(m astro.Minutes) string {
	if !m.Valid() {
		return "--:--:--"
	}
	secs := int(math.Round(float64(m) * 60))
	secs = ((secs % 86400) + 86400) % 86400
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

// WriteTable writes a text table to the given writer.
func WriteTable(w io.Writer, t *Table) {
	width := 8 + 8*len(t.Events)

	fmt.Fprintf(w, "Sun events %s (JD %.1f), UTC at Greenwich\n", t.Date(), t.JulianDay)
	fmt.Fprintln(w, strings.Repeat("─", width))

	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "No latitudes")
		return
	}

	fmt.Fprintf(w, "| %-4s |", "Lat")
	for _, e := range t.Events {
		fmt.Fprintf(w, " %-5s |", ColumnLabel(e))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("─", width))

	for _, row := range t.Rows {
		fmt.Fprintf(w, "| %+4.0f |", float64(row.Latitude))
		for _, m := range row.Times {
			fmt.Fprintf(w, " %s |", FormatMinutes(m))
		}
		fmt.Fprintln(w)
	}
}

var columnLabels = map[astro.Event]string{
	astro.AstronomicalDawn: "ADawn",
	astro.NauticalDawn:     "NDawn",
	astro.CivilDawn:        "CDawn",
	astro.Sunrise:          "Rise",
	astro.Sunset:           "Set",
	astro.CivilDusk:        "CDusk",
	astro.NauticalDusk:     "NDusk",
	astro.AstronomicalDusk: "ADusk",
}

// ColumnLabel returns the short header for an event column.
func ColumnLabel(e astro.Event) string {
	if l, ok := columnLabels[e]; ok {
		return l
	}
	return e.String()
}
