// Package almanac builds daily tables of solar event times by latitude.
package almanac

import (
	"errors"
	"fmt"
	"sync"

	"github.com/litescript/ls-almanac/internal/astro"
)

// ErrNoLatitudes is returned when a table would have no rows.
var ErrNoLatitudes = errors.New("no latitudes configured")

// ErrNoEvents is returned when a table would have no columns.
var ErrNoEvents = errors.New("no events configured")

// Config selects the rows and columns of a table.
type Config struct {
	Latitudes []astro.Degrees
	Events    []astro.Event
}

// DefaultConfig returns the latitude list and events tabulated by the
// Nautical Almanac.
func DefaultConfig() Config {
	return Config{
		Latitudes: []astro.Degrees{
			72, 70, 68, 66, 64, 62, 60, 58, 56, 54, 52, 50, 45, 40, 35, 30, 20, 10, 0,
			-10, -20, -30, -35, -40, -45, -50, -52, -54, -56, -58, -60,
		},
		Events: []astro.Event{
			astro.NauticalDawn,
			astro.CivilDawn,
			astro.Sunrise,
			astro.Sunset,
			astro.CivilDusk,
			astro.NauticalDusk,
		},
	}
}

// Validate checks that the config has rows and columns and that every
// latitude is on the globe.
func (c Config) Validate() error {
	if len(c.Latitudes) == 0 {
		return ErrNoLatitudes
	}
	if len(c.Events) == 0 {
		return ErrNoEvents
	}
	for _, lat := range c.Latitudes {
		if err := astro.CheckLatitude(lat); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLatitude, err)
		}
	}
	return nil
}

// Row holds the event times for one latitude, in the order of Table.Events.
// Times are minutes after 0h UTC at the Greenwich meridian; NaN marks an
// event that does not happen.
type Row struct {
	Latitude astro.Degrees
	Times    []astro.Minutes
}

// Table is a computed almanac page for one date.
type Table struct {
	JulianDay float64
	Year      int
	Month     int
	Day       float64
	Events    []astro.Event
	Rows      []Row
}

// Compute builds the table for a calendar date.
func Compute(year, month int, dayFrac float64, cfg Config) *Table {
	return ComputeJD(astro.JulianDay(year, month, dayFrac), cfg)
}

// ComputeJD builds the table for a Julian Day. Rows are computed
// concurrently and returned in config order.
func ComputeJD(jd float64, cfg Config) *Table {
	year, month, day := astro.CalendarFromJulianDay(jd)
	events := append([]astro.Event(nil), cfg.Events...)

	t := &Table{
		JulianDay: jd,
		Year:      year,
		Month:     month,
		Day:       day,
		Events:    events,
		Rows:      make([]Row, len(cfg.Latitudes)),
	}

	var wg sync.WaitGroup
	for i, lat := range cfg.Latitudes {
		wg.Add(1)
		go func(i int, lat astro.Degrees) {
			defer wg.Done()
			row := Row{Latitude: lat, Times: make([]astro.Minutes, len(events))}
			for j, e := range events {
				row.Times[j] = astro.UTCForSolarAngle(e.Rise(), jd, lat, e.Zenith())
			}
			t.Rows[i] = row
		}(i, lat)
	}
	wg.Wait()

	return t
}

// Date formats the table's calendar date as YYYY-MM-DD.
func (t *Table) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year, t.Month, int(t.Day))
}

// Lookup returns the time of an event at a tabulated latitude.
func (t *Table) Lookup(lat astro.Degrees, e astro.Event) (astro.Minutes, bool) {
	col := -1
	for j, ev := range t.Events {
		if ev == e {
			col = j
			break
		}
	}
	if col < 0 {
		return 0, false
	}
	for _, row := range t.Rows {
		if row.Latitude == lat {
			m := row.Times[col]
			return m, m.Valid()
		}
	}
	return 0, false
}
