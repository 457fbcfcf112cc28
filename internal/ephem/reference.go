package ephem

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/sixdouglas/suncalc"

	"github.com/litescript/ls-almanac/internal/astro"
)

// SunriseProvider wraps go-sunrise, which only knows sunrise and sunset.
type SunriseProvider struct{}

// Name implements Provider.
func (SunriseProvider) Name() string { return "sunrise" }

// EventAt implements Provider.
func (p SunriseProvider) EventAt(e astro.Event, day time.Time, obs astro.Observer) (time.Time, bool) {
	if !p.Available(e) {
		return time.Time{}, false
	}
	y, m, d := day.UTC().Date()
	rise, set := sunrise.SunriseSunset(float64(obs.Latitude), float64(obs.Longitude), y, m, d)

	t := rise
	if e == astro.Sunset {
		t = set
	}
	return t.UTC(), plausible(t, day)
}

// Available implements Provider.
func (SunriseProvider) Available(e astro.Event) bool {
	return e == astro.Sunrise || e == astro.Sunset
}

// suncalcNames maps events to suncalc's names for them.
var suncalcNames = map[astro.Event]suncalc.DayTimeName{
	astro.AstronomicalDawn: suncalc.NightEnd,
	astro.NauticalDawn:     suncalc.NauticalDawn,
	astro.CivilDawn:        suncalc.Dawn,
	astro.Sunrise:          suncalc.Sunrise,
	astro.Sunset:           suncalc.Sunset,
	astro.CivilDusk:        suncalc.Dusk,
	astro.NauticalDusk:     suncalc.NauticalDusk,
	astro.AstronomicalDusk: suncalc.Night,
}

// SuncalcProvider wraps suncalc, a port of the JavaScript SunCalc library.
type SuncalcProvider struct{}

// Name implements Provider.
func (SuncalcProvider) Name() string { return "suncalc" }

// EventAt implements Provider.
func (SuncalcProvider) EventAt(e astro.Event, day time.Time, obs astro.Observer) (time.Time, bool) {
	name, ok := suncalcNames[e]
	if !ok {
		return time.Time{}, false
	}
	// suncalc picks the solar day nearest the given instant
	noon := utcMidnight(day).Add(12 * time.Hour)
	times := suncalc.GetTimes(noon, float64(obs.Latitude), float64(obs.Longitude))

	dt, ok := times[name]
	if !ok {
		return time.Time{}, false
	}
	return dt.Value.UTC(), plausible(dt.Value, day)
}

// Available implements Provider.
func (SuncalcProvider) Available(e astro.Event) bool {
	_, ok := suncalcNames[e]
	return ok
}

// plausible reports whether t is a real result for the date of day. The
// reference libraries return zero or wildly out of range times for events
// that do not occur.
func plausible(t, day time.Time) bool {
	if t.IsZero() {
		return false
	}
	midnight := utcMidnight(day)
	return !t.Before(midnight.Add(-12*time.Hour)) && t.Before(midnight.Add(36*time.Hour))
}
