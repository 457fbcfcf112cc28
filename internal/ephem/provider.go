// Package ephem provides solar event times from interchangeable sources.
package ephem

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/litescript/ls-almanac/internal/astro"
)

// Provider defines the interface for solar event sources.
type Provider interface {
	// Name returns the provider name for display/logging.
	Name() string

	// EventAt returns the instant of e for obs on the UTC date of day.
	// ok is false when the event does not occur that day.
	EventAt(e astro.Event, day time.Time, obs astro.Observer) (t time.Time, ok bool)

	// Available returns true if this provider can compute the event.
	Available(e astro.Event) bool
}

// Mode represents which event source to use.
type Mode int

const (
	ModeMeeus   Mode = iota // Built-in low-precision Meeus engine (default)
	ModeSunrise             // github.com/nathan-osman/go-sunrise
	ModeSuncalc             // github.com/sixdouglas/suncalc
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeMeeus:
		return "meeus"
	case ModeSunrise:
		return "sunrise"
	case ModeSuncalc:
		return "suncalc"
	default:
		return "unknown"
	}
}

// ErrUnknownMode is returned by ParseMode for an unrecognized name.
var ErrUnknownMode = errors.New("unknown engine")

// ParseMode parses a mode string. The empty string selects ModeMeeus.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "meeus":
		return ModeMeeus, nil
	case "sunrise":
		return ModeSunrise, nil
	case "suncalc":
		return ModeSuncalc, nil
	default:
		return ModeMeeus, fmt.Errorf("%w: %q (want meeus, sunrise or suncalc)", ErrUnknownMode, s)
	}
}

// New returns the provider for a mode.
func New(m Mode) Provider {
	switch m {
	case ModeSunrise:
		return SunriseProvider{}
	case ModeSuncalc:
		return SuncalcProvider{}
	default:
		return MeeusProvider{}
	}
}

// utcMidnight returns the start of the UTC date of t.
func utcMidnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MeeusProvider uses the built-in engine.
type MeeusProvider struct{}

// Name implements Provider.
func (MeeusProvider) Name() string { return "meeus" }

// EventAt implements Provider.
func (MeeusProvider) EventAt(e astro.Event, day time.Time, obs astro.Observer) (time.Time, bool) {
	return astro.EventAt(e, day, obs)
}

// Available implements Provider. Every event is supported.
func (MeeusProvider) Available(e astro.Event) bool {
	return e >= astro.AstronomicalDawn && e <= astro.AstronomicalDusk
}
