package almanac

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/litescript/ls-almanac/internal/astro"
)

// ErrInvalidLatitude is returned for latitudes that do not parse or lie
// outside [-90, 90].
var ErrInvalidLatitude = errors.New("invalid latitude")

// ParseLatitudes parses a comma-separated list of latitudes in degrees,
// north positive.
func ParseLatitudes(s string) ([]astro.Degrees, error) {
	var lats []astro.Degrees
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidLatitude, field)
		}
		lat := astro.Degrees(v)
		if err := astro.CheckLatitude(lat); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidLatitude, err)
		}
		lats = append(lats, lat)
	}
	if len(lats) == 0 {
		return nil, ErrNoLatitudes
	}
	return lats, nil
}

// ParseEvents parses a comma-separated list of event names. The word "all"
// selects every event from astronomical dawn to astronomical dusk.
func ParseEvents(s string) ([]astro.Event, error) {
	if strings.EqualFold(strings.TrimSpace(s), "all") {
		return astro.AllEvents(), nil
	}

	var events []astro.Event
	for _, field := range strings.Split(s, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		e, err := astro.ParseEvent(field)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if len(events) == 0 {
		return nil, ErrNoEvents
	}
	return events, nil
}
