// Package schedule turns solar events into cron schedules.
package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/litescript/ls-almanac/internal/astro"
)

// DefaultMaxSearchDays bounds the forward search for an event. A year
// covers the longest polar night.
const DefaultMaxSearchDays = 370

// Errors returned by ParseSpec.
var (
	ErrBadOffset = errors.New("invalid event offset")
	ErrBadSpec   = errors.New("invalid schedule")
)

// EventSchedule fires at a solar event for an observer, shifted by Offset.
//
// This implements robfig/cron.Schedule
type EventSchedule struct {
	Event         astro.Event
	Observer      astro.Observer
	Offset        time.Duration
	MaxSearchDays int
}

// Next returns the first occurrence of the event strictly after now. It
// returns the zero time when the event does not happen within the search
// window, which cron treats as never.
func (s EventSchedule) Next(now time.Time) time.Time {
	maxDays := s.MaxSearchDays
	if maxDays <= 0 {
		maxDays = DefaultMaxSearchDays
	}

	// Start a day early: a large longitude shift moves the event onto the
	// neighboring UTC date.
	day := now.UTC().AddDate(0, 0, -1)
	for i := 0; i <= maxDays+1; i++ {
		t, ok := astro.EventAt(s.Event, day.AddDate(0, 0, i), s.Observer)
		if !ok {
			continue
		}
		t = t.Add(s.Offset)
		if t.After(now) {
			return t.In(now.Location())
		}
	}
	return time.Time{}
}

// Name describes the schedule, e.g. "sunset-30m0s".
func (s EventSchedule) Name() string {
	switch {
	case s.Offset > 0:
		return fmt.Sprintf("%s+%s", s.Event, s.Offset)
	case s.Offset < 0:
		return fmt.Sprintf("%s%s", s.Event, s.Offset)
	default:
		return s.Event.String()
	}
}

// ParseSpec parses a schedule. "@<event> [offset]" selects a solar event
// for obs, such as "@sunset -30m" or "@civil-dawn". Anything else is a
// standard five-field cron expression or descriptor like "@hourly".
func ParseSpec(spec string, obs astro.Observer) (cron.Schedule, error) {
	fields := strings.Fields(spec)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrBadSpec)
	}

	if strings.HasPrefix(fields[0], "@") {
		if e, err := astro.ParseEvent(strings.TrimPrefix(fields[0], "@")); err == nil {
			s := EventSchedule{Event: e, Observer: obs}
			switch len(fields) {
			case 1:
			case 2:
				offset, err := time.ParseDuration(fields[1])
				if err != nil {
					return nil, fmt.Errorf("%w: %q", ErrBadOffset, fields[1])
				}
				s.Offset = offset
			default:
				return nil, fmt.Errorf("%w: %q", ErrBadSpec, spec)
			}
			return s, nil
		}
	}

	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSpec, err)
	}
	return sched, nil
}
