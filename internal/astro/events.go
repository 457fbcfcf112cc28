package astro

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/soniakeys/unit"
)

// Zenith angles of the Sun's center for the standard events.
const (
	RiseOrSet            Degrees = 90.833 // 90°50' for refraction and semidiameter
	CivilTwilight        Degrees = 96.0
	NauticalTwilight     Degrees = 102.0
	AstronomicalTwilight Degrees = 108.0
)

// Errors returned by event and latitude helpers.
var (
	ErrLatitudeOutOfRange = errors.New("latitude out of range [-90, 90]")
	ErrUnknownEvent       = errors.New("unknown solar event")
)

// Event is a named crossing of a standard zenith angle.
type Event int

const (
	AstronomicalDawn Event = iota
	NauticalDawn
	CivilDawn
	Sunrise
	Sunset
	CivilDusk
	NauticalDusk
	AstronomicalDusk
)

var eventNames = [...]string{
	AstronomicalDawn: "astronomical-dawn",
	NauticalDawn:     "nautical-dawn",
	CivilDawn:        "civil-dawn",
	Sunrise:          "sunrise",
	Sunset:           "sunset",
	CivilDusk:        "civil-dusk",
	NauticalDusk:     "nautical-dusk",
	AstronomicalDusk: "astronomical-dusk",
}

// AllEvents returns every event in daily order.
func AllEvents() []Event {
	return []Event{
		AstronomicalDawn, NauticalDawn, CivilDawn, Sunrise,
		Sunset, CivilDusk, NauticalDusk, AstronomicalDusk,
	}
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return fmt.Sprintf("Event(%d)", int(e))
	}
	return eventNames[e]
}

// ParseEvent parses an event name as printed by String.
func ParseEvent(s string) (Event, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range eventNames {
		if n == name {
			return Event(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

// Rise reports whether e happens on the morning side of solar noon.
func (e Event) Rise() bool {
	return e <= Sunrise
}

// Zenith returns the zenith angle that defines e.
func (e Event) Zenith() Degrees {
	switch e {
	case AstronomicalDawn, AstronomicalDusk:
		return AstronomicalTwilight
	case NauticalDawn, NauticalDusk:
		return NauticalTwilight
	case CivilDawn, CivilDusk:
		return CivilTwilight
	default:
		return RiseOrSet
	}
}

// CheckLatitude returns ErrLatitudeOutOfRange for latitudes outside [-90, 90].
// The solver itself accepts any value.
func CheckLatitude(lat Degrees) error {
	if math.IsNaN(float64(lat)) || lat < -90 || lat > 90 {
		return fmt.Errorf("%w: %v", ErrLatitudeOutOfRange, float64(lat))
	}
	return nil
}

// LocalHourAngle returns the hour angle at which the Sun, at declination decl,
// reaches zenith for an observer at latitude lat. The result is NaN when the
// Sun never reaches that zenith angle.
func LocalHourAngle(lat, decl, zenith unit.Angle) unit.Angle {
	cosHA := (zenith.Cos() - lat.Sin()*decl.Sin()) / (lat.Cos() * decl.Cos())
	return unit.Angle(math.Acos(cosHA))
}

// utcForSolarAngleAt is a single evaluation of the event time using the
// ephemeris at jd.
func utcForSolarAngleAt(rise bool, jd float64, lat, zenith unit.Angle) Minutes {
	centuryTime := JulianCentury(jd)
	eqTime := EquationOfTime(centuryTime)
	decl := SunDeclinationAngle(centuryTime)

	hourAngle := LocalHourAngle(lat, decl, zenith)
	if !rise {
		hourAngle = -hourAngle
	}

	return Minutes(720.0-minutesPerDegree*hourAngle.Deg()) - eqTime
}

// UTCForSolarAngle returns the UTC time, in minutes from midnight of jd's
// date, at which the Sun crosses zenith on the rise or set side, for an
// observer on the Greenwich meridian at latitude lat.
//
// The first pass uses the ephemeris at jd; the second repeats the
// computation at the instant found by the first. NaN propagates when the
// crossing does not occur.
func UTCForSolarAngle(rise bool, jd float64, lat, zenith Degrees) Minutes {
	latAngle := lat.Angle()
	zenithAngle := zenith.Angle()

	first := utcForSolarAngleAt(rise, jd, latAngle, zenithAngle)
	return utcForSolarAngleAt(rise, jd+first.Days(), latAngle, zenithAngle)
}

// EventTime returns the UTC minutes of e at latitude lat on jd's date.
// ok is false when the event does not occur (polar day or night).
func EventTime(e Event, jd float64, lat Degrees) (m Minutes, ok bool) {
	m = UTCForSolarAngle(e.Rise(), jd, lat, e.Zenith())
	return m, m.Valid()
}
