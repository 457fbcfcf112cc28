package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// Observer represents a ground-based observer location.
type Observer struct {
	Latitude  Degrees // north positive
	Longitude Degrees // east positive
	Name      string  // optional name for the site
}

// Horizontal holds observer-relative coordinates.
type Horizontal struct {
	Azimuth  Degrees // 0=N, 90=E, 180=S, 270=W
	Altitude Degrees // 0=horizon, 90=zenith
}

// Zenith returns the zenith angle, 90° minus altitude.
func (h Horizontal) Zenith() Degrees {
	return 90 - h.Altitude
}

// EquatorialToHorizontal converts apparent right ascension and declination
// to azimuth and altitude for an observer at time t.
func EquatorialToHorizontal(ra, dec Degrees, obs Observer, t time.Time) Horizontal {
	lat := obs.Latitude.Angle()
	d := dec.Angle()
	ha := (localSiderealTime(t, obs.Longitude) - ra).Angle()

	sinAlt := d.Sin()*lat.Sin() + d.Cos()*lat.Cos()*ha.Cos()
	alt := unit.Angle(math.Asin(sinAlt))

	cosAz := (d.Sin() - alt.Sin()*lat.Sin()) / (alt.Cos() * lat.Cos())
	// Clamp to [-1, 1] for floating point noise near the poles
	if cosAz > 1 {
		cosAz = 1
	} else if cosAz < -1 {
		cosAz = -1
	}
	az := unit.Angle(math.Acos(cosAz))

	// Positive hour angle: west of the meridian
	if ha.Sin() > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{
		Azimuth:  DegreesFromAngle(az),
		Altitude: DegreesFromAngle(alt),
	}
}

// SunHorizontal returns the Sun's azimuth and altitude for an observer.
func SunHorizontal(t time.Time, obs Observer) Horizontal {
	ra, dec := SunPosition(t)
	return EquatorialToHorizontal(ra, dec, obs, t)
}

// SunAltitude returns the Sun's geometric altitude for an observer.
func SunAltitude(t time.Time, obs Observer) Degrees {
	return SunHorizontal(t, obs).Altitude
}

// localSiderealTime returns the Local Sidereal Time in [0, 360).
func localSiderealTime(t time.Time, lon Degrees) Degrees {
	return NormalizeDegrees(greenwichMeanSiderealTime(t) + lon)
}

// greenwichMeanSiderealTime returns GMST in [0, 360) (Meeus 12.4).
func greenwichMeanSiderealTime(t time.Time) Degrees {
	jd := JulianDayFromTime(t)
	T := JulianCentury(jd)

	gmst := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return NormalizeDegrees(Degrees(gmst))
}

// EventAt returns the instant of e for obs on the UTC calendar date of day.
// The Greenwich event time is shifted by four minutes per degree of
// longitude, so the result can fall on the neighboring UTC date for
// observers far from Greenwich. ok is false when the event does not occur.
func EventAt(e Event, day time.Time, obs Observer) (time.Time, bool) {
	y, m, d := day.UTC().Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	minutes, ok := EventTime(e, JulianDayFromTime(midnight), obs.Latitude)
	if !ok {
		return time.Time{}, false
	}
	minutes -= Minutes(minutesPerDegree * float64(obs.Longitude))
	return midnight.Add(minutes.Duration()), true
}
