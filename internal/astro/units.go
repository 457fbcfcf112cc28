// Package astro provides the solar ephemeris and sun event times.
package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// Degrees is an angle measured in degrees.
//
// Trigonometric functions never take Degrees directly; convert with Angle
// first. Radian quantities are carried as unit.Angle.
type Degrees float64

// Angle converts d to a radian unit.Angle.
func (d Degrees) Angle() unit.Angle {
	return unit.AngleFromDeg(float64(d))
}

// DegreesFromAngle converts a radian angle to degrees.
func DegreesFromAngle(a unit.Angle) Degrees {
	return Degrees(a.Deg())
}

// NormalizeDegrees reduces d into [0, 360).
func NormalizeDegrees(d Degrees) Degrees {
	r := unit.PMod(float64(d), 360)
	// PMod adds 360 to tiny negative remainders, which rounds to 360
	if r >= 360 {
		r = 0
	}
	return Degrees(r)
}

// Minutes is a time of day in minutes from UTC midnight.
//
// Values may be negative or exceed a day; NaN means the event does not occur.
type Minutes float64

const (
	minutesPerDay    = 1440.0
	minutesPerDegree = 4.0 // 360° = 1440 minutes
)

// Valid reports whether m holds a time rather than NaN.
func (m Minutes) Valid() bool {
	return !math.IsNaN(float64(m))
}

// Duration returns m as a time.Duration. NaN converts to zero.
func (m Minutes) Duration() time.Duration {
	if !m.Valid() {
		return 0
	}
	return time.Duration(float64(m) * float64(time.Minute))
}

// Days returns m as a fraction of a day.
func (m Minutes) Days() float64 {
	return float64(m) / minutesPerDay
}
