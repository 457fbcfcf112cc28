package astro

import (
	"math"
	"time"
)

// AltitudeSample is the Sun's altitude at one instant.
type AltitudeSample struct {
	Time     time.Time
	Altitude Degrees
}

// SampleAltitude samples the Sun's altitude for obs every step from start
// to end inclusive.
func SampleAltitude(obs Observer, start, end time.Time, step time.Duration) []AltitudeSample {
	if step <= 0 || end.Before(start) {
		return nil
	}
	var samples []AltitudeSample
	for t := start; !t.After(end); t = t.Add(step) {
		samples = append(samples, AltitudeSample{Time: t, Altitude: SunAltitude(t, obs)})
	}
	return samples
}

// SampleDay samples the UTC day containing day for obs, including the
// following midnight.
func SampleDay(obs Observer, day time.Time, step time.Duration) []AltitudeSample {
	y, m, d := day.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return SampleAltitude(obs, start, start.Add(24*time.Hour), step)
}

// Transit finds the time and altitude of the highest sample, refined by a
// parabola through it and its neighbours.
func Transit(samples []AltitudeSample) (time.Time, Degrees) {
	if len(samples) == 0 {
		return time.Time{}, 0
	}

	best := 0
	for i, s := range samples {
		if s.Altitude > samples[best].Altitude {
			best = i
		}
	}
	if best == 0 || best == len(samples)-1 {
		return samples[best].Time, samples[best].Altitude
	}

	// Parabola y = at^2 + bt + c through t = -1, 0, +1
	y0 := float64(samples[best-1].Altitude)
	y1 := float64(samples[best].Altitude)
	y2 := float64(samples[best+1].Altitude)
	c := y1
	a := (y0+y2)/2 - c
	b := (y2 - y0) / 2

	// Flat or opening upward
	if a >= 0 {
		return samples[best].Time, samples[best].Altitude
	}

	tMax := math.Max(-1, math.Min(1, -b/(2*a)))
	dt := samples[best].Time.Sub(samples[best-1].Time)
	return samples[best].Time.Add(time.Duration(float64(dt) * tMax)), Degrees(a*tMax*tMax + b*tMax + c)
}

// Crossings returns the interpolated times at which the Sun's center
// reaches the given zenith angle, rising and setting.
func Crossings(samples []AltitudeSample, zenith Degrees) (rises, sets []time.Time) {
	threshold := 90 - zenith
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		switch {
		case prev.Altitude < threshold && cur.Altitude >= threshold:
			rises = append(rises, interpolateCrossing(prev, cur, threshold))
		case prev.Altitude >= threshold && cur.Altitude < threshold:
			sets = append(sets, interpolateCrossing(prev, cur, threshold))
		}
	}
	return rises, sets
}

// interpolateCrossing finds the time between two samples at which the
// altitude equals threshold.
func interpolateCrossing(s1, s2 AltitudeSample, threshold Degrees) time.Time {
	if math.Abs(float64(s2.Altitude-s1.Altitude)) < 0.0001 {
		return s1.Time
	}

	fraction := float64((threshold - s1.Altitude) / (s2.Altitude - s1.Altitude))
	fraction = math.Max(0, math.Min(1, fraction))

	dt := s2.Time.Sub(s1.Time)
	return s1.Time.Add(time.Duration(float64(dt) * fraction))
}
