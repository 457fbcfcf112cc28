package astro

import (
	"math"
	"time"
)

const (
	// J2000 is the Julian Day of 2000-01-01 12:00 UTC.
	J2000 = 2451545.0

	// DaysPerCentury is the length of a Julian century.
	DaysPerCentury = 36525.0

	// gregorianStartJD is the first whole Julian Day number of the
	// Gregorian calendar (1582-10-15).
	gregorianStartJD = 2299161.0
)

// JulianDay converts a calendar date to a Julian Day (Meeus 7.1).
//
// Year uses astronomical numbering. The fractional part of dayFrac is the time
// of day. Dates from 1582-10-15 onward are Gregorian, earlier dates are in the
// proleptic Julian calendar. Inputs are not validated.
func JulianDay(year, month int, dayFrac float64) float64 {
	julian := true
	switch {
	case year > 1582:
		julian = false
	case year == 1582:
		if month > 10 || (month == 10 && dayFrac >= 15.0) {
			julian = false
		}
	}

	y, m := year, month
	if m <= 2 {
		y--
		m += 12
	}

	b := 0
	if !julian {
		a := y / 100
		b = 2 - a + a/4
	}

	return math.Floor(365.25*float64(y+4716)) + math.Floor(30.6001*float64(m+1)) +
		dayFrac + float64(b) - 1524.5
}

// JulianDayFromDateTime converts a calendar date and UTC time of day to a
// Julian Day.
func JulianDayFromDateTime(year, month, day, hour, minute, second int) float64 {
	dayFrac := float64(day) + float64(hour)/24.0 + float64(minute)/minutesPerDay +
		float64(second)/(minutesPerDay*60.0)
	return JulianDay(year, month, dayFrac)
}

// JulianDayFromTime returns the Julian Day for t, converted to UTC.
func JulianDayFromTime(t time.Time) float64 {
	t = t.UTC()

	h := float64(t.Hour())
	minute := float64(t.Minute())
	sec := float64(t.Second())
	ns := float64(t.Nanosecond())

	dayFrac := float64(t.Day()) + (h+minute/60+sec/3600+ns/3600e9)/24.0
	return JulianDay(t.Year(), int(t.Month()), dayFrac)
}

// JulianCentury returns centuries elapsed since J2000.0 (Meeus 25.1).
func JulianCentury(jd float64) float64 {
	return (jd - J2000) / DaysPerCentury
}

// JulianDayFromCentury is the inverse of JulianCentury.
func JulianDayFromCentury(centuryTime float64) float64 {
	return centuryTime*DaysPerCentury + J2000
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

// CalendarFromJulianDay converts a Julian Day back to a calendar date
// (Meeus ch. 7). Julian Days before 2299161 yield Julian calendar dates.
func CalendarFromJulianDay(jd float64) (year, month int, dayFrac float64) {
	z := math.Floor(jd + 0.5)
	f := (jd + 0.5) - z

	b := z + 1524.0
	if z >= gregorianStartJD {
		alpha := math.Floor((z - 1867216.25) / 36524.25)
		b += 1 + alpha - math.Floor(alpha/4.0)
	}

	c := math.Floor((b - 122.1) / 365.25)
	d := math.Floor(365.25 * c)
	e := math.Floor((b - d) / 30.6001)

	dayFrac = b - d - math.Floor(30.6001*e) + f
	if e < 14 {
		month = int(e) - 1
	} else {
		month = int(e) - 13
	}
	if month > 2 {
		year = int(c) - 4716
	} else {
		year = int(c) - 4715
	}
	return year, month, dayFrac
}

// DayOfYear returns the ordinal day (with fraction) of jd within its year.
func DayOfYear(jd float64) float64 {
	year, month, day := CalendarFromJulianDay(jd)

	k := 2.0
	if IsLeapYear(year) {
		k = 1.0
	}
	m := float64(month)
	return math.Floor(275*m/9) - k*math.Floor((m+9)/12) + day - 30
}
