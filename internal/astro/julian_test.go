package astro

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	// Meeus example 7.a and the table on p. 62
	tests := []struct {
		year    int
		month   int
		dayFrac float64
		want    float64
	}{
		{1957, 10, 4.81, 2436116.31},
		{333, 1, 27.5, 1842713.0},
		{2000, 1, 1.5, 2451545.0},
		{1999, 1, 1.0, 2451179.5},
		{1987, 1, 27.0, 2446822.5},
		{1987, 6, 19.5, 2446966.0},
		{1988, 1, 27.0, 2447187.5},
		{1988, 6, 19.5, 2447332.0},
		{1900, 1, 1, 2415020.5},
		{1600, 1, 1.0, 2305447.5},
		{1600, 12, 31.0, 2305812.5},
		{837, 4, 10.3, 2026871.8},
		{-1000, 7, 12.5, 1356001.0},
		{-4712, 1, 1.5, 0.0},
	}

	for _, tt := range tests {
		got := JulianDay(tt.year, tt.month, tt.dayFrac)
		if got != tt.want {
			t.Errorf("JulianDay(%d, %d, %v) = %v, want %v", tt.year, tt.month, tt.dayFrac, got, tt.want)
		}
	}
}

func TestJulianDayGregorianCutover(t *testing.T) {
	lastJulian := JulianDay(1582, 10, 4.0)
	firstGregorian := JulianDay(1582, 10, 15.0)

	if lastJulian != 2299159.5 {
		t.Errorf("1582-10-04 = %v, want 2299159.5", lastJulian)
	}
	if firstGregorian != 2299160.5 {
		t.Errorf("1582-10-15 = %v, want 2299160.5", firstGregorian)
	}

	// Eleven calendar labels apart but consecutive days: ten days dropped
	if got := firstGregorian - lastJulian; got != 1 {
		t.Errorf("day count across cutover = %v, want 1", got)
	}

	// Just before midnight of the 15th is still Julian: 10 days later
	// than the naive continuation
	if got := JulianDay(1582, 10, 14.5) - lastJulian; got != 10.5 {
		t.Errorf("1582-10-14.5 offset = %v, want 10.5 (Julian reckoning)", got)
	}

	tests := []struct {
		name    string
		month   int
		dayFrac float64
		want    float64
	}{
		{"September is Julian", 9, 30.0, 2299155.5},
		{"November is Gregorian", 11, 1.0, 2299177.5},
		{"December is Gregorian", 12, 31.0, 2299237.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := JulianDay(1582, tt.month, tt.dayFrac); got != tt.want {
				t.Errorf("JulianDay(1582, %d, %v) = %v, want %v", tt.month, tt.dayFrac, got, tt.want)
			}
		})
	}
}

func TestJulianDayFromDateTime(t *testing.T) {
	if got := JulianDayFromDateTime(2000, 1, 1, 12, 0, 0); got != J2000 {
		t.Errorf("J2000 = %v, want %v", got, J2000)
	}

	got := JulianDayFromDateTime(1957, 10, 4, 19, 26, 24)
	if math.Abs(got-2436116.31) > 1e-6 {
		t.Errorf("Sputnik launch = %v, want 2436116.31", got)
	}
}

func TestJulianDayFromTime(t *testing.T) {
	tests := []struct {
		name     string
		time     time.Time
		expected float64
		tol      float64
	}{
		{
			name:     "J2000 epoch",
			time:     time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: 2451545.0,
			tol:      0,
		},
		{
			name:     "Unix epoch",
			time:     time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: 2440587.5,
			tol:      0,
		},
		{
			name:     "Non-UTC location is converted",
			time:     time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("UTC+2", 2*3600)),
			expected: 2460310.5,
			tol:      1e-9,
		},
		{
			name:     "Nanoseconds contribute",
			time:     time.Date(2024, 1, 1, 0, 0, 0, 500_000_000, time.UTC),
			expected: 2460310.5 + 0.5/86400,
			tol:      1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JulianDayFromTime(tt.time)
			if math.Abs(got-tt.expected) > tt.tol {
				t.Errorf("JulianDayFromTime() = %v, want %v (±%v)", got, tt.expected, tt.tol)
			}
		})
	}
}

func TestJulianCentury(t *testing.T) {
	if got := JulianCentury(J2000); got != 0 {
		t.Errorf("JulianCentury(J2000) = %v, want 0", got)
	}
	if got := JulianCentury(J2000 + DaysPerCentury); got != 1 {
		t.Errorf("JulianCentury(J2000+36525) = %v, want 1", got)
	}

	for _, jd := range []float64{0, 2299160.5, 2446895.5, 2448908.5, 2460310.5} {
		back := JulianDayFromCentury(JulianCentury(jd))
		if math.Abs(back-jd) > 1e-8 {
			t.Errorf("round trip of %v = %v", jd, back)
		}
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{1900, false},
		{2000, true},
		{1996, true},
		{1999, false},
		{2100, false},
		{2400, true},
	}
	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestCalendarFromJulianDay(t *testing.T) {
	tests := []struct {
		jd        float64
		wantYear  int
		wantMonth int
		wantDay   float64
	}{
		{2436116.31, 1957, 10, 4.81},
		{1842713.0, 333, 1, 27.5},
		{1507900.13, -584, 5, 28.63},
		{J2000, 2000, 1, 1.5},
		{2299160.5, 1582, 10, 15.0},
		{2299159.5, 1582, 10, 4.0},
	}

	for _, tt := range tests {
		y, m, d := CalendarFromJulianDay(tt.jd)
		if y != tt.wantYear || m != tt.wantMonth || math.Abs(d-tt.wantDay) > 1e-6 {
			t.Errorf("CalendarFromJulianDay(%v) = %d-%d-%v, want %d-%d-%v",
				tt.jd, y, m, d, tt.wantYear, tt.wantMonth, tt.wantDay)
		}
	}
}

func TestDayOfYear(t *testing.T) {
	tests := []struct {
		name string
		jd   float64
		want float64
	}{
		// Meeus examples 7.f and 7.g
		{"1978-11-14", JulianDay(1978, 11, 14), 318},
		{"1988-04-22", JulianDay(1988, 4, 22), 113},
		{"2000-12-31 noon", JulianDay(2000, 12, 31.5), 366.5},
		{"2001-03-01", JulianDay(2001, 3, 1), 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DayOfYear(tt.jd); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DayOfYear() = %v, want %v", got, tt.want)
			}
		})
	}
}
