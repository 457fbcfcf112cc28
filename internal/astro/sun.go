package astro

import (
	"math"
	"time"

	"github.com/soniakeys/unit"
)

// The functions below follow Meeus, Astronomical Algorithms, ch. 22, 25 and 28.
// Each takes centuryTime, Julian centuries since J2000.0. Degree results are
// not reduced into [0, 360); use NormalizeDegrees where a canonical angle is
// needed.

// MeanObliquityEcliptic returns the mean obliquity of the ecliptic (22.2).
func MeanObliquityEcliptic(centuryTime float64) Degrees {
	arcSeconds := 21.448 - centuryTime*
		(46.8150+centuryTime*
			(0.00059-centuryTime*0.001813))
	return Degrees(23.0 + (26.0+(arcSeconds/60.0))/60.0)
}

// GeometricMeanLongitudeSun returns the Sun's mean longitude L0 (25.2).
func GeometricMeanLongitudeSun(centuryTime float64) Degrees {
	return Degrees(280.46646 + centuryTime*(36000.76983+centuryTime*0.0003032))
}

// GeometricMeanAnomalySun returns the Sun's mean anomaly M (25.3).
func GeometricMeanAnomalySun(centuryTime float64) Degrees {
	return Degrees(357.52911 + centuryTime*(35999.05029-centuryTime*0.0001537))
}

// EccentricityEarth returns the eccentricity of Earth's orbit (25.4).
func EccentricityEarth(centuryTime float64) float64 {
	return 0.016708634 - centuryTime*(0.000042037+centuryTime*0.0000001267)
}

// EquationOfCenterSunFromAnomaly returns the Sun's equation of center for a
// precomputed mean anomaly. The anomaly must belong to the same centuryTime.
func EquationOfCenterSunFromAnomaly(centuryTime float64, meanAnomaly Degrees) Degrees {
	m := meanAnomaly.Angle()
	sinM := m.Sin()
	sin2M := m.Mul(2).Sin()
	sin3M := m.Mul(3).Sin()

	c := (1.914602-centuryTime*(0.004817+centuryTime*0.000014))*sinM +
		(0.019993-0.000101*centuryTime)*sin2M +
		0.000289*sin3M
	return Degrees(c)
}

// EquationOfCenterSun returns the Sun's equation of center, computing the mean
// anomaly from centuryTime.
func EquationOfCenterSun(centuryTime float64) Degrees {
	return EquationOfCenterSunFromAnomaly(centuryTime, GeometricMeanAnomalySun(centuryTime))
}

// TrueLongitudeSun returns the Sun's true geometric longitude.
func TrueLongitudeSun(centuryTime float64) Degrees {
	return GeometricMeanLongitudeSun(centuryTime) + EquationOfCenterSun(centuryTime)
}

// TrueAnomalySun returns the Sun's true anomaly.
func TrueAnomalySun(centuryTime float64) Degrees {
	m := GeometricMeanAnomalySun(centuryTime)
	return m + EquationOfCenterSunFromAnomaly(centuryTime, m)
}

// Omega returns the longitude of the ascending node of the Moon's mean orbit,
// used as a proxy for nutation and aberration.
func Omega(centuryTime float64) Degrees {
	return Degrees(125.04 - 1934.136*centuryTime)
}

// OmegaAngle returns Omega in radians.
func OmegaAngle(centuryTime float64) unit.Angle {
	return Omega(centuryTime).Angle()
}

// ApparentLongitudeSunAt returns the Sun's apparent longitude using a
// precomputed Omega for the same centuryTime.
func ApparentLongitudeSunAt(centuryTime float64, omega unit.Angle) Degrees {
	return TrueLongitudeSun(centuryTime) - 0.000569 - Degrees(0.00478*omega.Sin())
}

// ApparentLongitudeSun returns the Sun's apparent longitude.
func ApparentLongitudeSun(centuryTime float64) Degrees {
	return ApparentLongitudeSunAt(centuryTime, OmegaAngle(centuryTime))
}

// ObliquityCorrectionAt returns the corrected obliquity of the ecliptic (25.8)
// using a precomputed Omega for the same centuryTime.
func ObliquityCorrectionAt(centuryTime float64, omega unit.Angle) Degrees {
	return MeanObliquityEcliptic(centuryTime) + Degrees(0.00256*omega.Cos())
}

// ObliquityCorrection returns the corrected obliquity of the ecliptic.
func ObliquityCorrection(centuryTime float64) Degrees {
	return ObliquityCorrectionAt(centuryTime, OmegaAngle(centuryTime))
}

// SunRightAscensionAngle returns the Sun's apparent right ascension (25.6) in
// (-π, π].
func SunRightAscensionAngle(centuryTime float64) unit.Angle {
	omega := OmegaAngle(centuryTime)
	oc := ObliquityCorrectionAt(centuryTime, omega).Angle()
	al := ApparentLongitudeSunAt(centuryTime, omega).Angle()
	return unit.Angle(math.Atan2(oc.Cos()*al.Sin(), al.Cos()))
}

// SunRightAscension returns the Sun's apparent right ascension in degrees.
func SunRightAscension(centuryTime float64) Degrees {
	return DegreesFromAngle(SunRightAscensionAngle(centuryTime))
}

// SunDeclinationAngle returns the Sun's apparent declination (25.7).
func SunDeclinationAngle(centuryTime float64) unit.Angle {
	omega := OmegaAngle(centuryTime)
	oc := ObliquityCorrectionAt(centuryTime, omega).Angle()
	al := ApparentLongitudeSunAt(centuryTime, omega).Angle()
	return unit.Angle(math.Asin(oc.Sin() * al.Sin()))
}

// SunDeclination returns the Sun's apparent declination in degrees.
func SunDeclination(centuryTime float64) Degrees {
	return DegreesFromAngle(SunDeclinationAngle(centuryTime))
}

// EquationOfTime returns apparent minus mean solar time in minutes (28.3).
func EquationOfTime(centuryTime float64) Minutes {
	epsilon := ObliquityCorrection(centuryTime)
	y := (epsilon / 2).Angle().Tan()
	y *= y

	l0 := GeometricMeanLongitudeSun(centuryTime).Angle()
	e := EccentricityEarth(centuryTime)
	m := GeometricMeanAnomalySun(centuryTime).Angle()

	sinM := m.Sin()
	sin2L0, cos2L0 := l0.Mul(2).Sincos()
	sin4L0 := l0.Mul(4).Sin()
	sin2M := m.Mul(2).Sin()

	eq := y*sin2L0 - 2*e*sinM + 4*e*y*sinM*cos2L0 -
		0.5*y*y*sin4L0 - 1.25*e*e*sin2M

	return Minutes(DegreesFromAngle(unit.Angle(eq)) * minutesPerDegree)
}

// SunPosition returns the Sun's apparent right ascension in [0, 360) and
// declination for the instant t.
func SunPosition(t time.Time) (ra, dec Degrees) {
	centuryTime := JulianCentury(JulianDayFromTime(t))
	return NormalizeDegrees(SunRightAscension(centuryTime)), SunDeclination(centuryTime)
}
