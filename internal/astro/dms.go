package astro

import (
	"fmt"
	"math"
)

const msPerDegree = 3600 * 1000

// DMS is an angle split into whole degrees, minutes and seconds.
type DMS struct {
	Deg int
	Min int
	Sec float64
}

// DegreesToDMS splits d into degrees, minutes and seconds. The degree part is
// truncated toward zero and the remainder is resolved to whole milliseconds
// of arc before being split.
func DegreesToDMS(d Degrees) (deg, minutes int, sec float64) {
	deg = int(math.Trunc(float64(d)))
	fraction := float64(d) - float64(deg)

	ms := int64(fraction * msPerDegree)
	minutes = int(ms / (60 * 1000))
	ms -= int64(minutes) * 60 * 1000
	sec = float64(ms) / 1000.0
	return deg, minutes, sec
}

// DMS returns d in sexagesimal form.
func (d Degrees) DMS() DMS {
	deg, minutes, sec := DegreesToDMS(d)
	return DMS{Deg: deg, Min: minutes, Sec: sec}
}

func (v DMS) String() string {
	sign := ""
	if v.Deg < 0 || v.Min < 0 || v.Sec < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%s%d°%02d′%06.3f″", sign, iabs(v.Deg), iabs(v.Min), math.Abs(v.Sec))
}

func iabs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
