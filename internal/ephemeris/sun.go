package ephemeris

import (
	"math"

	"github.com/astraline/ephemerisd/internal/angle"
)

// solarLongitude returns the Sun's apparent geocentric ecliptic longitude
// in degrees (Meeus, Astronomical Algorithms, ch. 25; ~0.01 deg).
func solarLongitude(jd float64) float64 {
	t := centuries(jd)

	// geometric mean longitude and mean anomaly
	l0 := 280.46646 + 36000.76983*t + 0.0003032*t*t
	m := rad(357.52911 + 35999.05029*t - 0.0001537*t*t)

	// equation of center
	c := (1.914602-0.004817*t-0.000014*t*t)*math.Sin(m) +
		(0.019993-0.000101*t)*math.Sin(2*m) +
		0.000289*math.Sin(3*m)

	trueLon := l0 + c

	// apparent longitude: nutation and aberration
	omega := rad(125.04 - 1934.136*t)
	apparent := trueLon - 0.00569 - 0.00478*math.Sin(omega)

	return angle.Normalize(apparent)
}
