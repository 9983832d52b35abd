package ephemeris

import (
	"math"
	"time"

	"github.com/astraline/ephemerisd/internal/angle"
)

// J2000 is the Julian Day of the standard epoch 2000 January 1.5 TT.
const J2000 = 2451545.0

// unixEpochJD is the Julian Day of 1970-01-01T00:00:00Z.
const unixEpochJD = 2440587.5

// JulianDay converts a wall-clock time to a Julian Day in UT.
func JulianDay(t time.Time) float64 {
	return unixEpochJD + float64(t.UnixNano())/float64(24*time.Hour)
}

// Civil converts a Julian Day in UT back to a wall-clock time (UTC).
func Civil(jd float64) time.Time {
	ns := (jd - unixEpochJD) * float64(24*time.Hour)
	return time.Unix(0, int64(ns)).UTC()
}

// centuries returns Julian centuries since J2000.
func centuries(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

func rad(deg float64) float64 { return deg * math.Pi / 180.0 }
func deg(rad float64) float64 { return rad * 180.0 / math.Pi }

// meanObliquity returns the mean obliquity of the ecliptic in degrees
// (Laskar polynomial, truncated).
func meanObliquity(jd float64) float64 {
	t := centuries(jd)
	return 23.43929111 - 0.01300417*t - 1.63889e-7*t*t + 5.03611e-7*t*t*t
}

// gmst returns Greenwich mean sidereal time in degrees.
func gmst(jd float64) float64 {
	t := centuries(jd)
	st := 280.46061837 +
		360.98564736629*(jd-J2000) +
		0.000387933*t*t -
		t*t*t/38710000.0
	return angle.Normalize(st)
}

// ramc returns the right ascension of the local meridian in degrees for an
// east-positive geographic longitude.
func ramc(jd, lonEast float64) float64 {
	return angle.Normalize(gmst(jd) + lonEast)
}

// raToEcliptic converts the right ascension of a point lying on the
// ecliptic to its ecliptic longitude, both in degrees.
func raToEcliptic(ra, obliquity float64) float64 {
	raR := rad(ra)
	return angle.Normalize(deg(math.Atan2(math.Sin(raR), math.Cos(raR)*math.Cos(rad(obliquity)))))
}
