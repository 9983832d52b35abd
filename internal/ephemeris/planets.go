package ephemeris

import (
	"math"

	"github.com/astraline/ephemerisd/internal/angle"
)

// elements holds mean orbital elements and their daily rates, referred to
// the ecliptic of date. d is measured in days from epoch 1999 Dec 31.0 UT.
type elements struct {
	n0, nd float64 // longitude of ascending node
	i      float64 // inclination
	w0, wd float64 // argument of perihelion
	a      float64 // semi-major axis, AU
	e0, ed float64 // eccentricity
	m0, md float64 // mean anomaly
}

const elementsEpoch = 2451543.5

var planetElements = map[Body]elements{
	Mercury: {48.3313, 3.24587e-5, 7.0047, 29.1241, 1.01444e-5, 0.387098, 0.205635, 5.59e-10, 168.6562, 4.0923344368},
	Venus:   {76.6799, 2.46590e-5, 3.3946, 54.8910, 1.38374e-5, 0.723330, 0.006773, -1.302e-9, 48.0052, 1.6021302244},
	Mars:    {49.5574, 2.11081e-5, 1.8497, 286.5016, 2.92961e-5, 1.523688, 0.093405, 2.516e-9, 18.6021, 0.5240207766},
	Jupiter: {100.4542, 2.76854e-5, 1.3030, 273.8777, 1.64505e-5, 5.20256, 0.048498, 4.469e-9, 19.8950, 0.0830853001},
	Saturn:  {113.6634, 2.38980e-5, 2.4886, 339.3939, 2.97661e-5, 9.55475, 0.055546, -9.499e-9, 316.9670, 0.0334442282},
	Uranus:  {74.0005, 1.3978e-5, 0.7733, 96.6612, 3.0565e-5, 19.18171, 0.047318, 7.45e-9, 142.5905, 0.011725806},
	Neptune: {131.7806, 3.0173e-5, 1.7700, 272.8461, -6.027e-6, 30.05826, 0.008606, 2.15e-9, 260.2471, 0.005995147},
}

// keplerE solves Kepler's equation E - e*sin(E) = M by Newton iteration.
// M and the result are in radians.
func keplerE(m, e float64) float64 {
	ec := m + e*math.Sin(m)*(1.0+e*math.Cos(m))
	for i := 0; i < 20; i++ {
		next := ec - (ec-e*math.Sin(ec)-m)/(1.0-e*math.Cos(ec))
		if math.Abs(next-ec) < 1e-10 {
			return next
		}
		ec = next
	}
	return ec
}

// heliocentric returns rectangular ecliptic coordinates of a planet
// relative to the Sun, in AU.
func heliocentric(el elements, d float64) (x, y, z float64) {
	n := rad(el.n0 + el.nd*d)
	i := rad(el.i)
	w := rad(el.w0 + el.wd*d)
	e := el.e0 + el.ed*d
	m := rad(angle.Normalize(el.m0 + el.md*d))

	ea := keplerE(m, e)
	xv := el.a * (math.Cos(ea) - e)
	yv := el.a * math.Sqrt(1.0-e*e) * math.Sin(ea)
	v := math.Atan2(yv, xv)
	r := math.Sqrt(xv*xv + yv*yv)

	x = r * (math.Cos(n)*math.Cos(v+w) - math.Sin(n)*math.Sin(v+w)*math.Cos(i))
	y = r * (math.Sin(n)*math.Cos(v+w) + math.Cos(n)*math.Sin(v+w)*math.Cos(i))
	z = r * math.Sin(v+w) * math.Sin(i)
	return x, y, z
}

// sunRectangular returns the Sun's geocentric rectangular ecliptic
// coordinates in AU, from the two-body solution of the Earth's orbit.
func sunRectangular(d float64) (x, y float64) {
	w := rad(282.9404 + 4.70935e-5*d)
	e := 0.016709 - 1.151e-9*d
	m := rad(angle.Normalize(356.0470 + 0.9856002585*d))

	ea := keplerE(m, e)
	xv := math.Cos(ea) - e
	yv := math.Sqrt(1.0-e*e) * math.Sin(ea)
	v := math.Atan2(yv, xv)
	r := math.Sqrt(xv*xv + yv*yv)

	lon := v + w
	return r * math.Cos(lon), r * math.Sin(lon)
}

// planetLongitude returns the geocentric ecliptic longitude of one of the
// major planets in degrees.
func planetLongitude(jd float64, body Body) (float64, error) {
	if body == Pluto {
		return plutoLongitude(jd), nil
	}
	el, ok := planetElements[body]
	if !ok {
		return 0, &UnsupportedBodyError{Name: string(body)}
	}
	d := jd - elementsEpoch
	xh, yh, _ := heliocentric(el, d)
	xs, ys := sunRectangular(d)
	return angle.Normalize(deg(math.Atan2(yh+ys, xh+xs))), nil
}

// plutoLongitude evaluates a periodic fit to Pluto's heliocentric
// longitude, valid roughly 1800-2100; the geocentric correction is small
// at Pluto's distance and folded into the same fit.
func plutoLongitude(jd float64) float64 {
	d := jd - elementsEpoch
	s := rad(50.03 + 0.033459652*d)
	p := rad(238.95 + 0.003968789*d)

	lon := 238.9508 + 0.00400703*d -
		19.799*math.Sin(p) + 19.848*math.Cos(p) +
		0.897*math.Sin(2*p) - 4.956*math.Cos(2*p) +
		0.610*math.Sin(3*p) + 1.211*math.Cos(3*p) -
		0.341*math.Sin(4*p) - 0.190*math.Cos(4*p) +
		0.128*math.Sin(5*p) - 0.034*math.Cos(5*p) -
		0.038*math.Sin(6*p) + 0.031*math.Cos(6*p) +
		0.020*math.Sin(s-p) - 0.010*math.Cos(s-p)
	return angle.Normalize(lon)
}
