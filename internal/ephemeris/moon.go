package ephemeris

import (
	"math"

	"github.com/astraline/ephemerisd/internal/angle"
)

// lunarArgs holds the fundamental arguments of lunar theory in degrees.
type lunarArgs struct {
	lp float64 // mean longitude
	d  float64 // mean elongation
	m  float64 // solar mean anomaly
	mp float64 // lunar mean anomaly
	f  float64 // argument of latitude
}

func lunarArguments(jd float64) lunarArgs {
	t := centuries(jd)
	return lunarArgs{
		lp: 218.3164477 + 481267.88123421*t - 0.0015786*t*t + t*t*t/538841.0,
		d:  297.8501921 + 445267.1114034*t - 0.0018819*t*t + t*t*t/545868.0,
		m:  357.5291092 + 35999.0502909*t - 0.0001536*t*t,
		mp: 134.9633964 + 477198.8675055*t + 0.0087414*t*t + t*t*t/69699.0,
		f:  93.2720950 + 483202.0175233*t - 0.0036539*t*t,
	}
}

// lunarTerm is one periodic term of the longitude series: coefficient in
// degrees, integer multipliers of (D, M, M', F).
type lunarTerm struct {
	coeff           float64
	cd, cm, cmp, cf int
}

// Principal terms of the ELP main problem (Meeus ch. 47, truncated).
var lunarLonTerms = []lunarTerm{
	{6.288774, 0, 0, 1, 0},
	{1.274027, 2, 0, -1, 0},
	{0.658314, 2, 0, 0, 0},
	{0.213618, 0, 0, 2, 0},
	{-0.185116, 0, 1, 0, 0},
	{-0.114332, 0, 0, 0, 2},
	{0.058793, 2, 0, -2, 0},
	{0.057066, 2, -1, -1, 0},
	{0.053322, 2, 0, 1, 0},
	{0.045758, 2, -1, 0, 0},
	{-0.040923, 0, 1, -1, 0},
	{-0.034720, 1, 0, 0, 0},
	{-0.030383, 0, 1, 1, 0},
	{0.015327, 2, 0, 0, -2},
	{-0.012528, 0, 0, 1, 2},
	{0.010980, 0, 0, 1, -2},
}

// lunarLongitude returns the Moon's geocentric ecliptic longitude in
// degrees, good to a few arcminutes.
func lunarLongitude(jd float64) float64 {
	a := lunarArguments(jd)
	lon := a.lp
	for _, tm := range lunarLonTerms {
		arg := float64(tm.cd)*a.d + float64(tm.cm)*a.m + float64(tm.cmp)*a.mp + float64(tm.cf)*a.f
		lon += tm.coeff * math.Sin(rad(arg))
	}
	return angle.Normalize(lon)
}

// meanNodeLongitude returns the mean longitude of the Moon's ascending
// node in degrees.
func meanNodeLongitude(jd float64) float64 {
	t := centuries(jd)
	return angle.Normalize(125.0445479 - 1934.1362891*t + 0.0020754*t*t + t*t*t/467441.0)
}

// trueNodeLongitude adds the principal periodic terms of the true node to
// the mean node (Meeus ch. 51).
func trueNodeLongitude(jd float64) float64 {
	a := lunarArguments(jd)
	n := meanNodeLongitude(jd)
	n += -1.4979*math.Sin(rad(2*(a.d-a.f))) -
		0.1500*math.Sin(rad(a.m)) -
		0.1226*math.Sin(rad(2*a.d)) +
		0.1176*math.Sin(rad(2*a.f)) -
		0.0801*math.Sin(rad(2*(a.mp-a.f)))
	return angle.Normalize(n)
}
