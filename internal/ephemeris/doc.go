// Package ephemeris computes apparent geocentric ecliptic longitudes and
// house cusps from closed-form analytic theories:
//
//   - Sun: low-precision solar theory (equation of center, nutation and
//     aberration correction), good to ~0.01 degrees
//   - Moon: truncated ELP main-problem series, good to a few arcminutes
//   - Mercury..Pluto: mean orbital elements plus Kepler's equation,
//     good to arcminute level over roughly 1900-2100
//   - Lunar nodes: mean polynomial plus principal periodic terms
//
// All calculations hang off an [Engine] handle built by [New]; the package
// keeps no global state. Precision is adequate for house cusps and for the
// degree-scale tolerances of design-time solving, and is deliberately not
// claimed to match a full numerical ephemeris.
package ephemeris
