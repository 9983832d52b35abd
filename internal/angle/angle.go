// Package angle provides arithmetic on circular quantities measured in
// degrees. All functions treat angles as points on a circle: two values
// are equivalent iff they agree mod 360.
package angle

import (
	"fmt"
	"math"
)

// Normalize maps deg into [0, 360). It accepts any finite value,
// including negatives and magnitudes far beyond 360.
// Non-finite input is a contract violation and panics.
func Normalize(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		panic(fmt.Sprintf("angle.Normalize: non-finite input %v", deg))
	}
	n := math.Mod(deg, 360.0)
	if n < 0 {
		n += 360.0
	}
	return n
}

// Delta returns the signed shortest difference a-b wrapped into
// [-180, 180]. Positive means a is ahead of b in the direction of
// increasing angle.
func Delta(a, b float64) float64 {
	d := Normalize(a) - Normalize(b)
	if d > 180.0 {
		d -= 360.0
	} else if d < -180.0 {
		d += 360.0
	}
	return d
}

// WithinTolerance reports whether a and b are within tol degrees of each
// other on the circle. tol must be positive; callers enforce that upstream.
func WithinTolerance(a, b, tol float64) bool {
	return math.Abs(Delta(a, b)) <= tol
}

// DMS splits decimal degrees into degrees, arcminutes and arcseconds.
// The sign stays on the degree component.
func DMS(deg float64) (d, m int, s float64) {
	d = int(deg)
	mf := (deg - float64(d)) * 60.0
	m = int(mf)
	s = (mf - float64(m)) * 60.0
	return d, m, s
}
