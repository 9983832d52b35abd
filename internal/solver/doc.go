// Package solver locates the design time: the instant before a reference
// moment at which a periodically-wrapping angular observable (in practice
// the Sun's ecliptic longitude) equals the reference value minus a fixed
// offset, modulo 360.
//
// The search is a bisection over time, steered by the signed shortest
// angular difference between the observable at the midpoint and the
// target. It requires the observable to increase monotonically with time
// across the search window; that holds for solar longitude over spans of
// days to a few hundred days, and the solver does not verify it. With a
// non-monotonic observable the bisection may settle on an arbitrary root.
//
// The observable is supplied through the [Oracle] interface and queried a
// bounded number of times; the solver keeps no state between calls and is
// safe for concurrent use as long as the oracle is.
package solver
