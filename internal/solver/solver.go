package solver

import (
	"github.com/astraline/ephemerisd/internal/angle"
)

// bisectionFloorDays is the interval width below which further halving
// cannot change the angular answer: at ~0.1 second the Sun moves about
// 1e-6 degrees, orders of magnitude under any practical tolerance.
const bisectionFloorDays = 1e-6

// Oracle answers longitude queries for the observable being solved. The
// body is bound by whoever constructs the oracle; the service binds the
// Sun. Implementations must be safe for the solver's sequential queries
// and should return an error rather than a garbage angle.
type Oracle interface {
	Longitude(jd float64) (float64, error)
}

// OracleFunc adapts a plain function to the Oracle interface.
type OracleFunc func(jd float64) (float64, error)

func (f OracleFunc) Longitude(jd float64) (float64, error) { return f(jd) }

// Window bounds the search in days before the reference instant.
// MinDays must be strictly less than MaxDays; both are non-negative.
type Window struct {
	MinDays float64
	MaxDays float64
}

// Request describes one solve.
type Request struct {
	// BirthJD is the reference instant, Julian Day UT.
	BirthJD float64
	// OffsetDeg is subtracted from the longitude at BirthJD to form the
	// target; interpreted mod 360.
	OffsetDeg float64
	Window    Window
	// ToleranceDeg is the acceptance band around the target, > 0.
	ToleranceDeg float64
	// MaxIterations caps the number of oracle probes, > 0.
	MaxIterations int
}

// Result is the immutable outcome of a converged solve.
type Result struct {
	BirthJD     float64
	DesignJD    float64
	TargetDeg   float64
	AchievedDeg float64
	// DeltaDeg is |shortest difference| between achieved and target,
	// in [0, 180], guaranteed <= the request tolerance.
	DeltaDeg   float64
	Iterations int
}

// Iteration is one probe of the search, as seen by observers.
type Iteration struct {
	N         int
	JD        float64
	Longitude float64
	TargetDeg float64
	DeltaDeg  float64 // signed steering difference
	StartJD   float64 // bracket after this probe
	EndJD     float64
	Accepted  bool
}

// Observer receives every probe of a solve. Used by the scan and watch
// surfaces, and by tests asserting the steering stays consistent.
type Observer interface {
	OnIteration(it Iteration)
}

// Solver runs design-time searches against an oracle. The zero observers
// slice makes observation free in the common path.
type Solver struct {
	oracle    Oracle
	observers []Observer
}

func New(oracle Oracle) *Solver {
	return &Solver{oracle: oracle}
}

// AddObserver registers o for all subsequent solves. Not safe to call
// concurrently with Solve.
func (s *Solver) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Solver) notify(it Iteration) {
	for _, o := range s.observers {
		o.OnIteration(it)
	}
}

// Solve performs the bisection described in the package comment.
//
// Outcomes are typed: *InvalidInputError for precondition violations
// (reported before any oracle query), *OracleError for collaborator
// failures (not retried), *NonConvergenceError when the iteration budget
// is exhausted or the final delta check fails.
func (s *Solver) Solve(req Request) (*Result, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	birthLon, err := s.query(req.BirthJD)
	if err != nil {
		return nil, err
	}
	target := angle.Normalize(birthLon - req.OffsetDeg)

	// The larger day-offset is the earlier instant.
	start := req.BirthJD - req.Window.MaxDays
	end := req.BirthJD - req.Window.MinDays

	iterations := 0
	for iterations < req.MaxIterations {
		iterations++

		if end-start < bisectionFloorDays {
			// The bracket can no longer move the angular answer;
			// evaluate the midpoint as the final candidate.
			mid := (start + end) / 2
			lon, err := s.query(mid)
			if err != nil {
				return nil, err
			}
			delta := angle.Delta(lon, target)
			accepted := angle.WithinTolerance(lon, target, req.ToleranceDeg)
			s.notify(Iteration{
				N: iterations, JD: mid, Longitude: lon, TargetDeg: target,
				DeltaDeg: delta, StartJD: start, EndJD: end, Accepted: accepted,
			})
			if accepted {
				return finish(req, mid, lon, target, iterations)
			}
			return nil, &NonConvergenceError{
				Iterations:   iterations,
				ToleranceDeg: req.ToleranceDeg,
				Window:       req.Window,
				DeltaDeg:     abs(delta),
			}
		}

		mid := (start + end) / 2
		lon, err := s.query(mid)
		if err != nil {
			return nil, err
		}
		diff := angle.Delta(lon, target)

		if abs(diff) <= req.ToleranceDeg {
			s.notify(Iteration{
				N: iterations, JD: mid, Longitude: lon, TargetDeg: target,
				DeltaDeg: diff, StartJD: start, EndJD: end, Accepted: true,
			})
			return finish(req, mid, lon, target, iterations)
		}

		// The observable increases with time: ahead of target means the
		// root lies earlier.
		if diff > 0 {
			end = mid
		} else {
			start = mid
		}
		s.notify(Iteration{
			N: iterations, JD: mid, Longitude: lon, TargetDeg: target,
			DeltaDeg: diff, StartJD: start, EndJD: end,
		})
	}

	return nil, &NonConvergenceError{
		Iterations:   iterations,
		ToleranceDeg: req.ToleranceDeg,
		Window:       req.Window,
		DeltaDeg:     -1,
	}
}

func validate(req Request) error {
	if req.Window.MinDays < 0 || req.Window.MaxDays < 0 {
		return &InvalidInputError{Field: "window", Msg: "offsets must be non-negative"}
	}
	if req.Window.MinDays >= req.Window.MaxDays {
		return &InvalidInputError{Field: "window", Msg: "min must be less than max"}
	}
	if req.ToleranceDeg <= 0 {
		return &InvalidInputError{Field: "tolerance_deg", Msg: "must be positive"}
	}
	if req.MaxIterations <= 0 {
		return &InvalidInputError{Field: "max_iterations", Msg: "must be positive"}
	}
	return nil
}

func (s *Solver) query(jd float64) (float64, error) {
	lon, err := s.oracle.Longitude(jd)
	if err != nil {
		return 0, &OracleError{JD: jd, Err: err}
	}
	return angle.Normalize(lon), nil
}

// finish re-derives the delta from the accepted values. The loop already
// checked tolerance; this guards against any rounding inconsistency
// between the accept condition and the reported numbers.
func finish(req Request, jd, achieved, target float64, iterations int) (*Result, error) {
	delta := abs(angle.Delta(achieved, target))
	if delta > req.ToleranceDeg {
		return nil, &NonConvergenceError{
			Iterations:   iterations,
			ToleranceDeg: req.ToleranceDeg,
			Window:       req.Window,
			DeltaDeg:     delta,
		}
	}
	return &Result{
		BirthJD:     req.BirthJD,
		DesignJD:    jd,
		TargetDeg:   target,
		AchievedDeg: achieved,
		DeltaDeg:    delta,
		Iterations:  iterations,
	}, nil
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
