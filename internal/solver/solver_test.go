package solver

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/astraline/ephemerisd/internal/angle"
)

// linearOracle models a body advancing at a constant rate in degrees per
// day, the monotone case the solver is specified for.
type linearOracle struct {
	t0     float64
	lon0   float64
	rate   float64
	calls  int
	failAt float64 // jd below which queries fail; 0 disables
}

func (o *linearOracle) Longitude(jd float64) (float64, error) {
	o.calls++
	if o.failAt != 0 && jd < o.failAt {
		return 0, fmt.Errorf("instant %.4f outside ephemeris range", jd)
	}
	return angle.Normalize(o.lon0 + o.rate*(jd-o.t0)), nil
}

const birthJD = 2451545.0

func sunLikeRequest() Request {
	return Request{
		BirthJD:       birthJD,
		OffsetDeg:     88.0,
		Window:        Window{MinDays: 70, MaxDays: 110},
		ToleranceDeg:  0.01,
		MaxIterations: 80,
	}
}

func TestSolveConstantRateSun(t *testing.T) {
	// Scenario: 1 deg/day, birth longitude 100, offset 88. The design
	// instant is 88 days before birth, target longitude 12.
	oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
	res, err := New(oracle).Solve(sunLikeRequest())
	if err != nil {
		t.Fatal(err)
	}

	if math.Abs(res.TargetDeg-12.0) > 1e-9 {
		t.Errorf("target = %.6f, want 12", res.TargetDeg)
	}
	// 0.01 deg tolerance at 1 deg/day is 0.01 days of slack
	if math.Abs(res.DesignJD-(birthJD-88.0)) > 0.01 {
		t.Errorf("design jd = %.6f, want %.6f +/- 0.01", res.DesignJD, birthJD-88.0)
	}
	if res.DeltaDeg > 0.01 {
		t.Errorf("delta = %.6f, want <= tolerance", res.DeltaDeg)
	}
	if res.Iterations < 1 || res.Iterations > 80 {
		t.Errorf("iterations = %d, want 1..80", res.Iterations)
	}
	if res.DesignJD >= res.BirthJD {
		t.Error("design instant must precede birth")
	}
}

func TestSolveTargetWrapsZero(t *testing.T) {
	// birth longitude 30, offset 88: target 302, across the 0/360 seam
	// from the birth angle.
	oracle := &linearOracle{t0: birthJD, lon0: 30, rate: 1.0}
	res, err := New(oracle).Solve(sunLikeRequest())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.TargetDeg-302.0) > 1e-9 {
		t.Errorf("target = %.6f, want 302", res.TargetDeg)
	}
	if math.Abs(res.DesignJD-(birthJD-88.0)) > 0.01 {
		t.Errorf("design jd = %.6f, want ~%.4f", res.DesignJD, birthJD-88.0)
	}
}

func TestSolveVaryingRates(t *testing.T) {
	// The algebraic root is offset/rate days before birth; windows are
	// sized to contain it.
	rates := []float64{0.25, 0.5, 0.9856, 1.5}
	for _, rate := range rates {
		root := 88.0 / rate
		oracle := &linearOracle{t0: birthJD, lon0: 200, rate: rate}
		req := sunLikeRequest()
		req.Window = Window{MinDays: root - 30, MaxDays: root + 30}
		if req.Window.MinDays < 0 {
			req.Window.MinDays = 0
		}
		res, err := New(oracle).Solve(req)
		if err != nil {
			t.Fatalf("rate %v: %v", rate, err)
		}
		slackDays := req.ToleranceDeg / rate
		if math.Abs(res.DesignJD-(birthJD-root)) > slackDays {
			t.Errorf("rate %v: design jd off by %.6f days, slack %.6f",
				rate, math.Abs(res.DesignJD-(birthJD-root)), slackDays)
		}
	}
}

func TestSolveInvalidWindowNoOracleCalls(t *testing.T) {
	oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
	req := sunLikeRequest()
	req.Window = Window{MinDays: 110, MaxDays: 70}

	_, err := New(oracle).Solve(req)
	var iie *InvalidInputError
	if !errors.As(err, &iie) {
		t.Fatalf("err = %v, want InvalidInputError", err)
	}
	if oracle.calls != 0 {
		t.Errorf("oracle queried %d times before validation, want 0", oracle.calls)
	}
}

func TestSolveInputValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"equal window bounds", func(r *Request) { r.Window = Window{MinDays: 70, MaxDays: 70} }},
		{"negative window", func(r *Request) { r.Window = Window{MinDays: -5, MaxDays: 70} }},
		{"zero tolerance", func(r *Request) { r.ToleranceDeg = 0 }},
		{"negative tolerance", func(r *Request) { r.ToleranceDeg = -0.01 }},
		{"zero iterations", func(r *Request) { r.MaxIterations = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
			req := sunLikeRequest()
			tt.mutate(&req)
			_, err := New(oracle).Solve(req)
			var iie *InvalidInputError
			if !errors.As(err, &iie) {
				t.Fatalf("err = %v, want InvalidInputError", err)
			}
			if oracle.calls != 0 {
				t.Errorf("oracle queried %d times, want 0", oracle.calls)
			}
		})
	}
}

func TestSolveBudgetTooSmall(t *testing.T) {
	// Scenario: a 1-day window with a 1e-4 deg tolerance cannot converge
	// in 5 probes.
	oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
	req := Request{
		BirthJD:       birthJD,
		OffsetDeg:     88.0,
		Window:        Window{MinDays: 1, MaxDays: 2},
		ToleranceDeg:  0.0001,
		MaxIterations: 5,
	}
	_, err := New(oracle).Solve(req)
	var nce *NonConvergenceError
	if !errors.As(err, &nce) {
		t.Fatalf("err = %v, want NonConvergenceError", err)
	}
	if nce.Iterations > 5 {
		t.Errorf("iterations = %d, want <= 5", nce.Iterations)
	}
	if nce.ToleranceDeg != 0.0001 {
		t.Errorf("diagnostic tolerance = %v, want 0.0001", nce.ToleranceDeg)
	}
	if nce.Window.MinDays != 1 || nce.Window.MaxDays != 2 {
		t.Errorf("diagnostic window = %+v, want 1-2", nce.Window)
	}
}

func TestSolveNeverExceedsBudget(t *testing.T) {
	for _, maxIter := range []int{1, 3, 10, 80} {
		oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
		req := sunLikeRequest()
		req.MaxIterations = maxIter
		_, _ = New(oracle).Solve(req)
		// one birth query plus at most maxIter probes
		if oracle.calls > maxIter+1 {
			t.Errorf("max_iter %d: %d oracle calls", maxIter, oracle.calls)
		}
	}
}

func TestSolveOracleFailurePropagates(t *testing.T) {
	// queries earlier than 100 days before birth fail
	oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0, failAt: birthJD - 100}
	req := sunLikeRequest()
	req.Window = Window{MinDays: 101, MaxDays: 150} // whole window unsupported

	_, err := New(oracle).Solve(req)
	var oe *OracleError
	if !errors.As(err, &oe) {
		t.Fatalf("err = %v, want OracleError", err)
	}
	if oe.JD >= birthJD-100 {
		t.Errorf("failing instant %.4f not attached", oe.JD)
	}
	// first failing probe aborts: birth query + one midpoint
	if oracle.calls != 2 {
		t.Errorf("oracle calls = %d, want 2 (no retry)", oracle.calls)
	}
}

// steeringRecorder asserts the monotonicity contract from the solver's
// point of view: successive brackets must nest.
type steeringRecorder struct {
	iterations []Iteration
}

func (r *steeringRecorder) OnIteration(it Iteration) {
	r.iterations = append(r.iterations, it)
}

func TestSolveObserverSeesNestedBrackets(t *testing.T) {
	oracle := &linearOracle{t0: birthJD, lon0: 100, rate: 1.0}
	s := New(oracle)
	rec := &steeringRecorder{}
	s.AddObserver(rec)

	res, err := s.Solve(sunLikeRequest())
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.iterations) != res.Iterations {
		t.Fatalf("observer saw %d iterations, result says %d", len(rec.iterations), res.Iterations)
	}
	for i := 1; i < len(rec.iterations); i++ {
		prev, cur := rec.iterations[i-1], rec.iterations[i]
		if cur.StartJD < prev.StartJD || cur.EndJD > prev.EndJD {
			t.Errorf("iteration %d bracket [%.6f, %.6f] not nested in [%.6f, %.6f]",
				cur.N, cur.StartJD, cur.EndJD, prev.StartJD, prev.EndJD)
		}
	}
	last := rec.iterations[len(rec.iterations)-1]
	if !last.Accepted {
		t.Error("last observed iteration not marked accepted")
	}
}
