package solver

import "fmt"

// InvalidInputError reports a precondition violation detected before any
// oracle query: a malformed window, non-positive tolerance, or
// non-positive iteration budget.
type InvalidInputError struct {
	Field string
	Msg   string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Msg)
}

// OracleError wraps a failure of the oracle at a specific instant. It is
// surfaced immediately and never retried.
type OracleError struct {
	JD  float64
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle query at jd %.6f: %v", e.JD, e.Err)
}

func (e *OracleError) Unwrap() error { return e.Err }

// NonConvergenceError reports that the iteration budget ran out, or the
// final delta check failed, before the tolerance was met. It is a
// domain-expected outcome and carries enough detail for the caller to
// retry with relaxed parameters.
type NonConvergenceError struct {
	Iterations   int
	ToleranceDeg float64
	Window       Window
	// DeltaDeg is the best achieved delta when known, negative otherwise.
	DeltaDeg float64
}

func (e *NonConvergenceError) Error() string {
	if e.DeltaDeg >= 0 {
		return fmt.Sprintf("no convergence after %d iterations: delta %.6f deg exceeds tolerance %.6f deg (window %.2f-%.2f days)",
			e.Iterations, e.DeltaDeg, e.ToleranceDeg, e.Window.MinDays, e.Window.MaxDays)
	}
	return fmt.Sprintf("no convergence after %d iterations: tolerance %.6f deg (window %.2f-%.2f days)",
		e.Iterations, e.ToleranceDeg, e.Window.MinDays, e.Window.MaxDays)
}
