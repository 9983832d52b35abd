package ephemeris

import "fmt"

// UnsupportedBodyError reports a body name outside the supported set.
type UnsupportedBodyError struct {
	Name string
}

func (e *UnsupportedBodyError) Error() string {
	return fmt.Sprintf("unsupported body: %s", e.Name)
}

// UnsupportedHouseSystemError reports an unknown or unimplemented house
// system code.
type UnsupportedHouseSystemError struct {
	Code string
}

func (e *UnsupportedHouseSystemError) Error() string {
	return fmt.Sprintf("unsupported house system: %s", e.Code)
}

// ComputationError reports that the analytic theory could not produce a
// result for the given inputs (for example Placidus cusps at circumpolar
// latitudes).
type ComputationError struct {
	JD   float64
	Body Body
	Msg  string
}

func (e *ComputationError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("ephemeris: %s at jd %.6f: %s", e.Body, e.JD, e.Msg)
	}
	return fmt.Sprintf("ephemeris: jd %.6f: %s", e.JD, e.Msg)
}
