package angle

import (
	"math"
	"testing"
)

func TestNormalizeRange(t *testing.T) {
	inputs := []float64{0, 359.999, 360, 360.5, 720, -1, -360, -720.25, 1e9, -1e9, 88.0, -0.0001}
	for _, in := range inputs {
		got := Normalize(in)
		if got < 0 || got >= 360 {
			t.Errorf("Normalize(%v) = %v, outside [0,360)", in, got)
		}
	}
}

func TestNormalizeValues(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{450, 90},
		{-720, 0},
		{12, 12},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []float64{-1234.5, 0.0001, 359.9999, 98765.4321}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %v: %v != %v", in, once, twice)
		}
	}
}

func TestNormalizeNonFinitePanics(t *testing.T) {
	for _, in := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Normalize(%v) did not panic", in)
				}
			}()
			Normalize(in)
		}()
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		a, b, want float64
	}{
		{10, 350, 20},
		{350, 10, -20},
		{0, 180, -180},
		{90, 90, 0},
		{100, 12, 88},
		{1, 359, 2},
		{-10, 10, -20},
	}
	for _, tt := range tests {
		if got := Delta(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Delta(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDeltaBoundsAndAntisymmetry(t *testing.T) {
	angles := []float64{0, 1, 45, 90, 179, 180, 181, 270, 359, 360, -45, 723.5}
	for _, a := range angles {
		for _, b := range angles {
			d := Delta(a, b)
			if d < -180 || d > 180 {
				t.Errorf("Delta(%v, %v) = %v, outside [-180,180]", a, b, d)
			}
			// 180 and -180 name the same point, so antisymmetry only
			// holds mod 360 at the cut.
			rd := Delta(b, a)
			if math.Abs(d) != 180 && math.Abs(d+rd) > 1e-9 {
				t.Errorf("Delta(%v,%v)=%v and Delta(%v,%v)=%v not antisymmetric", a, b, d, b, a, rd)
			}
		}
	}
}

func TestWithinTolerance(t *testing.T) {
	tests := []struct {
		a, b, tol float64
		want      bool
	}{
		{359.99, 0.01, 0.05, true},
		{359.99, 0.01, 0.01, false},
		{10, 10.005, 0.01, true},
		{0, 180, 179, false},
		{0, 180, 180, true},
	}
	for _, tt := range tests {
		if got := WithinTolerance(tt.a, tt.b, tt.tol); got != tt.want {
			t.Errorf("WithinTolerance(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
		}
		// symmetric in a, b
		if got := WithinTolerance(tt.b, tt.a, tt.tol); got != tt.want {
			t.Errorf("WithinTolerance(%v, %v, %v) = %v, not symmetric", tt.b, tt.a, tt.tol, got)
		}
	}
}

func TestDMS(t *testing.T) {
	d, m, s := DMS(88.5125)
	if d != 88 || m != 30 {
		t.Errorf("DMS(88.5125) = %d %d %f", d, m, s)
	}
	if math.Abs(s-45.0) > 1e-6 {
		t.Errorf("DMS(88.5125) seconds = %f, want 45", s)
	}
}
