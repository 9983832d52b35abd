package export

import (
	"strings"
	"testing"

	"github.com/astraline/ephemerisd/internal/ephemeris"
	"github.com/astraline/ephemerisd/internal/solver"
)

func TestWheelSVG(t *testing.T) {
	positions := map[ephemeris.Body]ephemeris.Position{
		ephemeris.Sun:  {Longitude: 280.0},
		ephemeris.Moon: {Longitude: 45.0},
	}
	houses := &ephemeris.Houses{System: ephemeris.HousePlacidus, Asc: 100, MC: 10}
	for i := 1; i <= 12; i++ {
		houses.Cusps[i] = float64(i-1) * 30
	}

	svg := WheelSVG(positions, houses, 600)
	if !strings.HasPrefix(svg, `<?xml`) {
		t.Fatal("missing xml header")
	}
	if !strings.Contains(svg, "</svg>") {
		t.Fatal("unterminated svg")
	}
	if strings.Count(svg, "<line") < 24 { // 12 sign boundaries + 12 cusps
		t.Errorf("expected at least 24 lines, got %d", strings.Count(svg, "<line"))
	}
	if !strings.Contains(svg, "☉") || !strings.Contains(svg, "☽") {
		t.Error("missing body glyphs")
	}

	// Deterministic output regardless of map iteration order.
	if svg != WheelSVG(positions, houses, 600) {
		t.Error("output not deterministic")
	}
}

func TestWheelSVGNoHouses(t *testing.T) {
	svg := WheelSVG(map[ephemeris.Body]ephemeris.Position{ephemeris.Sun: {Longitude: 0}}, nil, 0)
	if !strings.Contains(svg, "</svg>") {
		t.Fatal("unterminated svg")
	}
}

func TestTraceSVG(t *testing.T) {
	iterations := []solver.Iteration{
		{N: 1, DeltaDeg: 12.0},
		{N: 2, DeltaDeg: -5.0},
		{N: 3, DeltaDeg: 1.5},
		{N: 4, DeltaDeg: -0.2},
	}
	svg := TraceSVG(iterations, 800, 300)
	if !strings.Contains(svg, "<path") {
		t.Fatal("missing polyline")
	}
	if !strings.Contains(svg, "stroke-dasharray") {
		t.Error("missing zero line")
	}

	if got := TraceSVG(iterations[:1], 800, 300); got != "" {
		t.Errorf("single point should produce empty output, got %q", got)
	}
}
