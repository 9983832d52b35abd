// Package export renders calculation results to SVG.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/astraline/ephemerisd/internal/ephemeris"
	"github.com/astraline/ephemerisd/internal/solver"
)

var bodyGlyphs = map[ephemeris.Body]string{
	ephemeris.Sun:      "☉",
	ephemeris.Moon:     "☽",
	ephemeris.Mercury:  "☿",
	ephemeris.Venus:    "♀",
	ephemeris.Mars:     "♂",
	ephemeris.Jupiter:  "♃",
	ephemeris.Saturn:   "♄",
	ephemeris.Uranus:   "♅",
	ephemeris.Neptune:  "♆",
	ephemeris.Pluto:    "♇",
	ephemeris.TrueNode: "☊",
	ephemeris.MeanNode: "☊",
}

// WheelSVG renders a chart wheel: zodiac ring, house cusps as spokes, and
// body markers at their ecliptic longitudes. Longitude 0 sits at the left
// (the Asc position in the conventional orientation) and increases
// counter-clockwise when houses are given, otherwise Aries is at left.
func WheelSVG(positions map[ephemeris.Body]ephemeris.Position, houses *ephemeris.Houses, size int) string {
	if size <= 0 {
		size = 600
	}
	c := float64(size) / 2
	outer := c * 0.95
	inner := c * 0.72
	bodyR := c * 0.58

	// Rotate so the ascendant (or 0 Aries) points left.
	rotation := 0.0
	if houses != nil {
		rotation = houses.Asc
	}
	// point maps an ecliptic longitude and radius to SVG coordinates,
	// counter-clockwise from the left.
	point := func(lon, r float64) (float64, float64) {
		a := rad(180 - (lon - rotation))
		return c + r*math.Cos(a), c - r*math.Sin(a)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, size, size, size, size))

	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#333" stroke-width="1.5"/>
`, c, c, outer))
	sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f" fill="none" stroke="#333" stroke-width="1"/>
`, c, c, inner))

	// Zodiac sign boundaries every 30 degrees.
	for s := 0; s < 12; s++ {
		lon := float64(s) * 30
		x1, y1 := point(lon, inner)
		x2, y2 := point(lon, outer)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#222" stroke-width="1"/>
`, x1, y1, x2, y2))
	}

	// House cusps as full spokes, angles heavier.
	if houses != nil {
		for i := 1; i <= 12; i++ {
			width := 1.0
			color := "#555"
			if i == 1 || i == 10 {
				width = 2.5
				color = "#999"
			}
			x, y := point(houses.Cusps[i], inner)
			sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>
`, c, c, x, y, color, width))
		}
	}

	// Bodies in stable order so output is deterministic.
	bodies := make([]ephemeris.Body, 0, len(positions))
	for b := range positions {
		bodies = append(bodies, b)
	}
	sort.Slice(bodies, func(i, j int) bool { return bodies[i] < bodies[j] })

	sb.WriteString(`<g fill="#00ff00" font-family="serif" font-size="18" text-anchor="middle">
`)
	for _, b := range bodies {
		lon := positions[b].Longitude
		x, y := point(lon, bodyR)
		glyph := bodyGlyphs[b]
		if glyph == "" {
			glyph = string(b[0])
		}
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="2" fill="#00ff00"/>
<text x="%.1f" y="%.1f">%s</text>
`, x, y, x, y-8, glyph))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// TraceSVG plots the steering delta of a recorded solve as a polyline,
// iteration index on the x-axis.
func TraceSVG(iterations []solver.Iteration, width, height int) string {
	if len(iterations) < 2 {
		return ""
	}
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 300
	}

	minY, maxY := iterations[0].DeltaDeg, iterations[0].DeltaDeg
	for _, it := range iterations {
		if it.DeltaDeg < minY {
			minY = it.DeltaDeg
		}
		if it.DeltaDeg > maxY {
			maxY = it.DeltaDeg
		}
	}
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	// Zero line, where the search converges.
	zy := float64(height) - (0-minY)/rangeY*float64(height)
	if zy >= 0 && zy <= float64(height) {
		sb.WriteString(fmt.Sprintf(`<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="#333" stroke-width="1" stroke-dasharray="4 4"/>
`, zy, width, zy))
	}

	sb.WriteString(`<path fill="none" stroke="#00ff00" stroke-width="1.5" d="M`)
	for i, it := range iterations {
		x := float64(i) / float64(len(iterations)-1) * float64(width)
		y := float64(height) - (it.DeltaDeg-minY)/rangeY*float64(height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
