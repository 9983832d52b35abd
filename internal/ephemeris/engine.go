package ephemeris

import (
	"math"

	"github.com/astraline/ephemerisd/internal/angle"
)

// Ayanamsha selects the zero point used for sidereal longitudes.
type Ayanamsha int

const (
	AyanamshaLahiri Ayanamsha = iota
	AyanamshaFaganBradley
)

// speedStep is the half-width in days of the central difference used for
// longitudinal speed. Small enough that no body moves more than a few
// degrees across it, so the wrap-aware difference is unambiguous.
const speedStep = 0.01

// Config carries engine-wide defaults. The zero value is a tropical
// engine, which is what both the solver and the HTTP defaults use.
type Config struct {
	Sidereal  bool
	Ayanamsha Ayanamsha
}

// Engine computes longitudes and house cusps. It is stateless after
// construction and safe for concurrent use. Construct it once with New
// and share the handle; there is no package-level initialization.
type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// PositionOptions modifies a bulk Positions call. The zero value inherits
// the engine defaults for the zodiac mode.
type PositionOptions struct {
	IncludeSpeed bool
	Sidereal     bool
	Ayanamsha    Ayanamsha
}

// Position is one body's result from Positions.
type Position struct {
	Longitude float64
	// Speed is degrees per day; populated only when requested.
	Speed    float64
	HasSpeed bool
}

// Longitude returns the ecliptic longitude of body at jd in degrees,
// normalized to [0, 360), in the engine's configured zodiac mode.
func (e *Engine) Longitude(jd float64, body Body) (float64, error) {
	lon, err := e.tropicalLongitude(jd, body)
	if err != nil {
		return 0, err
	}
	if e.cfg.Sidereal {
		lon = angle.Normalize(lon - ayanamshaDegrees(jd, e.cfg.Ayanamsha))
	}
	return lon, nil
}

func (e *Engine) tropicalLongitude(jd float64, body Body) (float64, error) {
	switch body {
	case Sun:
		return solarLongitude(jd), nil
	case Moon:
		return lunarLongitude(jd), nil
	case MeanNode:
		return meanNodeLongitude(jd), nil
	case TrueNode:
		return trueNodeLongitude(jd), nil
	case Mercury, Venus, Mars, Jupiter, Saturn, Uranus, Neptune, Pluto:
		return planetLongitude(jd, body)
	default:
		return 0, &UnsupportedBodyError{Name: string(body)}
	}
}

// Speed returns the rate of change of body's longitude at jd in degrees
// per day, by wrap-aware central difference. Negative during retrograde
// motion.
func (e *Engine) Speed(jd float64, body Body) (float64, error) {
	before, err := e.Longitude(jd-speedStep, body)
	if err != nil {
		return 0, err
	}
	after, err := e.Longitude(jd+speedStep, body)
	if err != nil {
		return 0, err
	}
	return angle.Delta(after, before) / (2 * speedStep), nil
}

// Positions computes longitudes for several bodies at once. The first
// unsupported body aborts the call.
func (e *Engine) Positions(jd float64, bodies []Body, opts PositionOptions) (map[Body]Position, error) {
	mode := e.cfg
	if opts.Sidereal {
		mode = Config{Sidereal: true, Ayanamsha: opts.Ayanamsha}
	}
	eng := e
	if mode != e.cfg {
		eng = New(mode)
	}

	out := make(map[Body]Position, len(bodies))
	for _, b := range bodies {
		lon, err := eng.Longitude(jd, b)
		if err != nil {
			return nil, err
		}
		p := Position{Longitude: lon}
		if opts.IncludeSpeed {
			sp, err := eng.Speed(jd, b)
			if err != nil {
				return nil, err
			}
			p.Speed = sp
			p.HasSpeed = true
		}
		out[b] = p
	}
	return out, nil
}

// ayanamshaDegrees returns the sidereal offset in degrees at jd. Linear
// approximations: value at J2000 plus the precession rate of ~50.29
// arcseconds per year.
func ayanamshaDegrees(jd float64, a Ayanamsha) float64 {
	t := centuries(jd)
	const ratePerCentury = 1.39667
	switch a {
	case AyanamshaFaganBradley:
		return 24.7367 + ratePerCentury*t
	default: // Lahiri
		return 23.8531 + ratePerCentury*t
	}
}

// SunLongitude is the solver's oracle binding: the Sun's longitude in the
// engine's zodiac mode.
func (e *Engine) SunLongitude(jd float64) (float64, error) {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return 0, &ComputationError{JD: jd, Body: Sun, Msg: "non-finite instant"}
	}
	return e.Longitude(jd, Sun)
}
