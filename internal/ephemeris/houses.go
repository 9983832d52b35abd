package ephemeris

import (
	"math"

	"github.com/astraline/ephemerisd/internal/angle"
)

// HouseSystem is a single-letter house system code, matching the
// conventional ephemeris codes.
type HouseSystem string

const (
	HousePlacidus  HouseSystem = "P"
	HouseEqual     HouseSystem = "E"
	HouseWholeSign HouseSystem = "W"
	HousePorphyry  HouseSystem = "Y"
)

// ParseHouseSystem validates a house system code.
func ParseHouseSystem(code string) (HouseSystem, error) {
	switch HouseSystem(code) {
	case HousePlacidus, HouseEqual, HouseWholeSign, HousePorphyry:
		return HouseSystem(code), nil
	}
	return "", &UnsupportedHouseSystemError{Code: code}
}

// Houses holds twelve cusps plus the Ascendant and Midheaven, all in
// degrees of ecliptic longitude. Cusps is 1-indexed; Cusps[0] is unused
// and always zero, matching the conventional 13-element layout.
type Houses struct {
	System HouseSystem
	Cusps  [13]float64
	Asc    float64
	MC     float64
}

// HousesAt computes house cusps for the given instant and geographic
// position (latitude north-positive, longitude east-positive).
func (e *Engine) HousesAt(jd, lat, lon float64, sys HouseSystem) (*Houses, error) {
	if math.Abs(lat) > 90 {
		return nil, &ComputationError{JD: jd, Msg: "latitude out of range"}
	}
	ra := ramc(jd, lon)
	eps := meanObliquity(jd)

	mc := raToEcliptic(ra, eps)
	asc := ascendant(ra, lat, eps)

	h := &Houses{System: sys, Asc: asc, MC: mc}
	var err error
	switch sys {
	case HouseEqual:
		for i := 1; i <= 12; i++ {
			h.Cusps[i] = angle.Normalize(asc + float64(i-1)*30)
		}
	case HouseWholeSign:
		first := math.Floor(asc/30) * 30
		for i := 1; i <= 12; i++ {
			h.Cusps[i] = angle.Normalize(first + float64(i-1)*30)
		}
	case HousePorphyry:
		porphyryCusps(h)
	case HousePlacidus:
		err = placidusCusps(h, ra, lat, eps, jd)
	default:
		return nil, &UnsupportedHouseSystemError{Code: string(sys)}
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ascendant returns the ecliptic longitude rising on the eastern horizon.
func ascendant(ramc, lat, eps float64) float64 {
	raR := rad(ramc)
	epsR := rad(eps)
	latR := rad(lat)
	a := math.Atan2(
		math.Cos(raR),
		-(math.Sin(raR)*math.Cos(epsR) + math.Tan(latR)*math.Sin(epsR)),
	)
	return angle.Normalize(deg(a))
}

// porphyryCusps trisects each ecliptic quadrant between the angles.
func porphyryCusps(h *Houses) {
	h.Cusps[1] = h.Asc
	h.Cusps[10] = h.MC

	// MC to Asc (houses 10-12), Asc to IC (houses 1-3)
	upper := angle.Normalize(h.Asc - h.MC)
	lower := 180 - upper

	h.Cusps[11] = angle.Normalize(h.MC + upper/3)
	h.Cusps[12] = angle.Normalize(h.MC + 2*upper/3)
	h.Cusps[2] = angle.Normalize(h.Asc + lower/3)
	h.Cusps[3] = angle.Normalize(h.Asc + 2*lower/3)

	oppose(h)
}

// placidusCusps computes the intermediate cusps by the semi-arc method:
// cusp 11 lies where a body has run one third of its diurnal semi-arc past
// the meridian, and so on. Fails inside the polar circles where the
// semi-arc is undefined for part of the ecliptic.
func placidusCusps(h *Houses, ramc, lat, eps, jd float64) error {
	h.Cusps[1] = h.Asc
	h.Cusps[10] = h.MC

	type arc struct {
		cusp      int
		offset    float64 // initial RA guess relative to RAMC
		fraction  float64
		nocturnal bool
	}
	arcs := []arc{
		{11, 30, 1.0 / 3.0, false},
		{12, 60, 2.0 / 3.0, false},
		{2, 120, 2.0 / 3.0, true},
		{3, 150, 1.0 / 3.0, true},
	}
	for _, s := range arcs {
		lon, err := placidusIterate(ramc, lat, eps, s.offset, s.fraction, s.nocturnal)
		if err != nil {
			return &ComputationError{JD: jd, Msg: err.Error()}
		}
		h.Cusps[s.cusp] = lon
	}

	oppose(h)
	return nil
}

func placidusIterate(ramc, lat, eps, offset, fraction float64, nocturnal bool) (float64, error) {
	latR := rad(lat)
	epsR := rad(eps)

	ra := ramc + offset
	for i := 0; i < 30; i++ {
		lam := raToEcliptic(ra, eps)
		decl := math.Asin(math.Sin(epsR) * math.Sin(rad(lam)))
		x := math.Tan(decl) * math.Tan(latR)
		if math.Abs(x) >= 1 {
			return 0, errCircumpolar
		}
		ad := deg(math.Asin(x))

		var next float64
		if nocturnal {
			next = ramc + 180 - fraction*(90-ad)
		} else {
			next = ramc + fraction*(90+ad)
		}
		if math.Abs(angle.Delta(next, ra)) < 1e-7 {
			ra = next
			break
		}
		ra = next
	}
	return raToEcliptic(ra, eps), nil
}

// oppose fills cusps 4-9 from their opposites.
func oppose(h *Houses) {
	for i := 4; i <= 6; i++ {
		h.Cusps[i] = angle.Normalize(h.Cusps[i+6] + 180)
	}
	for i := 7; i <= 9; i++ {
		h.Cusps[i] = angle.Normalize(h.Cusps[i-6] + 180)
	}
}

var errCircumpolar = &circumpolarError{}

type circumpolarError struct{}

func (*circumpolarError) Error() string {
	return "Placidus cusps undefined at circumpolar latitude"
}
