package ephemeris

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/astraline/ephemerisd/internal/angle"
)

// Julian Day for 2000-01-01 12:00:00 UT.
const jdJ2000 = 2451545.0

func TestJulianDayRoundTrip(t *testing.T) {
	epoch := time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)
	jd := JulianDay(epoch)
	if math.Abs(jd-jdJ2000) > 1e-8 {
		t.Fatalf("JulianDay(J2000) = %.9f, want %.1f", jd, jdJ2000)
	}

	back := Civil(jd)
	if d := back.Sub(epoch); d < -time.Millisecond || d > time.Millisecond {
		t.Errorf("Civil round trip drifted by %v", d)
	}
}

func TestGMSTAtEpoch(t *testing.T) {
	if got := gmst(jdJ2000); math.Abs(got-280.46062) > 0.001 {
		t.Errorf("gmst(J2000) = %.5f, want 280.46062", got)
	}
}

func TestSunLongitudeAtEpoch(t *testing.T) {
	e := New(Config{})
	lon, err := e.Longitude(jdJ2000, Sun)
	if err != nil {
		t.Fatal(err)
	}
	// apparent solar longitude at the J2000 epoch
	if math.Abs(angle.Delta(lon, 280.37)) > 0.05 {
		t.Errorf("Sun at J2000 = %.4f, want ~280.37", lon)
	}
}

func TestSunLongitudeAtEquinox(t *testing.T) {
	e := New(Config{})
	// 2000 March equinox: 2000-03-20 07:35 UT
	jd := JulianDay(time.Date(2000, 3, 20, 7, 35, 0, 0, time.UTC))
	lon, err := e.Longitude(jd, Sun)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(angle.Delta(lon, 0)) > 0.05 {
		t.Errorf("Sun at 2000 equinox = %.4f, want ~0", lon)
	}
}

func TestSunSpeed(t *testing.T) {
	e := New(Config{})
	sp, err := e.Speed(jdJ2000, Sun)
	if err != nil {
		t.Fatal(err)
	}
	// near perihelion the Sun runs slightly over a degree per day
	if sp < 0.95 || sp > 1.05 {
		t.Errorf("solar speed = %.5f deg/day, want ~1.02", sp)
	}
}

func TestMoonLongitudeWorkedExample(t *testing.T) {
	// Meeus example 47.a: 1992 April 12.0 TD, lambda = 133.162655.
	// The truncated series carries a few hundredths of a degree.
	lon := lunarLongitude(2448724.5)
	if math.Abs(angle.Delta(lon, 133.1626)) > 0.1 {
		t.Errorf("Moon 1992-04-12 = %.4f, want ~133.16", lon)
	}
}

func TestMoonSpeed(t *testing.T) {
	e := New(Config{})
	sp, err := e.Speed(jdJ2000, Moon)
	if err != nil {
		t.Fatal(err)
	}
	if sp < 10 || sp > 16 {
		t.Errorf("lunar speed = %.4f deg/day, want 11..15", sp)
	}
}

func TestMeanNodeAtEpoch(t *testing.T) {
	if got := meanNodeLongitude(jdJ2000); math.Abs(angle.Delta(got, 125.0445)) > 0.001 {
		t.Errorf("mean node at J2000 = %.5f, want 125.0445", got)
	}
}

func TestTrueNodeNearMeanNode(t *testing.T) {
	for _, jd := range []float64{jdJ2000, jdJ2000 + 1000, jdJ2000 - 5000} {
		mean := meanNodeLongitude(jd)
		tn := trueNodeLongitude(jd)
		if math.Abs(angle.Delta(tn, mean)) > 2.0 {
			t.Errorf("true node %.4f too far from mean node %.4f at jd %.1f", tn, mean, jd)
		}
	}
}

func TestAllBodiesNormalized(t *testing.T) {
	e := New(Config{})
	for _, b := range Bodies {
		lon, err := e.Longitude(jdJ2000, b)
		if err != nil {
			t.Fatalf("%s: %v", b, err)
		}
		if lon < 0 || lon >= 360 {
			t.Errorf("%s longitude %v outside [0,360)", b, lon)
		}
	}
}

func TestPositionsBulk(t *testing.T) {
	e := New(Config{})
	got, err := e.Positions(jdJ2000, []Body{Sun, Moon, Mars}, PositionOptions{IncludeSpeed: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d positions, want 3", len(got))
	}
	for b, p := range got {
		if !p.HasSpeed {
			t.Errorf("%s: speed requested but missing", b)
		}
	}
}

func TestPositionsUnsupportedBody(t *testing.T) {
	e := New(Config{})
	_, err := e.Positions(jdJ2000, []Body{Sun, Body("Chiron")}, PositionOptions{})
	var ub *UnsupportedBodyError
	if !errors.As(err, &ub) {
		t.Fatalf("err = %v, want UnsupportedBodyError", err)
	}
	if ub.Name != "Chiron" {
		t.Errorf("unsupported body name = %q, want Chiron", ub.Name)
	}
}

func TestSiderealOffset(t *testing.T) {
	trop := New(Config{})
	sid := New(Config{Sidereal: true, Ayanamsha: AyanamshaLahiri})

	tl, err := trop.Longitude(jdJ2000, Sun)
	if err != nil {
		t.Fatal(err)
	}
	sl, err := sid.Longitude(jdJ2000, Sun)
	if err != nil {
		t.Fatal(err)
	}
	diff := angle.Delta(tl, sl)
	if math.Abs(diff-23.8531) > 0.01 {
		t.Errorf("tropical-sidereal difference = %.4f, want ~23.85 (Lahiri)", diff)
	}
}

func TestParseBody(t *testing.T) {
	if _, err := ParseBody("Sun"); err != nil {
		t.Errorf("ParseBody(Sun): %v", err)
	}
	if _, err := ParseBody("sun"); err == nil {
		t.Error("ParseBody is case-sensitive; lowercase should fail")
	}
	if _, err := ParseBody("Vulcan"); err == nil {
		t.Error("ParseBody(Vulcan) should fail")
	}
}
