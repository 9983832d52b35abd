package api

import (
	"errors"
	"net/http"

	"github.com/astraline/ephemerisd/internal/ephemeris"
	"github.com/astraline/ephemerisd/internal/solver"
	"github.com/astraline/ephemerisd/internal/version"
)

// FromPositions converts an engine positions map into the public payload.
func FromPositions(jd float64, got map[ephemeris.Body]ephemeris.Position, sidereal bool) PositionsResponse {
	resp := PositionsResponse{
		JDUT:      jd,
		Positions: make(map[string]float64, len(got)),
		Meta:      PositionsMeta{Engine: "analytic", Sidereal: sidereal},
	}
	for body, p := range got {
		resp.Positions[string(body)] = p.Longitude
		if p.HasSpeed {
			if resp.Speeds == nil {
				resp.Speeds = make(map[string]float64, len(got))
			}
			resp.Speeds[string(body)] = p.Speed
		}
	}
	return resp
}

// FromHouses converts engine house cusps into the public payload.
func FromHouses(jd float64, h *ephemeris.Houses) HousesResponse {
	return HousesResponse{
		JDUT:        jd,
		HouseSystem: string(h.System),
		Cusps:       h.Cusps[:],
		Angles:      HousesAngles{Asc: h.Asc, MC: h.MC},
	}
}

// FromSolverResult converts a converged solve into the public payload.
func FromSolverResult(res *solver.Result) DesignTimeResponse {
	return DesignTimeResponse{
		BirthJDUT:      res.BirthJD,
		DesignJDUT:     res.DesignJD,
		TargetSunLon:   res.TargetDeg,
		AchievedSunLon: res.AchievedDeg,
		DeltaDeg:       res.DeltaDeg,
		Iterations:     res.Iterations,
	}
}

// FromVersion builds the version payload from linker metadata.
func FromVersion() VersionResponse {
	return VersionResponse{
		Service:    version.Service,
		APIVersion: APIVersion,
		GitCommit:  version.Commit,
		BuildTag:   version.Tag,
		BuildTime:  version.BuildTime,
	}
}

// mapError translates internal errors into status code, error code and
// diagnostic details for the envelope.
func mapError(err error) (status int, code string, details map[string]any) {
	var (
		iie *solver.InvalidInputError
		nce *solver.NonConvergenceError
		oe  *solver.OracleError
		ub  *ephemeris.UnsupportedBodyError
		uh  *ephemeris.UnsupportedHouseSystemError
		ce  *ephemeris.ComputationError
	)
	switch {
	case errors.As(err, &iie):
		return http.StatusBadRequest, CodeBadRequest, map[string]any{"field": iie.Field}
	case errors.As(err, &nce):
		return http.StatusUnprocessableEntity, CodeNoConvergence, map[string]any{
			"iterations":    nce.Iterations,
			"tolerance_deg": nce.ToleranceDeg,
			"search_window_days": map[string]float64{
				"min": nce.Window.MinDays,
				"max": nce.Window.MaxDays,
			},
		}
	case errors.As(err, &ub):
		return http.StatusBadRequest, CodeUnsupportedBody, map[string]any{"body": ub.Name}
	case errors.As(err, &uh):
		return http.StatusBadRequest, CodeInvalidHouseSystem, map[string]any{"house_system": uh.Code}
	case errors.As(err, &oe):
		return http.StatusBadRequest, CodeBadRequest, map[string]any{"jd_ut": oe.JD}
	case errors.As(err, &ce):
		return http.StatusBadRequest, CodeBadRequest, map[string]any{"jd_ut": ce.JD}
	default:
		return http.StatusInternalServerError, CodeInternalError, nil
	}
}
