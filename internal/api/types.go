package api

// Public JSON types. Field names match the original wire format of the
// service; they are deliberately decoupled from the internal types so the
// engine and solver can change without breaking clients.

// PositionsFlags tunes a positions calculation.
type PositionsFlags struct {
	Sidereal     bool `json:"sidereal"`
	Ayanamsa     *int `json:"ayanamsa,omitempty"`
	IncludeSpeed bool `json:"include_speed"`
}

// PositionsRequest is the payload for POST /v1/positions.
type PositionsRequest struct {
	JDUT   float64         `json:"jd_ut"`
	Bodies []string        `json:"bodies"`
	Flags  *PositionsFlags `json:"flags,omitempty"`
	// IncludeSpeed at the top level predates Flags and is kept for
	// compatibility; Flags wins when both are set.
	IncludeSpeed bool `json:"include_speed,omitempty"`
}

// PositionsMeta describes how a positions response was computed.
type PositionsMeta struct {
	Engine   string `json:"engine"`
	Sidereal bool   `json:"sidereal"`
}

// PositionsResponse is the payload for a successful positions call.
type PositionsResponse struct {
	JDUT      float64            `json:"jd_ut"`
	Positions map[string]float64 `json:"positions"`
	Speeds    map[string]float64 `json:"speeds,omitempty"`
	Meta      PositionsMeta      `json:"meta"`
}

// HousesRequest is the payload for POST /v1/houses.
type HousesRequest struct {
	JDUT        float64 `json:"jd_ut"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	HouseSystem string  `json:"house_system,omitempty"`
}

// HousesAngles carries the chart angles.
type HousesAngles struct {
	Asc float64 `json:"asc"`
	MC  float64 `json:"mc"`
}

// HousesResponse is the payload for a successful houses call. Cusps has
// 13 elements with index 0 unused, the conventional layout.
type HousesResponse struct {
	JDUT        float64      `json:"jd_ut"`
	HouseSystem string       `json:"house_system"`
	Cusps       []float64    `json:"cusps"`
	Angles      HousesAngles `json:"angles"`
}

// SearchWindowDays bounds the design-time search, in days before birth.
type SearchWindowDays struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// DesignTimeRequest is the payload for POST /v1/design-time. Offset,
// tolerance and iteration budget fall back to the configured solver
// defaults when omitted.
type DesignTimeRequest struct {
	BirthJDUT        float64          `json:"birth_jd_ut"`
	SunOffsetDeg     *float64         `json:"sun_offset_deg,omitempty"`
	SearchWindowDays SearchWindowDays `json:"search_window_days"`
	ToleranceDeg     *float64         `json:"tolerance_deg,omitempty"`
	MaxIter          *int             `json:"max_iter,omitempty"`
}

// DesignTimeResponse is the payload for a converged design-time solve.
type DesignTimeResponse struct {
	BirthJDUT      float64 `json:"birth_jd_ut"`
	DesignJDUT     float64 `json:"design_jd_ut"`
	TargetSunLon   float64 `json:"target_sun_lon"`
	AchievedSunLon float64 `json:"achieved_sun_lon"`
	DeltaDeg       float64 `json:"delta_deg"`
	Iterations     int     `json:"iterations"`
}

// VersionResponse is the payload for GET /v1/version.
type VersionResponse struct {
	Service    string `json:"service"`
	APIVersion string `json:"api_version"`
	GitCommit  string `json:"git_commit"`
	BuildTag   string `json:"build_tag"`
	BuildTime  string `json:"build_time_utc"`
}

// SourceResponse is the payload for GET /v1/source.
type SourceResponse struct {
	Repo   string `json:"repo"`
	Tag    string `json:"tag"`
	Commit string `json:"commit"`
}

// Error codes used in the envelope.
const (
	CodeBadRequest         = "bad_request"
	CodeUnauthorized       = "unauthorized"
	CodeNoConvergence      = "no_convergence"
	CodeInternalError      = "internal_error"
	CodeUnsupportedBody    = "unsupported_body"
	CodeInvalidHouseSystem = "invalid_house_system"
)

// ErrorDetail is the inner error object.
type ErrorDetail struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details"`
}

// ErrorBody is the standard error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}
