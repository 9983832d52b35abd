package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/astraline/ephemerisd/internal/config"
	"github.com/astraline/ephemerisd/internal/ephemeris"
	"github.com/astraline/ephemerisd/internal/solver"
	"github.com/astraline/ephemerisd/internal/version"
)

const (
	APIVersion     = "v1"
	DefaultAddress = "127.0.0.1:8094"

	sourceHeader = "X-Source"
)

// ServerOptions configures the HTTP server. Zero values fall back to
// conservative defaults suitable for a small calculation service.
type ServerOptions struct {
	Addr            string
	APIKeys         []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Logger          *zap.Logger
	Solver          config.SolverConfig
	HouseSystem     string
}

// Server hosts the HTTP API around an ephemeris engine.
type Server struct {
	http   *http.Server
	engine *ephemeris.Engine
	logger *zap.Logger
	keys   map[string]struct{}
	opts   ServerOptions
}

// NewServer wires handlers onto a ServeMux. The server does not listen
// until Start is called.
func NewServer(engine *ephemeris.Engine, opts ServerOptions) *Server {
	if engine == nil {
		panic("api.NewServer: engine is nil")
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddress
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 10 * time.Second
	}
	if opts.ShutdownTimeout == 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Solver.MaxIter == 0 {
		opts.Solver = config.DefaultConfig().Solver
	}
	if opts.HouseSystem == "" {
		opts.HouseSystem = config.DefaultHouseSystem
	}

	keys := make(map[string]struct{}, len(opts.APIKeys))
	for _, k := range opts.APIKeys {
		keys[k] = struct{}{}
	}

	mux := http.NewServeMux()
	s := &Server{
		engine: engine,
		logger: opts.Logger,
		keys:   keys,
		opts:   opts,
		http: &http.Server{
			Addr:         opts.Addr,
			Handler:      nil, // set below, needs s
			ReadTimeout:  opts.ReadTimeout,
			WriteTimeout: opts.WriteTimeout,
		},
	}
	s.http.Handler = s.withRequestLog(mux)

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/"+APIVersion+"/version", s.handleVersion)
	mux.HandleFunc("/"+APIVersion+"/source", s.handleSource)
	mux.HandleFunc("/"+APIVersion+"/positions", s.requireAuth(s.handlePositions))
	mux.HandleFunc("/"+APIVersion+"/houses", s.requireAuth(s.handleHouses))
	mux.HandleFunc("/"+APIVersion+"/design-time", s.requireAuth(s.handleDesignTime))

	return s
}

// Handler exposes the full middleware chain, mainly for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// Start begins serving in a background goroutine; use Stop for graceful
// shutdown.
func (s *Server) Start() {
	go func() {
		s.logger.Info("api listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("listen", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts the server down, waiting up to ShutdownTimeout.
func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := uuid.NewString()
		w.Header().Set("X-Request-ID", reqID)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("id", reqID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

// requireAuth enforces a bearer token when keys are configured; with an
// empty key list the service stays open, matching development usage.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(s.keys) > 0 {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "missing authorization header", nil)
				return
			}
			if _, valid := s.keys[token]; !valid {
				writeError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid authorization token", nil)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, FromVersion())
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, SourceResponse{
		Repo:   version.RepoURL,
		Tag:    version.Tag,
		Commit: version.Commit,
	})
}

func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	var req PositionsRequest
	if !decode(w, r, &req) {
		return
	}
	if len(req.Bodies) == 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "bodies is required", nil)
		return
	}

	bodies := make([]ephemeris.Body, 0, len(req.Bodies))
	for _, name := range req.Bodies {
		b, err := ephemeris.ParseBody(name)
		if err != nil {
			s.writeMappedError(w, err)
			return
		}
		bodies = append(bodies, b)
	}

	opts := ephemeris.PositionOptions{IncludeSpeed: req.IncludeSpeed}
	if req.Flags != nil {
		opts.IncludeSpeed = req.Flags.IncludeSpeed
		opts.Sidereal = req.Flags.Sidereal
		if req.Flags.Ayanamsa != nil {
			opts.Ayanamsha = ephemeris.Ayanamsha(*req.Flags.Ayanamsa)
		}
	}

	got, err := s.engine.Positions(req.JDUT, bodies, opts)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	w.Header().Set(sourceHeader, version.SourceHeader())
	writeJSON(w, http.StatusOK, FromPositions(req.JDUT, got, opts.Sidereal))
}

func (s *Server) handleHouses(w http.ResponseWriter, r *http.Request) {
	var req HousesRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Lat < -90 || req.Lat > 90 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "lat must be in [-90, 90]", nil)
		return
	}
	if req.Lon < -180 || req.Lon > 180 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "lon must be in [-180, 180]", nil)
		return
	}
	code := req.HouseSystem
	if code == "" {
		code = s.opts.HouseSystem
	}
	sys, err := ephemeris.ParseHouseSystem(code)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}

	h, err := s.engine.HousesAt(req.JDUT, req.Lat, req.Lon, sys)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	w.Header().Set(sourceHeader, version.SourceHeader())
	writeJSON(w, http.StatusOK, FromHouses(req.JDUT, h))
}

func (s *Server) handleDesignTime(w http.ResponseWriter, r *http.Request) {
	var req DesignTimeRequest
	if !decode(w, r, &req) {
		return
	}

	window := solver.Window{
		MinDays: req.SearchWindowDays.Min,
		MaxDays: req.SearchWindowDays.Max,
	}
	if window.MinDays == 0 && window.MaxDays == 0 {
		window = solver.Window{MinDays: s.opts.Solver.WindowMin, MaxDays: s.opts.Solver.WindowMax}
	}
	sreq := solver.Request{
		BirthJD:       req.BirthJDUT,
		OffsetDeg:     s.opts.Solver.OffsetDeg,
		Window:        window,
		ToleranceDeg:  s.opts.Solver.ToleranceDeg,
		MaxIterations: s.opts.Solver.MaxIter,
	}
	if req.SunOffsetDeg != nil {
		sreq.OffsetDeg = *req.SunOffsetDeg
	}
	if req.ToleranceDeg != nil {
		sreq.ToleranceDeg = *req.ToleranceDeg
	}
	if req.MaxIter != nil {
		sreq.MaxIterations = *req.MaxIter
	}

	res, err := solver.New(solver.OracleFunc(s.engine.SunLongitude)).Solve(sreq)
	if err != nil {
		s.writeMappedError(w, err)
		return
	}
	w.Header().Set(sourceHeader, version.SourceHeader())
	writeJSON(w, http.StatusOK, FromSolverResult(res))
}

// decode parses a POST JSON body; on failure it writes the error and
// returns false.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w)
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON: "+err.Error(), nil)
		return false
	}
	return true
}

func (s *Server) writeMappedError(w http.ResponseWriter, err error) {
	status, code, details := mapError(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("internal error", zap.Error(err))
		writeError(w, status, code, "internal server error", nil)
		return
	}
	writeError(w, status, code, err.Error(), details)
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed", nil)
}

func writeError(w http.ResponseWriter, status int, code, msg string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	writeJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg, Details: details}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
