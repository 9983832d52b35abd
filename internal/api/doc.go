// Package api exposes the calculation service over HTTP.
//
// # Separation of Concerns
//
// The api package defines public JSON types decoupled from the engine and
// solver types, maps internal results and errors onto them, and hosts an
// http.Server with conservative timeouts. The ephemeris and solver
// packages remain unaware of HTTP and JSON.
//
// # Endpoints
//
//   - GET  /health          liveness, no auth
//   - GET  /v1/version      build metadata, no auth
//   - GET  /v1/source       source pointer for license compliance, no auth
//   - POST /v1/positions    body longitudes (auth)
//   - POST /v1/houses       house cusps and angles (auth)
//   - POST /v1/design-time  design-time solve (auth)
//
// # Error Model
//
// Failures use a stable envelope {"error": {"code", "message", "details"}}
// with codes bad_request, unauthorized, unsupported_body,
// invalid_house_system, no_convergence and internal_error. Solver
// non-convergence maps to 422; it is an expected domain outcome, not a
// server fault.
//
// # Auth
//
// Calculation endpoints require a bearer token when a key list is
// configured. An empty key list leaves the service open (development
// mode).
package api
