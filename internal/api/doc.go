// Package api is the structured query/mutation boundary of the CRM.
//
// It exposes one endpoint, POST /api, accepting a named operation with typed
// arguments and returning either a typed result payload or a structured
// error. Validation failures are data, not faults: they come back as
// ok=false with a domain error code on an HTTP 200 response. HTTP status
// codes are reserved for transport-level problems (malformed requests,
// storage faults).
//
// The package also provides Client, the HTTP client the scheduled sweeps use
// to re-enter this boundary. Sweeps are ordinary API clients rather than
// privileged internal callers, so they exercise the identical validation and
// consistency path as external clients.
package api
