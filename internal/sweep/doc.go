// Package sweep implements the periodic consistency and monitoring jobs:
// the heartbeat probe, the inventory restock pass, and the stale-order
// reminder scan.
//
// Sweeps are ordinary API clients. They re-enter the system through
// api.Client on a timer rather than reaching into the store, so every sweep
// exercises the same validation and consistency path as an external caller
// and is testable through the same contract.
//
// Each sweep appends one line per event to an append-only sink file. Sink
// write failures are logged and never roll back or abort the domain work
// that triggered them. A sweep that cannot reach the API at all reports
// TRANSPORT_UNAVAILABLE once for the whole invocation.
package sweep
