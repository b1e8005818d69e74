// Package engine implements the mutation validation and consistency engine:
// the single path through which customers, products, and orders are created.
//
// Every mutation runs its validation checks in a declared order
// (first-failure-wins) and performs all of its writes inside one store
// transaction, so a failed operation leaves no partial state. The batch
// engine wraps single-record creation with per-record isolation: each record
// commits in its own transaction and a failure on one record never aborts
// the rest of the batch.
//
// The engine also hosts the consistency sweep operations (restock, stale
// order scan) that the API exposes, so scheduled sweeps exercise exactly the
// same validation path as external clients.
package engine
