package engine

import (
	"time"

	"github.com/shopspring/decimal"

	"crmd/internal/entity"
	"crmd/internal/store"
)

// Engine orchestrates validation and store writes for entity creation.
//
// Thread-safety: Engine is stateless apart from its collaborators and safe
// for concurrent use; serialization of conflicting writes is the store's job.
type Engine struct {
	store *store.Store
	ids   entity.IDGenerator
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithIDGenerator overrides the entity id generator.
// Tests use entity.NewFixedGenerator for deterministic ids.
func WithIDGenerator(g entity.IDGenerator) Option {
	return func(e *Engine) { e.ids = g }
}

// WithNow overrides the clock used for created_at and order_date defaults.
func WithNow(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an Engine backed by the given store.
// Defaults: UUIDv7 ids, wall-clock time.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store: s,
		ids:   entity.UUIDv7Generator{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CustomerInput is the client-supplied shape for customer creation.
type CustomerInput struct {
	Name  string
	Email string
	Phone string // optional
}

// ProductInput is the client-supplied shape for product creation.
// Stock is optional at the API boundary and defaults to 0.
type ProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock int
}

// OrderInput is the client-supplied shape for order creation.
// The total is never part of the input: it is derived from the referenced
// products' prices at creation time.
type OrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  time.Time // zero value means "now"
}

// dedupe returns ids with duplicates removed, keeping first occurrences in
// input order. Matches set semantics for order-to-product references: a
// product contributes to the total once no matter how often it is listed.
func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
