package engine

import (
	"context"
	"time"

	"crmd/internal/entity"
	"crmd/internal/store"
)

// RestockLowStock raises every product with stock below threshold up to
// target and returns the changed set. A product already at or above target
// is left untouched (stock only ever increases here). An empty result is a
// success: it means nothing qualified, which is exactly the state a second
// back-to-back invocation observes.
//
// The scan and all updates share one transaction so a sweep invocation is
// atomic with respect to concurrent order traffic.
func (e *Engine) RestockLowStock(ctx context.Context, threshold, target int) ([]entity.Product, error) {
	updated := []entity.Product{}

	err := e.store.WithTx(ctx, func(tx *store.Tx) error {
		low, err := tx.ProductsBelowStock(ctx, threshold)
		if err != nil {
			return err
		}

		for _, p := range low {
			if target <= p.Stock {
				continue
			}
			if err := tx.SetProductStock(ctx, p.ID, target); err != nil {
				return err
			}
			p.Stock = target
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// StaleOrders returns every pending order whose order_date is older than
// now minus window, paired with the owning customer's email. Read-only:
// emitting reminders is the caller's side effect.
func (e *Engine) StaleOrders(ctx context.Context, window time.Duration) ([]store.PendingOrder, error) {
	cutoff := e.now().Add(-window)
	return e.store.PendingOrdersBefore(ctx, cutoff)
}
