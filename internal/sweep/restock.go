package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crmd/internal/entity"
)

const sinkTimeLayout = "2006-01-02 15:04:05"

// RestockClient is the slice of api.Client the restock sweep needs.
type RestockClient interface {
	RestockLowStock(ctx context.Context, threshold, target int) ([]entity.Product, error)
}

// Restock raises the stock of under-threshold products to a floor by
// invoking the restock mutation at the API boundary.
//
// Invocations are independent and idempotent: once every product is at or
// above the threshold, subsequent runs report an empty set, which is a
// success, not an error.
type Restock struct {
	client    RestockClient
	sink      *Sink
	log       *zap.Logger
	threshold int
	target    int
	now       func() time.Time
}

// NewRestock creates a restock sweep with the given threshold and floor.
func NewRestock(client RestockClient, sink *Sink, log *zap.Logger, threshold, target int) *Restock {
	if log == nil {
		log = zap.NewNop()
	}
	return &Restock{
		client:    client,
		sink:      sink,
		log:       log,
		threshold: threshold,
		target:    target,
		now:       time.Now,
	}
}

// Run performs one restock pass and returns the products that were raised.
// One sink line is appended per updated product; sink failures are logged
// and do not undo the restock.
func (r *Restock) Run(ctx context.Context) ([]entity.Product, error) {
	updated, err := r.client.RestockLowStock(ctx, r.threshold, r.target)
	if err != nil {
		return nil, err
	}

	ts := r.now().Format(sinkTimeLayout)
	for _, p := range updated {
		line := fmt.Sprintf("%s - Restocked product: %s (%s), stock raised to %d", ts, p.Name, p.ID, p.Stock)
		if err := r.sink.Append(line); err != nil {
			r.log.Warn("restock sink write failed", zap.Error(err))
		}
	}

	r.log.Info("restock sweep completed", zap.Int("updated", len(updated)))
	return updated, nil
}
