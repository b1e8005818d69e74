package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"crmd/internal/store"
)

// ReminderClient is the slice of api.Client the reminder sweep needs.
type ReminderClient interface {
	StaleOrders(ctx context.Context, windowDays int) ([]store.PendingOrder, error)
}

// Reminder scans for pending orders older than a window and emits one
// notification line per match. The scan is read-only; no record is mutated.
type Reminder struct {
	client     ReminderClient
	sink       *Sink
	log        *zap.Logger
	windowDays int
	now        func() time.Time
}

// NewReminder creates a reminder sweep with the given window in days.
func NewReminder(client ReminderClient, sink *Sink, log *zap.Logger, windowDays int) *Reminder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reminder{
		client:     client,
		sink:       sink,
		log:        log,
		windowDays: windowDays,
		now:        time.Now,
	}
}

// Run performs one reminder pass and returns the matched orders.
// One sink line is appended per stale order; sink failures are logged and
// never abort the pass.
func (r *Reminder) Run(ctx context.Context) ([]store.PendingOrder, error) {
	orders, err := r.client.StaleOrders(ctx, r.windowDays)
	if err != nil {
		return nil, err
	}

	ts := r.now().Format(sinkTimeLayout)
	for _, o := range orders {
		line := fmt.Sprintf("%s - Order ID: %s, Customer Email: %s", ts, o.OrderID, o.CustomerEmail)
		if err := r.sink.Append(line); err != nil {
			r.log.Warn("reminder sink write failed", zap.Error(err))
		}
	}

	r.log.Info("order reminders processed", zap.Int("matched", len(orders)))
	return orders, nil
}
