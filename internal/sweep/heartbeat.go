package sweep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const heartbeatTimeLayout = "02/01/2006-15:04:05"

// Status is the outcome of one heartbeat probe. Failures are data, not
// control-flow interruptions: Run never panics and never returns an error
// to the scheduler.
type Status struct {
	Responsive bool   `json:"responsive"`
	Reason     string `json:"reason,omitempty"`
}

// HelloClient is the slice of api.Client the probe needs.
type HelloClient interface {
	Hello(ctx context.Context) (string, error)
}

// Heartbeat probes the API with a trivial read-only query to confirm it is
// responsive, independent of the domain data.
type Heartbeat struct {
	client HelloClient
	sink   *Sink
	log    *zap.Logger
	now    func() time.Time
}

// NewHeartbeat creates a heartbeat probe.
func NewHeartbeat(client HelloClient, sink *Sink, log *zap.Logger) *Heartbeat {
	if log == nil {
		log = zap.NewNop()
	}
	return &Heartbeat{client: client, sink: sink, log: log, now: time.Now}
}

// Run appends a liveness line to the sink, then issues the hello query.
// A sink write failure is logged but does not fail the probe; only the
// probe's own round trip decides responsiveness.
func (h *Heartbeat) Run(ctx context.Context) Status {
	line := h.now().Format(heartbeatTimeLayout) + " CRM is alive"
	if err := h.sink.Append(line); err != nil {
		h.log.Warn("heartbeat sink write failed", zap.Error(err))
	}

	if _, err := h.client.Hello(ctx); err != nil {
		h.log.Error("api endpoint unresponsive", zap.Error(err))
		return Status{Responsive: false, Reason: err.Error()}
	}

	h.log.Info("api endpoint responsive")
	return Status{Responsive: true}
}
