package sweep

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler triggers registered jobs on independent fixed intervals.
//
// Each job runs in its own goroutine, sequentially per job: a tick that
// arrives while the previous run is still in flight waits for it, so the
// same sweep never overlaps itself. Different sweeps interleave freely.
// Job errors are logged and never escalate past the scheduler.
type Scheduler struct {
	log  *zap.Logger
	jobs []job
}

type job struct {
	name     string
	interval time.Duration
	run      func(ctx context.Context) error
}

// NewScheduler creates an empty scheduler.
func NewScheduler(log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{log: log}
}

// Add registers a job to run every interval. Jobs with a non-positive
// interval are ignored (disabled by configuration).
func (s *Scheduler) Add(name string, interval time.Duration, run func(ctx context.Context) error) {
	if interval <= 0 {
		s.log.Info("sweep disabled", zap.String("sweep", name))
		return
	}
	s.jobs = append(s.jobs, job{name: name, interval: interval, run: run})
}

// Run starts all registered jobs and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, j := range s.jobs {
		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			s.runLoop(ctx, j)
		}(j)
	}
	wg.Wait()
}

func (s *Scheduler) runLoop(ctx context.Context, j job) {
	s.log.Info("sweep scheduled",
		zap.String("sweep", j.name),
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.run(ctx); err != nil {
				s.log.Error("sweep failed", zap.String("sweep", j.name), zap.Error(err))
			}
		}
	}
}
