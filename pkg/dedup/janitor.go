package dedup

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/scheduler"
)

// JobName is the scheduler job name of the janitor.
const JobName = "dedup-janitor"

type SweepResult struct {
	Deleted  int64
	Skipped  bool
	Duration time.Duration
}

// Janitor deletes expired deduplication entries.
type Janitor struct {
	store   Store
	log     *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	running atomic.Bool
}

type JanitorOption func(*Janitor)

func WithLogger(log *slog.Logger) JanitorOption {
	return func(j *Janitor) {
		if log != nil {
			j.log = log
		}
	}
}

func WithMetrics(m *metrics.Metrics) JanitorOption {
	return func(j *Janitor) { j.metrics = m }
}

func WithJanitorClock(now func() time.Time) JanitorOption {
	return func(j *Janitor) {
		if now != nil {
			j.now = now
		}
	}
}

func NewJanitor(store Store, opts ...JanitorOption) *Janitor {
	j := &Janitor{store: store, log: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	j.log = j.log.With(logger.Component("dedup-janitor"))
	return j
}

// Sweep deletes every entry that expired before now. A sweep started while
// another one is running in this process returns at once with Skipped set.
func (j *Janitor) Sweep(ctx context.Context) (SweepResult, error) {
	if !j.running.CompareAndSwap(false, true) {
		j.metrics.ObserveSweep("skipped", 0)
		return SweepResult{Skipped: true}, nil
	}
	defer j.running.Store(false)

	start := j.now()
	n, err := j.store.DeleteExpired(ctx, start.UTC())
	res := SweepResult{Deleted: n, Duration: j.now().Sub(start)}
	if err != nil {
		j.metrics.ObserveSweep("error", n)
		j.log.ErrorContext(ctx, "dedup sweep failed", logger.Error(err))
		return res, err
	}

	j.metrics.ObserveSweep("ok", n)
	if n > 0 {
		j.log.InfoContext(ctx, "expired dedup entries deleted", logger.Count("deleted", n), logger.Duration(res.Duration))
	}
	return res, nil
}

// Register adds the janitor to s under JobName. The scheduler's lock keeps
// sweeps on different instances from overlapping.
func (j *Janitor) Register(s *scheduler.Scheduler, schedule scheduler.Schedule) error {
	return s.AddJob(JobName, schedule, func(ctx context.Context) error {
		_, err := j.Sweep(ctx)
		return err
	})
}
