package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrymomot/helpdesk/pkg/lock"
	"github.com/dmitrymomot/helpdesk/pkg/logger"
	"github.com/dmitrymomot/helpdesk/pkg/metrics"
	"github.com/dmitrymomot/helpdesk/pkg/tenant"
)

// JobFunc is the body of a scheduled job. It runs bound to the default tenant.
type JobFunc func(ctx context.Context) error

// Scheduler fires registered jobs on their schedules. A fire is skipped when
// the same job is still running in this process or when another instance
// holds the job's lock; skipped fires are never queued.
type Scheduler struct {
	locker   lock.Locker
	interval time.Duration
	log      *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	mu   sync.RWMutex
	jobs map[string]*job
	wg   sync.WaitGroup
}

type job struct {
	name     string
	schedule Schedule
	fn       JobFunc
	running  atomic.Bool
	next     time.Time
}

// New creates a scheduler. locker provides cross-instance exclusion; use
// lock.NewMemoryLocker for a single process.
func New(locker lock.Locker, opts ...Option) *Scheduler {
	s := &Scheduler{
		locker:   locker,
		interval: time.Second,
		log:      slog.Default(),
		now:      time.Now,
		jobs:     make(map[string]*job),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("scheduler"))
	return s
}

func (s *Scheduler) AddJob(name string, schedule Schedule, fn JobFunc) error {
	if name == "" {
		return ErrEmptyJobName
	}
	if fn == nil || schedule == nil {
		return ErrNilJob
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrJobAlreadyRegistered, name)
	}
	s.jobs[name] = &job{name: name, schedule: schedule, fn: fn}

	s.log.Info("registered job", logger.Job(name), slog.String("schedule", schedule.String()))
	return nil
}

func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, name)
}

// Jobs lists registered job names in order.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Start fires due jobs until ctx is done, then waits for running jobs to
// return. The first fire of each job is one schedule step after Start.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if len(s.jobs) == 0 {
		s.mu.Unlock()
		return ErrNoJobs
	}
	now := s.now()
	for _, j := range s.jobs {
		j.next = j.schedule.Next(now)
	}
	s.mu.Unlock()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "scheduler shutting down")
			return nil
		case <-ticker.C:
			s.fireDue(ctx)
		}
	}
}

func (s *Scheduler) fireDue(ctx context.Context) {
	now := s.now()

	s.mu.Lock()
	var due []*job
	for _, j := range s.jobs {
		if j.next.IsZero() {
			j.next = j.schedule.Next(now)
			continue
		}
		if !j.next.After(now) {
			due = append(due, j)
			// the next fire is counted from now so a stalled process does not burst
			j.next = j.schedule.Next(now)
		}
	}
	s.mu.Unlock()

	for _, j := range due {
		s.wg.Add(1)
		go func(j *job) {
			defer s.wg.Done()
			if _, err := s.run(ctx, j); err != nil {
				s.log.ErrorContext(ctx, "job failed", logger.Job(j.name), logger.Error(err))
			}
		}(j)
	}
}

// Trigger fires a job now through the same guards as a scheduled fire. ran
// is false when the fire was skipped.
func (s *Scheduler) Trigger(ctx context.Context, name string) (ran bool, err error) {
	s.mu.RLock()
	j, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(ctx, j)
}

func (s *Scheduler) run(ctx context.Context, j *job) (bool, error) {
	log := s.log.With(logger.Job(j.name))

	if !j.running.CompareAndSwap(false, true) {
		s.metrics.IncJobRun(j.name, "overlap")
		log.DebugContext(ctx, "job still running, fire skipped")
		return false, nil
	}
	defer j.running.Store(false)

	unlock, acquired, err := s.locker.TryLock(ctx, "job:"+j.name)
	if err != nil {
		s.metrics.IncJobRun(j.name, "error")
		return false, fmt.Errorf("lock job %s: %w", j.name, err)
	}
	if !acquired {
		s.metrics.IncJobRun(j.name, "locked")
		log.DebugContext(ctx, "job running on another instance, fire skipped")
		return false, nil
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.WarnContext(ctx, "failed to release job lock", logger.Error(err))
		}
	}()

	start := s.now()
	err = call(tenant.WithDefault(ctx), j.fn)
	if err != nil {
		s.metrics.IncJobRun(j.name, "error")
		return true, err
	}
	s.metrics.IncJobRun(j.name, "ok")
	log.DebugContext(ctx, "job finished", logger.Duration(s.now().Sub(start)))
	return true, nil
}

func call(ctx context.Context, fn JobFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
		}
	}()
	return fn(ctx)
}
