package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is polled every Interval until the scheduler stops.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// Scheduler polls its jobs on fixed intervals. Daily jobs are interval jobs whose
// body decides, through the guard, whether today's run is due.
type Scheduler struct {
	mu      sync.Mutex
	jobs    []Job
	started bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	guard   Guard
	now     func() time.Time
}

// NewScheduler returns a stopped scheduler. A nil guard falls back to an in-process one.
func NewScheduler(guard Guard) *Scheduler {
	if guard == nil {
		guard = NewMemoryGuard()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{ctx: ctx, cancel: cancel, guard: guard, now: time.Now}
}

// AddJob must be called before Start.
func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		slog.Warn("Cron job added after start, ignoring", "name", name)
		return
	}
	s.jobs = append(s.jobs, Job{Name: name, Interval: interval, Fn: fn})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// AddDailyJob registers fn to run once per calendar day (in loc) at or after the
// given wall-clock time. The scheduler polls every checkInterval; the guard keeps
// runs from overlapping and records the day of the last completed run.
func (s *Scheduler) AddDailyJob(name string, at TimeOfDay, loc *time.Location, checkInterval time.Duration, fn func(ctx context.Context, now time.Time) error) {
	if loc == nil {
		loc = time.UTC
	}
	s.AddJob(name, checkInterval, func(ctx context.Context) error {
		_, err := RunDaily(ctx, s.guard, name, at, s.now().In(loc), fn)
		return err
	})
}

// Start launches one goroutine per job. Calling it twice is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	for _, job := range s.jobs {
		s.wg.Add(1)
		go s.loop(job)
	}
	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels running jobs and waits for their goroutines.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

func (s *Scheduler) loop(job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()

	s.execute(s.ctx, job)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.execute(s.ctx, job)
		}
	}
}

// execute runs one tick of job. A panic is logged and the job keeps its schedule.
func (s *Scheduler) execute(ctx context.Context, job Job) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			slog.Error("Cron job panicked", "name", job.Name, "panic", p)
		}
	}()

	if err := job.Fn(ctx); err != nil {
		slog.Error("Cron job failed", "name", job.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Cron job tick", "name", job.Name, "duration", time.Since(start))
}

// RunOnce executes every job once on the caller's goroutine.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.mu.Lock()
	jobs := append([]Job(nil), s.jobs...)
	s.mu.Unlock()

	for _, job := range jobs {
		s.execute(ctx, job)
	}
}

// TimeOfDay is a wall-clock time.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

const dayLayout = "2006-01-02"

// lockTTL bounds how long a crashed run can hold the lock.
const lockTTL = 30 * time.Minute

// RunDaily runs fn if today's slot has been reached and no run completed today.
// It reports whether fn was executed.
func RunDaily(ctx context.Context, guard Guard, name string, at TimeOfDay, now time.Time, fn func(ctx context.Context, now time.Time) error) (bool, error) {
	day := now.Format(dayLayout)
	if !slotReached(now, at) {
		return false, nil
	}

	last, err := guard.LastRunDay(ctx, name)
	if err != nil {
		return false, fmt.Errorf("read last run of %s: %w", name, err)
	}
	if last == day {
		return false, nil
	}

	release, ok, err := guard.Acquire(ctx, name, lockTTL)
	if err != nil {
		return false, fmt.Errorf("acquire lock for %s: %w", name, err)
	}
	if !ok {
		slog.Info("Cron job already running elsewhere, skipping", "name", name)
		return false, nil
	}
	defer release()

	// Another runner may have finished between the first check and the lock.
	last, err = guard.LastRunDay(ctx, name)
	if err != nil {
		return false, fmt.Errorf("read last run of %s: %w", name, err)
	}
	if last == day {
		return false, nil
	}

	slog.Info("Cron: daily job starting", "name", name, "day", day, "slot", at.String())
	if err := fn(ctx, now); err != nil {
		return true, err
	}

	if err := guard.MarkRunDay(ctx, name, day); err != nil {
		return true, fmt.Errorf("record run of %s: %w", name, err)
	}
	return true, nil
}

func slotReached(now time.Time, at TimeOfDay) bool {
	if now.Hour() != at.Hour {
		return now.Hour() > at.Hour
	}
	return now.Minute() >= at.Minute
}
