package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
)

var errJobPanicked = errors.New("job panicked")

// Job is a periodic background task such as a calendar sync.
type Job struct {
	Name  string
	Every time.Duration
	Run   func(ctx context.Context) error
}

// Scheduler runs each Job on its own ticker. A job never overlaps itself;
// a failed run is logged and retried at the next tick.
type Scheduler struct {
	jobs []Job

	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewScheduler(jobs ...Job) *Scheduler {
	return &Scheduler{jobs: jobs, stopCh: make(chan struct{})}
}

// Start launches the jobs and returns immediately.
func (s *Scheduler) Start(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ops.worker.jobs"})
	for _, job := range s.jobs {
		if job.Every <= 0 || job.Run == nil {
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

func (s *Scheduler) Stop() {
	close(s.stopCh)
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()

	ticker := time.NewTicker(job.Every)
	defer ticker.Stop()

	slog.InfoContext(ctx, "job scheduled", "job", job.Name, "every", job.Every)
	RunJob(ctx, job)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			RunJob(ctx, job)
		}
	}
}

// RunJob runs a job once with panic recovery and logs how it went.
func RunJob(ctx context.Context, job Job) (err error) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "job panicked", "job", job.Name, "panic", r)
			err = errJobPanicked
		}
	}()

	if err = job.Run(ctx); err != nil {
		slog.ErrorContext(ctx, "job failed", "job", job.Name, "error", err,
			"duration_ms", time.Since(start).Milliseconds())
		return err
	}
	slog.DebugContext(ctx, "job finished", "job", job.Name, "duration_ms", time.Since(start).Milliseconds())
	return nil
}
