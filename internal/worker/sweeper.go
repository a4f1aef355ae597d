package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type SweeperConfig struct {
	Interval      time.Duration
	ReminderBatch int
}

// Sweeper runs the periodic housekeeping of the approval queue: expiring
// unanswered actions, failing stuck executions, requeueing confirmed actions
// whose message was lost, and handing due reminders to the worker.
type Sweeper struct {
	approvals approval.Service
	reminders store.ReminderStore
	producer  queue.Producer
	outcomes  *OutcomeNotifier
	cfg       SweeperConfig
	now       func() time.Time

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func NewSweeper(
	approvals approval.Service,
	reminders store.ReminderStore,
	producer queue.Producer,
	outcomes *OutcomeNotifier,
	cfg SweeperConfig,
	now func() time.Time,
) *Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.ReminderBatch <= 0 {
		cfg.ReminderBatch = 50
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		approvals: approvals,
		reminders: reminders,
		producer:  producer,
		outcomes:  outcomes,
		cfg:       cfg,
		now:       now,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Run sweeps once immediately and then on every tick until stopped.
func (s *Sweeper) Run(ctx context.Context) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ops.worker.sweeper"})
	defer close(s.stoppedCh)

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	slog.InfoContext(ctx, "sweeper started", "interval", s.cfg.Interval)
	s.SweepOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			slog.InfoContext(ctx, "sweeper stopping")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

func (s *Sweeper) Stop() {
	close(s.stopCh)
	<-s.stoppedCh
}

// SweepOnce runs every housekeeping step. A failing step is logged and does
// not block the others.
func (s *Sweeper) SweepOnce(ctx context.Context) {
	expired, err := s.approvals.ExpireOverdue(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "expiring overdue actions failed", "error", err)
	}
	for i := range expired {
		s.outcomes.ActionFinished(ctx, &expired[i])
	}

	stuck, err := s.approvals.FailStuck(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failing stuck actions failed", "error", err)
	}
	for i := range stuck {
		s.outcomes.ActionFinished(ctx, &stuck[i])
	}

	if _, err := s.approvals.RequeueStale(ctx); err != nil {
		slog.ErrorContext(ctx, "requeueing stale actions failed", "error", err)
	}

	if err := s.dispatchReminders(ctx); err != nil {
		slog.ErrorContext(ctx, "dispatching reminders failed", "error", err)
	}
}

func (s *Sweeper) dispatchReminders(ctx context.Context) error {
	due, err := s.reminders.ClaimDue(ctx, s.now(), s.cfg.ReminderBatch)
	if err != nil {
		return err
	}

	for _, rem := range due {
		err := s.producer.Enqueue(ctx, queue.Task{
			TaskType:   queue.TaskTypeReminderDue,
			ReminderID: rem.ID,
		})
		if err == nil {
			continue
		}
		slog.WarnContext(ctx, "enqueueing reminder failed, releasing",
			"reminder_id", rem.ID,
			"error", err)
		if relErr := s.reminders.Release(ctx, rem.ID); relErr != nil {
			slog.ErrorContext(ctx, "releasing reminder failed", "reminder_id", rem.ID, "error", relErr)
		}
	}
	if len(due) > 0 {
		slog.InfoContext(ctx, "reminders dispatched", "count", len(due))
	}
	return nil
}
