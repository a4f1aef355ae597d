package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Processor executes confirmed actions and delivers due reminders.
type Processor struct {
	approvals approval.Service
	reminders store.ReminderStore
	outcomes  *OutcomeNotifier
	notifier  Notifier
}

func NewProcessor(approvals approval.Service, reminders store.ReminderStore, outcomes *OutcomeNotifier, notifier Notifier) *Processor {
	return &Processor{
		approvals: approvals,
		reminders: reminders,
		outcomes:  outcomes,
		notifier:  notifier,
	}
}

func (p *Processor) Process(ctx context.Context, msg queue.Message) error {
	switch msg.TaskType {
	case queue.TaskTypeExecuteAction:
		return p.executeAction(ctx, *msg.ActionID)
	case queue.TaskTypeReminderDue:
		return p.deliverReminder(ctx, *msg.ReminderID)
	default:
		// ParseMessage rejects unknown types; this only guards new producers.
		slog.WarnContext(ctx, "unknown task type, dropping", "task_type", msg.TaskType)
		return nil
	}
}

func (p *Processor) executeAction(ctx context.Context, actionID int64) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		PendingActionID: &actionID,
		Component:       "ops.worker.actions",
	})

	res, err := p.approvals.Execute(ctx, actionID)
	if err != nil {
		return fmt.Errorf("executing action %d: %w", actionID, err)
	}

	switch res.Outcome {
	case approval.OutcomeRetry:
		return fmt.Errorf("%w: %v", ErrRetryLater, res.Err)
	case approval.OutcomeSucceeded, approval.OutcomeFailed:
		p.outcomes.ActionFinished(ctx, res.Action)
	case approval.OutcomeSkipped:
		slog.InfoContext(ctx, "action not claimable, skipping")
	}
	return nil
}

// deliverReminder sends a reminder claimed by the sweeper. A failed send
// returns it to scheduled for the next sweep.
func (p *Processor) deliverReminder(ctx context.Context, reminderID int64) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "ops.worker.reminders"})

	rem, err := p.reminders.GetByID(ctx, reminderID)
	if errors.Is(err, store.ErrNotFound) {
		slog.WarnContext(ctx, "reminder not found, dropping", "reminder_id", reminderID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading reminder %d: %w", reminderID, err)
	}
	if rem.Status != model.ReminderSending {
		slog.InfoContext(ctx, "reminder not in sending state, skipping",
			"reminder_id", reminderID,
			"status", rem.Status)
		return nil
	}

	if err := p.notifier.Notify(ctx, rem.Channel, rem.ChatID, "⏰ Reminder: "+rem.Message); err != nil {
		slog.WarnContext(ctx, "reminder delivery failed, releasing",
			"reminder_id", reminderID,
			"error", err)
		if relErr := p.reminders.Release(ctx, reminderID); relErr != nil {
			return fmt.Errorf("releasing reminder %d: %w", reminderID, relErr)
		}
		return nil
	}

	if err := p.reminders.MarkSent(ctx, reminderID); err != nil && !errors.Is(err, store.ErrConflict) {
		// Delivered already; do not requeue and risk a second message.
		slog.ErrorContext(ctx, "marking reminder sent failed", "reminder_id", reminderID, "error", err)
	}
	slog.InfoContext(ctx, "reminder delivered", "reminder_id", reminderID)
	return nil
}
