// Package approval holds the pending-action state machine. The agent stages
// writes here; a person confirms or rejects them; the worker claims and
// executes confirmed actions at most once.
package approval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type Config struct {
	Expiry      time.Duration
	MaxAttempts int
	Lease       time.Duration
	// StaleAfter is how long a confirmed action may wait before its queue
	// message is presumed lost and re-enqueued.
	StaleAfter time.Duration
}

func ConfigFrom(cfg config.ApprovalConfig) Config {
	return Config{
		Expiry:      cfg.Expiry,
		MaxAttempts: cfg.MaxAttempts,
		Lease:       cfg.Lease,
		StaleAfter:  2 * cfg.SweepEvery,
	}
}

type StageInput struct {
	// Key deduplicates staging. A zero key gets a fresh one.
	Key            uuid.UUID
	ConversationID *int64
	Type           model.ActionType
	Payload        any
	// Description defaults to the payload's own description.
	Description string
	RequestedBy string
}

type Outcome string

const (
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
	OutcomeRetry     Outcome = "retry"
	OutcomeSkipped   Outcome = "skipped"
)

type ExecuteResult struct {
	Outcome Outcome
	Action  *model.PendingAction
	Err     error
}

// Summary is the compact view of an action shown to the model and in chat.
type Summary struct {
	ID          int64              `json:"action_id"`
	Ref         string             `json:"ref"`
	Type        model.ActionType   `json:"type"`
	Description string             `json:"description"`
	Status      model.ActionStatus `json:"status"`
	ExpiresAt   time.Time          `json:"expires_at"`
}

func Summarise(a model.PendingAction) Summary {
	return Summary{
		ID:          a.ID,
		Ref:         a.Ref,
		Type:        a.Type,
		Description: a.Description,
		Status:      a.Status,
		ExpiresAt:   a.ExpiresAt,
	}
}

type Service interface {
	Stage(ctx context.Context, in StageInput) (*model.PendingAction, error)
	Confirm(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error)
	Reject(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error)
	Get(ctx context.Context, actionID int64) (*model.PendingAction, error)
	ListOpen(ctx context.Context, conversationID *int64) ([]model.PendingAction, error)
	ListRecent(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error)
	Counts(ctx context.Context) (map[model.ActionStatus]int64, error)

	// Execute is the worker path: claim, run the executor, record the outcome.
	Execute(ctx context.Context, actionID int64) (ExecuteResult, error)
	ExpireOverdue(ctx context.Context) ([]model.PendingAction, error)
	FailStuck(ctx context.Context) ([]model.PendingAction, error)
	RequeueStale(ctx context.Context) (int, error)
}

type service struct {
	actions   store.PendingActionStore
	executors Registry
	producer  queue.Producer
	status    queue.StatusPublisher
	cfg       Config
	loc       *time.Location
	now       func() time.Time
}

// NewService wires the state machine. status may be nil.
func NewService(
	actions store.PendingActionStore,
	executors Registry,
	producer queue.Producer,
	status queue.StatusPublisher,
	cfg Config,
	loc *time.Location,
	now func() time.Time,
) Service {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		actions:   actions,
		executors: executors,
		producer:  producer,
		status:    status,
		cfg:       cfg,
		loc:       loc,
		now:       now,
	}
}

func (s *service) Stage(ctx context.Context, in StageInput) (*model.PendingAction, error) {
	raw, err := json.Marshal(in.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	payload, err := DecodePayload(in.Type, raw)
	if err != nil {
		return nil, err
	}
	if _, ok := s.executors[in.Type]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrExecutorNotEnabled, in.Type)
	}

	key := in.Key
	if key == uuid.Nil {
		key = uuid.New()
	}
	description := in.Description
	if description == "" {
		description = payload.Describe(s.loc)
	}
	requestedBy := in.RequestedBy
	if requestedBy == "" {
		requestedBy = "agent"
	}

	action := &model.PendingAction{
		ID:             id.New(),
		IdempotencyKey: key,
		ConversationID: in.ConversationID,
		Type:           in.Type,
		Description:    description,
		Payload:        raw,
		MaxAttempts:    s.cfg.MaxAttempts,
		RequestedBy:    requestedBy,
		ExpiresAt:      s.now().Add(s.cfg.Expiry),
	}

	created, err := s.actions.Create(ctx, action)
	if err != nil {
		return nil, fmt.Errorf("staging action: %w", err)
	}

	ctx = s.withAction(ctx, action.ID)
	if !created {
		slog.InfoContext(ctx, "action already staged for idempotency key",
			"idempotency_key", key.String(),
			"status", action.Status)
		return action, nil
	}

	slog.InfoContext(ctx, "action staged",
		"action_type", action.Type,
		"expires_at", action.ExpiresAt)
	s.publish(ctx, action)
	return action, nil
}

func (s *service) Confirm(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error) {
	ctx = s.withAction(ctx, actionID)

	current, err := s.actions.GetByID(ctx, actionID)
	if err != nil {
		return nil, fmt.Errorf("loading action: %w", err)
	}
	if err := s.confirmable(current); err != nil {
		return current, err
	}

	confirmed, err := s.actions.Confirm(ctx, actionID, decidedBy)
	if errors.Is(err, store.ErrConflict) {
		// Lost a race with another confirmer, a rejection or the expiry sweeper.
		latest, getErr := s.actions.GetByID(ctx, actionID)
		if getErr != nil {
			return nil, fmt.Errorf("reloading action: %w", getErr)
		}
		if err := s.confirmable(latest); err != nil {
			return latest, err
		}
		return latest, ErrActionNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("confirming action: %w", err)
	}

	slog.InfoContext(ctx, "action confirmed", "decided_by", decidedBy, "action_type", confirmed.Type)
	s.publish(ctx, confirmed)

	// A failed enqueue is recovered by RequeueStale.
	if err := s.enqueue(ctx, confirmed.ID); err != nil {
		slog.WarnContext(ctx, "failed to enqueue confirmed action", "error", err)
	}
	return confirmed, nil
}

func (s *service) confirmable(action *model.PendingAction) error {
	switch {
	case action.Status == model.ActionStatusExpired:
		return ErrActionExpired
	case action.Status != model.ActionStatusPending:
		return ErrActionNotPending
	case !s.now().Before(action.ExpiresAt):
		return ErrActionExpired
	}
	return nil
}

func (s *service) Reject(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error) {
	ctx = s.withAction(ctx, actionID)

	rejected, err := s.actions.Reject(ctx, actionID, decidedBy)
	if errors.Is(err, store.ErrConflict) {
		current, getErr := s.actions.GetByID(ctx, actionID)
		if getErr != nil {
			return nil, fmt.Errorf("loading action: %w", getErr)
		}
		return current, ErrActionNotPending
	}
	if err != nil {
		return nil, fmt.Errorf("rejecting action: %w", err)
	}

	slog.InfoContext(ctx, "action rejected", "decided_by", decidedBy, "action_type", rejected.Type)
	s.publish(ctx, rejected)
	return rejected, nil
}

func (s *service) Get(ctx context.Context, actionID int64) (*model.PendingAction, error) {
	return s.actions.GetByID(ctx, actionID)
}

func (s *service) ListOpen(ctx context.Context, conversationID *int64) ([]model.PendingAction, error) {
	return s.actions.ListOpen(ctx, conversationID)
}

func (s *service) ListRecent(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error) {
	return s.actions.ListRecent(ctx, status, limit)
}

func (s *service) Counts(ctx context.Context) (map[model.ActionStatus]int64, error) {
	return s.actions.CountByStatus(ctx)
}

func (s *service) Execute(ctx context.Context, actionID int64) (ExecuteResult, error) {
	ctx = s.withAction(ctx, actionID)

	action, err := s.actions.Claim(ctx, actionID)
	if errors.Is(err, store.ErrConflict) || errors.Is(err, store.ErrNotFound) {
		slog.InfoContext(ctx, "action not claimable, skipping")
		return ExecuteResult{Outcome: OutcomeSkipped}, nil
	}
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("claiming action: %w", err)
	}

	slog.InfoContext(ctx, "executing action",
		"action_type", action.Type,
		"attempt", action.Attempts,
		"max_attempts", action.MaxAttempts)
	s.publish(ctx, action)

	execErr := s.run(ctx, action)

	// Record the outcome even if the caller is shutting down.
	ctx = context.WithoutCancel(ctx)

	if execErr == nil {
		return ExecuteResult{Outcome: OutcomeSucceeded, Action: action}, nil
	}
	if errors.Is(execErr, errCompleteFailed) {
		return ExecuteResult{}, execErr
	}

	if IsRetryable(execErr) && action.Attempts < action.MaxAttempts {
		released, err := s.actions.Release(ctx, action.ID, execErr.Error())
		if err != nil {
			return ExecuteResult{}, fmt.Errorf("releasing action: %w", err)
		}
		slog.WarnContext(ctx, "action failed, will retry",
			"error", execErr,
			"attempt", released.Attempts)
		s.publish(ctx, released)
		return ExecuteResult{Outcome: OutcomeRetry, Action: released, Err: execErr}, nil
	}

	failed, err := s.actions.Fail(ctx, action.ID, execErr.Error())
	if err != nil {
		return ExecuteResult{}, fmt.Errorf("failing action: %w", err)
	}
	slog.ErrorContext(ctx, "action failed", "error", execErr, "attempts", failed.Attempts)
	s.publish(ctx, failed)
	return ExecuteResult{Outcome: OutcomeFailed, Action: failed, Err: execErr}, nil
}

var errCompleteFailed = errors.New("recording action result")

// run executes the claimed action and records success. On success *action
// is replaced with the completed row.
func (s *service) run(ctx context.Context, action *model.PendingAction) error {
	payload, err := DecodePayload(action.Type, action.Payload)
	if err != nil {
		return NewFatalError(err)
	}
	executor, ok := s.executors[action.Type]
	if !ok {
		return NewFatalError(fmt.Errorf("%w: %s", ErrExecutorNotEnabled, action.Type))
	}

	execCtx, cancel := context.WithTimeout(ctx, s.cfg.Lease)
	defer cancel()

	start := time.Now()
	result, err := executor.Execute(execCtx, action, payload)
	if err != nil {
		var execErr *ExecutionError
		if !errors.As(err, &execErr) {
			err = NewFatalError(err)
		}
		return err
	}

	data, err := json.Marshal(result)
	if err != nil {
		data = nil
	}

	completed, err := s.actions.Complete(context.WithoutCancel(ctx), action.ID, data)
	if err != nil {
		// The side effect happened; never retry from here.
		return fmt.Errorf("%w: %w", errCompleteFailed, err)
	}
	*action = *completed

	slog.InfoContext(ctx, "action succeeded",
		"action_type", action.Type,
		"duration_ms", time.Since(start).Milliseconds())
	s.publish(ctx, action)
	return nil
}

func (s *service) ExpireOverdue(ctx context.Context) ([]model.PendingAction, error) {
	expired, err := s.actions.ExpireOverdue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("expiring actions: %w", err)
	}
	for i := range expired {
		slog.InfoContext(s.withAction(ctx, expired[i].ID), "action expired unconfirmed")
		s.publish(ctx, &expired[i])
	}
	return expired, nil
}

func (s *service) FailStuck(ctx context.Context) ([]model.PendingAction, error) {
	stuck, err := s.actions.FailStuck(ctx, s.now().Add(-s.cfg.Lease))
	if err != nil {
		return nil, fmt.Errorf("failing stuck actions: %w", err)
	}
	for i := range stuck {
		slog.WarnContext(s.withAction(ctx, stuck[i].ID), "action exceeded execution lease; outcome unknown",
			"started_at", stuck[i].StartedAt)
		s.publish(ctx, &stuck[i])
	}
	return stuck, nil
}

func (s *service) RequeueStale(ctx context.Context) (int, error) {
	stale, err := s.actions.ListStaleConfirmed(ctx, s.now().Add(-s.cfg.StaleAfter), 50)
	if err != nil {
		return 0, fmt.Errorf("listing stale actions: %w", err)
	}

	requeued := 0
	for _, a := range stale {
		if err := s.enqueue(ctx, a.ID); err != nil {
			slog.WarnContext(s.withAction(ctx, a.ID), "failed to requeue stale action", "error", err)
			continue
		}
		requeued++
	}
	if requeued > 0 {
		slog.InfoContext(ctx, "requeued stale confirmed actions", "count", requeued)
	}
	return requeued, nil
}

func (s *service) enqueue(ctx context.Context, actionID int64) error {
	if s.producer == nil {
		return errors.New("no queue producer configured")
	}
	return s.producer.Enqueue(ctx, queue.Task{
		TaskType: queue.TaskTypeExecuteAction,
		ActionID: actionID,
		TraceID:  traceID(ctx),
	})
}

func (s *service) publish(ctx context.Context, action *model.PendingAction) {
	if s.status == nil || action == nil {
		return
	}
	event := queue.StatusEvent{
		ActionID:    action.ID,
		Ref:         action.Ref,
		Type:        string(action.Type),
		Status:      string(action.Status),
		Description: action.Description,
		At:          s.now().UTC(),
	}
	if action.LastError != nil {
		event.Error = *action.LastError
	}
	if err := s.status.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish action status", "error", err)
	}
}

func (s *service) withAction(ctx context.Context, actionID int64) context.Context {
	return logger.WithLogFields(ctx, logger.LogFields{
		PendingActionID: &actionID,
		Component:       "ops.approval",
	})
}

func traceID(ctx context.Context) *string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return nil
	}
	v := sc.TraceID().String()
	return &v
}
