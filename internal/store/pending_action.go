package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type pendingActionStore struct {
	queries *sqlc.Queries
}

func newPendingActionStore(queries *sqlc.Queries) PendingActionStore {
	return &pendingActionStore{queries: queries}
}

func (s *pendingActionStore) Create(ctx context.Context, action *model.PendingAction) (bool, error) {
	payload := []byte(action.Payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}
	row, err := s.queries.CreatePendingAction(ctx, sqlc.CreatePendingActionParams{
		ID:             action.ID,
		IdempotencyKey: pgUUID(action.IdempotencyKey),
		ConversationID: action.ConversationID,
		ActionType:     string(action.Type),
		Description:    action.Description,
		Payload:        payload,
		MaxAttempts:    int32(action.MaxAttempts),
		RequestedBy:    action.RequestedBy,
		ExpiresAt:      ts(action.ExpiresAt),
	})
	if err == nil {
		*action = toPendingActionModel(row)
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, err
	}

	// idempotency key already used
	existing, err := s.queries.GetPendingActionByKey(ctx, pgUUID(action.IdempotencyKey))
	if err != nil {
		return false, mapErr(err)
	}
	*action = toPendingActionModel(existing)
	return false, nil
}

func (s *pendingActionStore) GetByID(ctx context.Context, actionID int64) (*model.PendingAction, error) {
	return one(s.queries.GetPendingAction(ctx, actionID))
}

func (s *pendingActionStore) GetByKey(ctx context.Context, key uuid.UUID) (*model.PendingAction, error) {
	return one(s.queries.GetPendingActionByKey(ctx, pgUUID(key)))
}

func (s *pendingActionStore) ListOpen(ctx context.Context, conversationID *int64) ([]model.PendingAction, error) {
	return many(s.queries.ListOpenPendingActions(ctx, conversationID))
}

func (s *pendingActionStore) ListRecent(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error) {
	var filter *string
	if status != nil {
		v := string(*status)
		filter = &v
	}
	return many(s.queries.ListRecentPendingActions(ctx, sqlc.ListRecentPendingActionsParams{
		Status:   filter,
		RowLimit: limit32(limit, 50),
	}))
}

func (s *pendingActionStore) CountByStatus(ctx context.Context) (map[model.ActionStatus]int64, error) {
	rows, err := s.queries.CountPendingActionsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.ActionStatus]int64, len(rows))
	for _, r := range rows {
		out[model.ActionStatus(r.Status)] = r.Total
	}
	return out, nil
}

func (s *pendingActionStore) Confirm(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error) {
	return transition(s.queries.ConfirmPendingAction(ctx, sqlc.ConfirmPendingActionParams{
		DecidedBy: &decidedBy,
		ID:        actionID,
	}))
}

func (s *pendingActionStore) Reject(ctx context.Context, actionID int64, decidedBy string) (*model.PendingAction, error) {
	return transition(s.queries.RejectPendingAction(ctx, sqlc.RejectPendingActionParams{
		DecidedBy: &decidedBy,
		ID:        actionID,
	}))
}

// Claim moves a confirmed action to executing and bumps attempts. Only one
// caller can win the claim.
func (s *pendingActionStore) Claim(ctx context.Context, actionID int64) (*model.PendingAction, error) {
	return transition(s.queries.ClaimPendingAction(ctx, actionID))
}

func (s *pendingActionStore) Complete(ctx context.Context, actionID int64, result []byte) (*model.PendingAction, error) {
	if len(result) == 0 {
		result = []byte("{}")
	}
	return transition(s.queries.CompletePendingAction(ctx, sqlc.CompletePendingActionParams{
		Result: result,
		ID:     actionID,
	}))
}

func (s *pendingActionStore) Fail(ctx context.Context, actionID int64, reason string) (*model.PendingAction, error) {
	return transition(s.queries.FailPendingAction(ctx, sqlc.FailPendingActionParams{
		LastError: &reason,
		ID:        actionID,
	}))
}

func (s *pendingActionStore) Release(ctx context.Context, actionID int64, reason string) (*model.PendingAction, error) {
	return transition(s.queries.ReleasePendingAction(ctx, sqlc.ReleasePendingActionParams{
		LastError: &reason,
		ID:        actionID,
	}))
}

func (s *pendingActionStore) ExpireOverdue(ctx context.Context, now time.Time) ([]model.PendingAction, error) {
	return many(s.queries.ExpirePendingActions(ctx, ts(now)))
}

func (s *pendingActionStore) FailStuck(ctx context.Context, startedBefore time.Time) ([]model.PendingAction, error) {
	return many(s.queries.FailStuckPendingActions(ctx, ts(startedBefore)))
}

func (s *pendingActionStore) ListStaleConfirmed(ctx context.Context, updatedBefore time.Time, limit int) ([]model.PendingAction, error) {
	return many(s.queries.ListStaleConfirmedPendingActions(ctx, sqlc.ListStaleConfirmedPendingActionsParams{
		UpdatedBefore: ts(updatedBefore),
		RowLimit:      limit32(limit, 50),
	}))
}

func one(row sqlc.PendingAction, err error) (*model.PendingAction, error) {
	if err != nil {
		return nil, mapErr(err)
	}
	a := toPendingActionModel(row)
	return &a, nil
}

func transition(row sqlc.PendingAction, err error) (*model.PendingAction, error) {
	if err != nil {
		return nil, mapConflict(err)
	}
	a := toPendingActionModel(row)
	return &a, nil
}

func many(rows []sqlc.PendingAction, err error) ([]model.PendingAction, error) {
	if err != nil {
		return nil, err
	}
	out := make([]model.PendingAction, len(rows))
	for i, r := range rows {
		out[i] = toPendingActionModel(r)
	}
	return out, nil
}

func pgUUID(u uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: u, Valid: true}
}

func toPendingActionModel(row sqlc.PendingAction) model.PendingAction {
	var key uuid.UUID
	if row.IdempotencyKey.Valid {
		key = uuid.UUID(row.IdempotencyKey.Bytes)
	}
	return model.PendingAction{
		ID:             row.ID,
		Ref:            id.Short(row.ID),
		IdempotencyKey: key,
		ConversationID: row.ConversationID,
		Type:           model.ActionType(row.ActionType),
		Description:    row.Description,
		Payload:        row.Payload,
		Status:         model.ActionStatus(row.Status),
		Attempts:       int(row.Attempts),
		MaxAttempts:    int(row.MaxAttempts),
		LastError:      row.LastError,
		Result:         row.Result,
		RequestedBy:    row.RequestedBy,
		DecidedBy:      row.DecidedBy,
		ExpiresAt:      row.ExpiresAt.Time,
		DecidedAt:      tsPtr(row.DecidedAt),
		StartedAt:      tsPtr(row.StartedAt),
		FinishedAt:     tsPtr(row.FinishedAt),
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
