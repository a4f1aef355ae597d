package store

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type reminderStore struct {
	queries *sqlc.Queries
}

func newReminderStore(queries *sqlc.Queries) ReminderStore {
	return &reminderStore{queries: queries}
}

// Create is idempotent on reminder.ID.
func (s *reminderStore) Create(ctx context.Context, reminder *model.Reminder) error {
	row, err := s.queries.CreateReminder(ctx, sqlc.CreateReminderParams{
		ID:             reminder.ID,
		Message:        reminder.Message,
		DueAt:          ts(reminder.DueAt),
		Channel:        string(reminder.Channel),
		ChatID:         reminder.ChatID,
		ConversationID: reminder.ConversationID,
	})
	if err != nil {
		return err
	}
	*reminder = toReminderModel(row)
	return nil
}

func (s *reminderStore) GetByID(ctx context.Context, id int64) (*model.Reminder, error) {
	row, err := s.queries.GetReminder(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	r := toReminderModel(row)
	return &r, nil
}

func (s *reminderStore) ListScheduled(ctx context.Context, limit int) ([]model.Reminder, error) {
	rows, err := s.queries.ListScheduledReminders(ctx, limit32(limit, 20))
	if err != nil {
		return nil, err
	}
	return toReminderModels(rows), nil
}

// ClaimDue moves due reminders to sending. Concurrent callers never receive
// the same reminder.
func (s *reminderStore) ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error) {
	rows, err := s.queries.ClaimDueReminders(ctx, sqlc.ClaimDueRemindersParams{
		Now:      ts(now),
		RowLimit: limit32(limit, 20),
	})
	if err != nil {
		return nil, err
	}
	return toReminderModels(rows), nil
}

func (s *reminderStore) MarkSent(ctx context.Context, id int64) error {
	return expectOne(s.queries.MarkReminderSent(ctx, id))
}

func (s *reminderStore) Release(ctx context.Context, id int64) error {
	return expectOne(s.queries.ReleaseReminder(ctx, id))
}

func (s *reminderStore) Cancel(ctx context.Context, id int64) error {
	return expectOne(s.queries.CancelReminder(ctx, id))
}

func expectOne(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

func toReminderModel(row sqlc.Reminder) model.Reminder {
	return model.Reminder{
		ID:             row.ID,
		Message:        row.Message,
		DueAt:          row.DueAt.Time,
		Channel:        model.Channel(row.Channel),
		ChatID:         row.ChatID,
		Status:         model.ReminderStatus(row.Status),
		ConversationID: row.ConversationID,
		CreatedAt:      row.CreatedAt.Time,
		SentAt:         tsPtr(row.SentAt),
	}
}

func toReminderModels(rows []sqlc.Reminder) []model.Reminder {
	out := make([]model.Reminder, len(rows))
	for i, r := range rows {
		out[i] = toReminderModel(r)
	}
	return out
}
