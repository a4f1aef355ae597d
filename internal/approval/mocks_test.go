package approval_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gmail"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// memActionStore applies the same conditional transitions as the SQL queries.
type memActionStore struct {
	mu      sync.Mutex
	rows    map[int64]*model.PendingAction
	now     func() time.Time
	claimFn func(id int64) error
}

func newMemActionStore(now func() time.Time) *memActionStore {
	return &memActionStore{rows: map[int64]*model.PendingAction{}, now: now}
}

func (m *memActionStore) put(a model.PendingAction) *model.PendingAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Ref == "" {
		a.Ref = id.Short(a.ID)
	}
	m.rows[a.ID] = &a
	return &a
}

func (m *memActionStore) get(actionID int64) model.PendingAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return *m.rows[actionID]
}

func (m *memActionStore) Create(_ context.Context, action *model.PendingAction) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.IdempotencyKey == action.IdempotencyKey {
			*action = *r
			return false, nil
		}
	}
	row := *action
	row.Ref = id.Short(row.ID)
	row.Status = model.ActionStatusPending
	row.CreatedAt = m.now()
	row.UpdatedAt = m.now()
	m.rows[row.ID] = &row
	*action = row
	return true, nil
}

func (m *memActionStore) GetByID(_ context.Context, actionID int64) (*model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[actionID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *memActionStore) GetByKey(_ context.Context, key uuid.UUID) (*model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.IdempotencyKey == key {
			cp := *r
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memActionStore) ListOpen(_ context.Context, conversationID *int64) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, r := range m.rows {
		if r.Status != model.ActionStatusPending {
			continue
		}
		if conversationID != nil && (r.ConversationID == nil || *r.ConversationID != *conversationID) {
			continue
		}
		out = append(out, *r)
	}
	return out, nil
}

func (m *memActionStore) ListRecent(_ context.Context, status *model.ActionStatus, _ int) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, r := range m.rows {
		if status == nil || r.Status == *status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memActionStore) CountByStatus(_ context.Context) (map[model.ActionStatus]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[model.ActionStatus]int64{}
	for _, r := range m.rows {
		out[r.Status]++
	}
	return out, nil
}

func (m *memActionStore) update(actionID int64, ok func(*model.PendingAction) bool, apply func(*model.PendingAction)) (*model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, found := m.rows[actionID]
	if !found || !ok(r) {
		return nil, store.ErrConflict
	}
	apply(r)
	r.UpdatedAt = m.now()
	cp := *r
	return &cp, nil
}

func (m *memActionStore) Confirm(_ context.Context, actionID int64, by string) (*model.PendingAction, error) {
	return m.update(actionID,
		func(r *model.PendingAction) bool {
			return r.Status == model.ActionStatusPending && r.ExpiresAt.After(m.now())
		},
		func(r *model.PendingAction) {
			r.Status = model.ActionStatusConfirmed
			r.DecidedBy = &by
		})
}

func (m *memActionStore) Reject(_ context.Context, actionID int64, by string) (*model.PendingAction, error) {
	return m.update(actionID,
		func(r *model.PendingAction) bool { return r.Status == model.ActionStatusPending },
		func(r *model.PendingAction) {
			r.Status = model.ActionStatusRejected
			r.DecidedBy = &by
		})
}

func (m *memActionStore) Claim(_ context.Context, actionID int64) (*model.PendingAction, error) {
	if m.claimFn != nil {
		if err := m.claimFn(actionID); err != nil {
			return nil, err
		}
	}
	return m.update(actionID,
		func(r *model.PendingAction) bool {
			return r.Status == model.ActionStatusConfirmed && r.Attempts < r.MaxAttempts
		},
		func(r *model.PendingAction) {
			now := m.now()
			r.Status = model.ActionStatusExecuting
			r.Attempts++
			r.StartedAt = &now
		})
}

func (m *memActionStore) Complete(_ context.Context, actionID int64, result []byte) (*model.PendingAction, error) {
	return m.update(actionID,
		func(r *model.PendingAction) bool { return r.Status == model.ActionStatusExecuting },
		func(r *model.PendingAction) {
			r.Status = model.ActionStatusSucceeded
			r.Result = result
		})
}

func (m *memActionStore) Fail(_ context.Context, actionID int64, reason string) (*model.PendingAction, error) {
	return m.update(actionID,
		func(r *model.PendingAction) bool {
			return r.Status == model.ActionStatusExecuting || r.Status == model.ActionStatusConfirmed
		},
		func(r *model.PendingAction) {
			r.Status = model.ActionStatusFailed
			r.LastError = &reason
		})
}

func (m *memActionStore) Release(_ context.Context, actionID int64, reason string) (*model.PendingAction, error) {
	return m.update(actionID,
		func(r *model.PendingAction) bool { return r.Status == model.ActionStatusExecuting },
		func(r *model.PendingAction) {
			r.Status = model.ActionStatusConfirmed
			r.LastError = &reason
		})
}

func (m *memActionStore) ExpireOverdue(_ context.Context, now time.Time) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, r := range m.rows {
		if r.Status == model.ActionStatusPending && !r.ExpiresAt.After(now) {
			r.Status = model.ActionStatusExpired
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memActionStore) FailStuck(_ context.Context, startedBefore time.Time) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, r := range m.rows {
		if r.Status == model.ActionStatusExecuting && r.StartedAt != nil && r.StartedAt.Before(startedBefore) {
			reason := "execution lease expired; outcome unknown"
			r.Status = model.ActionStatusFailed
			r.LastError = &reason
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memActionStore) ListStaleConfirmed(_ context.Context, updatedBefore time.Time, _ int) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, r := range m.rows {
		if r.Status == model.ActionStatusConfirmed && r.UpdatedAt.Before(updatedBefore) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type mockProducer struct {
	mu        sync.Mutex
	tasks     []queue.Task
	enqueueFn func(task queue.Task) error
}

func (m *mockProducer) Enqueue(_ context.Context, task queue.Task) error {
	if m.enqueueFn != nil {
		if err := m.enqueueFn(task); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockProducer) Close() error { return nil }

type mockStatus struct {
	mu     sync.Mutex
	events []queue.StatusEvent
}

func (m *mockStatus) Publish(_ context.Context, event queue.StatusEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *mockStatus) statuses() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.Status
	}
	return out
}

type mockExecutor struct {
	actionType model.ActionType
	calls      int
	executeFn  func(ctx context.Context, action *model.PendingAction, payload approval.Payload) (any, error)
}

func (m *mockExecutor) Type() model.ActionType { return m.actionType }

func (m *mockExecutor) Execute(ctx context.Context, action *model.PendingAction, payload approval.Payload) (any, error) {
	m.calls++
	if m.executeFn != nil {
		return m.executeFn(ctx, action, payload)
	}
	return map[string]string{"ok": "yes"}, nil
}

type mockGmail struct {
	sendFn func(ctx context.Context, draft gmail.Draft) (string, error)
}

func (m *mockGmail) Search(context.Context, string, int) ([]gmail.MessageSummary, error) {
	return nil, nil
}

func (m *mockGmail) Get(context.Context, string) (*gmail.Message, error) { return nil, nil }

func (m *mockGmail) Send(ctx context.Context, draft gmail.Draft) (string, error) {
	return m.sendFn(ctx, draft)
}

type mockCalendar struct {
	createFn func(ctx context.Context, event gcalendar.NewEvent) (*gcalendar.Event, error)
}

func (m *mockCalendar) ListEvents(context.Context, time.Time, time.Time) ([]gcalendar.Event, error) {
	return nil, nil
}

func (m *mockCalendar) CreateEvent(ctx context.Context, event gcalendar.NewEvent) (*gcalendar.Event, error) {
	return m.createFn(ctx, event)
}

func (m *mockCalendar) FreeBusy(context.Context, time.Time, time.Time) ([]gcalendar.Interval, error) {
	return nil, nil
}

type mockReminders struct {
	store.ReminderStore
	created []model.Reminder
	err     error
}

func (m *mockReminders) Create(_ context.Context, r *model.Reminder) error {
	if m.err != nil {
		return m.err
	}
	r.Status = model.ReminderScheduled
	m.created = append(m.created, *r)
	return nil
}

type mockFinance struct {
	store.FinanceStore
	receipts []model.Receipt
}

func (m *mockFinance) CreateReceipt(_ context.Context, r *model.Receipt) error {
	m.receipts = append(m.receipts, *r)
	return nil
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func ptr[T any](v T) *T { return &v }
