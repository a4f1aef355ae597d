package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a conditional update matched no row because the
// entity is not in the expected state.
var ErrConflict = errors.New("state conflict")

// UserStore defines the contract for user data access
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpsertByWorkOSID(ctx context.Context, user *model.User) error
}

// SessionStore defines the contract for session data access
type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type ContactStore interface {
	GetByID(ctx context.Context, id int64) (*model.Contact, error)
	Search(ctx context.Context, query string, limit int) ([]model.Contact, error)
	List(ctx context.Context, limit, offset int) ([]model.Contact, error)
	Count(ctx context.Context) (int64, error)
	ListActivity(ctx context.Context, tag *string, limit int) ([]model.ContactActivity, error)
	ListNotContactedSince(ctx context.Context, before time.Time, limit int) ([]model.Contact, error)
	LogInteraction(ctx context.Context, interaction *model.Interaction) error
	ListInteractions(ctx context.Context, contactID int64, limit int) ([]model.Interaction, error)
	ListInteractionsSince(ctx context.Context, since time.Time) ([]model.Interaction, error)
}

type ProjectStore interface {
	List(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error)
	GetByCode(ctx context.Context, code string) (*model.Project, error)
	CountByStatus(ctx context.Context) (map[model.ProjectStatus]int64, error)
	ListMembers(ctx context.Context, projectID int64) ([]model.ProjectMember, error)
	ListLinks(ctx context.Context) ([]model.ProjectLink, error)
}

// FinanceStore reads the Xero-derived finance tables. Date ranges are half open [from, to).
type FinanceStore interface {
	TotalsByType(ctx context.Context, from, to time.Time) ([]model.TypeTotal, error)
	TotalsByMonth(ctx context.Context, from, to time.Time) ([]model.MonthTotal, error)
	SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error)
	ListTransactions(ctx context.Context, from, to time.Time, projectCode *string, limit int) ([]model.Transaction, error)
	ProjectTotals(ctx context.Context, projectCode string) ([]model.TypeTotal, error)
	ListOutstandingInvoices(ctx context.Context, limit int) ([]model.Invoice, error)
	SummariseOutstanding(ctx context.Context, today time.Time) (*model.OutstandingSummary, error)
	CreateReceipt(ctx context.Context, receipt *model.Receipt) error
	ListReceipts(ctx context.Context, limit int) ([]model.Receipt, error)
}

type CalendarStore interface {
	Upsert(ctx context.Context, event *model.CalendarEvent) error
	ListBetween(ctx context.Context, from, to time.Time) ([]model.CalendarEvent, error)
	DeleteStale(ctx context.Context, from, to, syncedBefore time.Time) (int64, error)
}

type KnowledgeStore interface {
	Upsert(ctx context.Context, note *model.KnowledgeNote) error
	GetBySlug(ctx context.Context, slug string) (*model.KnowledgeNote, error)
	ListRecent(ctx context.Context, limit int) ([]model.KnowledgeNote, error)
	Search(ctx context.Context, query string, limit int) ([]model.KnowledgeNote, error)
	DeleteUnsynced(ctx context.Context, syncedBefore time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ConversationStore interface {
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
	GetOrCreate(ctx context.Context, channel model.Channel, externalID string) (*model.Conversation, error)
	SaveTurns(ctx context.Context, id int64, turns []model.Turn) error
}

// PendingActionStore persists the approval queue. Every transition is a
// conditional update; ErrConflict means the row was not in the source state.
type PendingActionStore interface {
	// Create inserts a new action. created is false when an action with the
	// same idempotency key already existed, in which case that row is returned.
	Create(ctx context.Context, action *model.PendingAction) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*model.PendingAction, error)
	GetByKey(ctx context.Context, key uuid.UUID) (*model.PendingAction, error)
	ListOpen(ctx context.Context, conversationID *int64) ([]model.PendingAction, error)
	ListRecent(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error)
	CountByStatus(ctx context.Context) (map[model.ActionStatus]int64, error)

	Confirm(ctx context.Context, id int64, decidedBy string) (*model.PendingAction, error)
	Reject(ctx context.Context, id int64, decidedBy string) (*model.PendingAction, error)
	Claim(ctx context.Context, id int64) (*model.PendingAction, error)
	Complete(ctx context.Context, id int64, result []byte) (*model.PendingAction, error)
	Fail(ctx context.Context, id int64, reason string) (*model.PendingAction, error)
	Release(ctx context.Context, id int64, reason string) (*model.PendingAction, error)

	ExpireOverdue(ctx context.Context, now time.Time) ([]model.PendingAction, error)
	FailStuck(ctx context.Context, startedBefore time.Time) ([]model.PendingAction, error)
	ListStaleConfirmed(ctx context.Context, updatedBefore time.Time, limit int) ([]model.PendingAction, error)
}

type ReminderStore interface {
	Create(ctx context.Context, reminder *model.Reminder) error
	GetByID(ctx context.Context, id int64) (*model.Reminder, error)
	ListScheduled(ctx context.Context, limit int) ([]model.Reminder, error)
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]model.Reminder, error)
	MarkSent(ctx context.Context, id int64) error
	Release(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64) error
}
