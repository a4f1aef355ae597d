package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActionStatus string

const (
	ActionStatusPending   ActionStatus = "pending"
	ActionStatusConfirmed ActionStatus = "confirmed"
	ActionStatusExecuting ActionStatus = "executing"
	ActionStatusSucceeded ActionStatus = "succeeded"
	ActionStatusFailed    ActionStatus = "failed"
	ActionStatusRejected  ActionStatus = "rejected"
	ActionStatusExpired   ActionStatus = "expired"
)

// Terminal reports whether no further transition is possible.
func (s ActionStatus) Terminal() bool {
	switch s {
	case ActionStatusSucceeded, ActionStatusFailed, ActionStatusRejected, ActionStatusExpired:
		return true
	}
	return false
}

type ActionType string

const (
	ActionSendEmail           ActionType = "send_email"
	ActionCreateCalendarEvent ActionType = "create_calendar_event"
	ActionSetReminder         ActionType = "set_reminder"
	ActionLogReceipt          ActionType = "log_receipt"
)

// PendingAction is a write staged by the agent that only runs after a person
// confirms it.
type PendingAction struct {
	ID             int64           `json:"id"`
	Ref            string          `json:"ref"`
	IdempotencyKey uuid.UUID       `json:"idempotency_key"`
	ConversationID *int64          `json:"conversation_id,omitempty"`
	Type           ActionType      `json:"type"`
	Description    string          `json:"description"`
	Payload        json.RawMessage `json:"payload"`
	Status         ActionStatus    `json:"status"`
	Attempts       int             `json:"attempts"`
	MaxAttempts    int             `json:"max_attempts"`
	LastError      *string         `json:"last_error,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	RequestedBy    string          `json:"requested_by"`
	DecidedBy      *string         `json:"decided_by,omitempty"`
	ExpiresAt      time.Time       `json:"expires_at"`
	DecidedAt      *time.Time      `json:"decided_at,omitempty"`
	StartedAt      *time.Time      `json:"started_at,omitempty"`
	FinishedAt     *time.Time      `json:"finished_at,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type ReminderStatus string

const (
	ReminderScheduled ReminderStatus = "scheduled"
	ReminderSending   ReminderStatus = "sending"
	ReminderSent      ReminderStatus = "sent"
	ReminderCancelled ReminderStatus = "cancelled"
)

type Reminder struct {
	ID             int64          `json:"id"`
	Message        string         `json:"message"`
	DueAt          time.Time      `json:"due_at"`
	Channel        Channel        `json:"channel"`
	ChatID         string         `json:"chat_id"`
	Status         ReminderStatus `json:"status"`
	ConversationID *int64         `json:"conversation_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	SentAt         *time.Time     `json:"sent_at,omitempty"`
}
