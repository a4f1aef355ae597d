package queue

import "time"

type TaskType string

const (
	TaskTypeExecuteAction TaskType = "execute_action"
	TaskTypeReminderDue   TaskType = "reminder_due"
)

// Task is one unit of work for the worker. Exactly one of ActionID or
// ReminderID is set, matching TaskType.
type Task struct {
	TaskType   TaskType
	ActionID   int64
	ReminderID int64
	TraceID    *string
	Attempt    int
}

// StatusEvent is published whenever a pending action changes state. The
// dashboard follows these through the SSE endpoint.
type StatusEvent struct {
	StreamID    string    `json:"stream_id,omitempty"`
	ActionID    int64     `json:"action_id"`
	Ref         string    `json:"ref"`
	Type        string    `json:"type"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Error       string    `json:"error,omitempty"`
	At          time.Time `json:"at"`
}
