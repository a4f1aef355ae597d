package logger

import (
	"context"
	"unicode/utf8"
)

type contextKey string

const logFieldsKey contextKey = "log_fields"

// LogFields contains structured fields automatically added to all logs within a context.
// Handlers, the agent loop and the worker enrich the context once and every
// downstream log line picks the fields up without passing them explicitly.
type LogFields struct {
	ConversationID  *int64  // Agent conversation ID
	PendingActionID *int64  // Pending action being staged, confirmed or executed
	UserID          *int64  // Dashboard user
	MessageID       *string // Redis stream message ID
	ChatID          *string // External chat ID (telegram chat, cli session)
	Channel         *string // "web", "telegram", "cli"
	ToolName        *string // Agent tool currently executing
	Component       string  // Component name, e.g. "ops.agent.loop"
}

// WithLogFields enriches context with structured log fields.
// Multiple calls merge fields, with newer non-nil/non-empty values taking precedence.
func WithLogFields(ctx context.Context, fields LogFields) context.Context {
	existing := GetLogFields(ctx)
	merged := mergeFields(existing, fields)
	return context.WithValue(ctx, logFieldsKey, merged)
}

// GetLogFields retrieves log fields from context.
// Returns empty LogFields if none are set.
func GetLogFields(ctx context.Context) LogFields {
	if fields, ok := ctx.Value(logFieldsKey).(LogFields); ok {
		return fields
	}
	return LogFields{}
}

func mergeFields(existing, new LogFields) LogFields {
	result := existing

	if new.ConversationID != nil {
		result.ConversationID = new.ConversationID
	}
	if new.PendingActionID != nil {
		result.PendingActionID = new.PendingActionID
	}
	if new.UserID != nil {
		result.UserID = new.UserID
	}
	if new.MessageID != nil {
		result.MessageID = new.MessageID
	}
	if new.ChatID != nil {
		result.ChatID = new.ChatID
	}
	if new.Channel != nil {
		result.Channel = new.Channel
	}
	if new.ToolName != nil {
		result.ToolName = new.ToolName
	}
	if new.Component != "" {
		result.Component = new.Component
	}

	return result
}

// Ptr is a helper to create a pointer from a value.
// Useful for setting LogFields inline: logger.WithLogFields(ctx, logger.LogFields{ConversationID: logger.Ptr(id)})
func Ptr[T any](v T) *T {
	return &v
}

// Truncate shortens s to at most maxLen bytes, appending "..." if truncated.
// It cuts on a rune boundary.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
