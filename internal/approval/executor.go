package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gcalendar"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gmail"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Executor performs the side effect of one action type. Implementations
// return an *ExecutionError so the caller knows whether a retry is safe.
type Executor interface {
	Type() model.ActionType
	Execute(ctx context.Context, action *model.PendingAction, payload Payload) (any, error)
}

type Registry map[model.ActionType]Executor

func NewRegistry(executors ...Executor) Registry {
	r := make(Registry, len(executors))
	for _, e := range executors {
		if e != nil {
			r[e.Type()] = e
		}
	}
	return r
}

// classify marks an upstream failure retryable. Network errors are only
// retryable when the call is idempotent, since the request may have landed.
func classify(err error, idempotent bool) error {
	var apiErr *integration.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Retryable() {
			return NewRetryableError(err)
		}
		return NewFatalError(err)
	}
	if idempotent && integration.IsRetryable(err) {
		return NewRetryableError(err)
	}
	return NewFatalError(err)
}

type emailExecutor struct {
	gmail gmail.Client
}

func NewEmailExecutor(client gmail.Client) Executor {
	if client == nil {
		return nil
	}
	return &emailExecutor{gmail: client}
}

func (e *emailExecutor) Type() model.ActionType { return model.ActionSendEmail }

func (e *emailExecutor) Execute(ctx context.Context, _ *model.PendingAction, payload Payload) (any, error) {
	p, ok := payload.(EmailPayload)
	if !ok {
		return nil, NewFatalError(fmt.Errorf("%w: expected email payload", ErrInvalidPayload))
	}

	messageID, err := e.gmail.Send(ctx, gmail.Draft{
		To:       p.To,
		Cc:       p.Cc,
		Subject:  p.Subject,
		Body:     p.Body,
		ThreadID: p.ThreadID,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("sending email: %w", err), false)
	}
	return map[string]string{"message_id": messageID}, nil
}

type calendarExecutor struct {
	calendar gcalendar.Client
}

func NewCalendarExecutor(client gcalendar.Client) Executor {
	if client == nil {
		return nil
	}
	return &calendarExecutor{calendar: client}
}

func (e *calendarExecutor) Type() model.ActionType { return model.ActionCreateCalendarEvent }

func (e *calendarExecutor) Execute(ctx context.Context, action *model.PendingAction, payload Payload) (any, error) {
	p, ok := payload.(CalendarEventPayload)
	if !ok {
		return nil, NewFatalError(fmt.Errorf("%w: expected calendar payload", ErrInvalidPayload))
	}

	event, err := e.calendar.CreateEvent(ctx, gcalendar.NewEvent{
		ID:          gcalendar.EventIDFromKey(action.IdempotencyKey),
		Summary:     p.Summary,
		Description: p.Description,
		Location:    p.Location,
		Start:       p.Start,
		End:         p.End,
		Attendees:   p.Attendees,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("creating calendar event: %w", err), true)
	}
	return map[string]string{"event_id": event.ID, "html_link": event.HTMLLink}, nil
}

type reminderExecutor struct {
	reminders      store.ReminderStore
	defaultChannel model.Channel
	defaultChatID  string
}

// NewReminderExecutor stores reminders. Reminders staged without a
// destination go to the default chat.
func NewReminderExecutor(reminders store.ReminderStore, defaultChannel model.Channel, defaultChatID string) Executor {
	return &reminderExecutor{reminders: reminders, defaultChannel: defaultChannel, defaultChatID: defaultChatID}
}

func (e *reminderExecutor) Type() model.ActionType { return model.ActionSetReminder }

func (e *reminderExecutor) Execute(ctx context.Context, action *model.PendingAction, payload Payload) (any, error) {
	p, ok := payload.(ReminderPayload)
	if !ok {
		return nil, NewFatalError(fmt.Errorf("%w: expected reminder payload", ErrInvalidPayload))
	}

	channel, chatID := p.Channel, p.ChatID
	if chatID == "" {
		channel, chatID = e.defaultChannel, e.defaultChatID
	}
	if chatID == "" {
		return nil, NewFatalError(errors.New("reminder has no destination chat"))
	}

	// Keyed on the action ID so a retried execution finds the same row.
	reminder := &model.Reminder{
		ID:             action.ID,
		Message:        p.Message,
		DueAt:          p.DueAt.UTC(),
		Channel:        channel,
		ChatID:         chatID,
		ConversationID: action.ConversationID,
	}
	if err := e.reminders.Create(ctx, reminder); err != nil {
		return nil, NewRetryableError(fmt.Errorf("saving reminder: %w", err))
	}
	return map[string]any{"reminder_id": reminder.ID, "due_at": reminder.DueAt.Format(time.RFC3339)}, nil
}

type receiptExecutor struct {
	finance store.FinanceStore
}

func NewReceiptExecutor(finance store.FinanceStore) Executor {
	return &receiptExecutor{finance: finance}
}

func (e *receiptExecutor) Type() model.ActionType { return model.ActionLogReceipt }

func (e *receiptExecutor) Execute(ctx context.Context, action *model.PendingAction, payload Payload) (any, error) {
	p, ok := payload.(ReceiptPayload)
	if !ok {
		return nil, NewFatalError(fmt.Errorf("%w: expected receipt payload", ErrInvalidPayload))
	}

	spentOn, err := time.Parse(time.DateOnly, p.SpentOn)
	if err != nil {
		return nil, NewFatalError(fmt.Errorf("%w: spent_on", ErrInvalidPayload))
	}

	receipt := &model.Receipt{
		ID:          action.ID,
		Vendor:      p.Vendor,
		AmountCents: p.AmountCents,
		SpentOn:     spentOn,
		Category:    p.Category,
		ProjectCode: p.ProjectCode,
		Note:        p.Note,
	}
	if err := e.finance.CreateReceipt(ctx, receipt); err != nil {
		return nil, NewRetryableError(fmt.Errorf("saving receipt: %w", err))
	}
	return map[string]any{"receipt_id": receipt.ID}, nil
}
