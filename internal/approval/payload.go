package approval

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

// Payload is the typed body of a staged action.
type Payload interface {
	Validate() error
	Describe(loc *time.Location) string
}

type EmailPayload struct {
	To       []string `json:"to"`
	Cc       []string `json:"cc,omitempty"`
	Subject  string   `json:"subject"`
	Body     string   `json:"body"`
	ThreadID string   `json:"thread_id,omitempty"`
}

func (p EmailPayload) Validate() error {
	if len(p.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidPayload)
	}
	for _, addr := range append(append([]string{}, p.To...), p.Cc...) {
		if _, err := mail.ParseAddress(addr); err != nil {
			return fmt.Errorf("%w: bad address %q", ErrInvalidPayload, addr)
		}
	}
	if strings.TrimSpace(p.Subject) == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidPayload)
	}
	if strings.TrimSpace(p.Body) == "" {
		return fmt.Errorf("%w: body is required", ErrInvalidPayload)
	}
	return nil
}

func (p EmailPayload) Describe(_ *time.Location) string {
	return fmt.Sprintf("Send email to %s: %q", strings.Join(p.To, ", "), p.Subject)
}

type CalendarEventPayload struct {
	Summary     string    `json:"summary"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Attendees   []string  `json:"attendees,omitempty"`
}

func (p CalendarEventPayload) Validate() error {
	if strings.TrimSpace(p.Summary) == "" {
		return fmt.Errorf("%w: summary is required", ErrInvalidPayload)
	}
	if p.Start.IsZero() || p.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidPayload)
	}
	if !p.End.After(p.Start) {
		return fmt.Errorf("%w: end must be after start", ErrInvalidPayload)
	}
	return nil
}

func (p CalendarEventPayload) Describe(loc *time.Location) string {
	return fmt.Sprintf("Create calendar event %q, %s", p.Summary, format.TimeRange(p.Start, p.End, false, loc))
}

type ReminderPayload struct {
	Message string        `json:"message"`
	DueAt   time.Time     `json:"due_at"`
	Channel model.Channel `json:"channel,omitempty"`
	ChatID  string        `json:"chat_id,omitempty"`
}

func (p ReminderPayload) Validate() error {
	if strings.TrimSpace(p.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrInvalidPayload)
	}
	if p.DueAt.IsZero() {
		return fmt.Errorf("%w: due_at is required", ErrInvalidPayload)
	}
	return nil
}

func (p ReminderPayload) Describe(loc *time.Location) string {
	return fmt.Sprintf("Remind you %q at %s", p.Message, format.DateTime(p.DueAt, loc))
}

type ReceiptPayload struct {
	Vendor      string  `json:"vendor"`
	AmountCents int64   `json:"amount_cents"`
	SpentOn     string  `json:"spent_on"`
	Category    *string `json:"category,omitempty"`
	ProjectCode *string `json:"project_code,omitempty"`
	Note        *string `json:"note,omitempty"`
}

func (p ReceiptPayload) Validate() error {
	if strings.TrimSpace(p.Vendor) == "" {
		return fmt.Errorf("%w: vendor is required", ErrInvalidPayload)
	}
	if p.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidPayload)
	}
	if _, err := time.Parse(time.DateOnly, p.SpentOn); err != nil {
		return fmt.Errorf("%w: spent_on must be YYYY-MM-DD", ErrInvalidPayload)
	}
	return nil
}

func (p ReceiptPayload) Describe(_ *time.Location) string {
	desc := fmt.Sprintf("Log receipt from %s for %s on %s", p.Vendor, format.Currency(p.AmountCents), p.SpentOn)
	if p.ProjectCode != nil && *p.ProjectCode != "" {
		desc += " against " + *p.ProjectCode
	}
	return desc
}

// DecodePayload unmarshals and validates the payload for an action type.
func DecodePayload(actionType model.ActionType, raw json.RawMessage) (Payload, error) {
	var p Payload
	switch actionType {
	case model.ActionSendEmail:
		var v EmailPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		p = v
	case model.ActionCreateCalendarEvent:
		var v CalendarEventPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		p = v
	case model.ActionSetReminder:
		var v ReminderPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		p = v
	case model.ActionLogReceipt:
		var v ReceiptPayload
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		p = v
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownActionType, actionType)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
