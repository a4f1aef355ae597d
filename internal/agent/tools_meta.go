package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type SetReminderParams struct {
	Message string `json:"message" jsonschema:"required,description=What to remind the user about"`
	DueAt   string `json:"due_at" jsonschema:"required,description=When as YYYY-MM-DDTHH:MM in the organisation timezone"`
}

type ReminderIDParams struct {
	ReminderID ID `json:"reminder_id" jsonschema:"required,description=Reminder ID from list_reminders"`
}

type currentTime struct {
	Now              time.Time `json:"now"`
	Display          string    `json:"display"`
	Timezone         string    `json:"timezone"`
	FinancialQuarter string    `json:"financial_quarter"`
}

func (t *toolset) registerReminders(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_reminders",
			Description: "Upcoming scheduled reminders.",
			Parameters:  llm.GenerateSchemaFrom(LimitParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p LimitParams) (any, error) {
			return t.Reminders.ListScheduled(ctx, defaultInt(p.Limit, 20))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "set_reminder",
			Description: "Schedule a reminder message to the user. Needs the user's confirmation before it is saved.",
			Parameters:  llm.GenerateSchemaFrom(SetReminderParams{}),
		},
		Kind:                 ToolWrite,
		RequiresConfirmation: true,
		Handler: Typed(func(ctx context.Context, p SetReminderParams) (any, error) {
			due, err := parseWhen(p.DueAt, t.Location)
			if err != nil {
				return nil, err
			}
			if !due.After(t.Now()) {
				return nil, fmt.Errorf("due_at %s is in the past", format.DateTime(due, t.Location))
			}
			payload := approval.ReminderPayload{Message: p.Message, DueAt: due}
			if info := callInfoFrom(ctx); info.Channel == model.ChannelTelegram {
				payload.Channel = model.ChannelTelegram
				payload.ChatID = info.ExternalID
			}
			return t.stage(ctx, model.ActionSetReminder, payload)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "cancel_reminder",
			Description: "Cancel a scheduled reminder. Takes effect immediately.",
			Parameters:  llm.GenerateSchemaFrom(ReminderIDParams{}),
		},
		Kind: ToolWrite,
		Handler: Typed(func(ctx context.Context, p ReminderIDParams) (any, error) {
			err := t.Reminders.Cancel(ctx, int64(p.ReminderID))
			if errors.Is(err, store.ErrConflict) {
				return nil, fmt.Errorf("reminder %d is not scheduled", p.ReminderID)
			}
			if err != nil {
				return nil, err
			}
			return map[string]any{"status": "cancelled", "reminder_id": int64(p.ReminderID)}, nil
		}),
	})
}

func (t *toolset) registerMeta(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_daily_briefing",
			Description: "Today's briefing: events, reminders due, follow-ups, overdue invoices and actions awaiting confirmation.",
			Parameters:  llm.GenerateSchemaFrom(EmptyParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, _ EmptyParams) (any, error) {
			return t.Briefing.Daily(ctx)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_dashboard_overview",
			Description: "Headline numbers across contacts, projects, finances, calendar and knowledge.",
			Parameters:  llm.GenerateSchemaFrom(EmptyParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, _ EmptyParams) (any, error) {
			return t.Overview.Get(ctx)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_pending_actions",
			Description: "Actions staged in this conversation that are still waiting for a yes or no.",
			Parameters:  llm.GenerateSchemaFrom(EmptyParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, _ EmptyParams) (any, error) {
			var conversationID *int64
			if info := callInfoFrom(ctx); info.ConversationID != 0 {
				conversationID = &info.ConversationID
			}
			open, err := t.Approvals.ListOpen(ctx, conversationID)
			if err != nil {
				return nil, err
			}
			out := make([]approval.Summary, len(open))
			for i, a := range open {
				out[i] = approval.Summarise(a)
			}
			return out, nil
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_current_time",
			Description: "Current date and time in the organisation's timezone and the financial quarter.",
			Parameters:  llm.GenerateSchemaFrom(EmptyParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(_ context.Context, _ EmptyParams) (any, error) {
			now := t.Now().In(t.Location)
			return currentTime{
				Now:              now,
				Display:          format.DateTime(now, t.Location),
				Timezone:         t.Location.String(),
				FinancialQuarter: service.QuarterFor(now).Label(),
			}, nil
		}),
	})
}
