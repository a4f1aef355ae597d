package agent

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type CalendarEventsParams struct {
	Range string `json:"range,omitempty" jsonschema:"enum=today,enum=tomorrow,enum=week,enum=next7,enum=month,description=Which events (default week)"`
}

type FreeSlotsParams struct {
	Date    string `json:"date,omitempty" jsonschema:"description=Day to search YYYY-MM-DD (default today)"`
	Minutes int    `json:"minutes,omitempty" jsonschema:"description=Minimum slot length in minutes (default 30)"`
}

type CreateEventParams struct {
	Summary         string   `json:"summary" jsonschema:"required,description=Event title"`
	Start           string   `json:"start" jsonschema:"required,description=Start as YYYY-MM-DDTHH:MM in the organisation timezone"`
	End             string   `json:"end,omitempty" jsonschema:"description=End as YYYY-MM-DDTHH:MM"`
	DurationMinutes int      `json:"duration_minutes,omitempty" jsonschema:"description=Used when end is omitted (default 60)"`
	Description     string   `json:"description,omitempty" jsonschema:"description=Event notes"`
	Location        string   `json:"location,omitempty" jsonschema:"description=Where"`
	Attendees       []string `json:"attendees,omitempty" jsonschema:"description=Attendee email addresses"`
}

func (t *toolset) registerCalendar(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_calendar_events",
			Description: "Calendar events grouped into Today / Tomorrow / This week / Later.",
			Parameters:  llm.GenerateSchemaFrom(CalendarEventsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p CalendarEventsParams) (any, error) {
			rangeName := p.Range
			if rangeName == "" {
				rangeName = "week"
			}
			return t.Calendar.Events(ctx, rangeName)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "find_free_slots",
			Description: "Free time within working hours on a given day.",
			Parameters:  llm.GenerateSchemaFrom(FreeSlotsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p FreeSlotsParams) (any, error) {
			date, err := parseDate(p.Date, t.Now(), t.Location)
			if err != nil {
				return nil, err
			}
			return t.Calendar.FreeSlots(ctx, date, defaultInt(p.Minutes, 30))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "create_calendar_event",
			Description: "Create a Google Calendar event. Needs the user's confirmation before it is created.",
			Parameters:  llm.GenerateSchemaFrom(CreateEventParams{}),
		},
		Kind:                 ToolWrite,
		RequiresConfirmation: true,
		Handler: Typed(func(ctx context.Context, p CreateEventParams) (any, error) {
			start, err := parseWhen(p.Start, t.Location)
			if err != nil {
				return nil, err
			}
			var end time.Time
			if p.End != "" {
				if end, err = parseWhen(p.End, t.Location); err != nil {
					return nil, err
				}
			} else {
				end = start.Add(time.Duration(defaultInt(p.DurationMinutes, 60)) * time.Minute)
			}
			return t.stage(ctx, model.ActionCreateCalendarEvent, approval.CalendarEventPayload{
				Summary:     p.Summary,
				Description: p.Description,
				Location:    p.Location,
				Start:       start,
				End:         end,
				Attendees:   p.Attendees,
			})
		}),
	})
}
