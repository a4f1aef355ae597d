package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type Briefing struct {
	Date            string                `json:"date"`
	Events          []model.CalendarEvent `json:"events"`
	Reminders       []model.Reminder      `json:"reminders"`
	Followups       []FollowUp            `json:"followups"`
	OverdueInvoices []model.Invoice       `json:"overdue_invoices"`
	PendingActions  []model.PendingAction `json:"pending_actions"`
	Summary         string                `json:"summary"`
}

type BriefingService interface {
	Daily(ctx context.Context) (*Briefing, error)
}

type briefingService struct {
	calendar  CalendarService
	contacts  ContactService
	finance   FinanceService
	reminders store.ReminderStore
	actions   store.PendingActionStore
	loc       *time.Location
	now       func() time.Time
}

func NewBriefingService(
	calendar CalendarService,
	contacts ContactService,
	finance FinanceService,
	reminders store.ReminderStore,
	actions store.PendingActionStore,
	loc *time.Location,
	now func() time.Time,
) BriefingService {
	return &briefingService{
		calendar:  calendar,
		contacts:  contacts,
		finance:   finance,
		reminders: reminders,
		actions:   actions,
		loc:       loc,
		now:       now,
	}
}

func (s *briefingService) Daily(ctx context.Context) (*Briefing, error) {
	now := s.now().In(s.loc)
	tomorrow := format.StartOfDay(now, s.loc).AddDate(0, 0, 1)

	b := &Briefing{
		Date:            format.Date(now, s.loc),
		Events:          []model.CalendarEvent{},
		Reminders:       []model.Reminder{},
		OverdueInvoices: []model.Invoice{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view, err := s.calendar.Events(gctx, RangeToday)
		if err != nil {
			return wrap("listing events", err)
		}
		for _, bucket := range view.Buckets {
			b.Events = append(b.Events, bucket.Events...)
		}
		return nil
	})
	g.Go(func() error {
		reminders, err := s.reminders.ListScheduled(gctx, 50)
		if err != nil {
			return wrap("listing reminders", err)
		}
		for _, r := range reminders {
			if r.DueAt.Before(tomorrow) {
				b.Reminders = append(b.Reminders, r)
			}
		}
		return nil
	})
	g.Go(func() (err error) {
		b.Followups, err = s.contacts.Followups(gctx, healthyWithinDays, 5)
		return wrap("listing follow-ups", err)
	})
	g.Go(func() error {
		out, err := s.finance.OutstandingInvoices(gctx, 50)
		if err != nil {
			return wrap("listing invoices", err)
		}
		for _, inv := range out.Invoices {
			if inv.DaysOverdue > 0 {
				b.OverdueInvoices = append(b.OverdueInvoices, inv)
			}
		}
		return nil
	})
	g.Go(func() (err error) {
		b.PendingActions, err = s.actions.ListOpen(gctx, nil)
		return wrap("listing pending actions", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b.Summary = b.render(now, s.loc)
	return b, nil
}

// render produces the plain text briefing sent to chat.
func (b *Briefing) render(now time.Time, loc *time.Location) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Briefing for %s\n", b.Date)

	sb.WriteString("\nCalendar\n")
	if len(b.Events) == 0 {
		sb.WriteString("- Nothing scheduled\n")
	}
	for _, e := range b.Events {
		fmt.Fprintf(&sb, "- %s %s\n", format.TimeRange(e.StartsAt, e.EndsAt, e.AllDay, loc), e.Title)
	}

	if len(b.Reminders) > 0 {
		sb.WriteString("\nReminders\n")
		for _, r := range b.Reminders {
			fmt.Fprintf(&sb, "- %s %s\n", format.Time(r.DueAt, loc), r.Message)
		}
	}

	if len(b.Followups) > 0 {
		sb.WriteString("\nFollow up with\n")
		for _, f := range b.Followups {
			last := "never contacted"
			if f.LastContactedAt != nil {
				last = "last contact " + format.Relative(*f.LastContactedAt, now, loc)
			}
			fmt.Fprintf(&sb, "- %s (%s)\n", f.FullName, last)
		}
	}

	if len(b.OverdueInvoices) > 0 {
		sb.WriteString("\nOverdue invoices\n")
		for _, inv := range b.OverdueInvoices {
			fmt.Fprintf(&sb, "- %s %s %s, %d days overdue\n",
				inv.Number, inv.ContactName, format.Currency(inv.AmountDueCents), inv.DaysOverdue)
		}
	}

	if len(b.PendingActions) > 0 {
		sb.WriteString("\nAwaiting your approval\n")
		for _, a := range b.PendingActions {
			fmt.Fprintf(&sb, "- [%s] %s\n", a.Ref, a.Description)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}
