package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type Overview struct {
	GeneratedAt    time.Time                        `json:"generated_at"`
	Contacts       int64                            `json:"contacts"`
	Relationships  map[model.RelationshipStatus]int `json:"relationships"`
	Projects       map[model.ProjectStatus]int64    `json:"projects"`
	Month          *FinanceSummary                  `json:"month"`
	Outstanding    model.OutstandingSummary         `json:"outstanding"`
	TodayEvents    []model.CalendarEvent            `json:"today_events"`
	PendingActions int64                            `json:"pending_actions"`
	KnowledgeNotes int64                            `json:"knowledge_notes"`
	Highlights     []string                         `json:"highlights"`
}

type OverviewService interface {
	Get(ctx context.Context) (*Overview, error)
}

// OverviewSources lists what the overview reads from.
type OverviewSources struct {
	Contacts        store.ContactStore
	Projects        store.ProjectStore
	Finance         store.FinanceStore
	Actions         store.PendingActionStore
	Knowledge       store.KnowledgeStore
	ContactService  ContactService
	FinanceService  FinanceService
	CalendarService CalendarService
}

type overviewService struct {
	src OverviewSources
	loc *time.Location
	now func() time.Time
}

func NewOverviewService(src OverviewSources, loc *time.Location, now func() time.Time) OverviewService {
	return &overviewService{src: src, loc: loc, now: now}
}

// Get gathers every dashboard count concurrently. Any failing source fails
// the whole overview.
func (s *overviewService) Get(ctx context.Context) (*Overview, error) {
	now := s.now().In(s.loc)
	out := &Overview{GeneratedAt: now}

	var health *HealthReport
	var counts map[model.ActionStatus]int64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Contacts, err = s.src.Contacts.Count(gctx)
		return wrap("counting contacts", err)
	})
	g.Go(func() (err error) {
		health, err = s.src.ContactService.Health(gctx, nil, nil, 1)
		return wrap("scoring relationships", err)
	})
	g.Go(func() (err error) {
		out.Projects, err = s.src.Projects.CountByStatus(gctx)
		return wrap("counting projects", err)
	})
	g.Go(func() (err error) {
		out.Month, err = s.src.FinanceService.Summary(gctx, string(PeriodMonth))
		return wrap("summarising month", err)
	})
	g.Go(func() error {
		summary, err := s.src.Finance.SummariseOutstanding(gctx, format.StartOfDay(now, s.loc))
		if err != nil {
			return wrap("summarising invoices", err)
		}
		out.Outstanding = *summary
		return nil
	})
	g.Go(func() error {
		view, err := s.src.CalendarService.Events(gctx, RangeToday)
		if err != nil {
			return wrap("listing today's events", err)
		}
		out.TodayEvents = []model.CalendarEvent{}
		for _, b := range view.Buckets {
			out.TodayEvents = append(out.TodayEvents, b.Events...)
		}
		return nil
	})
	g.Go(func() (err error) {
		counts, err = s.src.Actions.CountByStatus(gctx)
		return wrap("counting pending actions", err)
	})
	g.Go(func() (err error) {
		out.KnowledgeNotes, err = s.src.Knowledge.Count(gctx)
		return wrap("counting notes", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out.Relationships = health.Counts
	out.PendingActions = counts[model.ActionStatusPending]
	out.Highlights = highlights(out)
	return out, nil
}

func highlights(o *Overview) []string {
	lines := []string{}
	if n := len(o.TodayEvents); n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s today", n, plural(n, "event", "events")))
	}
	if o.Outstanding.Overdue > 0 {
		lines = append(lines, fmt.Sprintf("%d overdue %s totalling %s",
			o.Outstanding.Overdue, plural(int(o.Outstanding.Overdue), "invoice", "invoices"),
			format.Currency(o.Outstanding.OverdueCents)))
	}
	if n := o.Relationships[model.RelationshipCold]; n > 0 {
		lines = append(lines, fmt.Sprintf("%d %s gone cold", n, plural(n, "relationship has", "relationships have")))
	}
	if o.PendingActions > 0 {
		lines = append(lines, fmt.Sprintf("%d %s awaiting approval", o.PendingActions, plural(int(o.PendingActions), "action", "actions")))
	}
	if o.Month != nil && o.Month.NetCents < 0 {
		lines = append(lines, fmt.Sprintf("Spending is ahead of income this month by %s", format.Currency(-o.Month.NetCents)))
	}
	return lines
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func wrap(doing string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", doing, err)
}
