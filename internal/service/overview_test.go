package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

var _ = Describe("Dashboard overview and briefing", func() {
	var (
		ctx       context.Context
		now       time.Time
		contacts  *mockContactStore
		projects  *mockProjectStore
		finance   *mockFinanceStore
		events    *mockCalendarStore
		knowledge *mockKnowledgeStore
		actions   *mockActionStore
		reminders *mockReminderStore

		contactSvc  service.ContactService
		financeSvc  service.FinanceService
		calendarSvc service.CalendarService
	)

	BeforeEach(func() {
		ctx = context.Background()
		now = time.Date(2025, 11, 14, 7, 30, 0, 0, time.UTC)
		contacts = &mockContactStore{}
		projects = &mockProjectStore{}
		finance = &mockFinanceStore{}
		events = &mockCalendarStore{}
		knowledge = &mockKnowledgeStore{}
		actions = &mockActionStore{counts: map[model.ActionStatus]int64{model.ActionStatusPending: 2, model.ActionStatusSucceeded: 8}}
		reminders = &mockReminderStore{}

		contactSvc = service.NewContactService(contacts, projects, &mockTxRunner{}, nil, fixedClock(now))
		financeSvc = service.NewFinanceService(finance, projects, time.UTC, fixedClock(now))
		calendarSvc = service.NewCalendarService(events, nil, time.UTC, service.WorkingHours{Start: 9, End: 17}, fixedClock(now))

		events.listFn = func(context.Context, time.Time, time.Time) ([]model.CalendarEvent, error) {
			return []model.CalendarEvent{{Title: "Standup", StartsAt: now.Add(2 * time.Hour), EndsAt: now.Add(150 * time.Minute)}}, nil
		}
		contacts.listActivityFn = func(context.Context, *string, int) ([]model.ContactActivity, error) {
			return []model.ContactActivity{{ContactID: 1, LastContactedAt: ptr(now.AddDate(-1, 0, 0))}}, nil
		}
		finance.summariseFn = func(context.Context, time.Time) (*model.OutstandingSummary, error) {
			return &model.OutstandingSummary{Count: 4, Overdue: 1, OverdueCents: 1250_00}, nil
		}
	})

	Describe("OverviewService", func() {
		newOverview := func() service.OverviewService {
			return service.NewOverviewService(service.OverviewSources{
				Contacts:        contacts,
				Projects:        projects,
				Finance:         finance,
				Actions:         actions,
				Knowledge:       knowledge,
				ContactService:  contactSvc,
				FinanceService:  financeSvc,
				CalendarService: calendarSvc,
			}, time.UTC, fixedClock(now))
		}

		It("gathers counts and highlights", func() {
			contacts.countFn = func(context.Context) (int64, error) { return 120, nil }

			o, err := newOverview().Get(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(o.Contacts).To(Equal(int64(120)))
			Expect(o.PendingActions).To(Equal(int64(2)))
			Expect(o.TodayEvents).To(HaveLen(1))
			Expect(o.Relationships[model.RelationshipCold]).To(Equal(1))
			Expect(o.Highlights).To(ContainElements(
				"1 event today",
				"1 overdue invoice totalling $1,250.00",
				"1 relationship has gone cold",
				"2 actions awaiting approval",
			))
		})

		It("fails when any source fails", func() {
			contacts.countFn = func(context.Context) (int64, error) { return 0, errors.New("timeout") }
			_, err := newOverview().Get(ctx)
			Expect(err).To(MatchError(ContainSubstring("counting contacts")))
		})
	})

	Describe("BriefingService", func() {
		It("collects today's items and renders a summary", func() {
			reminders.scheduled = []model.Reminder{
				{Message: "Call the printer", DueAt: now.Add(3 * time.Hour)},
				{Message: "Next week", DueAt: now.AddDate(0, 0, 7)},
			}
			actions.open = []model.PendingAction{{Ref: "AB12C", Description: "Send email to Ada"}}
			finance.outstandingFn = func(context.Context, int) ([]model.Invoice, error) {
				return []model.Invoice{
					{Number: "INV-9", ContactName: "Acme", DueOn: now.AddDate(0, 0, -5), AmountDueCents: 990_00},
					{Number: "INV-10", ContactName: "Beta", DueOn: now.AddDate(0, 0, 5)},
				}, nil
			}

			b, err := service.NewBriefingService(calendarSvc, contactSvc, financeSvc, reminders, actions, time.UTC, fixedClock(now)).Daily(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Date).To(Equal("Fri 14 Nov 2025"))
			Expect(b.Reminders).To(HaveLen(1))
			Expect(b.OverdueInvoices).To(HaveLen(1))
			Expect(b.Summary).To(ContainSubstring("Standup"))
			Expect(b.Summary).To(ContainSubstring("Call the printer"))
			Expect(b.Summary).To(ContainSubstring("INV-9 Acme $990.00, 5 days overdue"))
			Expect(b.Summary).To(ContainSubstring("[AB12C] Send email to Ada"))
		})
	})
})
