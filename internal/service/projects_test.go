package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

var _ = Describe("ProjectService", func() {
	var (
		projects *mockProjectStore
		finance  *mockFinanceStore
		svc      service.ProjectService
	)

	BeforeEach(func() {
		projects = &mockProjectStore{}
		finance = &mockFinanceStore{}
		now := time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)
		svc = service.NewProjectService(projects, service.NewFinanceService(finance, projects, time.UTC, fixedClock(now)))
	})

	DescribeTable("ParseProjectStatus",
		func(in string, expected *model.ProjectStatus) {
			status, err := service.ParseProjectStatus(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(status).To(Equal(expected))
		},
		Entry("empty", "", nil),
		Entry("all", "ALL", nil),
		Entry("active", "active", ptr(model.ProjectStatusActive)),
		Entry("spaced", "On Hold", ptr(model.ProjectStatusOnHold)),
		Entry("hyphenated", "on-hold", ptr(model.ProjectStatusOnHold)),
	)

	It("rejects unknown statuses", func() {
		_, err := svc.List(context.Background(), "paused")
		Expect(errors.Is(err, service.ErrInvalidInput)).To(BeTrue())
	})

	It("assembles detail with members and finances", func() {
		projects.getByCodeFn = func(_ context.Context, code string) (*model.Project, error) {
			Expect(code).To(Equal("ACT-GD"))
			return &model.Project{ID: 3, Code: "ACT-GD", Name: "Goods"}, nil
		}
		projects.membersFn = func(_ context.Context, projectID int64) ([]model.ProjectMember, error) {
			Expect(projectID).To(Equal(int64(3)))
			return []model.ProjectMember{{ContactID: 1, FullName: "Ada"}}, nil
		}

		detail, err := svc.Get(context.Background(), " ACT-GD ")
		Expect(err).NotTo(HaveOccurred())
		Expect(detail.Members).To(HaveLen(1))
		Expect(detail.Finances.ProjectCode).To(Equal("ACT-GD"))
		Expect(detail.Finances.BudgetUsedPct).To(BeNil())
	})

	It("passes not found through", func() {
		_, err := svc.Get(context.Background(), "NOPE")
		Expect(err).To(MatchError(store.ErrNotFound))
	})

	It("summarises counts and active projects", func() {
		projects.countFn = func(context.Context) (map[model.ProjectStatus]int64, error) {
			return map[model.ProjectStatus]int64{model.ProjectStatusActive: 3, model.ProjectStatusCompleted: 2}, nil
		}
		projects.listFn = func(_ context.Context, status *model.ProjectStatus) ([]model.Project, error) {
			Expect(*status).To(Equal(model.ProjectStatusActive))
			return []model.Project{{Code: "A"}, {Code: "B"}, {Code: "C"}}, nil
		}

		summary, err := svc.Summary(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(summary.Total).To(Equal(int64(5)))
		Expect(summary.Active).To(HaveLen(3))
	})
})
