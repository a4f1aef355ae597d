package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

var _ = Describe("DashboardHandler", func() {
	var (
		router    *gin.Engine
		contacts  *mockContacts
		finance   *mockFinance
		approvals *mockApprovals
	)

	BeforeEach(func() {
		contacts = &mockContacts{}
		finance = &mockFinance{}
		approvals = &mockApprovals{}

		router = gin.New()
		h := handler.NewDashboardHandler(nil, nil, contacts, finance, approvals)
		router.GET("/navigation", h.Navigation)
	})

	badges := func(w *httptest.ResponseRecorder) map[string]int {
		var resp struct {
			Sections []service.NavSection `json:"sections"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		out := map[string]int{}
		var walk func(items []service.NavItem)
		walk = func(items []service.NavItem) {
			for _, it := range items {
				if it.BadgeKey != "" {
					out[it.BadgeKey] = it.Badge
				}
				walk(it.Children)
			}
		}
		for _, s := range resp.Sections {
			walk(s.Items)
		}
		return out
	}

	It("fills badges from live counts", func() {
		approvals.countsFn = func(context.Context) (map[model.ActionStatus]int64, error) {
			return map[model.ActionStatus]int64{model.ActionStatusPending: 2, model.ActionStatusFailed: 9}, nil
		}
		finance.outstandingFn = func(context.Context, int) (*service.OutstandingInvoices, error) {
			return &service.OutstandingInvoices{Summary: model.OutstandingSummary{Count: 5, Overdue: 3}}, nil
		}
		contacts.followupsFn = func(context.Context, int, int) ([]service.FollowUp, error) {
			return make([]service.FollowUp, 4), nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/navigation", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(badges(w)).To(Equal(map[string]int{
			service.BadgePendingActions:  2,
			service.BadgeOverdueInvoices: 3,
			service.BadgeFollowups:       4,
		}))
	})

	It("still renders the menu when a badge source fails", func() {
		approvals.countsFn = func(context.Context) (map[model.ActionStatus]int64, error) {
			return nil, errors.New("db down")
		}
		finance.outstandingFn = func(context.Context, int) (*service.OutstandingInvoices, error) {
			return &service.OutstandingInvoices{}, nil
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/navigation", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(badges(w)[service.BadgePendingActions]).To(Equal(0))
		Expect(w.Body.String()).To(ContainSubstring(`"label":"Approvals"`))
	})
})
