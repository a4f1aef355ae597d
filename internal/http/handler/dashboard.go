package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

const followupBadgeLimit = 99

// ActionCounter reports pending action counts by status.
type ActionCounter interface {
	Counts(ctx context.Context) (map[model.ActionStatus]int64, error)
}

type DashboardHandler struct {
	overview service.OverviewService
	briefing service.BriefingService
	contacts service.ContactService
	finance  service.FinanceService
	actions  ActionCounter
}

func NewDashboardHandler(
	overview service.OverviewService,
	briefing service.BriefingService,
	contacts service.ContactService,
	finance service.FinanceService,
	actions ActionCounter,
) *DashboardHandler {
	return &DashboardHandler{
		overview: overview,
		briefing: briefing,
		contacts: contacts,
		finance:  finance,
		actions:  actions,
	}
}

func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.overview.Get(c.Request.Context())
	if err != nil {
		respondError(c, "failed to build overview", err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *DashboardHandler) Briefing(c *gin.Context) {
	briefing, err := h.briefing.Daily(c.Request.Context())
	if err != nil {
		respondError(c, "failed to build briefing", err)
		return
	}
	c.JSON(http.StatusOK, briefing)
}

// Navigation returns the menu with live badge counts. A badge whose source
// fails is left off rather than failing the menu.
func (h *DashboardHandler) Navigation(c *gin.Context) {
	ctx := c.Request.Context()
	badges := make(map[string]int, 3)
	var mu sync.Mutex
	set := func(key string, n int) {
		mu.Lock()
		badges[key] = n
		mu.Unlock()
	}

	var g errgroup.Group
	g.Go(func() error {
		counts, err := h.actions.Counts(ctx)
		if err != nil {
			slog.WarnContext(ctx, "navigation badge failed", "badge", service.BadgePendingActions, "error", err)
			return nil
		}
		set(service.BadgePendingActions, int(counts[model.ActionStatusPending]))
		return nil
	})
	g.Go(func() error {
		outstanding, err := h.finance.OutstandingInvoices(ctx, 1)
		if err != nil {
			slog.WarnContext(ctx, "navigation badge failed", "badge", service.BadgeOverdueInvoices, "error", err)
			return nil
		}
		set(service.BadgeOverdueInvoices, int(outstanding.Summary.Overdue))
		return nil
	})
	g.Go(func() error {
		followups, err := h.contacts.Followups(ctx, 0, followupBadgeLimit)
		if err != nil {
			slog.WarnContext(ctx, "navigation badge failed", "badge", service.BadgeFollowups, "error", err)
			return nil
		}
		set(service.BadgeFollowups, len(followups))
		return nil
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, gin.H{"sections": service.Navigation(badges)})
}
