package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

const (
	dateLayout       = "2006-01-02"
	defaultSpendDays = 90
)

type FinanceHandler struct {
	finance service.FinanceService
	loc     *time.Location
	now     func() time.Time
}

func NewFinanceHandler(finance service.FinanceService, loc *time.Location, now func() time.Time) *FinanceHandler {
	if now == nil {
		now = time.Now
	}
	return &FinanceHandler{finance: finance, loc: loc, now: now}
}

func (h *FinanceHandler) Summary(c *gin.Context) {
	period := c.DefaultQuery("period", "month")

	summary, err := h.finance.Summary(c.Request.Context(), period)
	if err != nil {
		respondError(c, "failed to build finance summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FinanceHandler) Quarter(c *gin.Context) {
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		return
	}

	summary, err := h.finance.QuarterSummary(c.Request.Context(), offset)
	if err != nil {
		respondError(c, "failed to build quarter summary", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *FinanceHandler) OutstandingInvoices(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}

	invoices, err := h.finance.OutstandingInvoices(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to list outstanding invoices", err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// Spend totals spending by category. from and to are inclusive calendar
// dates in the organisation's timezone; the default is the last 90 days.
func (h *FinanceHandler) Spend(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 20)
	if !ok {
		return
	}

	today := format.StartOfDay(h.now(), h.loc)
	from := today.AddDate(0, 0, -defaultSpendDays)
	to := today.AddDate(0, 0, 1)

	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = d
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = d.AddDate(0, 0, 1)
	}

	totals, err := h.finance.SpendByCategory(c.Request.Context(), from, to, limit)
	if err != nil {
		respondError(c, "failed to total spending", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"from":       from.Format(dateLayout),
		"to":         to.AddDate(0, 0, -1).Format(dateLayout),
		"categories": totals,
	})
}

func (h *FinanceHandler) Receipts(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}

	receipts, err := h.finance.Receipts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, "failed to list receipts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipts": receipts})
}
