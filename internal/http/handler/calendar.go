package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type CalendarHandler struct {
	calendar service.CalendarService
	loc      *time.Location
	now      func() time.Time
}

func NewCalendarHandler(calendar service.CalendarService, loc *time.Location, now func() time.Time) *CalendarHandler {
	if now == nil {
		now = time.Now
	}
	return &CalendarHandler{calendar: calendar, loc: loc, now: now}
}

func (h *CalendarHandler) Events(c *gin.Context) {
	view, err := h.calendar.Events(c.Request.Context(), c.DefaultQuery("range", "today"))
	if err != nil {
		respondError(c, "failed to list events", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *CalendarHandler) FreeSlots(c *gin.Context) {
	minutes, ok := queryInt(c, "minutes", 30)
	if !ok {
		return
	}

	date := format.StartOfDay(h.now(), h.loc)
	if raw := strings.TrimSpace(c.Query("date")); raw != "" {
		d, err := time.ParseInLocation(dateLayout, raw, h.loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		date = d
	}

	slots, err := h.calendar.FreeSlots(c.Request.Context(), date, minutes)
	if err != nil {
		respondError(c, "failed to find free slots", err)
		return
	}
	c.JSON(http.StatusOK, slots)
}
