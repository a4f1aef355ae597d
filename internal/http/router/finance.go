package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
)

func FinanceRouter(rg *gin.RouterGroup, h *handler.FinanceHandler) {
	rg.GET("/summary", h.Summary)
	rg.GET("/quarter", h.Quarter)
	rg.GET("/invoices/outstanding", h.OutstandingInvoices)
	rg.GET("/spend", h.Spend)
	rg.GET("/receipts", h.Receipts)
}

func CalendarRouter(rg *gin.RouterGroup, h *handler.CalendarHandler) {
	rg.GET("/events", h.Events)
	rg.GET("/free", h.FreeSlots)
}
