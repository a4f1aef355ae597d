package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
)

func DashboardRouter(rg *gin.RouterGroup, h *handler.DashboardHandler) {
	rg.GET("/dashboard/overview", h.Overview)
	rg.GET("/navigation", h.Navigation)
	rg.GET("/briefing", h.Briefing)
}
