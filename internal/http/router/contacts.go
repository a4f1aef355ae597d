package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
)

func ContactRouter(rg *gin.RouterGroup, h *handler.ContactHandler) {
	rg.GET("", h.List)
	rg.GET("/health", h.Health)
	rg.GET("/followups", h.Followups)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/network", h.Network)
}

func ProjectRouter(rg *gin.RouterGroup, h *handler.ProjectHandler) {
	rg.GET("", h.List)
	rg.GET("/:code", h.Get)
}
