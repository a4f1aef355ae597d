package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
)

func KnowledgeRouter(rg *gin.RouterGroup, h *handler.KnowledgeHandler) {
	rg.GET("", h.List)
	rg.POST("/sync", h.Sync)
	rg.GET("/*slug", h.Get)
}
