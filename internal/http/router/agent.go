package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
)

func AgentRouter(rg *gin.RouterGroup, h *handler.AgentHandler) {
	rg.POST("/chat", h.Chat)
	rg.GET("/conversations/:id", h.Conversation)
	rg.GET("/actions", h.Actions)
	rg.GET("/actions/stream", h.Stream)
	rg.POST("/actions/:id/confirm", h.Confirm)
	rg.POST("/actions/:id/reject", h.Reject)
}

func WebhookRouter(rg *gin.RouterGroup, h *handler.TelegramHandler) {
	rg.POST("/telegram/:secret", h.Webhook)
}
