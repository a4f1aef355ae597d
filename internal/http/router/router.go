package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/handler"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/middleware"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type RouterConfig struct {
	DashboardURL string
	IsProduction bool
	AdminAPIKey  string
	Telegram     config.TelegramConfig
}

// Dependencies are the collaborators the handlers need beyond the service
// factory. Telegram and Transcriber may be nil; Status may be nil.
type Dependencies struct {
	Agent         agent.Agent
	Approvals     approval.Service
	Conversations handler.ConversationReader
	Status        queue.StatusReader
	Telegram      telegram.Client
	Transcriber   llm.Transcriber
}

func SetupRoutes(router *gin.Engine, services *service.Services, deps Dependencies, cfg RouterConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authService := services.Auth()
	authHandler := handler.NewAuthHandler(authService, cfg.DashboardURL, cfg.IsProduction)
	AuthRouter(router.Group("/auth"), authHandler)

	if deps.Telegram != nil && cfg.Telegram.WebhookSecret != "" {
		telegramHandler := handler.NewTelegramHandler(deps.Agent, deps.Approvals, deps.Telegram, deps.Transcriber, cfg.Telegram)
		WebhookRouter(router.Group("/webhooks"), telegramHandler)
	}

	loc := services.Location()
	v1 := router.Group("/api/v1", middleware.RequireAuth(authService, cfg.AdminAPIKey))
	{
		contacts := services.Contacts()
		finance := services.Finance()

		dashboardHandler := handler.NewDashboardHandler(services.Overview(), services.Briefing(), contacts, finance, deps.Approvals)
		DashboardRouter(v1, dashboardHandler)

		ContactRouter(v1.Group("/contacts"), handler.NewContactHandler(contacts))
		ProjectRouter(v1.Group("/projects"), handler.NewProjectHandler(services.Projects()))
		FinanceRouter(v1.Group("/finance"), handler.NewFinanceHandler(finance, loc, time.Now))
		CalendarRouter(v1.Group("/calendar"), handler.NewCalendarHandler(services.Calendar(), loc, time.Now))
		KnowledgeRouter(v1.Group("/knowledge"), handler.NewKnowledgeHandler(services.Knowledge()))

		agentHandler := handler.NewAgentHandler(deps.Agent, deps.Approvals, deps.Conversations, deps.Status)
		AgentRouter(v1.Group("/agent"), agentHandler)
	}
}
