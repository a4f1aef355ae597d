package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/otel"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/middleware"
	httprouter "github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/router"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "ops server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName, "org", cfg.Org.Name)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	infra, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	applied, err := infra.DB.Migrate(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to apply migrations", "error", err)
		os.Exit(1)
	}
	if len(applied) > 0 {
		slog.InfoContext(ctx, "migrations applied", "versions", applied)
	}

	integrations := bootstrap.NewIntegrations(ctx, cfg)
	defer integrations.Close()

	services := bootstrap.NewServices(cfg, infra, integrations)
	approvals := bootstrap.NewApprovals(cfg, infra, integrations)
	assistant, err := bootstrap.NewAgent(cfg, infra, integrations, services, approvals)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create agent", "error", err)
		os.Exit(1)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, httprouter.Dependencies{
		Agent:         assistant,
		Approvals:     approvals,
		Conversations: infra.Stores.Conversations(),
		Status:        infra.Status,
		Telegram:      integrations.Telegram,
		Transcriber:   integrations.Transcriber,
	}, httprouter.RouterConfig{
		DashboardURL: cfg.DashboardURL,
		IsProduction: cfg.IsProduction(),
		AdminAPIKey:  cfg.AdminAPIKey,
		Telegram:     cfg.Telegram,
	})

	// No WriteTimeout: the status stream and agent turns hold responses open.
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

const banner = `
  ___  ____  ____    ____  _____ ____  __     _______ ____
 / _ \|  _ \/ ___|  / ___|| ____|  _ \ \ \   / / ____|  _ \
| | | | |_) \___ \  \___ \|  _| | |_) | \ \ / /|  _| | |_) |
| |_| |  __/ ___) |  ___) | |___|  _ <   \ V / | |___|  _ <
 \___/|_|   |____/  |____/|_____|_| \_\   \_/  |_____|_| \_\
`
