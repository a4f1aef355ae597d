package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/otel"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/worker"
)

const (
	calendarSyncEvery  = 15 * time.Minute
	calendarSyncDays   = 30
	sessionPruneEvery  = time.Hour
	knowledgeSyncEvery = 6 * time.Hour
	networkSyncEvery   = 24 * time.Hour
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(config.ServiceTypeWorker)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s\n", banner)

	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger.Setup(cfg)

	slog.InfoContext(ctx, "ops worker starting",
		"env", cfg.Env,
		"consumer_group", cfg.Queue.Group,
		"consumer_name", cfg.Queue.Consumer)

	// Server is node 1; the worker must not share its node ID.
	if err := id.Init(2); err != nil {
		slog.ErrorContext(ctx, "failed to initialize id generator", "error", err)
		os.Exit(1)
	}

	infra, err := bootstrap.Connect(ctx, cfg)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.Close()

	integrations := bootstrap.NewIntegrations(ctx, cfg)
	defer integrations.Close()

	services := bootstrap.NewServices(cfg, infra, integrations)
	approvals := bootstrap.NewApprovals(cfg, infra, integrations)

	consumer, err := queue.NewRedisConsumer(ctx, infra.Redis, queue.ConsumerConfig{
		Stream:       cfg.Queue.Stream,
		Group:        cfg.Queue.Group,
		Consumer:     cfg.Queue.Consumer,
		DLQStream:    cfg.Queue.DLQStream,
		BatchSize:    10,
		Block:        5 * time.Second,
		MaxAttempts:  cfg.Approval.MaxAttempts,
		RequeueDelay: time.Second,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create consumer", "error", err)
		os.Exit(1)
	}

	notifier := worker.NewTelegramNotifier(integrations.Telegram, cfg.Telegram.DefaultChatID)
	outcomes := worker.NewOutcomeNotifier(infra.Stores.Conversations(), notifier)
	processor := worker.NewProcessor(approvals, infra.Stores.Reminders(), outcomes, notifier)

	w := worker.New(consumer, processor, worker.Config{MaxAttempts: cfg.Approval.MaxAttempts})

	reclaimer := worker.NewRedisReclaimer(infra.Redis, worker.RedisReclaimerConfig{
		Stream:    cfg.Queue.Stream,
		Group:     cfg.Queue.Group,
		Consumer:  cfg.Queue.Consumer + "-reclaimer",
		MinIdle:   cfg.Approval.Lease,
		Interval:  time.Minute,
		BatchSize: 10,
	}, consumer, w.ProcessMessage)

	sweeper := worker.NewSweeper(approvals, infra.Stores.Reminders(), infra.Producer, outcomes, worker.SweeperConfig{
		Interval: cfg.Approval.SweepEvery,
	}, time.Now)

	var jobs []worker.Job
	if integrations.Calendar != nil {
		calendar := services.Calendar()
		jobs = append(jobs, worker.Job{
			Name:  "calendar_sync",
			Every: calendarSyncEvery,
			Run: func(ctx context.Context) error {
				_, err := calendar.Sync(ctx, calendarSyncDays)
				return err
			},
		})
	}
	auth := services.Auth()
	jobs = append(jobs, worker.Job{
		Name:  "session_prune",
		Every: sessionPruneEvery,
		Run: func(ctx context.Context) error {
			_, err := auth.PruneSessions(ctx)
			return err
		},
	})
	if integrations.Wiki != nil {
		knowledge := services.Knowledge()
		jobs = append(jobs, worker.Job{
			Name:  "knowledge_sync",
			Every: knowledgeSyncEvery,
			Run: func(ctx context.Context) error {
				_, err := knowledge.Sync(ctx)
				return err
			},
		})
	}
	if integrations.Graph != nil {
		contacts := services.Contacts()
		jobs = append(jobs, worker.Job{
			Name:  "network_sync",
			Every: networkSyncEvery,
			Run: func(ctx context.Context) error {
				_, err := contacts.SyncNetwork(ctx)
				return err
			},
		})
	}
	scheduler := worker.NewScheduler(jobs...)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	go reclaimer.Run(ctx)
	go sweeper.Run(ctx)
	scheduler.Start(ctx)

	slog.InfoContext(ctx, "worker initialized and running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			slog.ErrorContext(ctx, "worker stopped unexpectedly", "error", err)
		}
	}

	slog.InfoContext(ctx, "shutting down worker...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	done := make(chan struct{})
	go func() {
		scheduler.Stop()
		sweeper.Stop()
		reclaimer.Stop()
		w.Stop()
		close(done)
	}()

	select {
	case <-shutdownCtx.Done():
		slog.WarnContext(ctx, "shutdown timeout exceeded")
	case <-done:
	}
	cancel()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(ctx, "worker shutdown complete")
}

const banner = `
  ___  ____  ____   __        _____  ____  _  _______ ____
 / _ \|  _ \/ ___|  \ \      / / _ \|  _ \| |/ / ____|  _ \
| | | | |_) \___ \   \ \ /\ / / | | | |_) | ' /|  _| | |_) |
| |_| |  __/ ___) |   \ V  V /| |_| |  _ <| . \| |___|  _ <
 \___/|_|   |____/     \_/\_/  \___/|_| \_\_|\_\_____|_| \_\
`
