package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
)

// app is built lazily so that commands which only touch the database do
// not pay for integrations they never use.
type app struct {
	cfg          config.Config
	infra        *bootstrap.Infra
	integrations *bootstrap.Integrations
}

var (
	jsonOutput bool
	current    *app
)

var rootCmd = &cobra.Command{
	Use:           "opsctl",
	Short:         "Operate the ops dashboard from a terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(config.ServiceTypeCLI)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		logger.Setup(cfg)

		// Server is 1, worker is 2.
		if err := id.Init(3); err != nil {
			return fmt.Errorf("initializing id generator: %w", err)
		}

		infra, err := bootstrap.Connect(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		current = &app{cfg: cfg, infra: infra}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		current.close()
	},
}

func (a *app) withIntegrations(ctx context.Context) *bootstrap.Integrations {
	if a.integrations == nil {
		a.integrations = bootstrap.NewIntegrations(ctx, a.cfg)
	}
	return a.integrations
}

func (a *app) close() {
	if a == nil {
		return
	}
	if a.integrations != nil {
		a.integrations.Close()
	}
	a.infra.Close()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "print results as JSON")
	rootCmd.AddCommand(chatCmd, actionsCmd, syncCmd, migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.DebugContext(ctx, "command failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		current.close()
		os.Exit(1)
	}
}
