package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

var calendarDays int

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull external sources into the database",
}

var syncKnowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Re-read the wiki and refresh the search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := newServices(cmd).Knowledge().Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("syncing knowledge: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d files: %d synced, %d unchanged, %d removed (indexed: %t)\n",
			result.Files, result.Synced, result.Skipped, result.Removed, result.Indexed)
		return nil
	},
}

var syncNetworkCmd = &cobra.Command{
	Use:   "network",
	Short: "Rebuild the relationship graph from contacts and projects",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := newServices(cmd).Contacts().SyncNetwork(cmd.Context())
		if err != nil {
			return fmt.Errorf("syncing network: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d people, %d organisations, %d projects, %d edges\n",
			result.People, result.Organisations, result.Projects, result.Edges)
		return nil
	},
}

var syncCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Mirror upcoming calendar events",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		result, err := newServices(cmd).Calendar().Sync(cmd.Context(), calendarDays)
		if err != nil {
			return fmt.Errorf("syncing calendar: %w", err)
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), result)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d events upserted, %d removed\n", result.Upserted, result.Removed)
		return nil
	},
}

func init() {
	syncCalendarCmd.Flags().IntVar(&calendarDays, "days", 30, "days ahead to mirror")
	syncCmd.AddCommand(syncKnowledgeCmd, syncNetworkCmd, syncCalendarCmd)
}

func newServices(cmd *cobra.Command) *service.Services {
	a := current
	return bootstrap.NewServices(a.cfg, a.infra, a.withIntegrations(cmd.Context()))
}
