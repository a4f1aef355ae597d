package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

var (
	actionsAll   bool
	actionsLimit int
)

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List and decide pending write actions",
}

var actionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List actions awaiting confirmation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		approvals := newApprovals(ctx)

		var (
			actions []model.PendingAction
			err     error
		)
		if actionsAll {
			actions, err = approvals.ListRecent(ctx, nil, actionsLimit)
		} else {
			actions, err = approvals.ListOpen(ctx, nil)
		}
		if err != nil {
			return fmt.Errorf("listing actions: %w", err)
		}

		w := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(w, actions)
		}
		if len(actions) == 0 {
			fmt.Fprintln(w, "No actions.")
			return nil
		}
		rows := make([][]string, 0, len(actions))
		for _, a := range actions {
			rows = append(rows, []string{
				strconv.FormatInt(a.ID, 10),
				a.Ref,
				string(a.Status),
				a.ExpiresAt.Local().Format(time.DateTime),
				a.Description,
			})
		}
		return printTable(w, []string{"ID", "REF", "STATUS", "EXPIRES", "DESCRIPTION"}, rows)
	},
}

var actionsConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Confirm an action so the worker runs it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], true)
	},
}

var actionsRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Cancel an action without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return decide(cmd, args[0], false)
	},
}

func init() {
	actionsListCmd.Flags().BoolVar(&actionsAll, "all", false, "include decided and finished actions")
	actionsListCmd.Flags().IntVar(&actionsLimit, "limit", 50, "maximum actions with --all")
	actionsCmd.AddCommand(actionsListCmd, actionsConfirmCmd, actionsRejectCmd)
}

var newApprovals = func(ctx context.Context) approval.Service {
	a := current
	return bootstrap.NewApprovals(a.cfg, a.infra, a.withIntegrations(ctx))
}

func decide(cmd *cobra.Command, rawID string, confirm bool) error {
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid action id %q", rawID)
	}

	ctx := cmd.Context()
	approvals := newApprovals(ctx)

	var action *model.PendingAction
	if confirm {
		action, err = approvals.Confirm(ctx, id, cliUser())
	} else {
		action, err = approvals.Reject(ctx, id, cliUser())
	}
	switch {
	case errors.Is(err, approval.ErrActionExpired):
		return fmt.Errorf("action %d has expired", id)
	case errors.Is(err, approval.ErrActionNotPending):
		return fmt.Errorf("action %d was already decided", id)
	case err != nil:
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, approval.Summarise(*action))
	}
	if confirm {
		fmt.Fprintf(w, "Confirmed [%s]: %s. The worker will run it shortly.\n", action.Ref, action.Description)
	} else {
		fmt.Fprintf(w, "Cancelled [%s]: %s. Nothing was done.\n", action.Ref, action.Description)
	}
	return nil
}
