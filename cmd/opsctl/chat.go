package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/bootstrap"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

var conversationID int64

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the business agent",
	Long: `Send one message to the business agent and print its reply.

Messages from the same OS user continue one conversation unless
--conversation selects another. Write actions the agent stages are
listed with their IDs; confirm them with "opsctl actions confirm".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().Int64Var(&conversationID, "conversation", 0, "continue an existing conversation by ID")
}

var newAgent = func(ctx context.Context) (agent.Agent, error) {
	a := current
	in := a.withIntegrations(ctx)
	services := bootstrap.NewServices(a.cfg, a.infra, in)
	approvals := bootstrap.NewApprovals(a.cfg, a.infra, in)
	return bootstrap.NewAgent(a.cfg, a.infra, in, services, approvals)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ag, err := newAgent(ctx)
	if err != nil {
		return err
	}

	input := agent.Input{
		Channel:    model.ChannelCLI,
		ExternalID: cliUser(),
		Text:       strings.Join(args, " "),
		UserName:   cliUser(),
	}
	if conversationID > 0 {
		input.ConversationID = &conversationID
	}

	out, err := ag.ProcessMessage(ctx, input)
	if err != nil {
		return fmt.Errorf("processing message: %w", err)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, out)
	}
	fmt.Fprintln(w, out.Reply)
	if len(out.PendingActions) > 0 {
		fmt.Fprintln(w)
		rows := make([][]string, 0, len(out.PendingActions))
		for _, s := range out.PendingActions {
			rows = append(rows, []string{fmt.Sprint(s.ID), s.Ref, string(s.Type), s.Description})
		}
		if err := printTable(w, []string{"ID", "REF", "TYPE", "AWAITING CONFIRMATION"}, rows); err != nil {
			return err
		}
	}
	fmt.Fprintf(w, "\n(conversation %d, %s, %d rounds)\n", out.ConversationID, out.Model, out.Rounds)
	return nil
}

func cliUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "opsctl"
}
