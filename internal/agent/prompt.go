package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/format"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

const promptTemplate = `You are the Business Agent for %s, a small social enterprise. You help the team with contacts, projects, money, calendar, email, reminders and the internal wiki.

Today is %s (%s). The financial year runs July to June; the current quarter is %s.

# How to work
- Use tools for facts. Never invent names, amounts, dates or email addresses.
- Call independent lookups together in one turn; they run in parallel.
- Amounts from tools are already formatted or in cents. Report dollars to the user.
- Keep answers short and concrete. Use lists for more than three items.
- If a tool returns {"error": ...}, say what went wrong and suggest a next step. Do not retry the same call unchanged.
- Knowledge notes are the source of truth for policy and process. Cite the note title.

# Actions that change things
draft_email, create_calendar_event, set_reminder and log_receipt do not act immediately. They stage an action that waits for the user's yes or no.
- After staging, show the user exactly what will happen and its reference, then ask them to confirm.
- Never claim an action has happened until it is confirmed.
- Staging the same request twice is pointless; refer to the existing reference instead.
- log_interaction and cancel_reminder take effect immediately. Only use them when the user asked.
`

// systemPrompt renders the persona, working rules and the actions that are
// still awaiting a decision in this conversation.
func systemPrompt(orgName string, now time.Time, loc *time.Location, open []model.PendingAction) string {
	now = now.In(loc)
	var b strings.Builder
	fmt.Fprintf(&b, promptTemplate,
		orgName,
		format.DateTime(now, loc),
		loc.String(),
		service.QuarterFor(now).Label(),
	)

	if len(open) > 0 {
		b.WriteString("\n# Awaiting confirmation\n")
		b.WriteString("These actions are staged and waiting for the user. If the user's reply is ambiguous, ask which one they mean by reference.\n")
		for _, a := range open {
			fmt.Fprintf(&b, "- [%s] %s (expires %s)\n", a.Ref, a.Description, format.Time(a.ExpiresAt, loc))
		}
	}
	return b.String()
}
