package agent

import (
	"context"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type SearchEmailsParams struct {
	Query      string `json:"query" jsonschema:"required,description=Gmail search query e.g. from:jess newer_than:7d"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"description=Maximum messages (default 10)"`
}

type EmailIDParams struct {
	MessageID string `json:"message_id" jsonschema:"required,description=Message ID from search_emails"`
}

type DraftEmailParams struct {
	To       []string `json:"to" jsonschema:"required,description=Recipient email addresses"`
	Cc       []string `json:"cc,omitempty" jsonschema:"description=CC addresses"`
	Subject  string   `json:"subject" jsonschema:"required,description=Subject line"`
	Body     string   `json:"body" jsonschema:"required,description=Plain text body"`
	ThreadID string   `json:"thread_id,omitempty" jsonschema:"description=Reply within this thread"`
}

func (t *toolset) registerEmail(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "search_emails",
			Description: "Search the shared Gmail inbox. Returns subject, sender, date and snippet.",
			Parameters:  llm.GenerateSchemaFrom(SearchEmailsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p SearchEmailsParams) (any, error) {
			return t.Gmail.Search(ctx, p.Query, defaultInt(p.MaxResults, 10))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_email",
			Description: "Read one email in full.",
			Parameters:  llm.GenerateSchemaFrom(EmailIDParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p EmailIDParams) (any, error) {
			return t.Gmail.Get(ctx, p.MessageID)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "draft_email",
			Description: "Prepare an email to send. Nothing is sent until the user confirms.",
			Parameters:  llm.GenerateSchemaFrom(DraftEmailParams{}),
		},
		Kind:                 ToolWrite,
		RequiresConfirmation: true,
		Handler: Typed(func(ctx context.Context, p DraftEmailParams) (any, error) {
			return t.stage(ctx, model.ActionSendEmail, approval.EmailPayload{
				To:       p.To,
				Cc:       p.Cc,
				Subject:  p.Subject,
				Body:     p.Body,
				ThreadID: p.ThreadID,
			})
		}),
	})
}
