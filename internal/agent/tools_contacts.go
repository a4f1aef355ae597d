package agent

import (
	"context"
	"fmt"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type SearchContactsParams struct {
	Query string `json:"query" jsonschema:"required,description=Name or email or company or tag to search for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum contacts to return (default 10)"`
}

type ContactIDParams struct {
	ContactID ID `json:"contact_id" jsonschema:"required,description=Contact ID from search_contacts"`
}

type RelationshipHealthParams struct {
	Tag    string `json:"tag,omitempty" jsonschema:"description=Only contacts with this tag"`
	Status string `json:"status,omitempty" jsonschema:"enum=healthy,enum=cooling,enum=cold,enum=unknown,description=Only contacts in this state"`
	Limit  int    `json:"limit,omitempty" jsonschema:"description=Maximum contacts to return (default 20)"`
}

type FollowupParams struct {
	Days  int `json:"days,omitempty" jsonschema:"description=Not contacted for at least this many days (default 30)"`
	Limit int `json:"limit,omitempty" jsonschema:"description=Maximum contacts to return (default 15)"`
}

type ContactNetworkParams struct {
	ContactID ID  `json:"contact_id" jsonschema:"required,description=Contact ID at the centre of the network"`
	Depth     int `json:"depth,omitempty" jsonschema:"description=Hops to follow (1 or 2; default 1)"`
}

type LogInteractionParams struct {
	ContactID  ID     `json:"contact_id" jsonschema:"required,description=Contact the interaction was with"`
	Kind       string `json:"kind,omitempty" jsonschema:"enum=email,enum=call,enum=meeting,enum=message,enum=note,description=Interaction type (default note)"`
	Summary    string `json:"summary" jsonschema:"required,description=One or two sentences on what happened"`
	OccurredAt string `json:"occurred_at,omitempty" jsonschema:"description=When it happened as YYYY-MM-DDTHH:MM (default now)"`
}

func (t *toolset) registerContacts(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "search_contacts",
			Description: "Search the CRM contacts by name, email, company or tag. Returns contact IDs for the other contact tools.",
			Parameters:  llm.GenerateSchemaFrom(SearchContactsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p SearchContactsParams) (any, error) {
			return t.Contacts.List(ctx, p.Query, defaultInt(p.Limit, 10), 0)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_contact",
			Description: "Full contact record with recent interactions and linked projects.",
			Parameters:  llm.GenerateSchemaFrom(ContactIDParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p ContactIDParams) (any, error) {
			return t.Contacts.Get(ctx, int64(p.ContactID))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_relationship_health",
			Description: "Relationship health across contacts: healthy (contact within 30 days), cooling (within 90), cold, or unknown. Includes a 0-100 score.",
			Parameters:  llm.GenerateSchemaFrom(RelationshipHealthParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p RelationshipHealthParams) (any, error) {
			var status *model.RelationshipStatus
			if p.Status != "" {
				s := model.RelationshipStatus(p.Status)
				status = &s
			}
			return t.Contacts.Health(ctx, optional(p.Tag), status, defaultInt(p.Limit, 20))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_contacts_needing_followup",
			Description: "Contacts not contacted for a while, most overdue first.",
			Parameters:  llm.GenerateSchemaFrom(FollowupParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p FollowupParams) (any, error) {
			return t.Contacts.Followups(ctx, defaultInt(p.Days, 30), defaultInt(p.Limit, 15))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_contact_network",
			Description: "Who this contact is connected to: organisations, projects and other people they share them with.",
			Parameters:  llm.GenerateSchemaFrom(ContactNetworkParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p ContactNetworkParams) (any, error) {
			return t.Contacts.Network(ctx, int64(p.ContactID), defaultInt(p.Depth, 1))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "log_interaction",
			Description: "Record an interaction with a contact (call, meeting, email, note). Takes effect immediately.",
			Parameters:  llm.GenerateSchemaFrom(LogInteractionParams{}),
		},
		Kind: ToolWrite,
		Handler: Typed(func(ctx context.Context, p LogInteractionParams) (any, error) {
			interaction := &model.Interaction{
				ContactID: int64(p.ContactID),
				Kind:      model.InteractionKind(p.Kind),
				Summary:   p.Summary,
			}
			if p.OccurredAt != "" {
				at, err := parseWhen(p.OccurredAt, t.Location)
				if err != nil {
					return nil, err
				}
				interaction.OccurredAt = at
			}
			if err := t.Contacts.LogInteraction(ctx, interaction); err != nil {
				return nil, err
			}
			return map[string]any{
				"status":         "logged",
				"interaction_id": interaction.ID,
				"summary":        fmt.Sprintf("%s logged for contact %d", interaction.Kind, interaction.ContactID),
			}, nil
		}),
	})
}

func defaultInt(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}
