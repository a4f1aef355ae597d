package agent

import (
	"context"
	"errors"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
)

// maxNoteBody keeps a single note from crowding out the rest of the context.
const maxNoteBody = 12000

type SearchKnowledgeParams struct {
	Query string `json:"query" jsonschema:"required,description=Words to search the wiki for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum notes (default 8)"`
}

type NoteSlugParams struct {
	Slug string `json:"slug" jsonschema:"required,description=Note slug from search_knowledge or list_recent_notes"`
}

type SearchNotionParams struct {
	Query string `json:"query" jsonschema:"required,description=Words to search Notion for"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum pages (default 8)"`
}

type NotionPageParams struct {
	PageID string `json:"page_id" jsonschema:"required,description=Page ID from search_notion"`
}

func (t *toolset) registerKnowledge(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "search_knowledge",
			Description: "Full-text search of the internal wiki (policies, processes, project notes). Returns slugs and snippets.",
			Parameters:  llm.GenerateSchemaFrom(SearchKnowledgeParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p SearchKnowledgeParams) (any, error) {
			if p.Query == "" {
				return nil, errors.New("query is required")
			}
			return t.Knowledge.List(ctx, p.Query, defaultInt(p.Limit, 8))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_knowledge_note",
			Description: "Read a wiki note as markdown.",
			Parameters:  llm.GenerateSchemaFrom(NoteSlugParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p NoteSlugParams) (any, error) {
			view, err := t.Knowledge.Get(ctx, p.Slug)
			if err != nil {
				return nil, err
			}
			note := view.KnowledgeNote
			note.Body = logger.Truncate(note.Body, maxNoteBody)
			return note, nil
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_recent_notes",
			Description: "Most recently updated wiki notes.",
			Parameters:  llm.GenerateSchemaFrom(LimitParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p LimitParams) (any, error) {
			return t.Knowledge.List(ctx, "", defaultInt(p.Limit, 10))
		}),
	})
}

func (t *toolset) registerNotion(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "search_notion",
			Description: "Search Notion pages by title and content.",
			Parameters:  llm.GenerateSchemaFrom(SearchNotionParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p SearchNotionParams) (any, error) {
			return t.Notion.Search(ctx, p.Query, defaultInt(p.Limit, 8))
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_notion_page",
			Description: "Read a Notion page as plain text.",
			Parameters:  llm.GenerateSchemaFrom(NotionPageParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p NotionPageParams) (any, error) {
			return t.Notion.GetPage(ctx, p.PageID)
		}),
	})
}
