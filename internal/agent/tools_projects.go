package agent

import (
	"context"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
)

type ListProjectsParams struct {
	Status string `json:"status,omitempty" jsonschema:"enum=active,enum=planning,enum=on_hold,enum=completed,enum=archived,description=Only projects with this status"`
}

type ProjectCodeParams struct {
	Code string `json:"code" jsonschema:"required,description=Project code such as ACT-GD"`
}

type EmptyParams struct{}

func (t *toolset) registerProjects(r *Registry) {
	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "list_projects",
			Description: "List projects with code, name, status, lead and dates.",
			Parameters:  llm.GenerateSchemaFrom(ListProjectsParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p ListProjectsParams) (any, error) {
			return t.Projects.List(ctx, p.Status)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_project",
			Description: "One project with its team and finance rollup (income and spend against budget).",
			Parameters:  llm.GenerateSchemaFrom(ProjectCodeParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, p ProjectCodeParams) (any, error) {
			return t.Projects.Get(ctx, p.Code)
		}),
	})

	r.Register(Tool{
		Definition: llm.Tool{
			Name:        "get_project_summary",
			Description: "Counts of projects by status.",
			Parameters:  llm.GenerateSchemaFrom(EmptyParams{}),
		},
		Kind: ToolRead,
		Handler: Typed(func(ctx context.Context, _ EmptyParams) (any, error) {
			return t.Projects.Summary(ctx)
		}),
	})
}
