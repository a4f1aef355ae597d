package store

import (
	"context"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type projectStore struct {
	queries *sqlc.Queries
}

func newProjectStore(queries *sqlc.Queries) ProjectStore {
	return &projectStore{queries: queries}
}

func (s *projectStore) List(ctx context.Context, status *model.ProjectStatus) ([]model.Project, error) {
	var filter *string
	if status != nil {
		v := string(*status)
		filter = &v
	}
	rows, err := s.queries.ListProjects(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.Project, len(rows))
	for i, r := range rows {
		out[i] = toProjectModel(r)
	}
	return out, nil
}

func (s *projectStore) GetByCode(ctx context.Context, code string) (*model.Project, error) {
	row, err := s.queries.GetProjectByCode(ctx, code)
	if err != nil {
		return nil, mapErr(err)
	}
	p := toProjectModel(row)
	return &p, nil
}

func (s *projectStore) CountByStatus(ctx context.Context) (map[model.ProjectStatus]int64, error) {
	rows, err := s.queries.CountProjectsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[model.ProjectStatus]int64, len(rows))
	for _, r := range rows {
		out[model.ProjectStatus(r.Status)] = r.Total
	}
	return out, nil
}

func (s *projectStore) ListMembers(ctx context.Context, projectID int64) ([]model.ProjectMember, error) {
	rows, err := s.queries.ListProjectContacts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProjectMember, len(rows))
	for i, r := range rows {
		out[i] = model.ProjectMember{
			ContactID: r.ID,
			FullName:  r.FullName,
			Email:     r.Email,
			Company:   r.Company,
			Role:      r.Role,
		}
	}
	return out, nil
}

func (s *projectStore) ListLinks(ctx context.Context) ([]model.ProjectLink, error) {
	rows, err := s.queries.ListProjectContactLinks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.ProjectLink, len(rows))
	for i, r := range rows {
		out[i] = model.ProjectLink{
			ProjectCode: r.Code,
			ProjectName: r.Name,
			ContactID:   r.ContactID,
			Role:        r.Role,
		}
	}
	return out, nil
}

func toProjectModel(row sqlc.Project) model.Project {
	return model.Project{
		ID:          row.ID,
		Code:        row.Code,
		Name:        row.Name,
		Status:      model.ProjectStatus(row.Status),
		Lead:        row.Lead,
		Description: row.Description,
		BudgetCents: row.BudgetCents,
		StartDate:   datePtr(row.StartDate),
		EndDate:     datePtr(row.EndDate),
		CreatedAt:   row.CreatedAt.Time,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}
