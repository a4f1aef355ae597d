package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

type ProjectDetail struct {
	Project  model.Project         `json:"project"`
	Members  []model.ProjectMember `json:"members"`
	Finances *ProjectFinances      `json:"finances"`
}

type ProjectSummary struct {
	Counts map[model.ProjectStatus]int64 `json:"counts"`
	Total  int64                         `json:"total"`
	Active []model.Project               `json:"active"`
}

type ProjectService interface {
	List(ctx context.Context, status string) ([]model.Project, error)
	Get(ctx context.Context, code string) (*ProjectDetail, error)
	Summary(ctx context.Context) (*ProjectSummary, error)
}

type projectService struct {
	projects store.ProjectStore
	finance  FinanceService
}

func NewProjectService(projects store.ProjectStore, finance FinanceService) ProjectService {
	return &projectService{projects: projects, finance: finance}
}

func (s *projectService) List(ctx context.Context, status string) ([]model.Project, error) {
	filter, err := ParseProjectStatus(status)
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

func (s *projectService) Get(ctx context.Context, code string) (*ProjectDetail, error) {
	code = strings.TrimSpace(code)
	project, err := s.projects.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	members, err := s.projects.ListMembers(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("listing project members: %w", err)
	}
	finances, err := s.finance.ProjectFinances(ctx, project.Code)
	if err != nil {
		return nil, err
	}

	return &ProjectDetail{Project: *project, Members: members, Finances: finances}, nil
}

func (s *projectService) Summary(ctx context.Context) (*ProjectSummary, error) {
	counts, err := s.projects.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting projects: %w", err)
	}
	active := model.ProjectStatusActive
	projects, err := s.projects.List(ctx, &active)
	if err != nil {
		return nil, fmt.Errorf("listing active projects: %w", err)
	}

	summary := &ProjectSummary{Counts: counts, Active: projects}
	for _, n := range counts {
		summary.Total += n
	}
	return summary, nil
}

// ParseProjectStatus accepts "", "all" or a project status. Spaces and
// hyphens are read as underscores so "on hold" matches on_hold.
func ParseProjectStatus(s string) (*model.ProjectStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "all" {
		return nil, nil
	}
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)

	status := model.ProjectStatus(s)
	switch status {
	case model.ProjectStatusActive, model.ProjectStatusPlanning, model.ProjectStatusOnHold,
		model.ProjectStatusCompleted, model.ProjectStatusArchived:
		return &status, nil
	}
	return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, s)
}
