package model

import "time"

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusPlanning  ProjectStatus = "planning"
	ProjectStatusOnHold    ProjectStatus = "on_hold"
	ProjectStatusCompleted ProjectStatus = "completed"
	ProjectStatusArchived  ProjectStatus = "archived"
)

type Project struct {
	ID          int64         `json:"id"`
	Code        string        `json:"code"`
	Name        string        `json:"name"`
	Status      ProjectStatus `json:"status"`
	Lead        *string       `json:"lead,omitempty"`
	Description *string       `json:"description,omitempty"`
	BudgetCents *int64        `json:"budget_cents,omitempty"`
	StartDate   *time.Time    `json:"start_date,omitempty"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

type ProjectMember struct {
	ContactID int64   `json:"contact_id"`
	FullName  string  `json:"full_name"`
	Email     *string `json:"email,omitempty"`
	Company   *string `json:"company,omitempty"`
	Role      *string `json:"role,omitempty"`
}

// ProjectLink ties a contact to a project, used to build the relationship network.
type ProjectLink struct {
	ProjectCode string  `json:"project_code"`
	ProjectName string  `json:"project_name"`
	ContactID   int64   `json:"contact_id"`
	Role        *string `json:"role,omitempty"`
}
