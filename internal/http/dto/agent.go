package dto

import (
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type ChatRequest struct {
	Message        string `json:"message" binding:"required,min=1,max=8000"`
	ConversationID *int64 `json:"conversation_id,omitempty,string"`
}

type ChatResponse struct {
	Reply          string             `json:"reply"`
	ConversationID int64              `json:"conversation_id,string"`
	Model          string             `json:"model,omitempty"`
	Rounds         int                `json:"rounds"`
	Escalated      bool               `json:"escalated"`
	PendingActions []approval.Summary `json:"pending_actions"`
	Staged         []approval.Summary `json:"staged"`
}

// ActionResponse is a pending action as the dashboard shows it. The raw
// payload stays server side.
type ActionResponse struct {
	ID             int64              `json:"id,string"`
	Ref            string             `json:"ref"`
	ConversationID *int64             `json:"conversation_id,omitempty,string"`
	Type           model.ActionType   `json:"type"`
	Description    string             `json:"description"`
	Status         model.ActionStatus `json:"status"`
	Attempts       int                `json:"attempts"`
	LastError      *string            `json:"last_error,omitempty"`
	RequestedBy    string             `json:"requested_by"`
	DecidedBy      *string            `json:"decided_by,omitempty"`
	ExpiresAt      time.Time          `json:"expires_at"`
	DecidedAt      *time.Time         `json:"decided_at,omitempty"`
	FinishedAt     *time.Time         `json:"finished_at,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
}

func ToActionResponse(a *model.PendingAction) ActionResponse {
	return ActionResponse{
		ID:             a.ID,
		Ref:            a.Ref,
		ConversationID: a.ConversationID,
		Type:           a.Type,
		Description:    a.Description,
		Status:         a.Status,
		Attempts:       a.Attempts,
		LastError:      a.LastError,
		RequestedBy:    a.RequestedBy,
		DecidedBy:      a.DecidedBy,
		ExpiresAt:      a.ExpiresAt,
		DecidedAt:      a.DecidedAt,
		FinishedAt:     a.FinishedAt,
		CreatedAt:      a.CreatedAt,
	}
}

func ToActionResponses(actions []model.PendingAction) []ActionResponse {
	out := make([]ActionResponse, 0, len(actions))
	for i := range actions {
		out = append(out, ToActionResponse(&actions[i]))
	}
	return out
}

type ConversationResponse struct {
	ID             int64              `json:"id,string"`
	Channel        model.Channel      `json:"channel"`
	Turns          []model.Turn       `json:"turns"`
	PendingActions []approval.Summary `json:"pending_actions"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
