package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/dto"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/http/middleware"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
)

const streamBlock = 25 * time.Second

// ConversationReader loads a stored conversation.
type ConversationReader interface {
	GetByID(ctx context.Context, id int64) (*model.Conversation, error)
}

type AgentHandler struct {
	agent         agent.Agent
	approvals     approval.Service
	conversations ConversationReader
	status        queue.StatusReader
}

// NewAgentHandler builds the chat and approval endpoints. status may be nil,
// which disables the event stream.
func NewAgentHandler(
	a agent.Agent,
	approvals approval.Service,
	conversations ConversationReader,
	status queue.StatusReader,
) *AgentHandler {
	return &AgentHandler{
		agent:         a,
		approvals:     approvals,
		conversations: conversations,
		status:        status,
	}
}

func (h *AgentHandler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	out, err := h.agent.ProcessMessage(ctx, agent.Input{
		ConversationID: req.ConversationID,
		Channel:        model.ChannelWeb,
		Text:           req.Message,
		UserName:       middleware.DisplayName(ctx),
	})
	if err != nil {
		respondError(c, "agent failed to respond", err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Reply:          out.Reply,
		ConversationID: out.ConversationID,
		Model:          out.Model,
		Rounds:         out.Rounds,
		Escalated:      out.Escalated,
		PendingActions: nonNil(out.PendingActions),
		Staged:         nonNil(out.Staged),
	})
}

func (h *AgentHandler) Conversation(c *gin.Context) {
	conversationID, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	conv, err := h.conversations.GetByID(ctx, conversationID)
	if err != nil {
		respondError(c, "failed to load conversation", err)
		return
	}
	open, err := h.approvals.ListOpen(ctx, &conv.ID)
	if err != nil {
		respondError(c, "failed to list pending actions", err)
		return
	}

	summaries := make([]approval.Summary, 0, len(open))
	for _, a := range open {
		summaries = append(summaries, approval.Summarise(a))
	}
	turns := conv.Turns
	if turns == nil {
		turns = []model.Turn{}
	}
	c.JSON(http.StatusOK, dto.ConversationResponse{
		ID:             conv.ID,
		Channel:        conv.Channel,
		Turns:          turns,
		PendingActions: summaries,
		UpdatedAt:      conv.UpdatedAt,
	})
}

// Actions lists pending actions. status=open (the default) returns every
// action still awaiting a decision; any other status filters recent history,
// and status=all returns recent history unfiltered.
func (h *AgentHandler) Actions(c *gin.Context) {
	ctx := c.Request.Context()
	limit, ok := queryInt(c, "limit", 50)
	if !ok {
		return
	}

	var (
		actions []model.PendingAction
		err     error
	)
	switch raw := c.DefaultQuery("status", "open"); raw {
	case "open":
		actions, err = h.approvals.ListOpen(ctx, nil)
	case "all":
		actions, err = h.approvals.ListRecent(ctx, nil, limit)
	default:
		status := model.ActionStatus(raw)
		if !validActionStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		actions, err = h.approvals.ListRecent(ctx, &status, limit)
	}
	if err != nil {
		respondError(c, "failed to list actions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"actions": dto.ToActionResponses(actions)})
}

func (h *AgentHandler) Confirm(c *gin.Context) {
	h.decide(c, true)
}

func (h *AgentHandler) Reject(c *gin.Context) {
	h.decide(c, false)
}

func (h *AgentHandler) decide(c *gin.Context, confirm bool) {
	actionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		PendingActionID: &actionID,
		Component:       "ops.http.approvals",
	})
	decidedBy := middleware.DisplayName(ctx)

	var (
		action *model.PendingAction
		err    error
	)
	if confirm {
		action, err = h.approvals.Confirm(ctx, actionID, decidedBy)
	} else {
		action, err = h.approvals.Reject(ctx, actionID, decidedBy)
	}
	if err != nil {
		switch {
		case errors.Is(err, approval.ErrActionExpired):
			c.JSON(http.StatusGone, gin.H{"error": "action expired before it was confirmed"})
		case errors.Is(err, approval.ErrActionNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "action has already been decided"})
		default:
			respondError(c, "failed to record decision", err)
		}
		return
	}

	slog.InfoContext(ctx, "action decided via api",
		"ref", action.Ref,
		"status", action.Status,
		"decided_by", decidedBy,
	)
	c.JSON(http.StatusOK, dto.ToActionResponse(action))
}

// Stream follows pending action status changes as server-sent events.
// Clients resume with Last-Event-ID or ?last_id.
func (h *AgentHandler) Stream(c *gin.Context) {
	if h.status == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "status stream not configured"})
		return
	}
	ctx := c.Request.Context()

	lastID := c.GetHeader("Last-Event-ID")
	if lastID == "" {
		lastID = c.DefaultQuery("last_id", "$")
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}
	setSSEHeaders(c.Writer)
	c.Status(http.StatusOK)

	sseWrite(c.Writer, "ping", "", "ready")
	flusher.Flush()

	for {
		if ctx.Err() != nil {
			return
		}

		events, err := h.status.Read(ctx, lastID, streamBlock)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.WarnContext(ctx, "status stream read failed", "error", err)
			sseWrite(c.Writer, "error", "", map[string]string{"error": "status stream unavailable"})
			flusher.Flush()
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		if len(events) == 0 {
			sseWrite(c.Writer, "ping", "", time.Now().UTC().Format(time.RFC3339Nano))
			flusher.Flush()
			continue
		}
		for _, event := range events {
			lastID = event.StreamID
			sseWrite(c.Writer, "status", event.StreamID, event)
		}
		flusher.Flush()
	}
}

func validActionStatus(s model.ActionStatus) bool {
	switch s {
	case model.ActionStatusPending, model.ActionStatusConfirmed, model.ActionStatusExecuting,
		model.ActionStatusSucceeded, model.ActionStatusFailed, model.ActionStatusRejected,
		model.ActionStatusExpired:
		return true
	}
	return false
}

func nonNil(s []approval.Summary) []approval.Summary {
	if s == nil {
		return []approval.Summary{}
	}
	return s
}
