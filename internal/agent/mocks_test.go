package agent_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// scriptedLLM returns responses in order and records every request. Once the
// script runs out, respondFn (or a plain "done" reply) answers.
type scriptedLLM struct {
	mu        sync.Mutex
	model     string
	script    []scriptStep
	requests  []llm.AgentRequest
	respondFn func(req llm.AgentRequest) (*llm.AgentResponse, error)
}

type scriptStep struct {
	resp *llm.AgentResponse
	err  error
}

func newScriptedLLM(model string, steps ...scriptStep) *scriptedLLM {
	return &scriptedLLM{model: model, script: steps}
}

func reply(text string) scriptStep {
	return scriptStep{resp: &llm.AgentResponse{Content: text, FinishReason: "stop"}}
}

func calls(tc ...llm.ToolCall) scriptStep {
	return scriptStep{resp: &llm.AgentResponse{ToolCalls: tc, FinishReason: "tool_calls"}}
}

func failure(err error) scriptStep {
	return scriptStep{err: err}
}

func call(callID, name, args string) llm.ToolCall {
	return llm.ToolCall{ID: callID, Name: name, Arguments: args}
}

func (s *scriptedLLM) ChatWithTools(_ context.Context, req llm.AgentRequest) (*llm.AgentResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if len(s.script) > 0 {
		step := s.script[0]
		s.script = s.script[1:]
		return step.resp, step.err
	}
	if s.respondFn != nil {
		return s.respondFn(req)
	}
	return &llm.AgentResponse{Content: "done", FinishReason: "stop"}, nil
}

func (s *scriptedLLM) Model() string { return s.model }

func (s *scriptedLLM) calls() []llm.AgentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]llm.AgentRequest(nil), s.requests...)
}

// toolMessages returns the tool result messages of a request in order.
func toolMessages(req llm.AgentRequest) []llm.Message {
	var out []llm.Message
	for _, m := range req.Messages {
		if m.Role == llm.RoleTool {
			out = append(out, m)
		}
	}
	return out
}

type memConversations struct {
	mu      sync.Mutex
	rows    map[int64]*model.Conversation
	saveErr error
}

func newMemConversations() *memConversations {
	return &memConversations{rows: map[int64]*model.Conversation{}}
}

func (m *memConversations) GetByID(_ context.Context, convID int64) (*model.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[convID]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *c
	cp.Turns = append([]model.Turn(nil), c.Turns...)
	return &cp, nil
}

func (m *memConversations) GetOrCreate(ctx context.Context, channel model.Channel, externalID string) (*model.Conversation, error) {
	m.mu.Lock()
	for _, c := range m.rows {
		if c.Channel == channel && c.ExternalID == externalID {
			m.mu.Unlock()
			return m.GetByID(ctx, c.ID)
		}
	}
	c := &model.Conversation{ID: id.New(), Channel: channel, ExternalID: externalID}
	m.rows[c.ID] = c
	m.mu.Unlock()
	return m.GetByID(ctx, c.ID)
}

func (m *memConversations) SaveTurns(_ context.Context, convID int64, turns []model.Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	c, ok := m.rows[convID]
	if !ok {
		return store.ErrNotFound
	}
	c.Turns = append([]model.Turn(nil), turns...)
	return nil
}

func (m *memConversations) turns(convID int64) []model.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Turn(nil), m.rows[convID].Turns...)
}

// mockApprovals keeps staged actions in memory and validates payloads the
// way the real service does.
type mockApprovals struct {
	mu        sync.Mutex
	actions   []model.PendingAction
	staged    []approval.StageInput
	confirmed []int64
	rejected  []int64
	confirmFn func(actionID int64) error
}

func (m *mockApprovals) add(a model.PendingAction) model.PendingAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == 0 {
		a.ID = id.New()
	}
	a.Ref = id.Short(a.ID)
	if a.Status == "" {
		a.Status = model.ActionStatusPending
	}
	m.actions = append(m.actions, a)
	return a
}

func (m *mockApprovals) Stage(_ context.Context, in approval.StageInput) (*model.PendingAction, error) {
	p, ok := in.Payload.(approval.Payload)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected payload %T", approval.ErrInvalidPayload, in.Payload)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	for _, a := range m.actions {
		if a.IdempotencyKey == in.Key {
			m.mu.Unlock()
			return &a, nil
		}
	}
	m.staged = append(m.staged, in)
	m.mu.Unlock()

	a := m.add(model.PendingAction{
		IdempotencyKey: in.Key,
		ConversationID: in.ConversationID,
		Type:           in.Type,
		Description:    p.Describe(time.UTC),
		RequestedBy:    in.RequestedBy,
	})
	return &a, nil
}

func (m *mockApprovals) decide(actionID int64, status model.ActionStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.actions {
		if m.actions[i].ID == actionID {
			if m.actions[i].Status != model.ActionStatusPending {
				return approval.ErrActionNotPending
			}
			m.actions[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *mockApprovals) Confirm(_ context.Context, actionID int64, _ string) (*model.PendingAction, error) {
	if m.confirmFn != nil {
		if err := m.confirmFn(actionID); err != nil {
			return nil, err
		}
	}
	if err := m.decide(actionID, model.ActionStatusConfirmed); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.confirmed = append(m.confirmed, actionID)
	m.mu.Unlock()
	return &model.PendingAction{ID: actionID, Status: model.ActionStatusConfirmed}, nil
}

func (m *mockApprovals) Reject(_ context.Context, actionID int64, _ string) (*model.PendingAction, error) {
	if err := m.decide(actionID, model.ActionStatusRejected); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.rejected = append(m.rejected, actionID)
	m.mu.Unlock()
	return &model.PendingAction{ID: actionID, Status: model.ActionStatusRejected}, nil
}

func (m *mockApprovals) Get(_ context.Context, actionID int64) (*model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.actions {
		if a.ID == actionID {
			return &a, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockApprovals) ListOpen(_ context.Context, conversationID *int64) ([]model.PendingAction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.PendingAction
	for _, a := range m.actions {
		if a.Status != model.ActionStatusPending {
			continue
		}
		if conversationID != nil && (a.ConversationID == nil || *a.ConversationID != *conversationID) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *mockApprovals) ListRecent(context.Context, *model.ActionStatus, int) ([]model.PendingAction, error) {
	return nil, errors.New("not implemented")
}

func (m *mockApprovals) Counts(context.Context) (map[model.ActionStatus]int64, error) {
	return nil, errors.New("not implemented")
}

func (m *mockApprovals) Execute(context.Context, int64) (approval.ExecuteResult, error) {
	return approval.ExecuteResult{}, errors.New("not implemented")
}

func (m *mockApprovals) ExpireOverdue(context.Context) ([]model.PendingAction, error) {
	return nil, nil
}

func (m *mockApprovals) FailStuck(context.Context) ([]model.PendingAction, error) {
	return nil, nil
}

func (m *mockApprovals) RequeueStale(context.Context) (int, error) {
	return 0, nil
}

func (m *mockApprovals) stagedInputs() []approval.StageInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]approval.StageInput(nil), m.staged...)
}

// timeoutErr is a transient network error.
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func ptr[T any](v T) *T { return &v }
