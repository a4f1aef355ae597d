package handler_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/queue"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
)

type mockAgent struct {
	mu     sync.Mutex
	inputs []agent.Input
	fn     func(ctx context.Context, in agent.Input) (*agent.Output, error)
}

func (m *mockAgent) ProcessMessage(ctx context.Context, in agent.Input) (*agent.Output, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, in)
	m.mu.Unlock()
	if m.fn != nil {
		return m.fn(ctx, in)
	}
	return &agent.Output{Reply: "ok", ConversationID: 1}, nil
}

// mockApprovals implements only what the handlers call.
type mockApprovals struct {
	approval.Service
	confirmFn    func(ctx context.Context, id int64, by string) (*model.PendingAction, error)
	rejectFn     func(ctx context.Context, id int64, by string) (*model.PendingAction, error)
	listOpenFn   func(ctx context.Context, conversationID *int64) ([]model.PendingAction, error)
	listRecentFn func(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error)
	countsFn     func(ctx context.Context) (map[model.ActionStatus]int64, error)
	decidedBy    []string
}

func (m *mockApprovals) Confirm(ctx context.Context, id int64, by string) (*model.PendingAction, error) {
	m.decidedBy = append(m.decidedBy, by)
	if m.confirmFn != nil {
		return m.confirmFn(ctx, id, by)
	}
	return &model.PendingAction{ID: id, Ref: "RT", Status: model.ActionStatusConfirmed}, nil
}

func (m *mockApprovals) Reject(ctx context.Context, id int64, by string) (*model.PendingAction, error) {
	m.decidedBy = append(m.decidedBy, by)
	if m.rejectFn != nil {
		return m.rejectFn(ctx, id, by)
	}
	return &model.PendingAction{ID: id, Ref: "RT", Status: model.ActionStatusRejected}, nil
}

func (m *mockApprovals) ListOpen(ctx context.Context, conversationID *int64) ([]model.PendingAction, error) {
	if m.listOpenFn != nil {
		return m.listOpenFn(ctx, conversationID)
	}
	return nil, nil
}

func (m *mockApprovals) ListRecent(ctx context.Context, status *model.ActionStatus, limit int) ([]model.PendingAction, error) {
	if m.listRecentFn != nil {
		return m.listRecentFn(ctx, status, limit)
	}
	return nil, nil
}

func (m *mockApprovals) Counts(ctx context.Context) (map[model.ActionStatus]int64, error) {
	if m.countsFn != nil {
		return m.countsFn(ctx)
	}
	return map[model.ActionStatus]int64{}, nil
}

type mockConversations struct {
	getFn func(ctx context.Context, id int64) (*model.Conversation, error)
}

func (m *mockConversations) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &model.Conversation{ID: id, Channel: model.ChannelWeb}, nil
}

type mockStatus struct {
	mu     sync.Mutex
	afters []string
	readFn func(ctx context.Context, after string) ([]queue.StatusEvent, error)
}

func (m *mockStatus) Read(ctx context.Context, after string, _ time.Duration) ([]queue.StatusEvent, error) {
	m.mu.Lock()
	m.afters = append(m.afters, after)
	m.mu.Unlock()
	return m.readFn(ctx, after)
}

type sentMessage struct {
	chatID   string
	text     string
	keyboard [][]telegram.Button
}

type mockTelegram struct {
	mu       sync.Mutex
	sent     []sentMessage
	answered []string
	fileData []byte
}

func (m *mockTelegram) SendMessage(_ context.Context, chatID, text string, keyboard [][]telegram.Button) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMessage{chatID: chatID, text: text, keyboard: keyboard})
	return nil
}

func (m *mockTelegram) AnswerCallback(_ context.Context, _ string, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, text)
	return nil
}

func (m *mockTelegram) DownloadFile(context.Context, string) (string, []byte, error) {
	return "voice.oga", m.fileData, nil
}

type mockTranscriber struct {
	text        string
	err         error
	contentType string
	audio       []byte
}

func (m *mockTranscriber) Transcribe(_ context.Context, audio io.Reader, _ string, contentType string) (string, error) {
	m.contentType = contentType
	m.audio, _ = io.ReadAll(audio)
	return m.text, m.err
}

type mockContacts struct {
	service.ContactService
	getFn       func(ctx context.Context, id int64) (*service.ContactDetail, error)
	healthFn    func(ctx context.Context, tag *string, status *model.RelationshipStatus, limit int) (*service.HealthReport, error)
	followupsFn func(ctx context.Context, staleDays, limit int) ([]service.FollowUp, error)
}

func (m *mockContacts) Get(ctx context.Context, id int64) (*service.ContactDetail, error) {
	return m.getFn(ctx, id)
}

func (m *mockContacts) Health(ctx context.Context, tag *string, status *model.RelationshipStatus, limit int) (*service.HealthReport, error) {
	return m.healthFn(ctx, tag, status, limit)
}

func (m *mockContacts) Followups(ctx context.Context, staleDays, limit int) ([]service.FollowUp, error) {
	if m.followupsFn != nil {
		return m.followupsFn(ctx, staleDays, limit)
	}
	return nil, nil
}

type mockFinance struct {
	service.FinanceService
	outstandingFn func(ctx context.Context, limit int) (*service.OutstandingInvoices, error)
	spendFn       func(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error)
}

func (m *mockFinance) OutstandingInvoices(ctx context.Context, limit int) (*service.OutstandingInvoices, error) {
	return m.outstandingFn(ctx, limit)
}

func (m *mockFinance) SpendByCategory(ctx context.Context, from, to time.Time, limit int) ([]model.CategoryTotal, error) {
	return m.spendFn(ctx, from, to, limit)
}

type mockKnowledge struct {
	service.KnowledgeService
	getFn func(ctx context.Context, slug string) (*service.NoteView, error)
}

func (m *mockKnowledge) Get(ctx context.Context, slug string) (*service.NoteView, error) {
	return m.getFn(ctx, slug)
}

type mockAuth struct {
	service.AuthService
	validateFn func(ctx context.Context, sessionID int64) (*model.User, error)
	callbackFn func(ctx context.Context, code string) (*model.User, *model.Session, error)
}

func (m *mockAuth) ValidateSession(ctx context.Context, sessionID int64) (*model.User, error) {
	return m.validateFn(ctx, sessionID)
}

func (m *mockAuth) HandleCallback(ctx context.Context, code string) (*model.User, *model.Session, error) {
	return m.callbackFn(ctx, code)
}

func (m *mockAuth) GetAuthorizationURL(state string) (string, error) {
	return "https://auth.example.com/authorize?state=" + state, nil
}
