package agent

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// llmRetryDelay is the pause before repeating a failed model call.
var llmRetryDelay = 2 * time.Second

const (
	lockStripes    = 64
	forcedFinalMsg = "You have used all available tool rounds. Answer the user now with what you have found. Say plainly if something is still unknown."
	emptyReply     = "Sorry, I couldn't put an answer together. Could you rephrase?"
)

var ErrNoConversation = errors.New("conversation id or channel and external id required")

type Config struct {
	MaxRounds       int
	EscalationRound int
	HistoryTurns    int
	ToolConcurrency int
	ToolTimeout     time.Duration
	MaxStoredTurns  int
	OrgName         string

	CheapMaxTokens     int
	ExpensiveMaxTokens int
}

func ConfigFrom(agent config.AgentConfig, org config.OrgConfig) Config {
	return Config{
		MaxRounds:          agent.MaxRounds,
		EscalationRound:    agent.EscalationRound,
		HistoryTurns:       agent.HistoryTurns,
		ToolConcurrency:    agent.ToolConcurrency,
		ToolTimeout:        agent.ToolTimeout,
		MaxStoredTurns:     40,
		OrgName:            org.Name,
		CheapMaxTokens:     agent.Cheap.MaxTokens,
		ExpensiveMaxTokens: agent.Expensive.MaxTokens,
	}
}

type Input struct {
	ConversationID *int64
	Channel        model.Channel
	ExternalID     string
	Text           string
	UserName       string
}

type Output struct {
	Reply          string             `json:"reply"`
	ConversationID int64              `json:"conversation_id"`
	Model          string             `json:"model,omitempty"`
	Rounds         int                `json:"rounds"`
	Escalated      bool               `json:"escalated"`
	PendingActions []approval.Summary `json:"pending_actions"`
	// Staged are the actions this message created, a subset of PendingActions.
	Staged []approval.Summary `json:"staged,omitempty"`
}

type Agent interface {
	ProcessMessage(ctx context.Context, in Input) (*Output, error)
}

// Clients holds one client per tier. Expensive may be nil, in which case
// every message uses the cheap tier.
type Clients struct {
	Cheap     llm.AgentClient
	Expensive llm.AgentClient
}

type agent struct {
	clients       Clients
	tools         *Registry
	conversations store.ConversationStore
	approvals     approval.Service
	cfg           Config
	loc           *time.Location
	now           func() time.Time
	locks         [lockStripes]sync.Mutex
}

func New(
	clients Clients,
	tools *Registry,
	conversations store.ConversationStore,
	approvals approval.Service,
	cfg Config,
	loc *time.Location,
	now func() time.Time,
) Agent {
	if cfg.MaxRounds < 1 {
		cfg.MaxRounds = 10
	}
	if cfg.EscalationRound < 1 {
		cfg.EscalationRound = 4
	}
	if cfg.HistoryTurns < 0 {
		cfg.HistoryTurns = 0
	}
	if cfg.ToolConcurrency < 1 {
		cfg.ToolConcurrency = 4
	}
	if cfg.ToolTimeout <= 0 {
		cfg.ToolTimeout = 30 * time.Second
	}
	if cfg.MaxStoredTurns < 2 {
		cfg.MaxStoredTurns = 40
	}
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &agent{
		clients:       clients,
		tools:         tools,
		conversations: conversations,
		approvals:     approvals,
		cfg:           cfg,
		loc:           loc,
		now:           now,
	}
}

// ProcessMessage answers one user message. Messages in the same
// conversation are processed one at a time.
func (a *agent) ProcessMessage(ctx context.Context, in Input) (*Output, error) {
	start := a.now()
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, errors.New("message text is required")
	}

	conv, err := a.loadConversation(ctx, in)
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		ConversationID: &conv.ID,
		Channel:        logger.Ptr(string(conv.Channel)),
		ChatID:         logger.Ptr(conv.ExternalID),
		Component:      "ops.agent.loop",
	})

	mu := a.lockFor(conv.ID)
	mu.Lock()
	defer mu.Unlock()

	// Reload under the lock so turns persisted by a concurrent message are kept.
	if conv, err = a.conversations.GetByID(ctx, conv.ID); err != nil {
		return nil, fmt.Errorf("reloading conversation: %w", err)
	}

	open, err := a.approvals.ListOpen(ctx, &conv.ID)
	if err != nil {
		return nil, fmt.Errorf("listing open actions: %w", err)
	}

	out := &Output{ConversationID: conv.ID}

	if reply, handled := a.handleDecision(ctx, text, in.UserName, conv, open); handled {
		out.Reply = reply
		a.persist(ctx, conv, in.UserName, text, reply)
		return a.finish(ctx, out, open, false)
	}

	info := callInfo{
		ConversationID: conv.ID,
		UserName:       in.UserName,
		Channel:        conv.Channel,
		ExternalID:     conv.ExternalID,
	}

	messages := make([]llm.Message, 0, a.cfg.HistoryTurns+2)
	messages = append(messages, llm.Message{
		Role:    llm.RoleSystem,
		Content: systemPrompt(a.cfg.OrgName, a.now(), a.loc, open),
	})
	messages = append(messages, historyMessages(conv.Turns, a.cfg.HistoryTurns)...)
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Name:    llm.SanitizeName(in.UserName),
		Content: text,
	})

	tier := SelectTier(text)
	client, tier := a.clientFor(tier)
	slog.InfoContext(ctx, "agent processing message",
		"tier", string(tier),
		"model", client.Model(),
		"history_turns", len(messages)-2,
		"open_actions", len(open))

	reply, err := a.run(ctx, info, messages, client, tier, out)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reply) == "" {
		reply = emptyReply
	}
	out.Reply = reply

	a.persist(ctx, conv, in.UserName, text, reply)

	slog.InfoContext(ctx, "agent message processed",
		"rounds", out.Rounds,
		"model", out.Model,
		"escalated", out.Escalated,
		"duration_ms", a.now().Sub(start).Milliseconds())

	return a.finish(ctx, out, open, true)
}

// run executes the bounded tool loop and returns the final reply.
func (a *agent) run(ctx context.Context, info callInfo, messages []llm.Message, client llm.AgentClient, tier Tier, out *Output) (string, error) {
	defs := a.tools.Definitions()

	for round := 1; round <= a.cfg.MaxRounds; round++ {
		if round > a.cfg.EscalationRound && tier == TierCheap && a.clients.Expensive != nil {
			client, tier = a.clients.Expensive, TierExpensive
			out.Escalated = true
			slog.InfoContext(ctx, "agent escalating to expensive tier",
				"round", round,
				"model", client.Model())
		}

		out.Rounds = round
		out.Model = client.Model()

		span := logger.StartSpan(ctx, "agent.round")
		span.SetAttributes(
			attribute.Int("agent.round", round),
			attribute.String("agent.tier", string(tier)),
			attribute.String("agent.model", client.Model()),
		)
		roundCtx := span.Context()

		resp, err := a.chat(roundCtx, client, llm.AgentRequest{
			Messages:  messages,
			Tools:     defs,
			MaxTokens: a.maxTokens(tier),
		})
		if err != nil {
			span.RecordError(err)
			span.End()
			return "", fmt.Errorf("agent round %d: %w", round, err)
		}

		slog.DebugContext(roundCtx, "agent round completed",
			"round", round,
			"prompt_tokens", resp.PromptTokens,
			"completion_tokens", resp.CompletionTokens,
			"tool_calls", len(resp.ToolCalls),
			"finish_reason", resp.FinishReason)

		if len(resp.ToolCalls) == 0 {
			span.End()
			return resp.Content, nil
		}

		messages = append(messages, llm.Message{
			Role:      llm.RoleAssistant,
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		results := a.runTools(roundCtx, info, resp.ToolCalls)
		for i, call := range resp.ToolCalls {
			messages = append(messages, llm.Message{
				Role:       llm.RoleTool,
				Content:    results[i],
				ToolCallID: call.ID,
			})
		}
		span.End()
	}

	slog.InfoContext(ctx, "agent hit round limit, forcing final answer",
		"rounds", a.cfg.MaxRounds)
	return a.forceFinal(ctx, client, tier, messages)
}

// forceFinal asks for an answer with no tools on offer.
func (a *agent) forceFinal(ctx context.Context, client llm.AgentClient, tier Tier, messages []llm.Message) (string, error) {
	messages = append(messages, llm.Message{
		Role:    llm.RoleUser,
		Content: forcedFinalMsg,
	})
	resp, err := a.chat(ctx, client, llm.AgentRequest{
		Messages:  messages,
		MaxTokens: a.maxTokens(tier),
	})
	if err != nil {
		return "", fmt.Errorf("forcing final answer: %w", err)
	}
	return resp.Content, nil
}

// chat calls the model, retrying once on a transient provider error.
func (a *agent) chat(ctx context.Context, client llm.AgentClient, req llm.AgentRequest) (*llm.AgentResponse, error) {
	resp, err := client.ChatWithTools(ctx, req)
	if err == nil || !llm.IsRetryable(ctx, err) {
		return resp, err
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(llmRetryDelay):
	}
	return client.ChatWithTools(ctx, req)
}

// runTools executes one round of tool calls. Reads run concurrently, writes
// run one at a time in the order the model issued them. Results line up with
// calls.
func (a *agent) runTools(ctx context.Context, info callInfo, calls []llm.ToolCall) []string {
	results := make([]string, len(calls))

	var writes []int
	var g errgroup.Group
	g.SetLimit(a.cfg.ToolConcurrency)
	for i, call := range calls {
		if a.tools.IsWrite(call.Name) {
			writes = append(writes, i)
			continue
		}
		g.Go(func() error {
			results[i] = a.runTool(ctx, info, call)
			return nil
		})
	}
	_ = g.Wait()

	for _, i := range writes {
		results[i] = a.runTool(ctx, info, calls[i])
	}
	return results
}

func (a *agent) runTool(ctx context.Context, info callInfo, call llm.ToolCall) string {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.ToolTimeout)
	defer cancel()

	info.CallID = call.ID
	ctx = withCallInfo(ctx, info)

	start := time.Now()
	result := a.tools.Execute(ctx, call)
	slog.DebugContext(ctx, "tool executed",
		"tool", call.Name,
		"args", logger.Truncate(call.Arguments, 200),
		"result_bytes", len(result),
		"duration_ms", time.Since(start).Milliseconds())
	return result
}

// handleDecision confirms or rejects an open action when the message is a
// bare yes or no. It reports false when the model should handle the message.
func (a *agent) handleDecision(ctx context.Context, text, userName string, conv *model.Conversation, open []model.PendingAction) (string, bool) {
	decision, ref := ParseDecision(text)
	if decision == DecisionNone {
		return "", false
	}
	action := pickAction(open, ref)
	if action == nil {
		return "", false
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{PendingActionID: &action.ID})
	by := decidedBy(userName, conv)

	var err error
	switch decision {
	case DecisionConfirm:
		_, err = a.approvals.Confirm(ctx, action.ID, by)
	case DecisionReject:
		_, err = a.approvals.Reject(ctx, action.ID, by)
	}

	switch {
	case err == nil && decision == DecisionConfirm:
		slog.InfoContext(ctx, "action confirmed in chat")
		return fmt.Sprintf("Confirmed [%s]: %s. I'll let you know once it's done.", action.Ref, action.Description), true
	case err == nil:
		slog.InfoContext(ctx, "action rejected in chat")
		return fmt.Sprintf("Cancelled [%s]: %s. Nothing was done.", action.Ref, action.Description), true
	case errors.Is(err, approval.ErrActionExpired):
		return fmt.Sprintf("[%s] expired before it was confirmed, so nothing was done. Ask me again if you still want it.", action.Ref), true
	case errors.Is(err, approval.ErrActionNotPending):
		return fmt.Sprintf("[%s] has already been decided.", action.Ref), true
	default:
		slog.ErrorContext(ctx, "deciding action failed", "error", err)
		return fmt.Sprintf("I couldn't record your answer for [%s]. Please try again in a moment.", action.Ref), true
	}
}

func (a *agent) loadConversation(ctx context.Context, in Input) (*model.Conversation, error) {
	if in.ConversationID != nil {
		conv, err := a.conversations.GetByID(ctx, *in.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("loading conversation %d: %w", *in.ConversationID, err)
		}
		return conv, nil
	}
	if in.Channel == "" {
		return nil, ErrNoConversation
	}
	externalID := in.ExternalID
	if externalID == "" {
		if in.Channel == model.ChannelTelegram {
			return nil, ErrNoConversation
		}
		externalID = uuid.NewString()
	}
	conv, err := a.conversations.GetOrCreate(ctx, in.Channel, externalID)
	if err != nil {
		return nil, fmt.Errorf("loading conversation %s/%s: %w", in.Channel, externalID, err)
	}
	return conv, nil
}

// persist appends the exchange to the transcript. A failure is logged; the
// reply has already been produced.
func (a *agent) persist(ctx context.Context, conv *model.Conversation, userName, text, reply string) {
	now := a.now()
	turns := append(append([]model.Turn(nil), conv.Turns...),
		model.Turn{Role: llm.RoleUser, Name: userName, Content: text, At: now},
		model.Turn{Role: llm.RoleAssistant, Content: reply, At: now},
	)
	if len(turns) > a.cfg.MaxStoredTurns {
		turns = turns[len(turns)-a.cfg.MaxStoredTurns:]
	}
	if err := a.conversations.SaveTurns(ctx, conv.ID, turns); err != nil {
		slog.ErrorContext(ctx, "saving conversation turns failed", "error", err)
		return
	}
	conv.Turns = turns
}

// finish attaches the open actions. With markStaged, actions that were not
// open before the message are also reported as staged.
func (a *agent) finish(ctx context.Context, out *Output, before []model.PendingAction, markStaged bool) (*Output, error) {
	open, err := a.approvals.ListOpen(ctx, &out.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("listing open actions: %w", err)
	}

	seen := make(map[int64]bool, len(before))
	for _, b := range before {
		seen[b.ID] = true
	}
	out.PendingActions = make([]approval.Summary, 0, len(open))
	for _, o := range open {
		s := approval.Summarise(o)
		out.PendingActions = append(out.PendingActions, s)
		if markStaged && !seen[o.ID] {
			out.Staged = append(out.Staged, s)
		}
	}
	return out, nil
}

func (a *agent) clientFor(tier Tier) (llm.AgentClient, Tier) {
	if tier == TierExpensive && a.clients.Expensive != nil {
		return a.clients.Expensive, TierExpensive
	}
	return a.clients.Cheap, TierCheap
}

func (a *agent) maxTokens(tier Tier) int {
	if tier == TierExpensive {
		return a.cfg.ExpensiveMaxTokens
	}
	return a.cfg.CheapMaxTokens
}

func (a *agent) lockFor(conversationID int64) *sync.Mutex {
	h := fnv.New32a()
	fmt.Fprintf(h, "%d", conversationID)
	return &a.locks[h.Sum32()%lockStripes]
}

func historyMessages(turns []model.Turn, limit int) []llm.Message {
	if limit == 0 {
		return nil
	}
	if len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		switch t.Role {
		case llm.RoleUser:
			out = append(out, llm.Message{Role: llm.RoleUser, Name: llm.SanitizeName(t.Name), Content: t.Content})
		case llm.RoleAssistant:
			out = append(out, llm.Message{Role: llm.RoleAssistant, Content: t.Content})
		}
	}
	return out
}

func decidedBy(userName string, conv *model.Conversation) string {
	if userName != "" {
		return userName
	}
	return fmt.Sprintf("%s:%s", conv.Channel, conv.ExternalID)
}
