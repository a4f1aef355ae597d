package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/gmail"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/notion"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/service"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// Deps are the data sources behind the tools. Gmail and Notion may be nil,
// which leaves their tools unregistered.
type Deps struct {
	Contacts  service.ContactService
	Projects  service.ProjectService
	Finance   service.FinanceService
	Calendar  service.CalendarService
	Knowledge service.KnowledgeService
	Overview  service.OverviewService
	Briefing  service.BriefingService
	Reminders store.ReminderStore
	Approvals approval.Service
	Gmail     gmail.Client
	Notion    notion.Client
	Location  *time.Location
	Now       func() time.Time
}

type toolset struct {
	Deps
}

// NewTools builds the full tool registry.
func NewTools(d Deps) *Registry {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	t := &toolset{Deps: d}
	r := NewRegistry()

	t.registerContacts(r)
	t.registerProjects(r)
	t.registerFinance(r)
	t.registerCalendar(r)
	if d.Gmail != nil {
		t.registerEmail(r)
	}
	t.registerKnowledge(r)
	if d.Notion != nil {
		t.registerNotion(r)
	}
	t.registerReminders(r)
	t.registerMeta(r)
	return r
}

type callInfoKey struct{}

// callInfo identifies the conversation and tool call a handler runs for.
type callInfo struct {
	ConversationID int64
	CallID         string
	UserName       string
	Channel        model.Channel
	ExternalID     string
}

func withCallInfo(ctx context.Context, info callInfo) context.Context {
	return context.WithValue(ctx, callInfoKey{}, info)
}

func callInfoFrom(ctx context.Context) callInfo {
	info, _ := ctx.Value(callInfoKey{}).(callInfo)
	return info
}

// stagingKeyNamespace scopes idempotency keys derived from tool calls.
var stagingKeyNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("ops-agent/pending-actions"))

// stagingKey is stable for a given conversation and tool call, so a retried
// round cannot stage the same action twice.
func stagingKey(info callInfo, actionType model.ActionType) uuid.UUID {
	if info.CallID == "" {
		return uuid.New()
	}
	name := fmt.Sprintf("%d/%s/%s", info.ConversationID, info.CallID, actionType)
	return uuid.NewSHA1(stagingKeyNamespace, []byte(name))
}

type stagedResult struct {
	Status      string    `json:"status"`
	ActionID    int64     `json:"action_id"`
	Ref         string    `json:"ref"`
	Description string    `json:"description"`
	ExpiresAt   time.Time `json:"expires_at"`
	Instruction string    `json:"instruction"`
}

func (t *toolset) stage(ctx context.Context, actionType model.ActionType, payload approval.Payload) (any, error) {
	info := callInfoFrom(ctx)
	in := approval.StageInput{
		Key:         stagingKey(info, actionType),
		Type:        actionType,
		Payload:     payload,
		RequestedBy: info.UserName,
	}
	if info.ConversationID != 0 {
		in.ConversationID = &info.ConversationID
	}

	action, err := t.Approvals.Stage(ctx, in)
	if err != nil {
		return nil, err
	}
	return stagedResult{
		Status:      "awaiting_confirmation",
		ActionID:    action.ID,
		Ref:         action.Ref,
		Description: action.Description,
		ExpiresAt:   action.ExpiresAt,
		Instruction: fmt.Sprintf("Nothing has happened yet. Show the user the details and ask them to reply yes or no (or 'yes %s').", action.Ref),
	}, nil
}

// parseWhen accepts RFC 3339, local "2006-01-02T15:04", "2006-01-02 15:04"
// and bare dates (midnight local).
func parseWhen(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("time is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q; use YYYY-MM-DDTHH:MM", s)
}

func parseDate(s string, now time.Time, loc *time.Location) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("cannot parse date %q; use YYYY-MM-DD", s)
	}
	return t, nil
}

// ID accepts a JSON number or a numeric string; models emit both.
type ID int64

func (v *ID) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		*v = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %s", raw)
	}
	*v = ID(n)
	return nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
