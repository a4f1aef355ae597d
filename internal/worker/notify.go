package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

// ErrChannelUnsupported is returned for channels with no push delivery.
var ErrChannelUnsupported = errors.New("channel cannot receive notifications")

// TelegramNotifier sends notifications through the bot. Web and CLI users
// see outcomes through the status stream instead.
type TelegramNotifier struct {
	client        telegram.Client
	defaultChatID string
}

func NewTelegramNotifier(client telegram.Client, defaultChatID string) *TelegramNotifier {
	return &TelegramNotifier{client: client, defaultChatID: defaultChatID}
}

func (n *TelegramNotifier) Notify(ctx context.Context, channel model.Channel, chatID, text string) error {
	if n == nil || n.client == nil {
		return ErrChannelUnsupported
	}
	if channel != model.ChannelTelegram {
		if n.defaultChatID == "" {
			return fmt.Errorf("%w: %s", ErrChannelUnsupported, channel)
		}
		chatID = n.defaultChatID
	}
	if chatID == "" {
		return fmt.Errorf("%w: no chat id", ErrChannelUnsupported)
	}
	if err := n.client.SendMessage(ctx, chatID, text, nil); err != nil {
		return fmt.Errorf("sending telegram message: %w", err)
	}
	return nil
}

// OutcomeNotifier tells the conversation an action came from how it ended.
type OutcomeNotifier struct {
	conversations store.ConversationStore
	notifier      Notifier
}

func NewOutcomeNotifier(conversations store.ConversationStore, notifier Notifier) *OutcomeNotifier {
	return &OutcomeNotifier{conversations: conversations, notifier: notifier}
}

func (o *OutcomeNotifier) ActionFinished(ctx context.Context, action *model.PendingAction) {
	if o == nil || action == nil || action.ConversationID == nil {
		return
	}
	conv, err := o.conversations.GetByID(ctx, *action.ConversationID)
	if err != nil {
		slog.WarnContext(ctx, "loading conversation for outcome failed", "error", err)
		return
	}
	if conv.Channel != model.ChannelTelegram {
		return
	}

	if err := o.notifier.Notify(ctx, conv.Channel, conv.ExternalID, OutcomeMessage(action)); err != nil {
		slog.WarnContext(ctx, "notifying action outcome failed", "error", err)
	}
}

// OutcomeMessage is the chat line for a finished action.
func OutcomeMessage(a *model.PendingAction) string {
	switch a.Status {
	case model.ActionStatusSucceeded:
		return fmt.Sprintf("✅ Done [%s]: %s", a.Ref, a.Description)
	case model.ActionStatusExpired:
		return fmt.Sprintf("⌛ Expired [%s]: %s. Nothing was done.", a.Ref, a.Description)
	default:
		reason := "unknown error"
		if a.LastError != nil && *a.LastError != "" {
			reason = *a.LastError
		}
		return fmt.Sprintf("❌ Failed [%s]: %s. Reason: %s", a.Ref, a.Description, reason)
	}
}
