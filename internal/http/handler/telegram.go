package handler

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/llm"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/logger"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/config"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/agent"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/approval"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/telegram"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

const (
	maxUpdateBytes   = 1 << 20
	telegramTimeout  = 3 * time.Minute
	telegramFailText = "Sorry, something went wrong handling that. Please try again in a minute."
)

// TelegramHandler receives bot webhook updates. Updates are acknowledged
// straight away and handled in the background, since an agent turn can take
// longer than Telegram waits for a webhook response.
type TelegramHandler struct {
	agent       agent.Agent
	approvals   approval.Service
	client      telegram.Client
	transcriber llm.Transcriber
	cfg         config.TelegramConfig
	dispatch    func(func())
}

// NewTelegramHandler wires the webhook. transcriber may be nil, in which
// case voice notes get a short refusal.
func NewTelegramHandler(
	a agent.Agent,
	approvals approval.Service,
	client telegram.Client,
	transcriber llm.Transcriber,
	cfg config.TelegramConfig,
) *TelegramHandler {
	return &TelegramHandler{
		agent:       a,
		approvals:   approvals,
		client:      client,
		transcriber: transcriber,
		cfg:         cfg,
		dispatch:    func(f func()) { go f() },
	}
}

func (h *TelegramHandler) Webhook(c *gin.Context) {
	ctx := c.Request.Context()

	secret := c.Param("secret")
	if h.cfg.WebhookSecret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(h.cfg.WebhookSecret)) != 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpdateBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	// Anything Telegram cannot usefully retry is acknowledged with 200.
	update, err := telegram.ParseUpdate(body)
	if err != nil {
		slog.WarnContext(ctx, "ignoring telegram update", "error", err)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	chatID := update.ChatID()
	if !h.cfg.ChatAllowed(chatID) {
		slog.WarnContext(ctx, "telegram chat not allowed", "chat_id", chatID, "update_id", update.UpdateID)
		c.JSON(http.StatusOK, gin.H{"ok": true})
		return
	}

	bg := logger.WithLogFields(context.WithoutCancel(ctx), logger.LogFields{
		Channel:   logger.Ptr(string(model.ChannelTelegram)),
		ChatID:    &chatID,
		Component: "ops.http.telegram",
	})
	h.dispatch(func() {
		ctx, cancel := context.WithTimeout(bg, telegramTimeout)
		defer cancel()

		if update.CallbackQuery != nil {
			h.handleCallback(ctx, update, chatID)
			return
		}
		h.handleMessage(ctx, update, chatID)
	})

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *TelegramHandler) handleMessage(ctx context.Context, update *telegram.Update, chatID string) {
	msg := update.Message

	text := strings.TrimSpace(msg.Text)
	var heard string
	if text == "" && msg.Voice != nil {
		transcript, err := h.transcribe(ctx, msg.Voice)
		if err != nil {
			slog.ErrorContext(ctx, "voice transcription failed", "error", err, "telegram_message_id", msg.MessageID)
			h.send(ctx, chatID, "I couldn't make out that voice note. Could you type it instead?", nil)
			return
		}
		text = strings.TrimSpace(transcript)
		heard = text
	}
	if text == "" {
		return
	}

	out, err := h.agent.ProcessMessage(ctx, agent.Input{
		Channel:    model.ChannelTelegram,
		ExternalID: chatID,
		Text:       text,
		UserName:   update.SenderName(),
	})
	if err != nil {
		slog.ErrorContext(ctx, "agent failed on telegram message", "error", err, "telegram_message_id", msg.MessageID)
		h.send(ctx, chatID, telegramFailText, nil)
		return
	}

	reply := out.Reply
	if heard != "" {
		reply = "🎙 \"" + logger.Truncate(heard, 200) + "\"\n\n" + reply
	}

	// One staged action gets its buttons on the reply itself; several get a
	// message each so every button pair is unambiguous.
	switch len(out.Staged) {
	case 0:
		h.send(ctx, chatID, reply, nil)
	case 1:
		h.send(ctx, chatID, reply, telegram.ConfirmKeyboard(out.Staged[0].ID))
	default:
		h.send(ctx, chatID, reply, nil)
		for _, s := range out.Staged {
			h.send(ctx, chatID, fmt.Sprintf("[%s] %s", s.Ref, s.Description), telegram.ConfirmKeyboard(s.ID))
		}
	}
}

func (h *TelegramHandler) transcribe(ctx context.Context, voice *telegram.Voice) (string, error) {
	if h.transcriber == nil {
		return "", errors.New("transcription not configured")
	}
	filename, data, err := h.client.DownloadFile(ctx, voice.FileID)
	if err != nil {
		return "", fmt.Errorf("downloading voice note: %w", err)
	}
	mimeType := voice.MimeType
	if mimeType == "" {
		mimeType = "audio/ogg"
	}
	return h.transcriber.Transcribe(ctx, bytes.NewReader(data), filename, mimeType)
}

func (h *TelegramHandler) handleCallback(ctx context.Context, update *telegram.Update, chatID string) {
	cb := update.CallbackQuery
	verb, actionID, err := telegram.ParseCallbackData(cb.Data)
	if err != nil {
		slog.WarnContext(ctx, "bad telegram callback", "error", err)
		h.answer(ctx, cb.ID, "Unknown button")
		return
	}
	ctx = logger.WithLogFields(ctx, logger.LogFields{PendingActionID: &actionID})

	decidedBy := update.SenderName()
	if decidedBy == "" {
		decidedBy = "telegram"
	}

	var action *model.PendingAction
	if verb == telegram.CallbackConfirm {
		action, err = h.approvals.Confirm(ctx, actionID, decidedBy)
	} else {
		action, err = h.approvals.Reject(ctx, actionID, decidedBy)
	}
	if err != nil {
		switch {
		case errors.Is(err, approval.ErrActionExpired):
			h.answer(ctx, cb.ID, "That action has expired")
		case errors.Is(err, approval.ErrActionNotPending):
			h.answer(ctx, cb.ID, "Already decided")
		default:
			slog.ErrorContext(ctx, "telegram decision failed", "error", err, "verb", verb)
			h.answer(ctx, cb.ID, "Something went wrong")
		}
		return
	}

	if verb == telegram.CallbackConfirm {
		h.answer(ctx, cb.ID, "Confirmed")
		h.send(ctx, chatID, fmt.Sprintf("Confirmed [%s]: %s. Running it now.", action.Ref, action.Description), nil)
		return
	}
	h.answer(ctx, cb.ID, "Cancelled")
	h.send(ctx, chatID, fmt.Sprintf("Cancelled [%s]: %s. Nothing was done.", action.Ref, action.Description), nil)
}

func (h *TelegramHandler) send(ctx context.Context, chatID, text string, keyboard [][]telegram.Button) {
	if err := h.client.SendMessage(ctx, chatID, text, keyboard); err != nil {
		slog.ErrorContext(ctx, "failed to send telegram message", "error", err)
	}
}

func (h *TelegramHandler) answer(ctx context.Context, callbackID, text string) {
	if err := h.client.AnswerCallback(ctx, callbackID, text); err != nil {
		slog.WarnContext(ctx, "failed to answer telegram callback", "error", err)
	}
}
