// Package telegram is a thin Bot API client plus webhook update parsing.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
)

const (
	defaultBaseURL = "https://api.telegram.org"
	maxMessageLen  = 4096
	maxVoiceBytes  = 20 << 20
)

type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
	Voice     *Voice `json:"voice"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Voice struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
	MimeType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// Button is one inline keyboard button.
type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type Client interface {
	SendMessage(ctx context.Context, chatID string, text string, keyboard [][]Button) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
	DownloadFile(ctx context.Context, fileID string) (name string, data []byte, err error)
}

type Option func(*client)

func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *client) { c.http = h }
}

type client struct {
	http    *http.Client
	baseURL string
	token   string
}

func New(token string, opts ...Option) Client {
	c := &client{
		http:    &http.Client{Timeout: 30 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendMessage sends plain text, splitting it when it exceeds Telegram's
// message limit. The keyboard is attached to the last chunk.
func (c *client) SendMessage(ctx context.Context, chatID string, text string, keyboard [][]Button) error {
	chunks := SplitMessage(text, maxMessageLen)
	for i, chunk := range chunks {
		payload := map[string]any{
			"chat_id": chatID,
			"text":    chunk,
		}
		if i == len(chunks)-1 && len(keyboard) > 0 {
			payload["reply_markup"] = map[string]any{"inline_keyboard": keyboard}
		}
		if err := c.call(ctx, "sendMessage", payload, nil); err != nil {
			return fmt.Errorf("sending message: %w", err)
		}
	}
	return nil
}

func (c *client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
		"text":              text,
	}, nil)
}

func (c *client) DownloadFile(ctx context.Context, fileID string) (string, []byte, error) {
	var file struct {
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
	}
	if err := c.call(ctx, "getFile", map[string]any{"file_id": fileID}, &file); err != nil {
		return "", nil, fmt.Errorf("resolving file: %w", err)
	}
	if file.FilePath == "" {
		return "", nil, fmt.Errorf("telegram returned no path for file %s", fileID)
	}
	if file.FileSize > maxVoiceBytes {
		return "", nil, fmt.Errorf("file %s is too large (%d bytes)", fileID, file.FileSize)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/file/bot%s/%s", c.baseURL, c.token, file.FilePath), nil)
	if err != nil {
		return "", nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("downloading file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, integration.NewAPIError("telegram", resp)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxVoiceBytes))
	if err != nil {
		return "", nil, fmt.Errorf("reading file: %w", err)
	}
	return path.Base(file.FilePath), data, nil
}

func (c *client) call(ctx context.Context, method string, payload any, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	endpoint := fmt.Sprintf("%s/bot%s/%s", c.baseURL, url.PathEscape(c.token), method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return integration.NewAPIError("telegram", resp)
	}

	var envelope struct {
		OK          bool            `json:"ok"`
		Description string          `json:"description"`
		Result      json.RawMessage `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding %s response: %w", method, err)
	}
	if !envelope.OK {
		return fmt.Errorf("telegram %s failed: %s", method, envelope.Description)
	}
	if result != nil {
		return json.Unmarshal(envelope.Result, result)
	}
	return nil
}
