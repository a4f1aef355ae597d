// Package gmail is a small client for the Gmail REST API.
package gmail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
)

const defaultBaseURL = "https://gmail.googleapis.com/gmail/v1/users/me"

const maxBodyLen = 20000

type MessageSummary struct {
	ID       string `json:"id"`
	ThreadID string `json:"thread_id"`
	Subject  string `json:"subject,omitempty"`
	From     string `json:"from,omitempty"`
	Date     string `json:"date,omitempty"`
	Snippet  string `json:"snippet"`
}

type Message struct {
	MessageSummary
	To     string   `json:"to,omitempty"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// Draft is an outgoing email.
type Draft struct {
	To      []string `json:"to"`
	Cc      []string `json:"cc,omitempty"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	// ThreadID threads the message when set.
	ThreadID string `json:"thread_id,omitempty"`
}

type Client interface {
	Search(ctx context.Context, query string, maxResults int) ([]MessageSummary, error)
	Get(ctx context.Context, id string) (*Message, error)
	Send(ctx context.Context, draft Draft) (string, error)
}

type Option func(*client)

func WithBaseURL(u string) Option {
	return func(c *client) { c.baseURL = strings.TrimSuffix(u, "/") }
}

// WithClock overrides the Date header clock.
func WithClock(now func() time.Time) Option {
	return func(c *client) { c.now = now }
}

type client struct {
	http    *http.Client
	baseURL string
	sender  string
	now     func() time.Time
}

// New returns a Gmail client. httpClient must attach OAuth credentials.
func New(httpClient *http.Client, sender string, opts ...Option) Client {
	c := &client{
		http:    httpClient,
		baseURL: defaultBaseURL,
		sender:  sender,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *client) Search(ctx context.Context, query string, maxResults int) ([]MessageSummary, error) {
	if maxResults <= 0 || maxResults > 25 {
		maxResults = 10
	}
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	params.Set("maxResults", strconv.Itoa(maxResults))

	var list struct {
		Messages []struct {
			ID       string `json:"id"`
			ThreadID string `json:"threadId"`
		} `json:"messages"`
	}
	if err := c.do(ctx, http.MethodGet, "/messages?"+params.Encode(), nil, &list); err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}

	out := make([]MessageSummary, 0, len(list.Messages))
	for _, m := range list.Messages {
		var raw rawMessage
		path := "/messages/" + url.PathEscape(m.ID) + "?format=metadata&metadataHeaders=Subject&metadataHeaders=From&metadataHeaders=Date"
		if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
			return nil, fmt.Errorf("fetching message %s: %w", m.ID, err)
		}
		out = append(out, raw.summary())
	}
	return out, nil
}

func (c *client) Get(ctx context.Context, id string) (*Message, error) {
	var raw rawMessage
	if err := c.do(ctx, http.MethodGet, "/messages/"+url.PathEscape(id)+"?format=full", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetching message %s: %w", id, err)
	}

	body := extractBody(raw.Payload, "text/plain")
	if body == "" {
		body = stripTags(extractBody(raw.Payload, "text/html"))
	}
	if len(body) > maxBodyLen {
		body = body[:maxBodyLen] + "\n[truncated]"
	}

	return &Message{
		MessageSummary: raw.summary(),
		To:             raw.Payload.header("to"),
		Body:           body,
		Labels:         raw.LabelIDs,
	}, nil
}

func (c *client) Send(ctx context.Context, draft Draft) (string, error) {
	if len(draft.To) == 0 {
		return "", fmt.Errorf("draft has no recipients")
	}

	raw := BuildRFC2822(c.sender, draft, c.now())
	req := map[string]string{"raw": base64.RawURLEncoding.EncodeToString([]byte(raw))}
	if draft.ThreadID != "" {
		req["threadId"] = draft.ThreadID
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/messages/send", req, &resp); err != nil {
		return "", fmt.Errorf("sending message: %w", err)
	}
	return resp.ID, nil
}

func (c *client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return integration.NewAPIError("gmail", resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// BuildRFC2822 renders a plain-text message. Non-ASCII subjects are
// Q-encoded.
func BuildRFC2822(from string, draft Draft, now time.Time) string {
	var sb strings.Builder
	if from != "" {
		fmt.Fprintf(&sb, "From: %s\r\n", from)
	}
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(draft.To, ", "))
	if len(draft.Cc) > 0 {
		fmt.Fprintf(&sb, "Cc: %s\r\n", strings.Join(draft.Cc, ", "))
	}
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", draft.Subject))
	fmt.Fprintf(&sb, "Date: %s\r\n", now.UTC().Format(time.RFC1123Z))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(strings.ReplaceAll(draft.Body, "\n", "\r\n"))
	return sb.String()
}
