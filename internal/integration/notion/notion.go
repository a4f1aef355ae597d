// Package notion reads pages from the organisation's Notion workspace.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
	maxPageText    = 20000
)

type Page struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	URL            string    `json:"url"`
	LastEditedTime time.Time `json:"last_edited_time"`
}

type PageContent struct {
	Page
	Text string `json:"text"`
}

type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Page, error)
	GetPage(ctx context.Context, id string) (*PageContent, error)
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

func (c *client) Search(ctx context.Context, query string, limit int) ([]Page, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	req := map[string]any{
		"query":     query,
		"page_size": limit,
		"filter":    map[string]string{"property": "object", "value": "page"},
	}

	var resp struct {
		Results []apiPage `json:"results"`
	}
	if err := c.do(ctx, http.MethodPost, "/search", req, &resp); err != nil {
		return nil, fmt.Errorf("searching notion: %w", err)
	}

	pages := make([]Page, 0, len(resp.Results))
	for _, p := range resp.Results {
		pages = append(pages, p.toPage())
	}
	return pages, nil
}

func (c *client) GetPage(ctx context.Context, id string) (*PageContent, error) {
	var page apiPage
	if err := c.do(ctx, http.MethodGet, "/pages/"+url.PathEscape(id), nil, &page); err != nil {
		return nil, fmt.Errorf("fetching page %s: %w", id, err)
	}

	var lines []string
	cursor := ""
	for {
		path := "/blocks/" + url.PathEscape(id) + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}
		var children struct {
			Results    []apiBlock `json:"results"`
			HasMore    bool       `json:"has_more"`
			NextCursor string     `json:"next_cursor"`
		}
		if err := c.do(ctx, http.MethodGet, path, nil, &children); err != nil {
			return nil, fmt.Errorf("fetching blocks for %s: %w", id, err)
		}
		for _, b := range children.Results {
			if line, ok := b.plainText(); ok {
				lines = append(lines, line)
			}
		}
		if !children.HasMore || children.NextCursor == "" {
			break
		}
		cursor = children.NextCursor
	}

	text := strings.Join(lines, "\n")
	if len(text) > maxPageText {
		text = text[:maxPageText] + "\n[truncated]"
	}
	return &PageContent{Page: page.toPage(), Text: text}, nil
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
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return integration.NewAPIError("notion", resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
