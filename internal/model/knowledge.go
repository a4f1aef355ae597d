package model

import "time"

type KnowledgeNote struct {
	ID          int64          `json:"id"`
	Slug        string         `json:"slug"`
	Path        string         `json:"path"`
	Title       string         `json:"title"`
	Body        string         `json:"body,omitempty"`
	Tags        []string       `json:"tags"`
	Frontmatter map[string]any `json:"frontmatter,omitempty"`
	SHA         string         `json:"sha"`
	UpdatedAt   time.Time      `json:"updated_at"`
}
