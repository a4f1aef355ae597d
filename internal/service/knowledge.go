package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"gopkg.in/yaml.v3"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/typesense"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/integration/knowledgerepo"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/store"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

type KnowledgeHit struct {
	Slug      string     `json:"slug"`
	Title     string     `json:"title"`
	Path      string     `json:"path"`
	Snippet   string     `json:"snippet,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type NoteView struct {
	model.KnowledgeNote
	HTML string `json:"html"`
}

type KnowledgeSyncResult struct {
	Files   int   `json:"files"`
	Synced  int   `json:"synced"`
	Skipped int   `json:"skipped"`
	Removed int64 `json:"removed"`
	Indexed bool  `json:"indexed"`
}

type KnowledgeService interface {
	// List returns recent notes, or search results when query is set.
	List(ctx context.Context, query string, limit int) ([]KnowledgeHit, error)
	Get(ctx context.Context, slug string) (*NoteView, error)
	Sync(ctx context.Context) (*KnowledgeSyncResult, error)
}

type knowledgeService struct {
	notes  store.KnowledgeStore
	search typesense.Client   // nil falls back to Postgres ILIKE
	repo   knowledgerepo.Repo // nil disables sync
}

func NewKnowledgeService(notes store.KnowledgeStore, search typesense.Client, repo knowledgerepo.Repo) KnowledgeService {
	return &knowledgeService{notes: notes, search: search, repo: repo}
}

func (s *knowledgeService) List(ctx context.Context, query string, limit int) ([]KnowledgeHit, error) {
	if limit <= 0 {
		limit = 20
	}
	query = strings.TrimSpace(query)
	if query == "" {
		notes, err := s.notes.ListRecent(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("listing notes: %w", err)
		}
		return notesToHits(notes), nil
	}

	if s.search != nil {
		hits, err := s.search.Search(ctx, query, limit)
		if err == nil {
			out := make([]KnowledgeHit, len(hits))
			for i, h := range hits {
				out[i] = KnowledgeHit{Slug: h.Slug, Title: h.Title, Path: h.Path, Snippet: h.Snippet}
			}
			return out, nil
		}
		slog.WarnContext(ctx, "typesense search failed, falling back to postgres",
			"error", err,
			"query", query)
	}

	notes, err := s.notes.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	hits := notesToHits(notes)
	for i, n := range notes {
		hits[i].Snippet = Snippet(n.Body, query, 160)
	}
	return hits, nil
}

func (s *knowledgeService) Get(ctx context.Context, slug string) (*NoteView, error) {
	note, err := s.notes.GetBySlug(ctx, strings.Trim(slug, "/"))
	if err != nil {
		return nil, err
	}
	html, err := RenderMarkdown(note.Body)
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", note.Slug, err)
	}
	return &NoteView{KnowledgeNote: *note, HTML: html}, nil
}

// Sync mirrors the wiki repository into Postgres, drops notes whose files are
// gone and rebuilds the search index.
func (s *knowledgeService) Sync(ctx context.Context) (*KnowledgeSyncResult, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("knowledge repo: %w", ErrNotConfigured)
	}
	start := time.Now()

	files, err := s.repo.ListMarkdown(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing wiki files: %w", err)
	}

	result := &KnowledgeSyncResult{Files: len(files)}
	docs := make([]typesense.Document, 0, len(files))
	for _, f := range files {
		slug, err := common.SlugifyPath(f.Path, s.repo.Root())
		if err != nil {
			result.Skipped++
			continue
		}
		content, err := s.repo.ReadFile(ctx, f.Path)
		if err != nil {
			return nil, err
		}

		note := ParseNote(content, path.Base(f.Path))
		note.ID = id.New()
		note.Slug = slug
		note.Path = f.Path
		note.SHA = f.SHA
		if note.UpdatedAt.IsZero() {
			note.UpdatedAt = start
		}
		if err := s.notes.Upsert(ctx, &note); err != nil {
			return nil, fmt.Errorf("upserting note %s: %w", slug, err)
		}
		result.Synced++

		docs = append(docs, typesense.Document{
			ID:        slug,
			Slug:      slug,
			Title:     note.Title,
			Path:      note.Path,
			Body:      note.Body,
			Tags:      note.Tags,
			UpdatedAt: note.UpdatedAt.Unix(),
		})
	}

	removed, err := s.notes.DeleteUnsynced(ctx, start)
	if err != nil {
		return nil, fmt.Errorf("removing deleted notes: %w", err)
	}
	result.Removed = removed

	if s.search != nil {
		if err := s.search.EnsureCollection(ctx); err != nil {
			return nil, err
		}
		if err := s.search.ReplaceAll(ctx, docs); err != nil {
			return nil, err
		}
		result.Indexed = true
	}

	slog.InfoContext(ctx, "knowledge synced",
		"files", result.Files,
		"synced", result.Synced,
		"skipped", result.Skipped,
		"removed", result.Removed,
		"duration_ms", time.Since(start).Milliseconds())
	return result, nil
}

func notesToHits(notes []model.KnowledgeNote) []KnowledgeHit {
	out := make([]KnowledgeHit, len(notes))
	for i, n := range notes {
		updated := n.UpdatedAt
		out[i] = KnowledgeHit{
			Slug:      n.Slug,
			Title:     n.Title,
			Path:      n.Path,
			Tags:      n.Tags,
			UpdatedAt: &updated,
		}
	}
	return out
}

// RenderMarkdown converts a note body to HTML. Raw HTML in the source is
// omitted.
func RenderMarkdown(body string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ParseNote splits YAML frontmatter from a markdown file. The title comes
// from frontmatter, then the first level one heading, then the file name.
// Tags may be a YAML list or a comma separated string.
func ParseNote(content []byte, filename string) model.KnowledgeNote {
	fm, body := splitFrontmatter(string(content))
	note := model.KnowledgeNote{
		Body:        body,
		Frontmatter: fm,
		Tags:        []string{},
	}

	if t, ok := fm["title"].(string); ok && strings.TrimSpace(t) != "" {
		note.Title = strings.TrimSpace(t)
	} else if h := firstHeading(body); h != "" {
		note.Title = h
	} else {
		name := strings.TrimSuffix(filename, path.Ext(filename))
		note.Title = strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(name))
	}

	switch tags := fm["tags"].(type) {
	case []any:
		for _, t := range tags {
			if s, ok := t.(string); ok && strings.TrimSpace(s) != "" {
				note.Tags = append(note.Tags, strings.TrimSpace(s))
			}
		}
	case string:
		for _, s := range strings.Split(tags, ",") {
			if s = strings.TrimSpace(s); s != "" {
				note.Tags = append(note.Tags, s)
			}
		}
	}

	for _, key := range []string{"updated", "updated_at", "date"} {
		if t, ok := frontmatterTime(fm[key]); ok {
			note.UpdatedAt = t
			break
		}
	}
	return note
}

// frontmatterTime accepts explicit YAML timestamps and the plain date strings
// yaml.v3 leaves untyped when decoding into any.
func frontmatterTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, strings.TrimSpace(t)); err == nil {
				return parsed, true
			}
		}
	}
	return time.Time{}, false
}

func splitFrontmatter(content string) (map[string]any, string) {
	content = strings.TrimPrefix(content, "\ufeff")
	normalised := strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(normalised, "---\n") {
		return map[string]any{}, normalised
	}

	rest := normalised[len("---\n"):]
	var block, body string
	if strings.HasPrefix(rest, "---") {
		// Empty block.
		body = rest[len("---"):]
	} else {
		end := strings.Index(rest, "\n---")
		if end < 0 {
			return map[string]any{}, normalised
		}
		block, body = rest[:end], rest[end+len("\n---"):]
	}

	fm := map[string]any{}
	if err := yaml.Unmarshal([]byte(block), &fm); err != nil || fm == nil {
		// Not frontmatter after all; keep the file as written.
		return map[string]any{}, normalised
	}

	if i := strings.IndexByte(body, '\n'); i >= 0 {
		body = body[i+1:]
	} else {
		body = ""
	}
	return fm, strings.TrimLeft(body, "\n")
}

func firstHeading(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}

// Snippet returns up to width bytes of body around the first match of query,
// ignoring case. Without a match it returns the start of the body.
func Snippet(body, query string, width int) string {
	flat := strings.Join(strings.Fields(body), " ")
	if len(flat) <= width {
		return flat
	}
	start := 0
	if i := strings.Index(strings.ToLower(flat), strings.ToLower(query)); i >= 0 {
		start = i - width/3
		if start < 0 {
			start = 0
		}
	}
	end := start + width
	if end > len(flat) {
		end = len(flat)
		start = end - width
	}
	for start > 0 && !isRuneStart(flat[start]) {
		start--
	}
	for end < len(flat) && !isRuneStart(flat[end]) {
		end++
	}

	out := flat[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(flat) {
		out += "..."
	}
	return out
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
