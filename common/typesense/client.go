package typesense

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	ts "github.com/typesense/typesense-go/v4/typesense"
	"github.com/typesense/typesense-go/v4/typesense/api"
	"github.com/typesense/typesense-go/v4/typesense/api/pointer"
)

const notesCollection = "knowledge_notes"

// Document is a knowledge note as indexed for full-text search.
type Document struct {
	ID        string   `json:"id"`
	Slug      string   `json:"slug"`
	Title     string   `json:"title"`
	Path      string   `json:"path"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	UpdatedAt int64    `json:"updated_at"`
}

// Hit is a single search result.
type Hit struct {
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Path    string `json:"path"`
	Snippet string `json:"snippet,omitempty"`
	Score   int64  `json:"score"`
}

type Client interface {
	EnsureCollection(ctx context.Context) error
	// ReplaceAll rebuilds the index from docs.
	ReplaceAll(ctx context.Context, docs []Document) error
	Search(ctx context.Context, query string, limit int) ([]Hit, error)
}

type Config struct {
	URL    string
	APIKey string
}

type client struct {
	ts *ts.Client
}

var _ Client = &client{}

func New(cfg Config) (Client, error) {
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("typesense url and api key are required")
	}

	return &client{
		ts: ts.NewClient(
			ts.WithServer(cfg.URL),
			ts.WithAPIKey(cfg.APIKey),
			ts.WithConnectionTimeout(10*time.Second),
		),
	}, nil
}

func notesSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: notesCollection,
		Fields: []api.Field{
			{Name: "slug", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "path", Type: "string"},
			{Name: "body", Type: "string"},
			{Name: "tags", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
}

func (c *client) EnsureCollection(ctx context.Context) error {
	if _, err := c.ts.Collection(notesCollection).Retrieve(ctx); err == nil {
		return nil
	} else if !isNotFound(err) {
		return fmt.Errorf("retrieve collection: %w", err)
	}

	if _, err := c.ts.Collections().Create(ctx, notesSchema()); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	slog.InfoContext(ctx, "typesense collection created", "collection", notesCollection)
	return nil
}

func (c *client) ReplaceAll(ctx context.Context, docs []Document) error {
	start := time.Now()

	if _, err := c.ts.Collection(notesCollection).Delete(ctx); err != nil && !isNotFound(err) {
		return fmt.Errorf("drop collection: %w", err)
	}
	if _, err := c.ts.Collections().Create(ctx, notesSchema()); err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	batch := make([]interface{}, len(docs))
	for i := range docs {
		batch[i] = docs[i]
	}

	results, err := c.ts.Collection(notesCollection).Documents().Import(ctx, batch, &api.ImportDocumentsParams{})
	if err != nil {
		return fmt.Errorf("import documents: %w", err)
	}

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			slog.WarnContext(ctx, "typesense document rejected", "error", r.Error)
		}
	}

	slog.InfoContext(ctx, "typesense notes indexed",
		"count", len(docs),
		"failed", failed,
		"duration_ms", time.Since(start).Milliseconds())

	return nil
}

func (c *client) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	if limit <= 0 {
		limit = 10
	}

	res, err := c.ts.Collection(notesCollection).Documents().Search(ctx, &api.SearchCollectionParams{
		Q:                    pointer.String(query),
		QueryBy:              pointer.String("title,tags,body"),
		QueryByWeights:       pointer.String("4,2,1"),
		PerPage:              pointer.Int(limit),
		HighlightFields:      pointer.String("body"),
		SnippetThreshold:     pointer.Int(30),
		ExcludeFields:        pointer.String("body"),
		PrioritizeExactMatch: pointer.True(),
	})
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	if res.Hits == nil {
		return nil, nil
	}

	hits := make([]Hit, 0, len(*res.Hits))
	for _, h := range *res.Hits {
		if h.Document == nil {
			continue
		}
		doc := *h.Document
		hit := Hit{
			Slug:  stringField(doc, "slug"),
			Title: stringField(doc, "title"),
			Path:  stringField(doc, "path"),
		}
		if h.TextMatch != nil {
			hit.Score = *h.TextMatch
		}
		if h.Highlights != nil {
			for _, hl := range *h.Highlights {
				if hl.Snippet != nil {
					hit.Snippet = *hl.Snippet
					break
				}
			}
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

func stringField(doc map[string]interface{}, key string) string {
	s, _ := doc[key].(string)
	return s
}

func isNotFound(err error) bool {
	var httpErr *ts.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound
}
