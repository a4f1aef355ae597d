package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type knowledgeStore struct {
	queries *sqlc.Queries
}

func newKnowledgeStore(queries *sqlc.Queries) KnowledgeStore {
	return &knowledgeStore{queries: queries}
}

func (s *knowledgeStore) Upsert(ctx context.Context, note *model.KnowledgeNote) error {
	fm := []byte("{}")
	if len(note.Frontmatter) > 0 {
		var err error
		fm, err = json.Marshal(note.Frontmatter)
		if err != nil {
			return fmt.Errorf("marshaling frontmatter for %s: %w", note.Slug, err)
		}
	}
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}

	row, err := s.queries.UpsertKnowledgeNote(ctx, sqlc.UpsertKnowledgeNoteParams{
		ID:          note.ID,
		Slug:        note.Slug,
		Path:        note.Path,
		Title:       note.Title,
		Body:        note.Body,
		Tags:        tags,
		Frontmatter: fm,
		Sha:         note.SHA,
		UpdatedAt:   ts(note.UpdatedAt),
	})
	if err != nil {
		return err
	}
	*note = toKnowledgeNoteModel(row)
	return nil
}

func (s *knowledgeStore) GetBySlug(ctx context.Context, slug string) (*model.KnowledgeNote, error) {
	row, err := s.queries.GetKnowledgeNoteBySlug(ctx, slug)
	if err != nil {
		return nil, mapErr(err)
	}
	n := toKnowledgeNoteModel(row)
	return &n, nil
}

func (s *knowledgeStore) ListRecent(ctx context.Context, limit int) ([]model.KnowledgeNote, error) {
	rows, err := s.queries.ListRecentKnowledgeNotes(ctx, limit32(limit, 10))
	if err != nil {
		return nil, err
	}
	return toKnowledgeNoteModels(rows), nil
}

func (s *knowledgeStore) Search(ctx context.Context, query string, limit int) ([]model.KnowledgeNote, error) {
	rows, err := s.queries.SearchKnowledgeNotes(ctx, sqlc.SearchKnowledgeNotesParams{
		Query:    query,
		RowLimit: limit32(limit, 10),
	})
	if err != nil {
		return nil, err
	}
	return toKnowledgeNoteModels(rows), nil
}

func (s *knowledgeStore) DeleteUnsynced(ctx context.Context, syncedBefore time.Time) (int64, error) {
	return s.queries.DeleteUnsyncedKnowledgeNotes(ctx, ts(syncedBefore))
}

func (s *knowledgeStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountKnowledgeNotes(ctx)
}

func toKnowledgeNoteModel(row sqlc.KnowledgeNote) model.KnowledgeNote {
	var fm map[string]any
	if len(row.Frontmatter) > 0 {
		// stored by Upsert, always an object
		_ = json.Unmarshal(row.Frontmatter, &fm)
	}
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.KnowledgeNote{
		ID:          row.ID,
		Slug:        row.Slug,
		Path:        row.Path,
		Title:       row.Title,
		Body:        row.Body,
		Tags:        tags,
		Frontmatter: fm,
		SHA:         row.Sha,
		UpdatedAt:   row.UpdatedAt.Time,
	}
}

func toKnowledgeNoteModels(rows []sqlc.KnowledgeNote) []model.KnowledgeNote {
	out := make([]model.KnowledgeNote, len(rows))
	for i, r := range rows {
		out[i] = toKnowledgeNoteModel(r)
	}
	return out
}
