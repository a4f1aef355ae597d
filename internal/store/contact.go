package store

import (
	"context"
	"time"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type contactStore struct {
	queries *sqlc.Queries
}

func newContactStore(queries *sqlc.Queries) ContactStore {
	return &contactStore{queries: queries}
}

func (s *contactStore) GetByID(ctx context.Context, id int64) (*model.Contact, error) {
	row, err := s.queries.GetContact(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	c := toContactModel(row)
	return &c, nil
}

func (s *contactStore) Search(ctx context.Context, query string, limit int) ([]model.Contact, error) {
	rows, err := s.queries.SearchContacts(ctx, sqlc.SearchContactsParams{
		Query:    query,
		RowLimit: limit32(limit, 20),
	})
	if err != nil {
		return nil, err
	}
	return toContactModels(rows), nil
}

func (s *contactStore) List(ctx context.Context, limit, offset int) ([]model.Contact, error) {
	if offset < 0 {
		offset = 0
	}
	rows, err := s.queries.ListContacts(ctx, sqlc.ListContactsParams{
		RowLimit:  limit32(limit, 50),
		RowOffset: int32(offset),
	})
	if err != nil {
		return nil, err
	}
	return toContactModels(rows), nil
}

func (s *contactStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountContacts(ctx)
}

func (s *contactStore) ListActivity(ctx context.Context, tag *string, limit int) ([]model.ContactActivity, error) {
	rows, err := s.queries.ListContactActivity(ctx, sqlc.ListContactActivityParams{
		Tag:      tag,
		RowLimit: limit32(limit, 200),
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.ContactActivity, len(rows))
	for i, r := range rows {
		out[i] = model.ContactActivity{
			ContactID:       r.ID,
			FullName:        r.FullName,
			Email:           r.Email,
			Company:         r.Company,
			Tags:            r.Tags,
			LastContactedAt: tsPtr(r.LastContactedAt),
			Interactions90d: int(r.Interactions90d),
		}
	}
	return out, nil
}

func (s *contactStore) ListNotContactedSince(ctx context.Context, before time.Time, limit int) ([]model.Contact, error) {
	rows, err := s.queries.ListContactsNotContactedSince(ctx, sqlc.ListContactsNotContactedSinceParams{
		Before:   ts(before),
		RowLimit: limit32(limit, 20),
	})
	if err != nil {
		return nil, err
	}
	return toContactModels(rows), nil
}

// LogInteraction records the interaction and moves the contact's
// last_contacted_at forward. Run it inside a transaction.
func (s *contactStore) LogInteraction(ctx context.Context, interaction *model.Interaction) error {
	row, err := s.queries.CreateContactInteraction(ctx, sqlc.CreateContactInteractionParams{
		ID:         interaction.ID,
		ContactID:  interaction.ContactID,
		Kind:       string(interaction.Kind),
		Summary:    interaction.Summary,
		OccurredAt: ts(interaction.OccurredAt),
	})
	if err != nil {
		return err
	}

	n, err := s.queries.TouchContactLastContacted(ctx, sqlc.TouchContactLastContactedParams{
		At: ts(interaction.OccurredAt),
		ID: interaction.ContactID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}

	*interaction = toInteractionModel(row)
	return nil
}

func (s *contactStore) ListInteractions(ctx context.Context, contactID int64, limit int) ([]model.Interaction, error) {
	rows, err := s.queries.ListContactInteractions(ctx, sqlc.ListContactInteractionsParams{
		ContactID: contactID,
		RowLimit:  limit32(limit, 20),
	})
	if err != nil {
		return nil, err
	}
	return toInteractionModels(rows), nil
}

func (s *contactStore) ListInteractionsSince(ctx context.Context, since time.Time) ([]model.Interaction, error) {
	rows, err := s.queries.ListInteractionsSince(ctx, ts(since))
	if err != nil {
		return nil, err
	}
	return toInteractionModels(rows), nil
}

func toContactModel(row sqlc.Contact) model.Contact {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return model.Contact{
		ID:              row.ID,
		GHLID:           row.GhlID,
		FullName:        row.FullName,
		Email:           row.Email,
		Phone:           row.Phone,
		Company:         row.Company,
		Tags:            tags,
		Source:          row.Source,
		LastContactedAt: tsPtr(row.LastContactedAt),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}

func toContactModels(rows []sqlc.Contact) []model.Contact {
	out := make([]model.Contact, len(rows))
	for i, r := range rows {
		out[i] = toContactModel(r)
	}
	return out
}

func toInteractionModel(row sqlc.ContactInteraction) model.Interaction {
	return model.Interaction{
		ID:         row.ID,
		ContactID:  row.ContactID,
		Kind:       model.InteractionKind(row.Kind),
		Summary:    row.Summary,
		OccurredAt: row.OccurredAt.Time,
		CreatedAt:  row.CreatedAt.Time,
	}
}

func toInteractionModels(rows []sqlc.ContactInteraction) []model.Interaction {
	out := make([]model.Interaction, len(rows))
	for i, r := range rows {
		out[i] = toInteractionModel(r)
	}
	return out
}
