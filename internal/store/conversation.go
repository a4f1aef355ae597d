package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Acurioustractor/act-global-infrastructure-sub005/common/id"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/core/db/sqlc"
	"github.com/Acurioustractor/act-global-infrastructure-sub005/internal/model"
)

type conversationStore struct {
	queries *sqlc.Queries
}

func newConversationStore(queries *sqlc.Queries) ConversationStore {
	return &conversationStore{queries: queries}
}

func (s *conversationStore) GetByID(ctx context.Context, id int64) (*model.Conversation, error) {
	row, err := s.queries.GetConversation(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toConversationModel(row)
}

func (s *conversationStore) GetOrCreate(ctx context.Context, channel model.Channel, externalID string) (*model.Conversation, error) {
	row, err := s.queries.GetOrCreateConversation(ctx, sqlc.GetOrCreateConversationParams{
		ID:         id.New(),
		Channel:    string(channel),
		ExternalID: externalID,
	})
	if err != nil {
		return nil, err
	}
	return toConversationModel(row)
}

func (s *conversationStore) SaveTurns(ctx context.Context, convID int64, turns []model.Turn) error {
	if turns == nil {
		turns = []model.Turn{}
	}
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("marshaling turns: %w", err)
	}
	n, err := s.queries.UpdateConversationTurns(ctx, sqlc.UpdateConversationTurnsParams{
		Turns: data,
		ID:    convID,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toConversationModel(row sqlc.AgentConversation) (*model.Conversation, error) {
	turns := []model.Turn{}
	if len(row.Turns) > 0 {
		if err := json.Unmarshal(row.Turns, &turns); err != nil {
			return nil, fmt.Errorf("decoding turns for conversation %d: %w", row.ID, err)
		}
	}
	return &model.Conversation{
		ID:         row.ID,
		Channel:    model.Channel(row.Channel),
		ExternalID: row.ExternalID,
		Turns:      turns,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}, nil
}
