package repository

import (
	"context"
	"sort"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type ChatRepository struct {
	store store.Store
}

func NewChatRepository(s store.Store) *ChatRepository {
	return &ChatRepository{store: s}
}

func (r *ChatRepository) Append(ctx context.Context, clanID string, msg *model.ChatMessage) error {
	return r.store.Create(ctx, ChatCollection(clanID), msg.ID, msg)
}

// History returns the most recent messages, oldest first.
func (r *ChatRepository) History(ctx context.Context, clanID string, limit int) ([]*model.ChatMessage, error) {
	docs, err := r.store.List(ctx, ChatCollection(clanID))
	if err != nil {
		return nil, err
	}
	msgs, err := decodeAll[model.ChatMessage](docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Timestamp.Before(msgs[j].Timestamp)
	})
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

// Purge drops a dissolved clan's chat log. Best-effort; the documents
// are orphans either way once the clan is gone.
func (r *ChatRepository) Purge(ctx context.Context, clanID string) error {
	docs, err := r.store.List(ctx, ChatCollection(clanID))
	if err != nil {
		return err
	}
	for _, d := range docs {
		_ = r.store.Delete(ctx, ChatCollection(clanID), d.ID)
	}
	return nil
}
