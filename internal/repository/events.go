package repository

import (
	"context"
	"sort"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type EventRepository struct {
	store store.Store
}

func NewEventRepository(s store.Store) *EventRepository {
	return &EventRepository{store: s}
}

func (r *EventRepository) Append(ctx context.Context, ev *model.GameEvent) error {
	return r.store.Create(ctx, colEvents, ev.ID, ev)
}

// Recent returns the newest events first.
func (r *EventRepository) Recent(ctx context.Context, limit int) ([]*model.GameEvent, error) {
	docs, err := r.store.List(ctx, colEvents)
	if err != nil {
		return nil, err
	}
	events, err := decodeAll[model.GameEvent](docs)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].CreatedAt.After(events[j].CreatedAt)
	})
	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}
