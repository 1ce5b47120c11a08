package repository

import (
	"context"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type PlayerRepository struct {
	store   store.Store
	retries int
}

func NewPlayerRepository(s store.Store, retries int) *PlayerRepository {
	return &PlayerRepository{store: s, retries: retries}
}

func (r *PlayerRepository) Get(ctx context.Context, uid string) (*model.Player, error) {
	p := &model.Player{}
	if err := r.store.Get(ctx, colPlayers, uid, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PlayerRepository) Put(ctx context.Context, p *model.Player) error {
	return r.store.Put(ctx, colPlayers, p.UID, p)
}

func (r *PlayerRepository) Update(ctx context.Context, uid string, fn func(*model.Player) error) error {
	return r.store.Update(ctx, colPlayers, uid, r.retries, mutate(fn))
}

func (r *PlayerRepository) Count(ctx context.Context) (int, error) {
	docs, err := r.store.List(ctx, colPlayers)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}
