package repository

import (
	"context"
	"errors"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type TerritoryRepository struct {
	store   store.Store
	retries int
}

func NewTerritoryRepository(s store.Store, retries int) *TerritoryRepository {
	return &TerritoryRepository{store: s, retries: retries}
}

func (r *TerritoryRepository) Get(ctx context.Context, id string) (*model.Territory, error) {
	t := &model.Territory{}
	if err := r.store.Get(ctx, colTerritory, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TerritoryRepository) Update(ctx context.Context, id string, fn func(*model.Territory) error) error {
	return r.store.Update(ctx, colTerritory, id, r.retries, mutate(fn))
}

func (r *TerritoryRepository) List(ctx context.Context) ([]*model.Territory, error) {
	docs, err := r.store.List(ctx, colTerritory)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Territory](docs)
}

// Seed inserts catalog entries that do not exist yet. Existing documents
// keep their contribution state across restarts.
func (r *TerritoryRepository) Seed(ctx context.Context, catalog []model.Territory) error {
	for i := range catalog {
		t := catalog[i]
		if t.ContestedBy == nil {
			t.ContestedBy = make(map[string]int64)
		}
		err := r.store.Create(ctx, colTerritory, t.ID, &t)
		if err != nil && !errors.Is(err, store.ErrExists) {
			return err
		}
	}
	return nil
}
