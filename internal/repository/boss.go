package repository

import (
	"context"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type BossRepository struct {
	store   store.Store
	retries int
}

func NewBossRepository(s store.Store, retries int) *BossRepository {
	return &BossRepository{store: s, retries: retries}
}

func (r *BossRepository) Get(ctx context.Context, clanID string) (*model.ClanBoss, error) {
	b := &model.ClanBoss{}
	if err := r.store.Get(ctx, colBosses, clanID, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Create spawns the clan's boss document; store.ErrExists means another
// member won the spawn race.
func (r *BossRepository) Create(ctx context.Context, b *model.ClanBoss) error {
	return r.store.Create(ctx, colBosses, b.ClanID, b)
}

func (r *BossRepository) Update(ctx context.Context, clanID string, fn func(*model.ClanBoss) error) error {
	return r.store.Update(ctx, colBosses, clanID, r.retries, mutate(fn))
}

func (r *BossRepository) Delete(ctx context.Context, clanID string) error {
	return r.store.Delete(ctx, colBosses, clanID)
}
