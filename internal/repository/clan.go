package repository

import (
	"context"
	"strings"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type ClanRepository struct {
	store   store.Store
	retries int
}

func NewClanRepository(s store.Store, retries int) *ClanRepository {
	return &ClanRepository{store: s, retries: retries}
}

func (r *ClanRepository) Get(ctx context.Context, id string) (*model.Clan, error) {
	c := &model.Clan{}
	if err := r.store.Get(ctx, colClans, id, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClanRepository) Create(ctx context.Context, c *model.Clan) error {
	return r.store.Create(ctx, colClans, c.ID, c)
}

// Update runs a CAS mutation over the clan document. The mutator sees a
// freshly unmarshalled document on every retry.
func (r *ClanRepository) Update(ctx context.Context, id string, fn func(*model.Clan) error) error {
	return r.store.Update(ctx, colClans, id, r.retries, mutate(fn))
}

func (r *ClanRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, colClans, id)
}

func (r *ClanRepository) List(ctx context.Context) ([]*model.Clan, error) {
	docs, err := r.store.List(ctx, colClans)
	if err != nil {
		return nil, err
	}
	return decodeAll[model.Clan](docs)
}

// ClaimName reserves a clan name via conditional create; the second of
// two concurrent creators gets store.ErrExists.
func (r *ClanRepository) ClaimName(ctx context.Context, name, clanID string) error {
	claim := &model.ClanNameClaim{ClanID: clanID, ClaimedAt: time.Now()}
	return r.store.Create(ctx, colClanNames, NormalizeName(name), claim)
}

func (r *ClanRepository) ReleaseName(ctx context.Context, name string) error {
	return r.store.Delete(ctx, colClanNames, NormalizeName(name))
}

func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
