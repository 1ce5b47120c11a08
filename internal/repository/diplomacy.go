package repository

import (
	"context"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/store"
)

type DiplomacyRepository struct {
	store   store.Store
	retries int
}

func NewDiplomacyRepository(s store.Store, retries int) *DiplomacyRepository {
	return &DiplomacyRepository{store: s, retries: retries}
}

// --- Alliance requests ---

func (r *DiplomacyRepository) CreateAlliance(ctx context.Context, req *model.AllianceRequest) error {
	return r.store.Create(ctx, colAlliances, req.ID, req)
}

func (r *DiplomacyRepository) GetAlliance(ctx context.Context, id string) (*model.AllianceRequest, error) {
	a := &model.AllianceRequest{}
	if err := r.store.Get(ctx, colAlliances, id, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *DiplomacyRepository) UpdateAlliance(ctx context.Context, id string, fn func(*model.AllianceRequest) error) error {
	return r.store.Update(ctx, colAlliances, id, r.retries, mutate(fn))
}

func (r *DiplomacyRepository) ListAlliances(ctx context.Context, clanID string) ([]*model.AllianceRequest, error) {
	docs, err := r.store.List(ctx, colAlliances)
	if err != nil {
		return nil, err
	}
	all, err := decodeAll[model.AllianceRequest](docs)
	if err != nil {
		return nil, err
	}
	var out []*model.AllianceRequest
	for _, a := range all {
		if a.FromClanID == clanID || a.ToClanID == clanID {
			out = append(out, a)
		}
	}
	return out, nil
}

// --- Trade offers ---

func (r *DiplomacyRepository) CreateTrade(ctx context.Context, offer *model.TradeOffer) error {
	return r.store.Create(ctx, colTrades, offer.ID, offer)
}

func (r *DiplomacyRepository) GetTrade(ctx context.Context, id string) (*model.TradeOffer, error) {
	t := &model.TradeOffer{}
	if err := r.store.Get(ctx, colTrades, id, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (r *DiplomacyRepository) UpdateTrade(ctx context.Context, id string, fn func(*model.TradeOffer) error) error {
	return r.store.Update(ctx, colTrades, id, r.retries, mutate(fn))
}

// ListOpenTrades returns offers any clan may still accept.
func (r *DiplomacyRepository) ListOpenTrades(ctx context.Context) ([]*model.TradeOffer, error) {
	docs, err := r.store.List(ctx, colTrades)
	if err != nil {
		return nil, err
	}
	all, err := decodeAll[model.TradeOffer](docs)
	if err != nil {
		return nil, err
	}
	var out []*model.TradeOffer
	for _, t := range all {
		if t.Status == model.ProposalPending {
			out = append(out, t)
		}
	}
	return out, nil
}
