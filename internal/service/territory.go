package service

import (
	"context"
	"errors"
	"fmt"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"
)

// TerritoryService runs the contention engine over the fixed territory
// catalog. Every Contribute is a single-document CAS: the counter add
// and the ownership evaluation commit together or not at all.
type TerritoryService struct {
	territories *repository.TerritoryRepository
	players     *repository.PlayerRepository
	events      *EventService
	threshold   int64
}

func NewTerritoryService(
	territories *repository.TerritoryRepository,
	players *repository.PlayerRepository,
	events *EventService,
	threshold int64,
) *TerritoryService {
	return &TerritoryService{
		territories: territories,
		players:     players,
		events:      events,
		threshold:   threshold,
	}
}

func (s *TerritoryService) List(ctx context.Context) ([]*model.Territory, error) {
	return s.territories.List(ctx)
}

func (s *TerritoryService) Get(ctx context.Context, id string) (*model.Territory, error) {
	t, err := s.territories.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTerritoryNotFound
	}
	return t, err
}

// Contribute adds capture points for the caller's clan and resolves
// ownership: a clan holding at least the threshold AND the strictly
// highest contribution takes the territory. Ties never transfer
// ownership. Counters accumulate forever; there is no reset on capture.
func (s *TerritoryService) Contribute(ctx context.Context, territoryID, uid, clanID string, amount int64) (*model.ContributeResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: contribution must be positive", ErrInvalidAmount)
	}

	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if player.ClanID != clanID {
		return nil, ErrNotClanMember
	}

	var result model.ContributeResult
	var captured *model.Territory
	err = s.territories.Update(ctx, territoryID, func(t *model.Territory) error {
		if t.ContestedBy == nil {
			t.ContestedBy = make(map[string]int64)
		}
		t.ContestedBy[clanID] += amount

		result = model.ContributeResult{
			Total: t.ContestedBy[clanID],
			Owner: t.OwnerClanID,
		}
		captured = nil

		if t.ContestedBy[clanID] < s.threshold {
			return nil
		}
		winner, unique := strictMax(t.ContestedBy)
		if !unique || winner == t.OwnerClanID {
			return nil
		}
		t.OwnerClanID = winner
		result.Owner = winner
		result.Captured = winner == clanID
		snapshot := *t
		captured = &snapshot
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrTerritoryNotFound
		}
		return nil, err
	}

	if captured != nil {
		s.events.RecordCapture(ctx, captured, captured.OwnerClanID)
	}
	return &result, nil
}

// strictMax returns the key with the single highest value; unique is
// false when the maximum is shared.
func strictMax(points map[string]int64) (string, bool) {
	var winner string
	var best int64
	unique := false
	for clan, pts := range points {
		switch {
		case pts > best || winner == "":
			winner, best, unique = clan, pts, true
		case pts == best:
			unique = false
		}
	}
	return winner, unique
}
