package service

import (
	"context"
	"errors"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"
)

// PlayerService serves the ranking-collaborator reads and the admin
// grant endpoint. Player documents are created by the main backend on
// registration; Grant upserts so dev environments work standalone.
type PlayerService struct {
	players *repository.PlayerRepository
}

func NewPlayerService(players *repository.PlayerRepository) *PlayerService {
	return &PlayerService{players: players}
}

func (s *PlayerService) GetRanking(ctx context.Context, uid string) (*model.PlayerRanking, error) {
	p, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	return &model.PlayerRanking{UID: p.UID, Elo: p.Elo, Wins: p.Wins, Losses: p.Losses}, nil
}

func (s *PlayerService) Get(ctx context.Context, uid string) (*model.Player, error) {
	p, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	return p, nil
}

func (s *PlayerService) Grant(ctx context.Context, uid string, gems int64, elo int) error {
	err := s.players.Update(ctx, uid, func(p *model.Player) error {
		p.Gems += gems
		p.Elo += elo
		if p.Gems < 0 {
			p.Gems = 0
		}
		if p.Elo < 0 {
			p.Elo = 0
		}
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return s.players.Put(ctx, &model.Player{UID: uid, Gems: max(gems, 0), Elo: max(elo, 0)})
	}
	return err
}

func (s *PlayerService) Count(ctx context.Context) (int, error) {
	return s.players.Count(ctx)
}
