package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"

	"github.com/google/uuid"
)

// DiplomacyService handles alliance requests and gem trade offers.
// Proposals are append-only records that move from pending to accepted
// or rejected once; the only contended balances are the gem escrows, which go
// through player-document CAS.
type DiplomacyService struct {
	diplomacy *repository.DiplomacyRepository
	clans     *repository.ClanRepository
	players   *repository.PlayerRepository
}

func NewDiplomacyService(
	diplomacy *repository.DiplomacyRepository,
	clans *repository.ClanRepository,
	players *repository.PlayerRepository,
) *DiplomacyService {
	return &DiplomacyService{diplomacy: diplomacy, clans: clans, players: players}
}

// --- Alliances ---

func (s *DiplomacyService) RequestAlliance(ctx context.Context, uid, fromClanID, toClanID string) (*model.AllianceRequest, error) {
	if fromClanID == toClanID {
		return nil, fmt.Errorf("%w: a clan cannot ally with itself", ErrInvalidInput)
	}
	if err := s.requireOfficer(ctx, fromClanID, uid); err != nil {
		return nil, err
	}
	if _, err := s.clans.Get(ctx, toClanID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidTarget
		}
		return nil, err
	}

	req := &model.AllianceRequest{
		ID:         uuid.NewString(),
		FromClanID: fromClanID,
		ToClanID:   toClanID,
		Status:     model.ProposalPending,
		CreatedAt:  time.Now(),
	}
	if err := s.diplomacy.CreateAlliance(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// RespondAlliance resolves a pending request; only an officer of the
// receiving clan may respond, and only once.
func (s *DiplomacyService) RespondAlliance(ctx context.Context, uid, requestID string, accept bool) error {
	req, err := s.diplomacy.GetAlliance(ctx, requestID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}
	if err := s.requireOfficer(ctx, req.ToClanID, uid); err != nil {
		return err
	}

	return s.diplomacy.UpdateAlliance(ctx, requestID, func(a *model.AllianceRequest) error {
		if a.Status != model.ProposalPending {
			return ErrAlreadyResolved
		}
		a.Status = model.ProposalRejected
		if accept {
			a.Status = model.ProposalAccepted
		}
		now := time.Now()
		a.ResolvedAt = &now
		return nil
	})
}

func (s *DiplomacyService) ListAlliances(ctx context.Context, clanID string) ([]*model.AllianceRequest, error) {
	return s.diplomacy.ListAlliances(ctx, clanID)
}

// --- Trade offers ---

// CreateTradeOffer escrows gems from the creator's personal ledger and
// publishes the offer. The escrow is a CAS debit, so two offers cannot
// double-spend the same balance.
func (s *DiplomacyService) CreateTradeOffer(ctx context.Context, uid, clanID string, gemAmount int64, requestedItems []string) (*model.TradeOffer, error) {
	if gemAmount <= 0 {
		return nil, fmt.Errorf("%w: gem amount must be positive", ErrInvalidAmount)
	}
	if len(requestedItems) == 0 {
		return nil, fmt.Errorf("%w: requested items must not be empty", ErrInvalidInput)
	}

	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if player.ClanID != clanID {
		return nil, ErrNotClanMember
	}

	err = s.players.Update(ctx, uid, func(p *model.Player) error {
		if p.Gems < gemAmount {
			return ErrInsufficientResources
		}
		p.Gems -= gemAmount
		return nil
	})
	if err != nil {
		return nil, err
	}

	offer := &model.TradeOffer{
		ID:             uuid.NewString(),
		ClanID:         clanID,
		CreatorUID:     uid,
		GemAmount:      gemAmount,
		RequestedItems: requestedItems,
		Status:         model.ProposalPending,
		CreatedAt:      time.Now(),
	}
	if err := s.diplomacy.CreateTrade(ctx, offer); err != nil {
		// Escrow refund; the dual write is the documented limitation.
		_ = s.players.Update(ctx, uid, func(p *model.Player) error {
			p.Gems += gemAmount
			return nil
		})
		return nil, err
	}
	return offer, nil
}

// RespondTradeOffer accepts on behalf of another clan (officer only) or
// rejects/cancels from the offering clan. Acceptance moves the escrowed
// gems to the responder; rejection refunds the creator. The status CAS
// makes a second respond fail, so the escrow settles exactly once.
func (s *DiplomacyService) RespondTradeOffer(ctx context.Context, uid, offerID, clanID string, accept bool) error {
	offer, err := s.diplomacy.GetTrade(ctx, offerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	if accept && clanID == offer.ClanID {
		return fmt.Errorf("%w: a clan cannot accept its own offer", ErrInvalidInput)
	}
	if !accept && clanID != offer.ClanID {
		return ErrNotClanLeader
	}
	if err := s.requireOfficer(ctx, clanID, uid); err != nil {
		return err
	}

	err = s.diplomacy.UpdateTrade(ctx, offerID, func(t *model.TradeOffer) error {
		if t.Status != model.ProposalPending {
			return ErrAlreadyResolved
		}
		t.Status = model.ProposalRejected
		if accept {
			t.Status = model.ProposalAccepted
			t.AcceptedBy = clanID
		}
		now := time.Now()
		t.ResolvedAt = &now
		return nil
	})
	if err != nil {
		return err
	}

	// Settle the escrow. This write is separate from the status
	// transition; the transition above is the single-winner gate.
	settleUID := offer.CreatorUID
	if accept {
		settleUID = uid
	}
	return s.players.Update(ctx, settleUID, func(p *model.Player) error {
		p.Gems += offer.GemAmount
		return nil
	})
}

func (s *DiplomacyService) ListOpenOffers(ctx context.Context) ([]*model.TradeOffer, error) {
	return s.diplomacy.ListOpenTrades(ctx)
}

func (s *DiplomacyService) requireOfficer(ctx context.Context, clanID, uid string) error {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return clanErr(err)
	}
	member, ok := clan.Members[uid]
	if !ok {
		return ErrNotClanMember
	}
	if member.Role != model.RoleLeader && member.Role != model.RoleCoLeader {
		return ErrNotClanLeader
	}
	return nil
}
