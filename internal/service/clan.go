package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"

	"github.com/google/uuid"
)

const maxClanNameLen = 24

// ClanCosts is the creation gate: the creator needs at least Elo points
// and pays Gems from their personal ledger. Waived in test mode.
type ClanCosts struct {
	Gems     int64
	Elo      int
	TestMode bool
}

type ClanService struct {
	clans   *repository.ClanRepository
	players *repository.PlayerRepository
	bosses  *repository.BossRepository
	chat    *repository.ChatRepository
	events  *EventService
	costs   ClanCosts
}

func NewClanService(
	clans *repository.ClanRepository,
	players *repository.PlayerRepository,
	bosses *repository.BossRepository,
	chat *repository.ChatRepository,
	events *EventService,
	costs ClanCosts,
) *ClanService {
	return &ClanService{
		clans:   clans,
		players: players,
		bosses:  bosses,
		chat:    chat,
		events:  events,
		costs:   costs,
	}
}

// Create validates the request, charges the creator, and persists the clan
// with the creator as sole leader. The gem debit (a CAS on the player
// document) and the clan create are two separate writes; on a crash in
// between, the debit can land without the clan. Debit goes first so the
// failure mode is never an unpaid clan.
func (s *ClanService) Create(ctx context.Context, uid string, req *model.CreateClanRequest) (*model.Clan, error) {
	name := repository.NormalizeName(req.Name)
	if name == "" || utf8.RuneCountInString(req.Name) > maxClanNameLen {
		return nil, fmt.Errorf("%w: clan name must be 1-%d characters", ErrInvalidInput, maxClanNameLen)
	}
	if req.MinElo < 0 {
		return nil, fmt.Errorf("%w: min_elo must not be negative", ErrInvalidInput)
	}

	creator, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if creator.ClanID != "" {
		return nil, ErrAlreadyInClan
	}
	if !s.costs.TestMode && creator.Elo < s.costs.Elo {
		return nil, ErrEloTooLow
	}

	clanID := uuid.NewString()

	if err := s.clans.ClaimName(ctx, req.Name, clanID); err != nil {
		if errors.Is(err, store.ErrExists) {
			return nil, ErrNameTaken
		}
		return nil, err
	}

	// Charge and bind the creator in one CAS so the gem debit and the
	// one-clan-per-user claim cannot diverge from each other.
	err = s.players.Update(ctx, uid, func(p *model.Player) error {
		if p.ClanID != "" {
			return ErrAlreadyInClan
		}
		if !s.costs.TestMode {
			if p.Gems < s.costs.Gems {
				return ErrInsufficientResources
			}
			p.Gems -= s.costs.Gems
		}
		p.ClanID = clanID
		creator = p
		return nil
	})
	if err != nil {
		_ = s.clans.ReleaseName(ctx, req.Name)
		return nil, err
	}

	now := time.Now()
	clan := &model.Clan{
		ID:       clanID,
		Name:     req.Name,
		Avatar:   req.Avatar,
		IsPublic: req.IsPublic,
		MinElo:   req.MinElo,
		Location: req.Location,
		Members: map[string]model.ClanMember{
			uid: memberFromPlayer(creator, model.RoleLeader, now),
		},
		CreatedAt: now,
	}
	clan.RecomputeAggregates()

	if err := s.clans.Create(ctx, clan); err != nil {
		// The debit already committed; partial failure here is the
		// documented dual-write limitation.
		log.Printf("[clan] create after debit failed for %s: %v", uid, err)
		return nil, err
	}

	s.events.RecordClanCreated(ctx, clan)
	return clan, nil
}

func (s *ClanService) Get(ctx context.Context, clanID string) (*model.Clan, error) {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return nil, clanErr(err)
	}
	return clan, nil
}

// List returns public clans ordered by total ELO, best first.
func (s *ClanService) List(ctx context.Context) ([]*model.Clan, error) {
	all, err := s.clans.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Clan
	for _, c := range all {
		if c.IsPublic {
			out = append(out, c)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].TotalElo > out[j-1].TotalElo; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out, nil
}

func (s *ClanService) GetMembers(ctx context.Context, clanID string) ([]model.ClanMember, error) {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return nil, clanErr(err)
	}
	members := make([]model.ClanMember, 0, len(clan.Members))
	for _, m := range clan.Members {
		members = append(members, m)
	}
	return members, nil
}

// Join inserts the caller into a public clan. The player document is
// claimed first (one clan per user, enforced by CAS), then the member
// map and aggregates change in a single clan-document CAS.
func (s *ClanService) Join(ctx context.Context, clanID, uid string) error {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return clanErr(err)
	}
	if !clan.IsPublic {
		return ErrClanPrivate
	}

	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return playerErr(err)
	}
	if player.Elo < clan.MinElo {
		return ErrEloTooLow
	}

	return s.admit(ctx, clanID, uid)
}

// AddMember is the invite path: leader or co-leader pulls a player in,
// bypassing the minElo gate.
func (s *ClanService) AddMember(ctx context.Context, clanID, inviterUID, targetUID string) error {
	if err := s.requireRole(ctx, clanID, inviterUID, model.RoleCoLeader); err != nil {
		return err
	}
	return s.admit(ctx, clanID, targetUID)
}

func (s *ClanService) admit(ctx context.Context, clanID, uid string) error {
	var joined *model.Player
	err := s.players.Update(ctx, uid, func(p *model.Player) error {
		if p.ClanID == clanID {
			return ErrAlreadyMember
		}
		if p.ClanID != "" {
			return ErrAlreadyInClan
		}
		p.ClanID = clanID
		joined = p
		return nil
	})
	if err != nil {
		return playerErr(err)
	}

	now := time.Now()
	err = s.clans.Update(ctx, clanID, func(c *model.Clan) error {
		if _, ok := c.Members[uid]; ok {
			return ErrAlreadyMember
		}
		c.Members[uid] = memberFromPlayer(joined, model.RoleMember, now)
		c.RecomputeAggregates()
		return nil
	})
	if err != nil {
		// Clan vanished or membership conflicted; release the claim.
		_ = s.players.Update(ctx, uid, func(p *model.Player) error {
			if p.ClanID != clanID {
				return store.ErrUnchanged
			}
			p.ClanID = ""
			return nil
		})
		return clanErr(err)
	}
	return nil
}

// Leave removes the caller. The sole remaining member (the leader by
// invariant) dissolves the clan; a leader with members must promote a
// co-leader first.
func (s *ClanService) Leave(ctx context.Context, clanID, uid string) error {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return clanErr(err)
	}
	member, ok := clan.Members[uid]
	if !ok {
		return ErrNotClanMember
	}

	if member.Role == model.RoleLeader && len(clan.Members) == 1 {
		return s.dissolve(ctx, clan, uid)
	}
	if member.Role == model.RoleLeader {
		return ErrLeaderMustPromote
	}

	err = s.clans.Update(ctx, clanID, func(c *model.Clan) error {
		if _, ok := c.Members[uid]; !ok {
			return ErrNotClanMember
		}
		delete(c.Members, uid)
		c.RecomputeAggregates()
		return nil
	})
	if err != nil {
		return clanErr(err)
	}

	s.clearPlayerClan(ctx, uid, clanID)
	return nil
}

// Kick removes a member; leader or co-leader only, and never the leader.
func (s *ClanService) Kick(ctx context.Context, clanID, actorUID, targetUID string) error {
	if err := s.requireRole(ctx, clanID, actorUID, model.RoleCoLeader); err != nil {
		return err
	}
	err := s.clans.Update(ctx, clanID, func(c *model.Clan) error {
		target, ok := c.Members[targetUID]
		if !ok {
			return ErrNotClanMember
		}
		if target.Role == model.RoleLeader {
			return ErrNotClanLeader
		}
		delete(c.Members, targetUID)
		c.RecomputeAggregates()
		return nil
	})
	if err != nil {
		return clanErr(err)
	}
	s.clearPlayerClan(ctx, targetUID, clanID)
	return nil
}

// SetRole promotes or demotes between member and co-leader. The leader
// role is never assigned here, which keeps exactly one leader alive.
func (s *ClanService) SetRole(ctx context.Context, clanID, actorUID, targetUID, role string) error {
	if role != model.RoleMember && role != model.RoleCoLeader {
		return fmt.Errorf("%w: role must be member or co-leader", ErrInvalidInput)
	}
	if err := s.requireRole(ctx, clanID, actorUID, model.RoleLeader); err != nil {
		return err
	}
	err := s.clans.Update(ctx, clanID, func(c *model.Clan) error {
		target, ok := c.Members[targetUID]
		if !ok {
			return ErrNotClanMember
		}
		if target.Role == model.RoleLeader {
			return ErrNotClanLeader
		}
		target.Role = role
		c.Members[targetUID] = target
		return nil
	})
	return clanErr(err)
}

func (s *ClanService) dissolve(ctx context.Context, clan *model.Clan, uid string) error {
	if err := s.clans.Delete(ctx, clan.ID); err != nil {
		return clanErr(err)
	}
	s.clearPlayerClan(ctx, uid, clan.ID)

	// Associated documents become orphans; clean up best-effort.
	_ = s.clans.ReleaseName(ctx, clan.Name)
	if err := s.bosses.Delete(ctx, clan.ID); err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("[clan] boss cleanup for %s: %v", clan.ID, err)
	}
	if err := s.chat.Purge(ctx, clan.ID); err != nil {
		log.Printf("[clan] chat cleanup for %s: %v", clan.ID, err)
	}

	s.events.RecordClanDissolved(ctx, clan)
	return nil
}

func (s *ClanService) clearPlayerClan(ctx context.Context, uid, clanID string) {
	err := s.players.Update(ctx, uid, func(p *model.Player) error {
		if p.ClanID != clanID {
			return store.ErrUnchanged
		}
		p.ClanID = ""
		return nil
	})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Printf("[clan] clearing clan_id for %s: %v", uid, err)
	}
}

// requireRole checks that the actor holds at least the given role in the
// clan. Role order: member < co-leader < leader.
func (s *ClanService) requireRole(ctx context.Context, clanID, uid, minRole string) error {
	clan, err := s.clans.Get(ctx, clanID)
	if err != nil {
		return clanErr(err)
	}
	member, ok := clan.Members[uid]
	if !ok {
		return ErrNotClanMember
	}
	if rolePriority(member.Role) < rolePriority(minRole) {
		return ErrNotClanLeader
	}
	return nil
}

func rolePriority(role string) int {
	switch role {
	case model.RoleLeader:
		return 2
	case model.RoleCoLeader:
		return 1
	default:
		return 0
	}
}

func memberFromPlayer(p *model.Player, role string, joined time.Time) model.ClanMember {
	return model.ClanMember{
		UID:      p.UID,
		Username: p.Username,
		Avatar:   p.Avatar,
		Role:     role,
		Elo:      p.Elo,
		Wins:     p.Wins,
		Losses:   p.Losses,
		JoinedAt: joined,
	}
}

func clanErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrClanNotFound
	}
	return err
}

func playerErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrPlayerNotFound
	}
	return err
}
