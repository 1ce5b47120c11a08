package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"

	"github.com/google/uuid"
)

// Boss catalog. Spawn picks one at random; HP and lifetime come from
// config so the balance can be tuned without a deploy.
var bossCatalog = []struct {
	Name   string
	Avatar string
	Flavor string
}{
	{"Mitochondrialny Tytan", "boss_mitochondrium", "Elektrownia, która wymknęła się spod kontroli."},
	{"Królowa Enzymów", "boss_enzym", "Katalizuje wyłącznie porażki."},
	{"Widmo Fotosyntezy", "boss_chloroplast", "Zielone, złowrogie i pełne ATP."},
	{"Strażnik Helisy", "boss_dna", "Pilnuje podwójnej helisy jak skarbu."},
	{"Pożeracz Rybosomów", "boss_rybosom", "Tłumaczy mRNA na czysty chaos."},
}

type BossConfig struct {
	MaxHP     int64
	TTL       time.Duration
	MaxDamage int64
}

type BossService struct {
	bosses  *repository.BossRepository
	clans   *repository.ClanRepository
	players *repository.PlayerRepository
	events  *EventService
	cfg     BossConfig
	now     func() time.Time
}

func NewBossService(
	bosses *repository.BossRepository,
	clans *repository.ClanRepository,
	players *repository.PlayerRepository,
	events *EventService,
	cfg BossConfig,
) *BossService {
	return &BossService{
		bosses:  bosses,
		clans:   clans,
		players: players,
		events:  events,
		cfg:     cfg,
		now:     time.Now,
	}
}

// SpawnIfNeeded returns the clan's live boss, creating one when none
// exists or the previous one is resolved. The conditional create
// collapses the first-access race to a single winner; replacing a
// resolved boss is a CAS guarded so a concurrently spawned live boss is
// left untouched.
func (s *BossService) SpawnIfNeeded(ctx context.Context, clanID string) (*model.ClanBoss, error) {
	if _, err := s.clans.Get(ctx, clanID); err != nil {
		return nil, clanErr(err)
	}

	now := s.now()
	boss, err := s.bosses.Get(ctx, clanID)
	if errors.Is(err, store.ErrNotFound) {
		fresh := s.generate(clanID, now)
		if err := s.bosses.Create(ctx, fresh); err == nil {
			return fresh, nil
		} else if !errors.Is(err, store.ErrExists) {
			return nil, err
		}
		// Lost the spawn race; fall through to the winner's boss.
		boss, err = s.bosses.Get(ctx, clanID)
		if err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	if boss.Attackable(now) {
		return boss, nil
	}

	// Previous boss resolved (dead or expired): swap in a fresh one,
	// unless a concurrent caller already did.
	fresh := s.generate(clanID, now)
	err = s.bosses.Update(ctx, clanID, func(b *model.ClanBoss) error {
		if b.Attackable(s.now()) {
			return store.ErrUnchanged
		}
		*b = *fresh
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.bosses.Get(ctx, clanID)
}

// Attack applies caller-reported damage. HP floors at zero; the
// participant credit, the HP decrement, and the defeat flag commit in
// one CAS. Damage is clamped by config but otherwise taken as the
// client reports it.
func (s *BossService) Attack(ctx context.Context, clanID, uid string, damage int64) (*model.AttackResult, error) {
	if damage <= 0 {
		return nil, fmt.Errorf("%w: damage must be positive", ErrInvalidAmount)
	}
	if s.cfg.MaxDamage > 0 && damage > s.cfg.MaxDamage {
		return nil, fmt.Errorf("%w: damage exceeds per-attack limit", ErrInvalidAmount)
	}

	player, err := s.players.Get(ctx, uid)
	if err != nil {
		return nil, playerErr(err)
	}
	if player.ClanID != clanID {
		return nil, ErrNotClanMember
	}

	var result model.AttackResult
	var defeated *model.ClanBoss
	err = s.bosses.Update(ctx, clanID, func(b *model.ClanBoss) error {
		now := s.now()
		if b.Defeated() {
			return ErrBossDefeated
		}
		if b.Expired(now) {
			return ErrBossExpired
		}

		b.CurrentHP -= damage
		if b.CurrentHP < 0 {
			b.CurrentHP = 0
		}
		if b.Participants == nil {
			b.Participants = make(map[string]int64)
		}
		if _, seen := b.Participants[uid]; !seen {
			b.HitOrder = append(b.HitOrder, uid)
		}
		b.Participants[uid] += damage

		defeated = nil
		if b.CurrentHP == 0 {
			t := now
			b.DefeatedAt = &t
			snapshot := *b
			defeated = &snapshot
		}
		result = model.AttackResult{CurrentHP: b.CurrentHP, BossDead: b.CurrentHP == 0}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoBoss
		}
		return nil, err
	}

	if defeated != nil {
		s.events.RecordBossDefeated(ctx, defeated)
	}
	return &result, nil
}

// Ranking returns the top five attackers by cumulative damage, ties
// broken by first-hit order.
func (s *BossService) Ranking(ctx context.Context, clanID string) ([]model.BossRankEntry, error) {
	boss, err := s.bosses.Get(ctx, clanID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrNoBoss
	}
	if err != nil {
		return nil, err
	}

	firstHit := make(map[string]int, len(boss.HitOrder))
	for i, uid := range boss.HitOrder {
		firstHit[uid] = i
	}

	entries := make([]model.BossRankEntry, 0, len(boss.Participants))
	for uid, dmg := range boss.Participants {
		entries = append(entries, model.BossRankEntry{UID: uid, Damage: dmg})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Damage != entries[j].Damage {
			return entries[i].Damage > entries[j].Damage
		}
		return firstHit[entries[i].UID] < firstHit[entries[j].UID]
	})
	if len(entries) > 5 {
		entries = entries[:5]
	}
	return entries, nil
}

func (s *BossService) generate(clanID string, now time.Time) *model.ClanBoss {
	pick := bossCatalog[rand.Intn(len(bossCatalog))]
	return &model.ClanBoss{
		ID:           uuid.NewString(),
		ClanID:       clanID,
		Name:         pick.Name,
		Avatar:       pick.Avatar,
		Flavor:       pick.Flavor,
		MaxHP:        s.cfg.MaxHP,
		CurrentHP:    s.cfg.MaxHP,
		SpawnedAt:    now,
		ActiveUntil:  now.Add(s.cfg.TTL),
		Participants: make(map[string]int64),
	}
}
