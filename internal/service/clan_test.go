package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"biomistrz-backend/internal/model"
	"biomistrz-backend/internal/repository"
	"biomistrz-backend/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testCreateGems = 500
	testCreateElo  = 100
	testThreshold  = 1000
	testBossHP     = 20000
	testRetries    = 200
)

type testEnv struct {
	mem         *store.Memory
	playerRepo  *repository.PlayerRepository
	clanRepo    *repository.ClanRepository
	bossRepo    *repository.BossRepository
	territories *repository.TerritoryRepository
	eventRepo   *repository.EventRepository

	clans     *ClanService
	territory *TerritoryService
	boss      *BossService
	diplomacy *DiplomacyService
	chat      *ChatService
	players   *PlayerService
}

func newTestEnv() *testEnv {
	mem := store.NewMemory()
	clanRepo := repository.NewClanRepository(mem, testRetries)
	playerRepo := repository.NewPlayerRepository(mem, testRetries)
	bossRepo := repository.NewBossRepository(mem, testRetries)
	territoryRepo := repository.NewTerritoryRepository(mem, testRetries)
	diplomacyRepo := repository.NewDiplomacyRepository(mem, testRetries)
	chatRepo := repository.NewChatRepository(mem)
	eventRepo := repository.NewEventRepository(mem)

	events := NewEventService(eventRepo, clanRepo, NewDiscordWebhookService("", ""), nil)

	return &testEnv{
		mem:         mem,
		playerRepo:  playerRepo,
		clanRepo:    clanRepo,
		bossRepo:    bossRepo,
		territories: territoryRepo,
		eventRepo:   eventRepo,
		clans: NewClanService(clanRepo, playerRepo, bossRepo, chatRepo, events, ClanCosts{
			Gems: testCreateGems,
			Elo:  testCreateElo,
		}),
		territory: NewTerritoryService(territoryRepo, playerRepo, events, testThreshold),
		boss: NewBossService(bossRepo, clanRepo, playerRepo, events, BossConfig{
			MaxHP:     testBossHP,
			TTL:       24 * time.Hour,
			MaxDamage: testBossHP,
		}),
		diplomacy: NewDiplomacyService(diplomacyRepo, clanRepo, playerRepo),
		chat:      NewChatService(chatRepo, playerRepo, nil),
		players:   NewPlayerService(playerRepo),
	}
}

func (e *testEnv) seedPlayer(t *testing.T, uid string, elo int, gems int64) {
	t.Helper()
	err := e.playerRepo.Put(context.Background(), &model.Player{
		UID:      uid,
		Username: "user-" + uid,
		Elo:      elo,
		Gems:     gems,
	})
	require.NoError(t, err)
}

func (e *testEnv) createClan(t *testing.T, uid, name string) *model.Clan {
	t.Helper()
	clan, err := e.clans.Create(context.Background(), uid, &model.CreateClanRequest{
		Name:     name,
		IsPublic: true,
	})
	require.NoError(t, err)
	return clan
}

func (e *testEnv) getPlayer(t *testing.T, uid string) *model.Player {
	t.Helper()
	p, err := e.playerRepo.Get(context.Background(), uid)
	require.NoError(t, err)
	return p
}

func TestClanCreate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 200, 1000)

	clan, err := env.clans.Create(ctx, "u1", &model.CreateClanRequest{
		Name:     "Mitochondria",
		IsPublic: true,
		MinElo:   50,
	})
	require.NoError(t, err)

	assert.Equal(t, "Mitochondria", clan.Name)
	assert.Equal(t, 1, clan.MemberCount)
	assert.Equal(t, 200, clan.TotalElo)
	require.Contains(t, clan.Members, "u1")
	assert.Equal(t, model.RoleLeader, clan.Members["u1"].Role)

	p := env.getPlayer(t, "u1")
	assert.Equal(t, int64(1000-testCreateGems), p.Gems)
	assert.Equal(t, clan.ID, p.ClanID)

	events, err := env.eventRepo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, model.EventClanCreated, events[0].Type)
}

func TestClanCreateEloTooLow(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 50, 1000)

	_, err := env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: "Enzymes"})
	assert.ErrorIs(t, err, ErrEloTooLow)

	p := env.getPlayer(t, "u1")
	assert.Equal(t, int64(1000), p.Gems, "failed create must not debit")
	assert.Empty(t, p.ClanID)
}

func TestClanCreateInsufficientGems(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 200, 100)
	env.seedPlayer(t, "u2", 200, 1000)

	_, err := env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: "Helisa"})
	assert.ErrorIs(t, err, ErrInsufficientResources)

	// The name claim must be released so someone else can use it.
	_, err = env.clans.Create(ctx, "u2", &model.CreateClanRequest{Name: "Helisa"})
	require.NoError(t, err)
}

func TestClanCreateNameTaken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 200, 1000)
	env.seedPlayer(t, "u2", 200, 1000)
	env.createClan(t, "u1", "Rybosomy")

	_, err := env.clans.Create(ctx, "u2", &model.CreateClanRequest{Name: "  RYBOSOMY "})
	assert.ErrorIs(t, err, ErrNameTaken)
}

func TestClanCreateValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 200, 1000)

	_, err := env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: strings.Repeat("x", 25)})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: "ok", MinElo: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestClanCreateAlreadyInClan(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 200, 2000)
	env.createClan(t, "u1", "First")

	_, err := env.clans.Create(ctx, "u1", &model.CreateClanRequest{Name: "Second"})
	assert.ErrorIs(t, err, ErrAlreadyInClan)
}

func TestClanJoin(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "novice", 10, 0)
	env.seedPlayer(t, "veteran", 300, 0)

	clan, err := env.clans.Create(ctx, "leader", &model.CreateClanRequest{
		Name:     "Fotosynteza",
		IsPublic: true,
		MinElo:   100,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, env.clans.Join(ctx, clan.ID, "novice"), ErrEloTooLow)
	require.NoError(t, env.clans.Join(ctx, clan.ID, "veteran"))

	updated, err := env.clans.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MemberCount)
	assert.Equal(t, 500, updated.TotalElo)
	assert.Equal(t, model.RoleMember, updated.Members["veteran"].Role)
	assert.Equal(t, clan.ID, env.getPlayer(t, "veteran").ClanID)

	assert.ErrorIs(t, env.clans.Join(ctx, clan.ID, "veteran"), ErrAlreadyMember)
}

func TestClanJoinPrivate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "outsider", 200, 0)

	clan, err := env.clans.Create(ctx, "leader", &model.CreateClanRequest{Name: "Secret"})
	require.NoError(t, err)

	assert.ErrorIs(t, env.clans.Join(ctx, clan.ID, "outsider"), ErrClanPrivate)
}

func TestAddMemberBypassesEloGate(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "novice", 10, 0)

	clan, err := env.clans.Create(ctx, "leader", &model.CreateClanRequest{
		Name: "Invites", IsPublic: true, MinElo: 150,
	})
	require.NoError(t, err)

	require.NoError(t, env.clans.AddMember(ctx, clan.ID, "leader", "novice"))
	assert.Equal(t, clan.ID, env.getPlayer(t, "novice").ClanID)
}

func TestAddMemberRequiresOfficer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "member", 200, 0)
	env.seedPlayer(t, "target", 200, 0)

	clan := env.createClan(t, "leader", "Strict")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "member"))

	assert.ErrorIs(t, env.clans.AddMember(ctx, clan.ID, "member", "target"), ErrNotClanLeader)
}

func TestOneClanPerPlayer(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "l1", 200, 1000)
	env.seedPlayer(t, "l2", 200, 1000)
	env.seedPlayer(t, "drifter", 200, 0)

	clanA := env.createClan(t, "l1", "Alpha")
	clanB := env.createClan(t, "l2", "Beta")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = env.clans.Join(ctx, clanA.ID, "drifter")
		}()
		go func() {
			defer wg.Done()
			_ = env.clans.Join(ctx, clanB.ID, "drifter")
		}()
	}
	wg.Wait()

	drifter := env.getPlayer(t, "drifter")
	require.NotEmpty(t, drifter.ClanID)

	a, err := env.clans.Get(ctx, clanA.ID)
	require.NoError(t, err)
	b, err := env.clans.Get(ctx, clanB.ID)
	require.NoError(t, err)

	_, inA := a.Members["drifter"]
	_, inB := b.Members["drifter"]
	assert.NotEqual(t, inA, inB, "player must end up in exactly one clan")
	if inA {
		assert.Equal(t, clanA.ID, drifter.ClanID)
	} else {
		assert.Equal(t, clanB.ID, drifter.ClanID)
	}
}

func TestLeaveSoleLeaderDissolves(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "other", 200, 1000)

	clan := env.createClan(t, "leader", "Ephemeral")
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	require.NoError(t, env.clans.Leave(ctx, clan.ID, "leader"))

	_, err = env.clans.Get(ctx, clan.ID)
	assert.ErrorIs(t, err, ErrClanNotFound)
	assert.Empty(t, env.getPlayer(t, "leader").ClanID)

	_, err = env.bossRepo.Get(ctx, clan.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Name is free again.
	_, err = env.clans.Create(ctx, "other", &model.CreateClanRequest{Name: "Ephemeral"})
	require.NoError(t, err)
}

func TestLeaveLeaderMustPromote(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "member", 200, 0)

	clan := env.createClan(t, "leader", "Sticky")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "member"))

	assert.ErrorIs(t, env.clans.Leave(ctx, clan.ID, "leader"), ErrLeaderMustPromote)
}

func TestLeaveMember(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "member", 150, 0)

	clan := env.createClan(t, "leader", "Revolving")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "member"))
	require.NoError(t, env.clans.Leave(ctx, clan.ID, "member"))

	updated, err := env.clans.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.MemberCount)
	assert.Equal(t, 200, updated.TotalElo)
	assert.Empty(t, env.getPlayer(t, "member").ClanID)

	assert.ErrorIs(t, env.clans.Leave(ctx, clan.ID, "member"), ErrNotClanMember)
}

func TestKick(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "officer", 200, 0)
	env.seedPlayer(t, "member", 200, 0)

	clan := env.createClan(t, "leader", "Discipline")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "officer"))
	require.NoError(t, env.clans.Join(ctx, clan.ID, "member"))
	require.NoError(t, env.clans.SetRole(ctx, clan.ID, "leader", "officer", model.RoleCoLeader))

	// A plain member cannot kick.
	assert.ErrorIs(t, env.clans.Kick(ctx, clan.ID, "member", "officer"), ErrNotClanLeader)
	// Nobody kicks the leader.
	assert.ErrorIs(t, env.clans.Kick(ctx, clan.ID, "officer", "leader"), ErrNotClanLeader)

	require.NoError(t, env.clans.Kick(ctx, clan.ID, "officer", "member"))
	assert.Empty(t, env.getPlayer(t, "member").ClanID)

	updated, err := env.clans.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.NotContains(t, updated.Members, "member")
}

func TestSetRole(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "member", 200, 0)

	clan := env.createClan(t, "leader", "Hierarchy")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "member"))

	assert.ErrorIs(t, env.clans.SetRole(ctx, clan.ID, "leader", "member", "emperor"), ErrInvalidInput)
	assert.ErrorIs(t, env.clans.SetRole(ctx, clan.ID, "member", "member", model.RoleCoLeader), ErrNotClanLeader)
	assert.ErrorIs(t, env.clans.SetRole(ctx, clan.ID, "leader", "leader", model.RoleMember), ErrNotClanLeader)

	require.NoError(t, env.clans.SetRole(ctx, clan.ID, "leader", "member", model.RoleCoLeader))
	updated, err := env.clans.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleCoLeader, updated.Members["member"].Role)
}

func TestClanListPublicSorted(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "a", 100, 1000)
	env.seedPlayer(t, "b", 300, 1000)
	env.seedPlayer(t, "c", 200, 1000)

	env.createClan(t, "a", "Low")
	env.createClan(t, "b", "High")
	_, err := env.clans.Create(ctx, "c", &model.CreateClanRequest{Name: "Hidden", IsPublic: false})
	require.NoError(t, err)

	list, err := env.clans.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "High", list[0].Name)
	assert.Equal(t, "Low", list[1].Name)
}
