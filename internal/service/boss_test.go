package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"biomistrz-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBossSpawnIfNeeded(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Raiders")

	boss, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(testBossHP), boss.CurrentHP)
	assert.Equal(t, int64(testBossHP), boss.MaxHP)
	assert.NotEmpty(t, boss.Name)

	// Idempotent while the boss is alive.
	again, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, boss.ID, again.ID)
}

func TestBossSpawnUnknownClan(t *testing.T) {
	env := newTestEnv()
	_, err := env.boss.SpawnIfNeeded(context.Background(), "no-such-clan")
	assert.ErrorIs(t, err, ErrClanNotFound)
}

func TestBossSpawnConcurrentSingleWinner(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Racers")

	const callers = 10
	bosses := make([]*model.ClanBoss, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
			assert.NoError(t, err)
			bosses[i] = b
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		require.NotNil(t, bosses[i])
		assert.Equal(t, bosses[0].ID, bosses[i].ID, "everyone must see the same boss")
	}
}

func TestBossAttack(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Hitters")
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	res, err := env.boss.Attack(ctx, clan.ID, "leader", 1500)
	require.NoError(t, err)
	assert.Equal(t, int64(testBossHP-1500), res.CurrentHP)
	assert.False(t, res.BossDead)

	boss, err := env.bossRepo.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1500), boss.Participants["leader"])
	assert.Equal(t, []string{"leader"}, boss.HitOrder)
}

func TestBossAttackValidation(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	env.seedPlayer(t, "stranger", 200, 0)
	clan := env.createClan(t, "leader", "Guarded")
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	_, err = env.boss.Attack(ctx, clan.ID, "leader", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = env.boss.Attack(ctx, clan.ID, "leader", testBossHP+1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = env.boss.Attack(ctx, clan.ID, "stranger", 100)
	assert.ErrorIs(t, err, ErrNotClanMember)
}

func TestBossConcurrentOverkill(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "a", 200, 1000)
	env.seedPlayer(t, "b", 200, 0)
	clan := env.createClan(t, "a", "Overkill")
	require.NoError(t, env.clans.Join(ctx, clan.ID, "b"))
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := env.boss.Attack(ctx, clan.ID, "a", 8000)
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := env.boss.Attack(ctx, clan.ID, "b", 15000)
		assert.NoError(t, err)
	}()
	wg.Wait()

	boss, err := env.bossRepo.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), boss.CurrentHP, "HP floors at zero")
	assert.True(t, boss.Defeated())
	require.NotNil(t, boss.DefeatedAt)
	// Participants keep the full reported damage, past remaining HP.
	assert.Equal(t, int64(8000), boss.Participants["a"])
	assert.Equal(t, int64(15000), boss.Participants["b"])
}

func TestBossAttackAfterDefeat(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Finished")
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	res, err := env.boss.Attack(ctx, clan.ID, "leader", testBossHP)
	require.NoError(t, err)
	assert.True(t, res.BossDead)

	_, err = env.boss.Attack(ctx, clan.ID, "leader", 100)
	assert.ErrorIs(t, err, ErrBossDefeated)

	// The rejected attack must not have credited anything.
	boss, err := env.bossRepo.Get(ctx, clan.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(testBossHP), boss.Participants["leader"])

	events, err := env.eventRepo.Recent(ctx, 10)
	require.NoError(t, err)
	var defeats int
	for _, ev := range events {
		if ev.Type == model.EventBossDefeated {
			defeats++
		}
	}
	assert.Equal(t, 1, defeats)
}

func TestBossExpiry(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Patient")

	spawned, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	env.boss.now = func() time.Time { return spawned.ActiveUntil.Add(time.Minute) }

	_, err = env.boss.Attack(ctx, clan.ID, "leader", 100)
	assert.ErrorIs(t, err, ErrBossExpired)

	// The next spawn call replaces the expired boss with a fresh one.
	fresh, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)
	assert.NotEqual(t, spawned.ID, fresh.ID)
	assert.Equal(t, int64(testBossHP), fresh.CurrentHP)
}

func TestBossRespawnAfterDefeat(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Again")

	first, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)
	_, err = env.boss.Attack(ctx, clan.ID, "leader", testBossHP)
	require.NoError(t, err)

	second, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, int64(testBossHP), second.CurrentHP)
	assert.Empty(t, second.Participants)
}

func TestBossRanking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Ranked")

	uids := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	for _, uid := range uids {
		env.seedPlayer(t, uid, 100, 0)
		require.NoError(t, env.clans.AddMember(ctx, clan.ID, "leader", uid))
	}
	_, err := env.boss.SpawnIfNeeded(ctx, clan.ID)
	require.NoError(t, err)

	damages := map[string]int64{"p1": 100, "p2": 500, "p3": 300, "p4": 300, "p5": 50, "p6": 40}
	// Fixed hit order so the tie between p3 and p4 resolves to p3.
	for _, uid := range []string{"p1", "p2", "p3", "p4", "p5", "p6"} {
		_, err := env.boss.Attack(ctx, clan.ID, uid, damages[uid])
		require.NoError(t, err)
	}

	ranking, err := env.boss.Ranking(ctx, clan.ID)
	require.NoError(t, err)
	require.Len(t, ranking, 5, "ranking is capped at five entries")

	got := make([]string, len(ranking))
	for i, e := range ranking {
		got[i] = fmt.Sprintf("%s:%d", e.UID, e.Damage)
	}
	assert.Equal(t, []string{"p2:500", "p3:300", "p4:300", "p1:100", "p5:50"}, got)
}

func TestBossRankingNoBoss(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "leader", 200, 1000)
	clan := env.createClan(t, "leader", "Quiet")

	_, err := env.boss.Ranking(ctx, clan.ID)
	assert.ErrorIs(t, err, ErrNoBoss)

	_, err = env.boss.Attack(ctx, clan.ID, "leader", 100)
	assert.ErrorIs(t, err, ErrNoBoss)
}
