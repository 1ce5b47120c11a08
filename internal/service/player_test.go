package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerGetRanking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 240, 100)

	ranking, err := env.players.GetRanking(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", ranking.UID)
	assert.Equal(t, 240, ranking.Elo)

	_, err = env.players.GetRanking(ctx, "missing")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestPlayerGrant(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedPlayer(t, "u1", 100, 50)

	require.NoError(t, env.players.Grant(ctx, "u1", 200, 10))
	p := env.getPlayer(t, "u1")
	assert.Equal(t, int64(250), p.Gems)
	assert.Equal(t, 110, p.Elo)

	// Negative grants floor at zero.
	require.NoError(t, env.players.Grant(ctx, "u1", -10_000, -10_000))
	p = env.getPlayer(t, "u1")
	assert.Equal(t, int64(0), p.Gems)
	assert.Equal(t, 0, p.Elo)
}

func TestPlayerGrantUpsert(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	require.NoError(t, env.players.Grant(ctx, "fresh", 100, 20))
	p := env.getPlayer(t, "fresh")
	assert.Equal(t, int64(100), p.Gems)
	assert.Equal(t, 20, p.Elo)

	count, err := env.players.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
