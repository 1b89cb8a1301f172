package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/ports/portstest"
	"github.com/GibaTrindade/bot-seplag/internal/session"
)

func newTestRedis(t *testing.T, opts ...session.RedisOption) (*session.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := session.NewRedisStoreFromClient(client, opts...)
	t.Cleanup(func() { _ = store.Close() })

	return store, mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newTestRedis(t)
	portstest.SessionStoreContractTest(t, store)
}

func TestRedisStore_TTLExpiration(t *testing.T) {
	store, mr := newTestRedis(t, session.WithRedisTTL(time.Minute))
	ctx := context.Background()

	_, err := store.Create(ctx, "user")
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, "user")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_TouchSlidesTTL(t *testing.T) {
	store, mr := newTestRedis(t, session.WithRedisTTL(time.Minute))
	ctx := context.Background()

	_, err := store.Create(ctx, "user")
	require.NoError(t, err)

	// Touch just before the deadline; the fresh window must carry the
	// session past the original one.
	mr.FastForward(50 * time.Second)
	require.NoError(t, store.Touch(ctx, "user"))
	mr.FastForward(50 * time.Second)

	_, err = store.Get(ctx, "user")
	assert.NoError(t, err)

	mr.FastForward(time.Minute)
	_, err = store.Get(ctx, "user")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newTestRedis(t, session.WithPrefix("custom:bot:"))
	ctx := context.Background()

	_, err := store.Create(ctx, "5581999990000")
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:bot:5581999990000"))
}
