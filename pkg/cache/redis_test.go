package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type page struct {
	Text string `json:"text"`
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestNewClient_EmptyURLDisablesRedis(t *testing.T) {
	rdb, err := NewClient("")
	require.NoError(t, err)
	require.Nil(t, rdb)
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient("://bad")
	require.Error(t, err)
}

func TestRemember_CachesUntilInvalidated(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(ctx context.Context) (*page, error) {
		calls++
		return &page{Text: "v1"}, nil
	}

	got, err := Remember(ctx, rdb, "content:test", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "v1", got.Text)

	got, err = Remember(ctx, rdb, "content:test", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, "v1", got.Text)
	require.Equal(t, 1, calls)

	require.NoError(t, Invalidate(ctx, rdb, "content:test"))
	_, err = Remember(ctx, rdb, "content:test", time.Minute, load)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestRemember_NilClientAlwaysLoads(t *testing.T) {
	calls := 0
	load := func(ctx context.Context) (*page, error) {
		calls++
		return nil, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Remember(context.Background(), nil, "k", time.Minute, load)
		require.NoError(t, err)
		require.Nil(t, got)
	}
	require.Equal(t, 3, calls)
}

func TestRemember_ExpiresWithTTL(t *testing.T) {
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	calls := 0
	load := func(ctx context.Context) (*page, error) {
		calls++
		return &page{Text: "x"}, nil
	}

	_, err := Remember(ctx, rdb, "k", time.Second, load)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)
	_, err = Remember(ctx, rdb, "k", time.Second, load)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestCheckAndSetAndConsume(t *testing.T) {
	_, rdb := newTestRedis(t)
	ctx := context.Background()

	ok, err := CheckAndSet(ctx, rdb, "oauth_state:abc", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = CheckAndSet(ctx, rdb, "oauth_state:abc", time.Minute)
	require.NoError(t, err)
	require.False(t, ok)

	existed, err := Consume(ctx, rdb, "oauth_state:abc")
	require.NoError(t, err)
	require.True(t, existed)

	existed, err = Consume(ctx, rdb, "oauth_state:abc")
	require.NoError(t, err)
	require.False(t, existed)
}
