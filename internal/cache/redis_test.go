package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-drafter/internal/config"
)

func newStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s := New(config.CacheConfig{RedisAddr: mr.Addr(), KeyPrefix: "test:", TTLMinutes: 10})
	require.NotNil(t, s)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestNewDisabledWithoutAddr(t *testing.T) {
	assert.Nil(t, New(config.CacheConfig{}))
}

func TestPutThenGet(t *testing.T) {
	s, mr := newStore(t)
	ctx := context.Background()
	key := Key("gemini-1.5-flash", "prompt")

	_, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Put(ctx, key, "DRAFT_X"))
	got, ok, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "DRAFT_X", got)

	assert.True(t, mr.Exists("test:"+key))
	assert.Equal(t, 10*time.Minute, mr.TTL("test:"+key))

	mr.FastForward(11 * time.Minute)
	_, ok, err = s.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyDependsOnModelAndPrompt(t *testing.T) {
	assert.Equal(t, Key("m", "p"), Key("m", "p"))
	assert.NotEqual(t, Key("m", "p"), Key("m2", "p"))
	assert.NotEqual(t, Key("m", "p"), Key("m", "p2"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestGetReportsConnectionErrors(t *testing.T) {
	s, mr := newStore(t)
	mr.Close()

	_, _, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
}
