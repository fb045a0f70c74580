package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + s.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, s
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("://nope")
	assert.Error(t, err)
}

func TestRedisStore_IssueLookupRevoke(t *testing.T) {
	store, _ := setupTestRedis(t)
	m := NewManager(store, time.Hour)
	ctx := context.Background()

	sess, err := m.Issue(ctx)
	require.NoError(t, err)
	assert.Len(t, sess.Token, 64)
	assert.Equal(t, MethodToken, sess.Method)
	assert.WithinDuration(t, sess.IssuedAt.Add(time.Hour), sess.ExpiresAt, time.Millisecond)

	got, err := m.Lookup(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))

	require.NoError(t, m.Revoke(ctx, sess.Token))
	_, err = m.Lookup(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_KeysAreHashed(t *testing.T) {
	store, mr := setupTestRedis(t)
	m := NewManager(store, time.Hour)

	sess, err := m.Issue(context.Background())
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "admin-session:"+hashToken(sess.Token), keys[0])
	assert.NotContains(t, keys[0], sess.Token)
}

func TestRedisStore_Expiry(t *testing.T) {
	store, mr := setupTestRedis(t)
	m := NewManager(store, time.Minute)
	ctx := context.Background()

	sess, err := m.Issue(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = m.Lookup(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	store := NewMemoryStore()
	store.now = clock
	m := NewManager(store, time.Second)
	m.now = clock
	ctx := context.Background()

	sess, err := m.Issue(ctx)
	require.NoError(t, err)

	_, err = m.Lookup(ctx, sess.Token)
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = m.Lookup(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrNotFound, "a session is dead at exactly its expiry")

	store.mu.Lock()
	assert.Empty(t, store.sessions, "expired entry is dropped on lookup")
	store.mu.Unlock()
}

func TestLookup_UnknownAndEmptyTokens(t *testing.T) {
	m := NewManager(NewMemoryStore(), time.Minute)
	ctx := context.Background()

	_, err := m.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = m.Lookup(ctx, "deadbeef")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, m.Revoke(ctx, "deadbeef"))
}
