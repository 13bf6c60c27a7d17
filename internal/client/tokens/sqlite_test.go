package tokens

import (
	"context"
	"errors"
	"path/filepath"
	"time"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_SetGet(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k1", "v1"))

	v, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v1", v)
}

func TestSQLiteStore_GetMissing(t *testing.T) {
	s := openMemory(t)

	v, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.False(t, ok)
	require.Empty(t, v)
}

func TestSQLiteStore_SetOverwrites(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "old"))
	require.NoError(t, s.Set(ctx, "k", "new"))

	v, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestSQLiteStore_RemoveIsIdempotent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", "v"))
	require.NoError(t, s.Remove(ctx, "k"))
	require.NoError(t, s.Remove(ctx, "k"))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSQLiteStore_UpdateRollsBack(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "a", "1"))

	boom := errors.New("boom")
	err := s.Update(ctx, func(kv KV) error {
		require.NoError(t, kv.Set(ctx, "a", "2"))
		require.NoError(t, kv.Set(ctx, "b", "2"))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, _, _ := s.Get(ctx, "a")
	assert.Equal(t, "1", v)
	_, ok, _ := s.Get(ctx, "b")
	assert.False(t, ok)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	ctx := context.Background()

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	m := NewManager(s)
	require.NoError(t, m.SetTokens(ctx, "acc", "ref", fixedNow.Add(time.Hour)))
	require.NoError(t, s.Close())

	s2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s2.Close() })

	m2 := NewManager(s2, WithClock(func() time.Time { return fixedNow }))
	assert.Equal(t, "acc", m2.AccessToken(ctx))
	assert.Equal(t, "ref", m2.RefreshToken(ctx))
	assert.False(t, m2.IsTokenExpired(ctx))
}
