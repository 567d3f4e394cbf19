package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/agentforge/internal/persistence"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worldsim.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveGameThenGetSaveRoundTrips(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	meta, err := s.SaveGame(ctx, []byte("world-state-bytes"))
	require.NoError(t, err)
	assert.NotEmpty(t, meta.ID)
	assert.Equal(t, len("world-state-bytes"), meta.SizeBytes)

	blob, err := s.GetSave(ctx, meta.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("world-state-bytes"), blob.Data)
}

func TestGetSaveUnknownIDReturnsErrNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetSave(context.Background(), persistence.SaveID("missing"))

	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestListSavesOrdersNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.SaveGame(ctx, []byte("a"))
	require.NoError(t, err)
	second, err := s.SaveGame(ctx, []byte("b"))
	require.NoError(t, err)

	metas, err := s.ListSaves(ctx)
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Contains(t, []persistence.SaveID{first.ID, second.ID}, metas[0].ID)
}

func TestDeleteSaveRemovesIt(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	meta, err := s.SaveGame(ctx, []byte("x"))
	require.NoError(t, err)

	ok, err := s.DeleteSave(ctx, meta.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetSave(ctx, meta.ID)
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestDeleteSaveUnknownIDReturnsFalse(t *testing.T) {
	s := openTestStore(t)

	ok, err := s.DeleteSave(context.Background(), persistence.SaveID("missing"))

	require.NoError(t, err)
	assert.False(t, ok)
}
