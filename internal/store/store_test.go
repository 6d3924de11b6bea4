package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "loop:a:b", []byte("distraction")))
	value, found, err := s.Get(ctx, "loop:a:b")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("distraction"), value)

	// Overwrite replaces.
	require.NoError(t, s.Put(ctx, "loop:a:b", []byte("productive")))
	value, _, err = s.Get(ctx, "loop:a:b")
	require.NoError(t, err)
	assert.Equal(t, []byte("productive"), value)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	ctx := context.Background()

	original := []byte("value")
	require.NoError(t, s.Put(ctx, "k", original))
	original[0] = 'X'

	got, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)

	// Mutating the returned slice must not affect the stored copy.
	got[0] = 'Y'
	again, _, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), again)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Put(ctx, "report:2024-03-10", []byte(`{"ok":true}`)))
	value, found, err := s.Get(ctx, "report:2024-03-10")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"ok":true}`, string(value))

	require.NoError(t, s.Put(ctx, "report:2024-03-10", []byte(`{"ok":false}`)))
	value, _, err = s.Get(ctx, "report:2024-03-10")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":false}`, string(value))
}

func TestSQLiteStorePersistsAcrossOpens(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "loopscope.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	value, found, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)
}
