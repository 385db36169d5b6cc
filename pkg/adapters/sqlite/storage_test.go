package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/pkg/adapters/sqlite"
	"github.com/aretw0/pph/pkg/core"
)

func TestStorage_CRUD(t *testing.T) {
	s := sqlite.NewStorage(sqlite.Config{DSN: ":memory:"})
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	defer s.Close()

	_, ok, err := s.Read(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Write(ctx, core.KeyTodos, "[]"))
	require.NoError(t, s.Write(ctx, core.KeyTodos, `[{"id":1,"text":"x","completed":true}]`))

	v, ok, err := s.Read(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1,"text":"x","completed":true}]`, v, "upsert keeps the latest value")

	require.NoError(t, s.Write(ctx, core.KeyTheme, "light"))
	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{core.KeyTheme, core.KeyTodos}, keys)

	require.NoError(t, s.Remove(ctx, core.KeyTodos))
	require.NoError(t, s.Remove(ctx, core.KeyTodos))
	_, ok, err = s.Read(ctx, core.KeyTodos)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorage_PersistsAcrossOpen(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "pph.db")
	ctx := context.Background()

	first := sqlite.NewStorage(sqlite.Config{DSN: dsn})
	require.NoError(t, first.Initialize(ctx))
	require.NoError(t, first.Write(ctx, core.KeyAvatar, "https://example.com/me.png"))
	require.NoError(t, first.Close())

	second := sqlite.NewStorage(sqlite.Config{DSN: dsn})
	require.NoError(t, second.Initialize(ctx))
	defer second.Close()

	v, ok, err := second.Read(ctx, core.KeyAvatar)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/me.png", v)
}

func TestStorage_ReadOnly(t *testing.T) {
	s := sqlite.NewStorage(sqlite.Config{DSN: ":memory:", ReadOnly: true})
	ctx := context.Background()
	require.NoError(t, s.Initialize(ctx))
	defer s.Close()

	err := s.Write(ctx, core.KeyTheme, "dark")
	assert.True(t, errors.Is(err, core.ErrReadOnly))
}

func TestStorage_NotInitialized(t *testing.T) {
	s := sqlite.NewStorage(sqlite.Config{})
	_, _, err := s.Read(context.Background(), core.KeyTheme)
	assert.Error(t, err)
}
