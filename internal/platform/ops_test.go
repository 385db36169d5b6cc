package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/internal/platform"
	"github.com/aretw0/pph/pkg/adapters/fs"
	"github.com/aretw0/pph/pkg/adapters/memory"
	"github.com/aretw0/pph/pkg/adapters/sqlite"
	"github.com/aretw0/pph/pkg/core"
)

func TestOpen(t *testing.T) {
	t.Run("FS Creates Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")

		s, err := platform.Open(dir)
		require.NoError(t, err)

		fsStorage, ok := s.(*fs.Storage)
		require.True(t, ok, "expected fs storage, got %T", s)
		assert.Equal(t, dir, fsStorage.Path)

		info, err := os.Stat(filepath.Join(dir, fs.DefaultSystemDir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("FS MustExist Fails if Directory Missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "missing")
		_, err := platform.Open(dir, platform.WithMustExist(true))
		assert.Error(t, err)
	})

	t.Run("SQLite Uses Database File In Directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db")

		s, err := platform.Open(dir, platform.WithAdapter(platform.AdapterSQLite))
		require.NoError(t, err)
		defer s.(core.Closer).Close()

		_, ok := s.(*sqlite.Storage)
		require.True(t, ok)
		require.NoError(t, s.Write(context.Background(), core.KeyTheme, "light"))

		_, err = os.Stat(filepath.Join(dir, platform.DatabaseFile))
		assert.NoError(t, err)
	})

	t.Run("Memory", func(t *testing.T) {
		s, err := platform.Open("", platform.WithAdapter(platform.AdapterMemory))
		require.NoError(t, err)
		_, ok := s.(*memory.Storage)
		assert.True(t, ok)
	})

	t.Run("Injected Storage Wins", func(t *testing.T) {
		injected := memory.New()
		s, err := platform.Open("ignored", platform.WithStorage(injected), platform.WithAdapter("bogus"))
		require.NoError(t, err)
		assert.Same(t, injected, s)
	})

	t.Run("Unknown Adapter", func(t *testing.T) {
		_, err := platform.Open(t.TempDir(), platform.WithAdapter("redis"))
		assert.Error(t, err)
	})

	t.Run("Read Only", func(t *testing.T) {
		dir := t.TempDir()
		s, err := platform.Open(dir, platform.WithReadOnly(true))
		require.NoError(t, err)

		err = s.Write(context.Background(), core.KeyTheme, "dark")
		assert.ErrorIs(t, err, core.ErrReadOnly)
	})
}
