package platform_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/internal/platform"
	"github.com/aretw0/pph/pkg/core"
)

func TestNew_PersistsAcrossInstances(t *testing.T) {
	for _, adapter := range []string{platform.AdapterFS, platform.AdapterSQLite} {
		t.Run(adapter, func(t *testing.T) {
			dir := t.TempDir()
			ctx := context.Background()

			h, err := platform.New(dir, platform.WithAdapter(adapter))
			require.NoError(t, err)

			require.NoError(t, h.AddTodo(ctx, "Buy milk"))
			require.NoError(t, h.SaveNote(ctx, "Idea", "line1\nline2"))
			require.NoError(t, h.AddLink(ctx, "", "https://example.com"))
			require.NoError(t, h.AddImage(ctx, "https://example.com/a.png", "sunset"))
			require.NoError(t, h.SwitchTab(ctx, "links"))
			_, err = h.ToggleTheme(ctx)
			require.NoError(t, err)
			require.NoError(t, h.Close())

			reopened, err := platform.New(dir, platform.WithAdapter(adapter))
			require.NoError(t, err)
			defer reopened.Close()

			assert.Equal(t, h.Todos(), reopened.Todos())
			assert.Equal(t, h.Notes(), reopened.Notes())
			assert.Equal(t, h.Links(), reopened.Links())
			assert.Equal(t, h.Images(), reopened.Images())

			doc := reopened.Document()
			assert.Equal(t, core.KindLinks, doc.ActiveTab)
			assert.Equal(t, core.ThemeLight, doc.Theme)
		})
	}
}

func TestNew_FSLayoutIsVerbatim(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	h, err := platform.New(dir)
	require.NoError(t, err)
	require.NoError(t, h.AddLink(ctx, "", "https://example.com"))

	raw, err := os.ReadFile(filepath.Join(dir, core.KeyLinks))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"title":"https://example.com"`)
	assert.Contains(t, string(raw), `"url":"https://example.com"`)
}

func TestNew_ReadsExistingBrowserData(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.KeyTodos),
		[]byte(`[{"id":1712345678901,"text":"legacy","completed":true}]`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, core.KeyNotes), []byte(`{broken`), 0644))

	h, err := platform.New(dir)
	require.NoError(t, err)

	todos := h.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, int64(1712345678901), todos[0].ID)
	assert.Empty(t, h.Notes(), "malformed notes fall back to empty")
}
