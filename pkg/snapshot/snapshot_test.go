package snapshot_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/pkg/adapters/memory"
	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/snapshot"
)

func seeded() *memory.Storage {
	return memory.NewFrom(map[string]string{
		core.KeyTodos:     `[{"id":1,"text":"Buy milk","completed":true}]`,
		core.KeyNotes:     `[{"id":2,"title":"","content":"a\nb"}]`,
		core.KeyLinks:     `not json`,
		core.KeyTheme:     "light",
		core.KeyActiveTab: "notes",
	})
}

func TestExportImport(t *testing.T) {
	for _, format := range []snapshot.Format{snapshot.FormatJSON, snapshot.FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			var buf bytes.Buffer
			require.NoError(t, snapshot.Export(ctx, seeded(), &buf, format))

			target := memory.NewFrom(map[string]string{core.KeyAvatar: "https://example.com/old.png"})
			require.NoError(t, snapshot.Import(ctx, target, &buf, format))

			todos, _, _ := target.Read(ctx, core.KeyTodos)
			assert.JSONEq(t, `[{"id":1,"text":"Buy milk","completed":true}]`, todos)
			notes, _, _ := target.Read(ctx, core.KeyNotes)
			assert.JSONEq(t, `[{"id":2,"title":"","content":"a\nb"}]`, notes)
			links, _, _ := target.Read(ctx, core.KeyLinks)
			assert.Equal(t, "[]", links, "malformed list exports as empty")

			theme, _, _ := target.Read(ctx, core.KeyTheme)
			assert.Equal(t, "light", theme)
			_, ok, _ := target.Read(ctx, core.KeyAvatar)
			assert.False(t, ok, "absent avatar in the snapshot clears the key")
		})
	}
}

func TestImportBrowserDump(t *testing.T) {
	dump := `{"pph_todos":"[{\"id\":5,\"text\":\"x\",\"completed\":false}]","pph_theme":"dark","other":"ignored"}`
	target := memory.New()
	ctx := context.Background()

	require.NoError(t, snapshot.Import(ctx, target, strings.NewReader(dump), snapshot.FormatJSON))

	todos, _, _ := target.Read(ctx, core.KeyTodos)
	assert.JSONEq(t, `[{"id":5,"text":"x","completed":false}]`, todos)
	theme, _, _ := target.Read(ctx, core.KeyTheme)
	assert.Equal(t, "dark", theme)
	_, ok, _ := target.Read(ctx, "other")
	assert.False(t, ok)
}

func TestImportDropsDuplicateIDs(t *testing.T) {
	doc := `
version: 1
todos:
  - {id: 7, text: first, completed: false}
  - {id: 7, text: copy, completed: true}
  - {id: 8, text: other, completed: false}
notes:
  - {id: 3, title: a, content: ""}
  - {id: 3, title: b, content: ""}
`
	target := memory.New()
	ctx := context.Background()
	require.NoError(t, snapshot.Import(ctx, target, strings.NewReader(doc), snapshot.FormatYAML))

	todos, _, _ := target.Read(ctx, core.KeyTodos)
	assert.JSONEq(t, `[{"id":7,"text":"first","completed":false},{"id":8,"text":"other","completed":false}]`, todos)
	notes, _, _ := target.Read(ctx, core.KeyNotes)
	assert.JSONEq(t, `[{"id":3,"title":"a","content":""}]`, notes)
}

func TestImportNewerVersion(t *testing.T) {
	err := snapshot.Import(context.Background(), memory.New(), strings.NewReader(`{"version":99}`), snapshot.FormatJSON)
	assert.Error(t, err)
}

func TestFormats(t *testing.T) {
	f, err := snapshot.ParseFormat("YML")
	require.NoError(t, err)
	assert.Equal(t, snapshot.FormatYAML, f)

	_, err = snapshot.ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, snapshot.FormatYAML, snapshot.FormatForPath("backup.yaml"))
	assert.Equal(t, snapshot.FormatJSON, snapshot.FormatForPath("backup"))
}
