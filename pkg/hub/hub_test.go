package hub_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/pkg/adapters/memory"
	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/hub"
)

func fixedClock() func() time.Time {
	at := time.UnixMilli(1700000000000)
	return func() time.Time { return at }
}

func setupHub(t *testing.T, s core.Storage) *hub.Hub {
	t.Helper()
	h, err := hub.New(s, hub.WithClock(fixedClock()))
	require.NoError(t, err)
	require.NoError(t, h.Bootstrap(context.Background()))
	return h
}

func TestBootstrap_Defaults(t *testing.T) {
	h := setupHub(t, memory.New())
	doc := h.Document()

	assert.Equal(t, core.ThemeDark, doc.Theme)
	assert.Equal(t, "light_mode", doc.Glyph)
	assert.Equal(t, core.KindTodos, doc.ActiveTab)
	assert.Equal(t, core.DefaultAvatarURL, doc.Avatar)
	assert.Nil(t, doc.Editing)
	require.Len(t, doc.Panels, 4)
	for _, kind := range core.Kinds {
		assert.True(t, doc.Panels[kind].Empty, "panel %s", kind)
	}
}

func TestBootstrap_Idempotent(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()
	require.NoError(t, h.AddTodo(ctx, "Buy milk"))

	first := h.Document()
	require.NoError(t, h.Bootstrap(ctx))
	second := h.Document()

	assert.Equal(t, first.Panels, second.Panels)
	assert.Equal(t, 1, strings.Count(string(second.Panels[core.KindTodos].HTML), "Buy milk"))
}

func TestTodoScenario(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, h.AddTodo(ctx, "Buy milk"))
	todos := h.Todos()
	require.Len(t, todos, 1)
	assert.Equal(t, "Buy milk", todos[0].Text)
	assert.False(t, todos[0].Completed)
	assert.False(t, h.Document().Panels[core.KindTodos].Empty)

	require.NoError(t, h.ToggleTodo(ctx, todos[0].ID))
	assert.True(t, h.Todos()[0].Completed)

	require.NoError(t, h.DeleteTodo(ctx, todos[0].ID))
	assert.Empty(t, h.Todos())
	raw, ok, _ := s.Read(ctx, core.KeyTodos)
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
	assert.True(t, h.Document().Panels[core.KindTodos].Empty)
}

func TestAddTodo_BlankIsDropped(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)

	require.NoError(t, h.AddTodo(context.Background(), "   "))
	assert.Empty(t, h.Todos())
	assert.Equal(t, 0, s.Writes())
}

func TestToggleTodo_UnknownDoesNotWrite(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)

	require.NoError(t, h.ToggleTodo(context.Background(), 99))
	assert.Equal(t, 0, s.Writes())
}

func TestDistinctIDsWithFrozenClock(t *testing.T) {
	h := setupHub(t, memory.New())
	ctx := context.Background()

	require.NoError(t, h.AddTodo(ctx, "a"))
	require.NoError(t, h.AddTodo(ctx, "b"))
	todos := h.Todos()
	require.Len(t, todos, 2)
	assert.NotEqual(t, todos[0].ID, todos[1].ID)
}

func TestLinkTitleDefaultsToURL(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, h.AddLink(ctx, "", "https://example.com"))
	links := h.Links()
	require.Len(t, links, 1)
	assert.Equal(t, "https://example.com", links[0].Title)

	require.NoError(t, h.AddLink(ctx, "x", "  "))
	assert.Len(t, h.Links(), 1)

	require.NoError(t, h.DeleteLink(ctx, links[0].ID))
	assert.Empty(t, h.Links())
}

func TestImages(t *testing.T) {
	h := setupHub(t, memory.New())
	ctx := context.Background()

	require.NoError(t, h.AddImage(ctx, " https://example.com/a.png ", ""))
	images := h.Images()
	require.Len(t, images, 1)
	assert.Equal(t, "https://example.com/a.png", images[0].URL)
	assert.Contains(t, string(h.Document().Panels[core.KindImages].HTML), `alt="Image"`)

	require.NoError(t, h.DeleteImage(ctx, images[0].ID))
	assert.Empty(t, h.Images())
}

func TestNoteEditFlow(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, h.SaveNote(ctx, "Idea", "first"))
	notes := h.Notes()
	require.Len(t, notes, 1)
	id := notes[0].ID

	require.NoError(t, h.EditNote(ctx, id))
	doc := h.Document()
	require.NotNil(t, doc.Editing)
	assert.Equal(t, "Idea", doc.Editing.Title)

	// Blank save keeps the cursor.
	require.NoError(t, h.SaveNote(ctx, " ", ""))
	_, editing := h.Editing()
	assert.True(t, editing)

	require.NoError(t, h.SaveNote(ctx, "Plan", "line1\nline2"))
	_, editing = h.Editing()
	assert.False(t, editing)
	notes = h.Notes()
	require.Len(t, notes, 1, "an edit must not append")
	assert.Equal(t, id, notes[0].ID)
	assert.Equal(t, "Plan", notes[0].Title)
	assert.Contains(t, string(h.Document().Panels[core.KindNotes].HTML), "line1<br>line2")
	assert.Nil(t, h.Document().Editing)
}

func TestCancelEdit(t *testing.T) {
	h := setupHub(t, memory.New())
	ctx := context.Background()

	require.NoError(t, h.SaveNote(ctx, "a", ""))
	require.NoError(t, h.EditNote(ctx, h.Notes()[0].ID))
	require.NoError(t, h.CancelEdit(ctx))

	require.NoError(t, h.SaveNote(ctx, "b", ""))
	assert.Len(t, h.Notes(), 2, "after cancel, save adds")
}

func TestDeleteEditedNoteClearsCursor(t *testing.T) {
	h := setupHub(t, memory.New())
	ctx := context.Background()

	require.NoError(t, h.SaveNote(ctx, "a", ""))
	id := h.Notes()[0].ID
	require.NoError(t, h.EditNote(ctx, id))
	require.NoError(t, h.DeleteNote(ctx, id))

	_, editing := h.Editing()
	assert.False(t, editing)
	require.NoError(t, h.SaveNote(ctx, "b", ""))
	assert.Len(t, h.Notes(), 1)
}

func TestEditUnknownNoteIgnored(t *testing.T) {
	h := setupHub(t, memory.New())
	require.NoError(t, h.EditNote(context.Background(), 5))
	_, editing := h.Editing()
	assert.False(t, editing)
}

func TestNoteTitleIsEscaped(t *testing.T) {
	h := setupHub(t, memory.New())
	require.NoError(t, h.SaveNote(context.Background(), "<img src=x onerror=alert(1)>", ""))

	html := string(h.Document().Panels[core.KindNotes].HTML)
	assert.NotContains(t, html, "<img")
	assert.Contains(t, html, "&lt;img src=x onerror=alert(1)&gt;")
}

func TestSwitchTab(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, h.SwitchTab(ctx, "notes"))
	raw, _, _ := s.Read(ctx, core.KeyActiveTab)
	assert.Equal(t, "notes", raw)

	var buf bytes.Buffer
	require.NoError(t, h.Renderer().Page(&buf, h.Document().Page()))
	assert.Equal(t, 1, strings.Count(buf.String(), "tab--active"))

	// A fresh hub over the same storage restores the tab.
	restored := setupHub(t, s)
	assert.Equal(t, core.KindNotes, restored.Document().ActiveTab)

	assert.ErrorIs(t, h.SwitchTab(ctx, "calendar"), core.ErrUnknownTab)
	assert.Equal(t, core.KindNotes, h.Document().ActiveTab)
}

func TestToggleTheme(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	theme, err := h.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ThemeLight, theme)
	assert.Equal(t, "dark_mode", h.Document().Glyph)

	theme, err = h.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.ThemeDark, theme)
	assert.Equal(t, "light_mode", h.Document().Glyph)
	raw, _, _ := s.Read(ctx, core.KeyTheme)
	assert.Equal(t, "dark", raw)
}

func TestChangeAvatar(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	url := "https://example.com/me.png"
	require.NoError(t, h.ChangeAvatar(ctx, &url))
	assert.Equal(t, url, h.Document().Avatar)

	// Cancelled prompt changes nothing.
	writes := s.Writes()
	require.NoError(t, h.ChangeAvatar(ctx, nil))
	assert.Equal(t, writes, s.Writes())
	assert.Equal(t, url, h.Document().Avatar)

	empty := ""
	require.NoError(t, h.ChangeAvatar(ctx, &empty))
	_, ok, _ := s.Read(ctx, core.KeyAvatar)
	assert.False(t, ok)
	assert.Equal(t, core.DefaultAvatarURL, h.Document().Avatar)
}

func TestRoundTripAcrossHubs(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, h.AddTodo(ctx, "one"))
	require.NoError(t, h.AddTodo(ctx, "two"))
	require.NoError(t, h.SaveNote(ctx, "t", "c"))

	reloaded := setupHub(t, s)
	assert.Equal(t, h.Todos(), reloaded.Todos())
	assert.Equal(t, h.Notes(), reloaded.Notes())
}

func TestApplyExternalChange(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, core.KeyLinks, `[{"id":1,"title":"Go","url":"https://go.dev"}]`))
	require.NoError(t, h.Apply(ctx, core.Event{Type: core.EventWrite, Key: core.KeyLinks}))
	assert.Len(t, h.Links(), 1)
	assert.Contains(t, string(h.Document().Panels[core.KindLinks].HTML), "https://go.dev")

	require.NoError(t, s.Write(ctx, core.KeyTheme, "light"))
	require.NoError(t, h.Apply(ctx, core.Event{Type: core.EventWrite, Key: core.KeyTheme}))
	assert.Equal(t, core.ThemeLight, h.Document().Theme)
}

func TestSubscribe(t *testing.T) {
	h := setupHub(t, memory.New())
	ctx, cancel := context.WithCancel(context.Background())

	events := h.Subscribe(ctx)
	require.NoError(t, h.AddTodo(context.Background(), "x"))

	select {
	case e := <-events:
		assert.Equal(t, core.KeyTodos, e.Key)
		assert.Equal(t, int64(1700000000000), e.Timestamp)
	case <-time.After(time.Second):
		t.Fatal("no event")
	}

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestState(t *testing.T) {
	h := setupHub(t, memory.New())
	require.NoError(t, h.AddTodo(context.Background(), "x"))

	st, ok := h.State().(hub.HubState)
	require.True(t, ok)
	assert.True(t, st.Bootstrapped)
	assert.Equal(t, 1, st.Counts["todos"])
	assert.Equal(t, "memory-storage", st.StorageType)
	assert.Equal(t, "hub", h.ComponentType())
}
