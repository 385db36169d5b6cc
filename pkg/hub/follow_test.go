package hub_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pph/pkg/adapters/fs"
	pphlifecycle "github.com/aretw0/pph/pkg/adapters/lifecycle"
	"github.com/aretw0/pph/pkg/adapters/memory"
	"github.com/aretw0/pph/pkg/core"
	"github.com/aretw0/pph/pkg/hub"
)

func TestFollow_AppliesEvents(t *testing.T) {
	s := memory.New()
	h := setupHub(t, s)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	changes := make(chan core.Event, 1)
	require.NoError(t, h.Follow(ctx, pphlifecycle.NewSource(changes)))

	require.NoError(t, s.Write(ctx, core.KeyTodos, `[{"id":1,"text":"from elsewhere","completed":false}]`))
	changes <- core.Event{Type: core.EventWrite, Key: core.KeyTodos}

	assert.Eventually(t, func() bool { return len(h.Todos()) == 1 }, time.Second, 10*time.Millisecond)
}

func TestFollow_FilesystemWatch(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	server := fs.NewStorage(fs.Config{Path: dir})
	require.NoError(t, server.Initialize(ctx))
	h, err := hub.New(server)
	require.NoError(t, err)
	require.NoError(t, h.Bootstrap(ctx))

	events, err := server.Watch(ctx, "pph_*")
	require.NoError(t, err)
	require.NoError(t, h.Follow(ctx, pphlifecycle.NewSource(events)))

	assert.Eventually(t, func() bool {
		st := server.State().(fs.StorageState)
		return st.WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	// A second process (the CLI) writes through its own Storage.
	cli := fs.NewStorage(fs.Config{Path: dir})
	require.NoError(t, cli.Initialize(ctx))
	other, err := hub.New(cli)
	require.NoError(t, err)
	require.NoError(t, other.Bootstrap(ctx))
	require.NoError(t, other.AddTodo(ctx, "written by cli"))

	assert.Eventually(t, func() bool {
		todos := h.Todos()
		return len(todos) == 1 && todos[0].Text == "written by cli"
	}, 3*time.Second, 20*time.Millisecond)
}
