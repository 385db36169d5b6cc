package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pphlifecycle "github.com/aretw0/pph/pkg/adapters/lifecycle"
	"github.com/aretw0/pph/pkg/core"
)

func TestSource_Forwards(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event, 1)
	src := pphlifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventWrite, Key: core.KeyNotes}

	select {
	case e := <-src.Events():
		ev, ok := e.(core.Event)
		require.True(t, ok)
		assert.Equal(t, core.KeyNotes, ev.Key)
		assert.Equal(t, "WRITE pph_notes", e.String())
	case <-ctx.Done():
		t.Fatal("timed out")
	}
}

func TestSource_ClosesWithInput(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	in := make(chan core.Event)
	src := pphlifecycle.NewSource(in)
	require.NoError(t, src.Start(ctx))
	close(in)

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok)
	case <-ctx.Done():
		t.Fatal("source did not close")
	}
}
