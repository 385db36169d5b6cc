package fs

import (
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	now := time.Now()

	t.Run("Miss on Empty", func(t *testing.T) {
		c := newCache()
		if _, ok := c.Get("pph_todos", now, 2); ok {
			t.Error("expected miss on empty cache")
		}
	})

	t.Run("Hit when Fresh", func(t *testing.T) {
		c := newCache()
		c.Set("pph_todos", "[]", now, 2)

		v, ok := c.Get("pph_todos", now, 2)
		if !ok || v != "[]" {
			t.Errorf("expected hit with '[]', got %q %v", v, ok)
		}
	})

	t.Run("Miss when Stale", func(t *testing.T) {
		c := newCache()
		c.Set("pph_todos", "[]", now, 2)

		if _, ok := c.Get("pph_todos", now.Add(time.Second), 2); ok {
			t.Error("expected miss for newer mtime")
		}
		if _, ok := c.Get("pph_todos", now, 3); ok {
			t.Error("expected miss for different size")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		c := newCache()
		c.Set("a", "1", now, 1)
		c.Set("b", "2", now, 1)
		c.Delete("a")

		if c.Len() != 1 {
			t.Errorf("expected 1 entry, got %d", c.Len())
		}
	})
}
