package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/pph/pkg/adapters/memory"
)

func TestStorage_CRUD(t *testing.T) {
	s := memory.New()
	ctx := context.TODO()

	// 1. Absent key
	if _, ok, err := s.Read(ctx, "k"); err != nil || ok {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	// 2. Write + Read
	if err := s.Write(ctx, "k", "v1"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	v, ok, err := s.Read(ctx, "k")
	if err != nil || !ok || v != "v1" {
		t.Fatalf("Read = %q, %v, %v", v, ok, err)
	}

	// 3. Keys
	_ = s.Write(ctx, "a", "x")
	keys, _ := s.Keys(ctx)
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "k" {
		t.Errorf("unexpected keys: %v", keys)
	}

	// 4. Remove is idempotent
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("second Remove failed: %v", err)
	}
	if _, ok, _ := s.Read(ctx, "k"); ok {
		t.Error("key still present after Remove")
	}

	if s.Writes() != 4 {
		t.Errorf("expected 4 writes, got %d", s.Writes())
	}
}

func TestNewFrom(t *testing.T) {
	s := memory.NewFrom(map[string]string{"pph_theme": "light"})
	v, ok, _ := s.Read(context.Background(), "pph_theme")
	if !ok || v != "light" {
		t.Errorf("expected seeded value, got %q %v", v, ok)
	}
}
