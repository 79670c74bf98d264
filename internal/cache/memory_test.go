package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore[string](10, time.Minute)
	ctx := context.Background()

	if _, ok := s.Get(ctx, "k"); ok {
		t.Fatal("expected miss on empty store")
	}

	s.Set(ctx, "k", "valor")
	got, ok := s.Get(ctx, "k")
	if !ok || got != "valor" {
		t.Fatalf("Get = %q, %v; want %q, true", got, ok, "valor")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore[int](10, 10*time.Millisecond)
	ctx := context.Background()

	s.Set(ctx, "k", 42)
	time.Sleep(20 * time.Millisecond)

	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("expected expired entry to miss")
	}
	if n := s.Size(); n != 0 {
		t.Errorf("Size after expired Get = %d, want 0", n)
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	s := NewMemoryStore[int](2, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "a", 1)
	s.Set(ctx, "b", 2)
	s.Get(ctx, "a") // a is now most recently used
	s.Set(ctx, "c", 3)

	if _, ok := s.Get(ctx, "b"); ok {
		t.Error("expected least recently used key b to be evicted")
	}
	if _, ok := s.Get(ctx, "a"); !ok {
		t.Error("expected recently used key a to survive")
	}
	if _, ok := s.Get(ctx, "c"); !ok {
		t.Error("expected new key c present")
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore[int](10, time.Minute)
	ctx := context.Background()

	s.Set(ctx, "k", 1)
	s.Delete(ctx, "k")
	if _, ok := s.Get(ctx, "k"); ok {
		t.Error("expected deleted key to miss")
	}
	s.Delete(ctx, "absent") // must not panic
}

func TestCleanExpired(t *testing.T) {
	s := NewMemoryStore[int](10, 10*time.Millisecond)
	ctx := context.Background()

	s.Set(ctx, "a", 1)
	s.Set(ctx, "b", 2)
	time.Sleep(20 * time.Millisecond)
	s.Set(ctx, "c", 3)

	if n := s.CleanExpired(); n != 2 {
		t.Errorf("CleanExpired = %d, want 2", n)
	}
	if n := s.Size(); n != 1 {
		t.Errorf("Size = %d, want 1", n)
	}
}

func TestManagerSweeps(t *testing.T) {
	s := NewMemoryStore[int](10, time.Millisecond)
	ctx := context.Background()
	s.Set(ctx, "k", 1)

	m := NewManager()
	m.Register(s)
	m.StartCleanup(5 * time.Millisecond)

	deadline := time.After(time.Second)
	for s.Size() != 0 {
		select {
		case <-deadline:
			t.Fatal("manager never swept the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
	m.Stop()
}
