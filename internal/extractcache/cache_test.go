package extractcache

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"ifyoulike/internal/services"
)

type countingBackend struct {
	model string
	reply string
	err   error
	calls int
}

func (b *countingBackend) Complete(context.Context, string, string) (string, error) {
	b.calls++
	return b.reply, b.err
}

func (b *countingBackend) Model() string { return b.model }

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "completions.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStoreRoundTripIsKeyedByModel(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	if _, ok, err := store.Get(ctx, "m1", "sys", "user"); err != nil || ok {
		t.Fatalf("expected empty cache, got ok=%v err=%v", ok, err)
	}
	if err := store.Put(ctx, "m1", "sys", "user", `{"artist_searches":["Beck"]}`); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	if err := store.Put(ctx, "m1", "sys", "user", `{"artist_searches":["Air"]}`); err != nil {
		t.Fatalf("second Put returned error: %v", err)
	}
	got, ok, err := store.Get(ctx, "m1", "sys", "user")
	if err != nil || !ok || got != `{"artist_searches":["Air"]}` {
		t.Fatalf("Get = %q, %v, %v", got, ok, err)
	}
	if _, ok, _ := store.Get(ctx, "m2", "sys", "user"); ok {
		t.Fatal("expected miss for another model")
	}
	if n, err := store.Len(ctx, ""); err != nil || n != 1 {
		t.Fatalf("Len = %d, %v", n, err)
	}
	if removed, err := store.Purge(ctx, "m1"); err != nil || removed != 1 {
		t.Fatalf("Purge = %d, %v", removed, err)
	}
}

func TestOpenRejectsConcurrentUse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "completions.db")
	first, err := Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	defer first.Close()

	if _, err := Open(context.Background(), path); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected lock contention error, got %v", err)
	}
}

func TestCompleterServesRepeatsFromCache(t *testing.T) {
	backend := &countingBackend{model: "gpt", reply: `{"ok":true}`}
	c := Wrap(backend, openStore(t), nil)
	ctx := context.Background()

	for range 3 {
		got, err := c.Complete(ctx, "sys", "IIL Beck")
		if err != nil || got != `{"ok":true}` {
			t.Fatalf("Complete = %q, %v", got, err)
		}
	}
	if backend.calls != 1 {
		t.Fatalf("expected one backend call, got %d", backend.calls)
	}
	if hits, misses := c.Stats(); hits != 2 || misses != 1 {
		t.Fatalf("unexpected stats hits=%d misses=%d", hits, misses)
	}
	if c.Model() != "gpt" {
		t.Fatalf("unexpected model %q", c.Model())
	}
}

func TestCompleterDoesNotCacheFailures(t *testing.T) {
	backend := &countingBackend{model: "gpt", err: errors.New("http 503")}
	store := openStore(t)
	c := Wrap(backend, store, nil)

	if _, err := c.Complete(context.Background(), "sys", "user"); err == nil {
		t.Fatal("expected backend error")
	}
	if n, _ := store.Len(context.Background(), ""); n != 0 {
		t.Fatalf("expected nothing cached, got %d", n)
	}
}

func TestPromptHashSeparatesFields(t *testing.T) {
	if PromptHash("ab", "c") == PromptHash("a", "bc") {
		t.Fatal("prompt boundary must affect the hash")
	}
}
