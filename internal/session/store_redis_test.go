package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, "test:console")
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	want := Session{
		AccessToken:  "access-redis",
		RefreshToken: "refresh-redis",
		Account:      json.RawMessage(`{"roleName":"MODERATOR"}`),
		LoggedIn:     true,
	}
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.AccessToken != want.AccessToken || got.RefreshToken != want.RefreshToken {
		t.Fatalf("tokens did not round-trip: %+v", got)
	}
	if got.Role() != "MODERATOR" {
		t.Fatalf("expected MODERATOR claim, got %q", got.Role())
	}
	if !got.LoggedIn {
		t.Fatal("expected logged-in flag to persist")
	}
}

func TestRedisStoreClearRemovesEveryKey(t *testing.T) {
	ctx := context.Background()
	store := newRedisStore(t)

	if err := store.Save(ctx, Session{AccessToken: "a", RefreshToken: "r", LoggedIn: true}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	// Clearing again must stay a no-op.
	if err := store.Clear(ctx); err != nil {
		t.Fatalf("second clear: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected empty session after clear, got %+v", got)
	}
}

func TestRedisStoreLoadEmpty(t *testing.T) {
	got, err := newRedisStore(t).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.IsZero() {
		t.Fatalf("expected empty session, got %+v", got)
	}
}
