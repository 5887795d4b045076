package session

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("new redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestSaveAndLookup(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	token, hash, err := NewToken()
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if HashToken(token) != hash {
		t.Fatal("hash mismatch between NewToken and HashToken")
	}

	if err := store.Save(ctx, hash, TokenData{UserID: "u1", Email: "a@b.c", Role: "user"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := store.Lookup(ctx, hash)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if data.UserID != "u1" || data.Email != "a@b.c" {
		t.Fatalf("unexpected session data: %+v", data)
	}
	if data.CreatedAt.IsZero() {
		t.Fatal("createdAt not stamped")
	}
}

func TestLookupExpired(t *testing.T) {
	store, mr := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-1", TokenData{UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	mr.FastForward(RefreshTTL + 1)

	_, err := store.Lookup(ctx, "hash-1")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestLookupMissing(t *testing.T) {
	store, _ := setupTestStore(t)

	_, err := store.Lookup(context.Background(), "nope")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRevoke(t *testing.T) {
	store, _ := setupTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-1", TokenData{UserID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Revoke(ctx, "hash-1"); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.Lookup(ctx, "hash-1"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound after revoke, got %v", err)
	}

	// Revoking an unknown token is a no-op.
	if err := store.Revoke(ctx, "unknown"); err != nil {
		t.Fatalf("revoke unknown: %v", err)
	}
}
