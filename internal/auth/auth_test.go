package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("secret", "u1", "a@b.c", "user")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateToken("secret", token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "u1" || claims.Email != "a@b.c" || claims.Role != "user" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _ := GenerateToken("secret", "u1", "a@b.c", "user")
	if _, err := ValidateToken("other", token); err == nil {
		t.Fatal("expected validation failure with wrong secret")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "hunter2") {
		t.Fatal("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("wrong password accepted")
	}
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUser(r.Context())
	})
	handler := Middleware("secret")(next)

	// No token.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	// Garbage token.
	rr = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", rr.Code)
	}

	// Valid token.
	token, _ := GenerateToken("secret", "u1", "a@b.c", "user")
	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rr.Code)
	}
	if seen == nil || seen.UserID != "u1" {
		t.Fatalf("claims not attached to context: %+v", seen)
	}
}

func TestContextIdentity(t *testing.T) {
	id := ContextIdentity{}

	if _, ok := id.CurrentUser(context.Background()); ok {
		t.Fatal("expected no user on empty context")
	}

	ctx := WithUser(context.Background(), &Claims{UserID: "u1"})
	user, ok := id.CurrentUser(ctx)
	if !ok || user != "u1" {
		t.Fatalf("expected u1, got %q %v", user, ok)
	}
}

func TestNotifier(t *testing.T) {
	n := NewNotifier()
	var events []Event
	var users []string
	n.Subscribe(func(ev Event, userID string) {
		events = append(events, ev)
		users = append(users, userID)
	})

	n.Notify(EventLogin, "u1")
	n.Notify(EventLogout, "u1")

	if len(events) != 2 || events[0] != EventLogin || events[1] != EventLogout {
		t.Fatalf("unexpected events: %v", events)
	}
	if users[0] != "u1" || users[1] != "u1" {
		t.Fatalf("unexpected users: %v", users)
	}
}
