package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/repository"
	"github.com/formforge/formforge/internal/session"
)

func newAuthService(t *testing.T) (*AuthService, *WorkspaceService, *auth.Notifier) {
	t.Helper()
	store := docstore.NewMemStore()
	users := repository.NewUserRepo(store)
	workspaces := repository.NewWorkspaceRepo(store)
	forms := repository.NewFormRepo(store)
	coord := newTestCoordinator()
	wsSvc := NewWorkspaceService(workspaces, forms, coord)

	mr := miniredis.RunT(t)
	sessions, err := session.NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	t.Cleanup(func() { sessions.Close() })

	notifier := auth.NewNotifier()
	return NewAuthService(users, wsSvc, sessions, notifier, "test-secret"), wsSvc, notifier
}

func TestRegisterCreatesDefaultWorkspace(t *testing.T) {
	svc, wsSvc, _ := newAuthService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, "a@b.c", "hunter2", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if res.Token == "" || res.RefreshToken == "" {
		t.Fatalf("missing tokens: %+v", res)
	}
	if res.User.Email != "a@b.c" || res.User.Role != "user" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	list, err := wsSvc.List(authedCtx(res.User.ID), res.User.ID)
	if err != nil {
		t.Fatalf("list workspaces: %v", err)
	}
	if len(list) != 1 || !list[0].IsDefault {
		t.Fatalf("default workspace not created: %+v", list)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.c", "hunter2", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "a@b.c", "other", "Eve"); err == nil {
		t.Fatal("expected duplicate email error")
	}
}

func TestLogin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "a@b.c", "hunter2", "Ada"); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, "a@b.c", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := auth.ValidateToken("test-secret", res.Token)
	if err != nil {
		t.Fatalf("validate issued token: %v", err)
	}
	if claims.Email != "a@b.c" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, err := svc.Login(ctx, "a@b.c", "wrong"); err == nil {
		t.Fatal("expected invalid credentials")
	}
	if _, err := svc.Login(ctx, "nobody@b.c", "hunter2"); err == nil {
		t.Fatal("expected invalid credentials for unknown email")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, "a@b.c", "hunter2", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Refresh(ctx, reg.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if res.RefreshToken == reg.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	// The used token is dead.
	if _, err := svc.Refresh(ctx, reg.RefreshToken); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for reused token, got %v", err)
	}
}

func TestLogoutRevokesAndNotifies(t *testing.T) {
	svc, _, notifier := newAuthService(t)
	ctx := context.Background()

	var events []auth.Event
	notifier.Subscribe(func(ev auth.Event, userID string) {
		events = append(events, ev)
	})

	res, err := svc.Register(ctx, "a@b.c", "hunter2", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.Logout(ctx, res.RefreshToken, res.User.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, res.RefreshToken); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected revoked refresh token, got %v", err)
	}

	if len(events) != 2 || events[0] != auth.EventLogin || events[1] != auth.EventLogout {
		t.Fatalf("unexpected events: %v", events)
	}
}

func TestSeedAdmin(t *testing.T) {
	svc, _, _ := newAuthService(t)
	ctx := context.Background()

	if err := svc.SeedAdmin(ctx, "admin@b.c", "secret"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	res, err := svc.Login(ctx, "admin@b.c", "secret")
	if err != nil {
		t.Fatalf("login as admin: %v", err)
	}
	if res.User.Role != "admin" {
		t.Fatalf("expected admin role, got %q", res.User.Role)
	}

	// Seeding again is a no-op.
	if err := svc.SeedAdmin(ctx, "admin@b.c", "other"); err != nil {
		t.Fatalf("re-seed: %v", err)
	}
	if _, err := svc.Login(ctx, "admin@b.c", "secret"); err != nil {
		t.Fatalf("original password must still work: %v", err)
	}
}
