package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/formforge/formforge/internal/auth"
	"github.com/formforge/formforge/internal/cache"
	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/repository"
)

func authedCtx(userID string) context.Context {
	return auth.WithUser(context.Background(), &auth.Claims{UserID: userID})
}

func newTestCoordinator() *cache.Coordinator {
	return cache.New(auth.ContextIdentity{}, time.Minute, 5*time.Minute)
}

func newWorkspaceService() (*WorkspaceService, *FormService) {
	store := docstore.NewMemStore()
	workspaces := repository.NewWorkspaceRepo(store)
	forms := repository.NewFormRepo(store)
	coord := newTestCoordinator()
	return NewWorkspaceService(workspaces, forms, coord),
		NewFormService(forms, workspaces, coord)
}

func TestFirstWorkspaceIsDefault(t *testing.T) {
	svc, _ := newWorkspaceService()
	ctx := authedCtx("u1")

	first, err := svc.Create(ctx, "u1", "Team A", "", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !first.IsDefault {
		t.Fatal("first workspace must be the default")
	}

	second, err := svc.Create(ctx, "u1", "Team B", "", false)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second workspace must not be the default")
	}

	// A different owner's first workspace is their default.
	other, err := svc.Create(authedCtx("u2"), "u2", "Solo", "", false)
	if err != nil {
		t.Fatalf("create for u2: %v", err)
	}
	if !other.IsDefault {
		t.Fatal("first workspace of another owner must be default")
	}
}

func TestExplicitDefaultDemotesPrevious(t *testing.T) {
	svc, _ := newWorkspaceService()
	ctx := authedCtx("u1")

	first, err := svc.Create(ctx, "u1", "Team A", "", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(ctx, "u1", "Team B", "", true)
	if err != nil {
		t.Fatalf("create with default requested: %v", err)
	}
	if !second.IsDefault {
		t.Fatal("explicitly requested workspace must be the default")
	}

	got, err := svc.Get(ctx, "u1", first.ID)
	if err != nil {
		t.Fatalf("get previous default: %v", err)
	}
	if got.IsDefault {
		t.Fatal("previous default must be demoted")
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	defaults := 0
	for _, w := range list {
		if w.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly one default workspace, got %d", defaults)
	}
}

func TestWorkspaceUpdatePatchesOnlyGivenFields(t *testing.T) {
	svc, _ := newWorkspaceService()
	ctx := authedCtx("u1")

	w, err := svc.Create(ctx, "u1", "Team", "notes", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Renamed"
	got, err := svc.Update(ctx, "u1", w.ID, &name, nil)
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if got.Name != "Renamed" || got.Description != "notes" {
		t.Fatalf("name-only patch touched description: %+v", got)
	}

	// An explicit empty description clears it; the name is untouched.
	empty := ""
	got, err = svc.Update(ctx, "u1", w.ID, nil, &empty)
	if err != nil {
		t.Fatalf("update description: %v", err)
	}
	if got.Name != "Renamed" || got.Description != "" {
		t.Fatalf("description-only patch touched name: %+v", got)
	}

	if _, err := svc.Update(ctx, "u1", w.ID, &empty, nil); err == nil {
		t.Fatal("expected error for empty name")
	}

	// The persisted record matches the patched copy.
	fresh, err := svc.Get(ctx, "u1", w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fresh.Name != "Renamed" || fresh.Description != "" {
		t.Fatalf("persisted record diverges from patch: %+v", fresh)
	}
}

func TestWorkspaceCreateRequiresName(t *testing.T) {
	svc, _ := newWorkspaceService()
	if _, err := svc.Create(authedCtx("u1"), "u1", "", "", false); err == nil {
		t.Fatal("expected error for empty name")
	}
}

func TestWorkspaceCreateRequiresUser(t *testing.T) {
	svc, _ := newWorkspaceService()
	_, err := svc.Create(context.Background(), "u1", "Team", "", false)
	if !errors.Is(err, cache.ErrQueriesDisabled) {
		t.Fatalf("expected ErrQueriesDisabled, got %v", err)
	}
}

func TestWorkspaceOwnershipEnforced(t *testing.T) {
	svc, _ := newWorkspaceService()
	w, err := svc.Create(authedCtx("u1"), "u1", "Team", "", false)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(authedCtx("u2"), "u2", w.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestWorkspaceListReflectsCreate(t *testing.T) {
	svc, _ := newWorkspaceService()
	ctx := authedCtx("u1")

	if _, err := svc.Create(ctx, "u1", "Team A", "", false); err != nil {
		t.Fatalf("create: %v", err)
	}
	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Team A" {
		t.Fatalf("unexpected list: %+v", list)
	}

	// The list cache must be invalidated by the next create.
	if _, err := svc.Create(ctx, "u1", "Team B", "", false); err != nil {
		t.Fatalf("create second: %v", err)
	}
	list, err = svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list again: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 workspaces after create, got %d", len(list))
	}
}

func TestDeleteDetachesFormsAndKeepsDefault(t *testing.T) {
	svc, formSvc := newWorkspaceService()
	ctx := authedCtx("u1")

	def, _ := svc.Create(ctx, "u1", "Default", "", false)
	extra, _ := svc.Create(ctx, "u1", "Extra", "", false)

	if err := svc.Delete(ctx, "u1", def.ID); err == nil {
		t.Fatal("default workspace must not be deletable")
	}

	f, err := formSvc.Create(ctx, "u1", extra.ID, "Survey", "")
	if err != nil {
		t.Fatalf("create form: %v", err)
	}
	if err := svc.Delete(ctx, "u1", extra.ID); err != nil {
		t.Fatalf("delete workspace: %v", err)
	}

	// The form survives, detached from the deleted workspace.
	got, err := formSvc.Get(ctx, "u1", f.ID)
	if err != nil {
		t.Fatalf("get form after delete: %v", err)
	}
	if got.WorkspaceID != "" {
		t.Fatalf("form still attached to deleted workspace: %q", got.WorkspaceID)
	}
	if _, err := svc.Get(ctx, "u1", extra.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted workspace, got %v", err)
	}
}
