package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/formforge/formforge/internal/cache"
	"github.com/formforge/formforge/internal/models"
	"github.com/formforge/formforge/internal/repository"
)

type WorkspaceService struct {
	workspaces *repository.WorkspaceRepo
	forms      *repository.FormRepo
	cache      *cache.Coordinator
}

func NewWorkspaceService(workspaces *repository.WorkspaceRepo, forms *repository.FormRepo, coord *cache.Coordinator) *WorkspaceService {
	return &WorkspaceService{workspaces: workspaces, forms: forms, cache: coord}
}

// Create makes a workspace for the owner. The owner's first workspace
// becomes the default; a later one only when explicitly requested, in which
// case the previous default is demoted so exactly one default remains.
func (s *WorkspaceService) Create(ctx context.Context, ownerID, name, description string, makeDefault bool) (*models.Workspace, error) {
	if name == "" {
		return nil, errors.New("workspace name is required")
	}
	var created *models.Workspace
	_, err := s.cache.Create(ctx, cache.EntityWorkspace, ownerID, func(ctx context.Context) (string, error) {
		count, err := s.workspaces.CountByOwner(ctx, ownerID)
		if err != nil {
			return "", err
		}
		if makeDefault && count > 0 {
			existing, err := s.workspaces.FindByOwner(ctx, ownerID)
			if err != nil {
				return "", err
			}
			for _, prev := range existing {
				if !prev.IsDefault {
					continue
				}
				if err := s.workspaces.Update(ctx, prev.ID, map[string]any{"isDefault": false}); err != nil {
					return "", fmt.Errorf("demote default workspace %s: %w", prev.ID, err)
				}
				s.cache.Invalidate(cache.WorkspaceKey(prev.ID))
			}
		}
		w := &models.Workspace{
			Name:        name,
			Description: description,
			OwnerID:     ownerID,
			IsDefault:   count == 0 || makeDefault,
			IsActive:    true,
		}
		id, err := s.workspaces.Create(ctx, w)
		if err != nil {
			return "", err
		}
		w.ID = id
		created = w
		return id, nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *WorkspaceService) List(ctx context.Context, ownerID string) ([]models.Workspace, error) {
	v, err := s.cache.Query(ctx, cache.EntityWorkspace, cache.WorkspacesKey(ownerID), func(ctx context.Context) (any, error) {
		return s.workspaces.FindByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Workspace), nil
}

func (s *WorkspaceService) Get(ctx context.Context, ownerID, id string) (*models.Workspace, error) {
	v, err := s.cache.Query(ctx, cache.EntityWorkspace, cache.WorkspaceKey(id), func(ctx context.Context) (any, error) {
		return s.workspaces.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	w, _ := v.(*models.Workspace)
	if w == nil {
		return nil, ErrNotFound
	}
	if w.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return w, nil
}

// Update applies a partial patch. Nil fields are left untouched.
func (s *WorkspaceService) Update(ctx context.Context, ownerID, id string, name, description *string) (*models.Workspace, error) {
	w, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	updated := *w
	if name != nil {
		if *name == "" {
			return nil, errors.New("workspace name is required")
		}
		fields["name"] = *name
		updated.Name = *name
	}
	if description != nil {
		fields["description"] = *description
		updated.Description = *description
	}
	if len(fields) == 0 {
		return &updated, nil
	}
	err = s.cache.Mutate(ctx, cache.EntityWorkspace, id, ownerID, func(ctx context.Context) error {
		return s.workspaces.Update(ctx, id, fields)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a non-default workspace. Forms in it are detached, not
// deleted: a form may live outside any workspace. The default workspace is
// permanent so an account always has somewhere to put forms.
func (s *WorkspaceService) Delete(ctx context.Context, ownerID, id string) error {
	w, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if w.IsDefault {
		return errors.New("the default workspace cannot be deleted")
	}
	return s.cache.Mutate(ctx, cache.EntityWorkspace, id, ownerID, func(ctx context.Context) error {
		forms, err := s.forms.FindByWorkspace(ctx, id)
		if err != nil {
			return err
		}
		for _, f := range forms {
			if err := s.forms.Update(ctx, f.ID, map[string]any{"workspaceId": ""}); err != nil {
				return fmt.Errorf("detach form %s: %w", f.ID, err)
			}
			s.cache.Invalidate(cache.FormKey(f.ID))
		}
		s.cache.Invalidate(cache.FormsKey(id), cache.FormCountKey(id))
		return s.workspaces.Delete(ctx, id)
	})
}
