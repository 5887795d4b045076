package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/models"
)

const WorkspacesCollection = "_forge_workspaces"

type WorkspaceRepo struct {
	store docstore.Store
}

func NewWorkspaceRepo(store docstore.Store) *WorkspaceRepo {
	return &WorkspaceRepo{store: store}
}

func (r *WorkspaceRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndex(ctx, WorkspacesCollection, "ownerId", false)
}

func (r *WorkspaceRepo) Create(ctx context.Context, w *models.Workspace) (string, error) {
	fields, err := encodeFields(w)
	if err != nil {
		return "", err
	}
	doc, err := r.store.CreateDocument(ctx, WorkspacesCollection, fields)
	if err != nil {
		return "", err
	}
	id, _ := doc["_id"].(string)
	return id, nil
}

func (r *WorkspaceRepo) FindByID(ctx context.Context, id string) (*models.Workspace, error) {
	doc, err := r.store.GetDocument(ctx, WorkspacesCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return docToWorkspace(doc)
}

func (r *WorkspaceRepo) FindByOwner(ctx context.Context, ownerID string) ([]models.Workspace, error) {
	docs, err := r.store.ListDocuments(ctx, WorkspacesCollection,
		map[string]any{"ownerId": ownerID}, map[string]any{"createdAt": 1})
	if err != nil {
		return nil, err
	}
	workspaces := make([]models.Workspace, 0, len(docs))
	for _, d := range docs {
		w, err := docToWorkspace(d)
		if err != nil {
			continue
		}
		workspaces = append(workspaces, *w)
	}
	return workspaces, nil
}

func (r *WorkspaceRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.store.CountDocuments(ctx, WorkspacesCollection, map[string]any{"ownerId": ownerID})
}

func (r *WorkspaceRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.UpdateDocument(ctx, WorkspacesCollection, id, fields)
}

func (r *WorkspaceRepo) Delete(ctx context.Context, id string) error {
	return r.store.DeleteDocument(ctx, WorkspacesCollection, id)
}

func docToWorkspace(doc map[string]any) (*models.Workspace, error) {
	var w models.Workspace
	if err := decodeInto(doc, &w); err != nil {
		return nil, fmt.Errorf("decode workspace: %w", err)
	}
	return &w, nil
}
