package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/models"
)

const FormsCollection = "_forge_forms"

type FormRepo struct {
	store docstore.Store
}

func NewFormRepo(store docstore.Store) *FormRepo {
	return &FormRepo{store: store}
}

func (r *FormRepo) EnsureIndexes(ctx context.Context) error {
	if err := r.store.EnsureIndex(ctx, FormsCollection, "slug", true); err != nil {
		return err
	}
	if err := r.store.EnsureIndex(ctx, FormsCollection, "workspaceId", false); err != nil {
		return err
	}
	return r.store.EnsureIndex(ctx, FormsCollection, "ownerId", false)
}

func (r *FormRepo) Create(ctx context.Context, f *models.Form) (string, error) {
	fields, err := encodeFields(f)
	if err != nil {
		return "", err
	}
	doc, err := r.store.CreateDocument(ctx, FormsCollection, fields)
	if err != nil {
		return "", err
	}
	id, _ := doc["_id"].(string)
	return id, nil
}

func (r *FormRepo) FindByID(ctx context.Context, id string) (*models.Form, error) {
	doc, err := r.store.GetDocument(ctx, FormsCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return docToForm(doc)
}

func (r *FormRepo) FindBySlug(ctx context.Context, slug string) (*models.Form, error) {
	docs, err := r.store.ListDocuments(ctx, FormsCollection, map[string]any{"slug": slug}, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docToForm(docs[0])
}

func (r *FormRepo) FindByWorkspace(ctx context.Context, workspaceID string) ([]models.Form, error) {
	return r.findAll(ctx, map[string]any{"workspaceId": workspaceID})
}

func (r *FormRepo) FindByOwner(ctx context.Context, ownerID string) ([]models.Form, error) {
	return r.findAll(ctx, map[string]any{"ownerId": ownerID})
}

func (r *FormRepo) findAll(ctx context.Context, filter map[string]any) ([]models.Form, error) {
	docs, err := r.store.ListDocuments(ctx, FormsCollection, filter, map[string]any{"createdAt": -1})
	if err != nil {
		return nil, err
	}
	forms := make([]models.Form, 0, len(docs))
	for _, d := range docs {
		f, err := docToForm(d)
		if err != nil {
			continue
		}
		forms = append(forms, *f)
	}
	return forms, nil
}

// Update writes a partial set of record fields. The pipeline's snapshot
// writes go through here with exactly the editable fields.
func (r *FormRepo) Update(ctx context.Context, id string, fields map[string]any) error {
	return r.store.UpdateDocument(ctx, FormsCollection, id, fields)
}

func (r *FormRepo) Delete(ctx context.Context, id string) error {
	return r.store.DeleteDocument(ctx, FormsCollection, id)
}

func (r *FormRepo) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	return r.store.CountDocuments(ctx, FormsCollection, map[string]any{"workspaceId": workspaceID})
}

func (r *FormRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return r.store.CountDocuments(ctx, FormsCollection, map[string]any{"ownerId": ownerID})
}

// IncrementSubmissionCount bumps the server-maintained counter. The editor
// never writes this field.
func (r *FormRepo) IncrementSubmissionCount(ctx context.Context, id string) error {
	f, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if f == nil {
		return fmt.Errorf("form %s not found", id)
	}
	return r.store.UpdateDocument(ctx, FormsCollection, id, map[string]any{
		"submissionCount": f.SubmissionCount + 1,
	})
}

func docToForm(doc map[string]any) (*models.Form, error) {
	var f models.Form
	if err := decodeInto(doc, &f); err != nil {
		return nil, fmt.Errorf("decode form: %w", err)
	}
	return &f, nil
}
