package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/models"
)

const UsersCollection = "_forge_users"

type UserRepo struct {
	store docstore.Store
}

func NewUserRepo(store docstore.Store) *UserRepo {
	return &UserRepo{store: store}
}

func (r *UserRepo) EnsureIndexes(ctx context.Context) error {
	return r.store.EnsureIndex(ctx, UsersCollection, "email", true)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	docs, err := r.store.ListDocuments(ctx, UsersCollection, map[string]any{"email": email}, nil)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docToUser(docs[0])
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.GetDocument(ctx, UsersCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return docToUser(doc)
}

func (r *UserRepo) Create(ctx context.Context, user *models.User) (string, error) {
	fields, err := encodeFields(user)
	if err != nil {
		return "", err
	}
	doc, err := r.store.CreateDocument(ctx, UsersCollection, fields)
	if err != nil {
		return "", err
	}
	id, _ := doc["_id"].(string)
	return id, nil
}

func docToUser(doc map[string]any) (*models.User, error) {
	var u models.User
	if err := decodeInto(doc, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}
