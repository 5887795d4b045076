package service

import (
	"context"
	"io"

	"github.com/formforge/formforge/internal/media"
	"github.com/formforge/formforge/internal/repository"
)

type MediaService struct {
	storage media.Storage
	forms   *repository.FormRepo
}

func NewMediaService(storage media.Storage, forms *repository.FormRepo) *MediaService {
	return &MediaService{storage: storage, forms: forms}
}

// Upload validates and stores a form asset, returning its public URL.
// Validation happens before any bytes leave the process.
func (s *MediaService) Upload(ctx context.Context, ownerID, formID, filename, contentType string, r io.Reader, size int64) (string, error) {
	f, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return "", err
	}
	if f == nil {
		return "", ErrNotFound
	}
	if f.OwnerID != ownerID {
		return "", ErrForbidden
	}
	if err := media.Validate(contentType, size); err != nil {
		return "", err
	}
	return s.storage.Put(ctx, media.ObjectName(formID, filename), contentType, r, size)
}

// Delete removes a previously uploaded asset by its public URL. The URL must
// point at an object under the form's own prefix.
func (s *MediaService) Delete(ctx context.Context, ownerID, formID, url string) error {
	f, err := s.forms.FindByID(ctx, formID)
	if err != nil {
		return err
	}
	if f == nil {
		return ErrNotFound
	}
	if f.OwnerID != ownerID {
		return ErrForbidden
	}
	objectName, err := media.ObjectFromURL(formID, url)
	if err != nil {
		return err
	}
	return s.storage.Remove(ctx, objectName)
}
