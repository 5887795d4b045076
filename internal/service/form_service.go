package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/formforge/formforge/internal/cache"
	"github.com/formforge/formforge/internal/form"
	"github.com/formforge/formforge/internal/models"
	"github.com/formforge/formforge/internal/repository"
)

type FormService struct {
	forms      *repository.FormRepo
	workspaces *repository.WorkspaceRepo
	cache      *cache.Coordinator
}

func NewFormService(forms *repository.FormRepo, workspaces *repository.WorkspaceRepo, coord *cache.Coordinator) *FormService {
	return &FormService{forms: forms, workspaces: workspaces, cache: coord}
}

// Create makes an empty form in the workspace. The slug is derived from the
// title; on collision a timestamp suffix keeps it unique.
func (s *FormService) Create(ctx context.Context, ownerID, workspaceID, title, description string) (*models.Form, error) {
	if title == "" {
		return nil, errors.New("form title is required")
	}
	ws, err := s.workspaces.FindByID(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, ErrNotFound
	}
	if ws.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	slug := generateSlug(title)
	existing, _ := s.forms.FindBySlug(ctx, slug)
	if existing != nil {
		slug = slug + "-" + time.Now().Format("20060102150405")
	}

	doc := form.NewDocument(title)
	doc.Description = description
	questions, err := form.EncodeQuestions(doc.Questions)
	if err != nil {
		return nil, err
	}
	settings, err := form.EncodeSettings(doc.Settings)
	if err != nil {
		return nil, err
	}

	f := &models.Form{
		Title:           title,
		Description:     description,
		Questions:       questions,
		IntroButtonText: doc.Intro.ButtonText,
		OutroTitle:      doc.Outro.Title,
		OutroButtonText: doc.Outro.ButtonText,
		Settings:        settings,
		IsActive:        true,
		WorkspaceID:     workspaceID,
		Slug:            slug,
		OwnerID:         ownerID,
	}
	id, err := s.cache.Create(ctx, cache.EntityForm, workspaceID, func(ctx context.Context) (string, error) {
		return s.forms.Create(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	f.ID = id
	return f, nil
}

func (s *FormService) List(ctx context.Context, ownerID, workspaceID string) ([]models.Form, error) {
	v, err := s.cache.Query(ctx, cache.EntityForm, cache.FormsKey(workspaceID), func(ctx context.Context) (any, error) {
		return s.forms.FindByWorkspace(ctx, workspaceID)
	})
	if err != nil {
		return nil, err
	}
	forms := v.([]models.Form)
	for i := range forms {
		if forms[i].OwnerID != ownerID {
			return nil, ErrForbidden
		}
	}
	return forms, nil
}

func (s *FormService) Get(ctx context.Context, ownerID, id string) (*models.Form, error) {
	v, err := s.cache.Query(ctx, cache.EntityForm, cache.FormKey(id), func(ctx context.Context) (any, error) {
		return s.forms.FindByID(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	f, _ := v.(*models.Form)
	if f == nil {
		return nil, ErrNotFound
	}
	if f.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return f, nil
}

func (s *FormService) CountByWorkspace(ctx context.Context, workspaceID string) (int, error) {
	v, err := s.cache.Query(ctx, cache.EntityForm, cache.FormCountKey(workspaceID), func(ctx context.Context) (any, error) {
		return s.forms.CountByWorkspace(ctx, workspaceID)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

// SaveSnapshot is the write target of the synchronization pipeline. It runs
// on the pipeline goroutine with no request identity, so it writes the
// repository directly and drops the dependent cache keys itself.
func (s *FormService) SaveSnapshot(ctx context.Context, formID string, doc *form.Document) error {
	fields, err := models.SnapshotFields(doc)
	if err != nil {
		return err
	}
	if err := s.forms.Update(ctx, formID, fields); err != nil {
		return err
	}
	s.cache.Invalidate(
		cache.FormKey(formID),
		cache.FormsKey(doc.WorkspaceID),
		cache.FormCountKey(doc.WorkspaceID),
	)
	return nil
}

// SetPublished toggles public availability of the form.
func (s *FormService) SetPublished(ctx context.Context, ownerID, id string, published bool) (*models.Form, error) {
	f, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	err = s.cache.Mutate(ctx, cache.EntityForm, id, f.WorkspaceID, func(ctx context.Context) error {
		return s.forms.Update(ctx, id, map[string]any{"isPublic": published})
	})
	if err != nil {
		return nil, err
	}
	updated := *f
	updated.IsPublic = published
	return &updated, nil
}

// SetActive toggles whether the form accepts traffic at all. An inactive
// form stays invisible on the public surface even while published.
func (s *FormService) SetActive(ctx context.Context, ownerID, id string, active bool) (*models.Form, error) {
	f, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	err = s.cache.Mutate(ctx, cache.EntityForm, id, f.WorkspaceID, func(ctx context.Context) error {
		return s.forms.Update(ctx, id, map[string]any{"isActive": active})
	})
	if err != nil {
		return nil, err
	}
	updated := *f
	updated.IsActive = active
	return &updated, nil
}

func (s *FormService) Delete(ctx context.Context, ownerID, id string) error {
	f, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.cache.Mutate(ctx, cache.EntityForm, id, f.WorkspaceID, func(ctx context.Context) error {
		return s.forms.Delete(ctx, id)
	})
}

// FindPublic resolves a slug for unauthenticated form rendering. Only forms
// that are both published and active are visible.
func (s *FormService) FindPublic(ctx context.Context, slug string) (*models.Form, error) {
	f, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil || !f.IsPublic || !f.IsActive {
		return nil, ErrNotFound
	}
	return f, nil
}

var nonAlphaNum = regexp.MustCompile(`[^a-z0-9]+`)

func generateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonAlphaNum.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "form"
	}
	return slug
}
