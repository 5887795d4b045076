package service

import (
	"context"
	"fmt"

	"github.com/formforge/formforge/internal/cache"
	"github.com/formforge/formforge/internal/form"
	"github.com/formforge/formforge/internal/models"
	"github.com/formforge/formforge/internal/repository"
)

type SubmissionService struct {
	subs  *repository.SubmissionRepo
	forms *repository.FormRepo
	cache *cache.Coordinator
}

func NewSubmissionService(subs *repository.SubmissionRepo, forms *repository.FormRepo, coord *cache.Coordinator) *SubmissionService {
	return &SubmissionService{subs: subs, forms: forms, cache: coord}
}

// SubmitPublic accepts a response to a published form. It runs without a
// user, so cache keys are invalidated directly instead of through Mutate.
func (s *SubmissionService) SubmitPublic(ctx context.Context, slug string, answers map[string]any) (*models.Submission, error) {
	f, err := s.forms.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if f == nil || !f.IsPublic || !f.IsActive {
		return nil, ErrNotFound
	}
	questions, err := form.DecodeQuestions(f.Questions)
	if err != nil {
		return nil, err
	}
	if err := validateAnswers(questions, answers); err != nil {
		return nil, err
	}

	sub := &models.Submission{FormID: f.ID, Answers: answers}
	id, err := s.subs.Create(ctx, sub)
	if err != nil {
		return nil, err
	}
	sub.ID = id

	if err := s.forms.IncrementSubmissionCount(ctx, f.ID); err != nil {
		return nil, err
	}
	s.cache.Invalidate(
		cache.FormKey(f.ID),
		cache.FormsKey(f.WorkspaceID),
	)
	return sub, nil
}

func (s *SubmissionService) List(ctx context.Context, ownerID, formID string) ([]models.Submission, error) {
	if err := s.checkOwner(ctx, ownerID, formID); err != nil {
		return nil, err
	}
	return s.subs.FindByForm(ctx, formID)
}

func (s *SubmissionService) Get(ctx context.Context, ownerID, id string) (*models.Submission, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrNotFound
	}
	if err := s.checkOwner(ctx, ownerID, sub.FormID); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *SubmissionService) Delete(ctx context.Context, ownerID, id string) error {
	sub, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	return s.subs.Delete(ctx, sub.ID)
}

func (s *SubmissionService) CountByForm(ctx context.Context, ownerID, formID string) (int, error) {
	if err := s.checkOwner(ctx, ownerID, formID); err != nil {
		return 0, err
	}
	return s.subs.CountByForm(ctx, formID)
}

// Search runs a text search over submission answers and keeps only hits on
// forms the caller owns.
func (s *SubmissionService) Search(ctx context.Context, ownerID, query string, limit int) ([]models.Submission, error) {
	if limit <= 0 {
		limit = 20
	}
	hits, err := s.subs.Search(ctx, query, limit*4)
	if err != nil {
		return nil, err
	}
	owned, err := s.ownedFormIDs(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.Submission, 0, limit)
	for _, hit := range hits {
		if !owned[hit.FormID] {
			continue
		}
		out = append(out, hit)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *SubmissionService) ownedFormIDs(ctx context.Context, ownerID string) (map[string]bool, error) {
	forms, err := s.forms.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]bool, len(forms))
	for _, f := range forms {
		ids[f.ID] = true
	}
	return ids, nil
}

func (s *SubmissionService) checkOwner(ctx context.Context, ownerID, formID string) error {
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
	return nil
}

// validateAnswers checks every answer against the question list: unknown
// question ids are rejected, required questions must be answered, and rating
// answers must fall inside the question's scale.
func validateAnswers(questions []form.Question, answers map[string]any) error {
	byID := make(map[string]form.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	for id := range answers {
		if _, ok := byID[id]; !ok {
			return fmt.Errorf("answer references unknown question %s", id)
		}
	}
	for _, q := range questions {
		val, ok := answers[q.ID]
		if !ok || val == nil || val == "" {
			if q.Required {
				return fmt.Errorf("question %q requires an answer", q.Title)
			}
			continue
		}
		if q.Kind == form.KindRating {
			n, ok := toNumber(val)
			if !ok || n < 1 || n > float64(q.MaxRating) {
				return fmt.Errorf("rating for %q must be between 1 and %d", q.Title, q.MaxRating)
			}
		}
	}
	return nil
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
