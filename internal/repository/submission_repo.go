package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formforge/formforge/internal/docstore"
	"github.com/formforge/formforge/internal/models"
)

const SubmissionsCollection = "_forge_submissions"

type SubmissionRepo struct {
	store docstore.Store
}

func NewSubmissionRepo(store docstore.Store) *SubmissionRepo {
	return &SubmissionRepo{store: store}
}

func (r *SubmissionRepo) EnsureIndexes(ctx context.Context) error {
	if err := r.store.EnsureIndex(ctx, SubmissionsCollection, "formId", false); err != nil {
		return err
	}
	return r.store.EnsureTextIndex(ctx, SubmissionsCollection, []string{"answers"})
}

// Create stores the answers blob as JSON text, matching the scalar-only
// record schema used for form questions.
func (r *SubmissionRepo) Create(ctx context.Context, s *models.Submission) (string, error) {
	answers, err := json.Marshal(s.Answers)
	if err != nil {
		return "", fmt.Errorf("encode answers: %w", err)
	}
	doc, err := r.store.CreateDocument(ctx, SubmissionsCollection, map[string]any{
		"formId":  s.FormID,
		"answers": string(answers),
	})
	if err != nil {
		return "", err
	}
	id, _ := doc["_id"].(string)
	return id, nil
}

func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	doc, err := r.store.GetDocument(ctx, SubmissionsCollection, id)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return docToSubmission(doc)
}

func (r *SubmissionRepo) FindByForm(ctx context.Context, formID string) ([]models.Submission, error) {
	docs, err := r.store.ListDocuments(ctx, SubmissionsCollection,
		map[string]any{"formId": formID}, map[string]any{"createdAt": -1})
	if err != nil {
		return nil, err
	}
	return docsToSubmissions(docs), nil
}

func (r *SubmissionRepo) CountByForm(ctx context.Context, formID string) (int, error) {
	return r.store.CountDocuments(ctx, SubmissionsCollection, map[string]any{"formId": formID})
}

func (r *SubmissionRepo) Count(ctx context.Context) (int, error) {
	return r.store.CountDocuments(ctx, SubmissionsCollection, nil)
}

func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	return r.store.DeleteDocument(ctx, SubmissionsCollection, id)
}

// Search runs a text search over the answers of all submissions.
func (r *SubmissionRepo) Search(ctx context.Context, query string, limit int) ([]models.Submission, error) {
	docs, err := r.store.SearchDocuments(ctx, SubmissionsCollection, query, limit)
	if err != nil {
		return nil, err
	}
	return docsToSubmissions(docs), nil
}

func docsToSubmissions(docs []map[string]any) []models.Submission {
	out := make([]models.Submission, 0, len(docs))
	for _, d := range docs {
		s, err := docToSubmission(d)
		if err != nil {
			continue
		}
		out = append(out, *s)
	}
	return out
}

func docToSubmission(doc map[string]any) (*models.Submission, error) {
	s := &models.Submission{}
	s.ID, _ = doc["_id"].(string)
	s.FormID, _ = doc["formId"].(string)
	s.CreatedAt, _ = doc["createdAt"].(string)
	s.UpdatedAt, _ = doc["updatedAt"].(string)
	if raw, ok := doc["answers"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.Answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
	}
	return s, nil
}
