package models

import (
	"fmt"

	"github.com/formforge/formforge/internal/form"
)

// Form is the persisted shape of a form record. Questions and settings are
// stored as JSON text in scalar string fields; the document store sees only
// flat values.
type Form struct {
	ID               string `json:"_id,omitempty"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	Questions        string `json:"questions"`
	IntroTitle       string `json:"introTitle"`
	IntroDescription string `json:"introDescription"`
	IntroButtonText  string `json:"introButtonText"`
	OutroTitle       string `json:"outroTitle"`
	OutroDescription string `json:"outroDescription"`
	OutroButtonText  string `json:"outroButtonText"`
	Settings         string `json:"settings"`
	IsPublic         bool   `json:"isPublic"`
	IsActive         bool   `json:"isActive"`
	WorkspaceID      string `json:"workspaceId,omitempty"`
	Slug             string `json:"slug"`
	OwnerID          string `json:"ownerId"`
	SubmissionCount  int    `json:"submissionCount"`
	CreatedAt        string `json:"createdAt"`
	UpdatedAt        string `json:"updatedAt"`
}

// ToDocument inflates the record into the in-memory editing model.
func (f *Form) ToDocument() (*form.Document, error) {
	questions, err := form.DecodeQuestions(f.Questions)
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", f.ID, err)
	}
	settings, err := form.DecodeSettings(f.Settings)
	if err != nil {
		return nil, fmt.Errorf("form %s: %w", f.ID, err)
	}
	return &form.Document{
		ID:          f.ID,
		Title:       f.Title,
		Description: f.Description,
		Questions:   questions,
		Intro: form.Page{
			Title:       f.IntroTitle,
			Description: f.IntroDescription,
			ButtonText:  f.IntroButtonText,
		},
		Outro: form.Page{
			Title:       f.OutroTitle,
			Description: f.OutroDescription,
			ButtonText:  f.OutroButtonText,
		},
		Settings:        settings,
		OwnerID:         f.OwnerID,
		WorkspaceID:     f.WorkspaceID,
		Slug:            f.Slug,
		IsPublic:        f.IsPublic,
		IsActive:        f.IsActive,
		SubmissionCount: f.SubmissionCount,
	}, nil
}

// SnapshotFields flattens a document into exactly the editable fields the
// synchronization pipeline is allowed to write. Owner, submission counter
// and timestamps stay server-side.
func SnapshotFields(doc *form.Document) (map[string]any, error) {
	questions, err := form.EncodeQuestions(doc.Questions)
	if err != nil {
		return nil, err
	}
	settings, err := form.EncodeSettings(doc.Settings)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"title":            doc.Title,
		"description":      doc.Description,
		"questions":        questions,
		"introTitle":       doc.Intro.Title,
		"introDescription": doc.Intro.Description,
		"introButtonText":  doc.Intro.ButtonText,
		"outroTitle":       doc.Outro.Title,
		"outroDescription": doc.Outro.Description,
		"outroButtonText":  doc.Outro.ButtonText,
		"settings":         settings,
		"isPublic":         doc.IsPublic,
		"isActive":         doc.IsActive,
		"workspaceId":      doc.WorkspaceID,
		"slug":             doc.Slug,
	}, nil
}
