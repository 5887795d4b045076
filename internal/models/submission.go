package models

// Submission is one respondent's answers to a form, keyed by question id.
type Submission struct {
	ID        string         `json:"_id,omitempty"`
	FormID    string         `json:"formId"`
	Answers   map[string]any `json:"answers"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}
