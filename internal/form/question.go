package form

import "github.com/google/uuid"

// Kind discriminates the question variants. The set is closed; switches over
// Kind handle every constant.
type Kind string

const (
	KindText           Kind = "text"
	KindParagraph      Kind = "paragraph"
	KindEmail          Kind = "email"
	KindMultipleChoice Kind = "multiple_choice"
	KindCheckbox       Kind = "checkbox"
	KindDropdown       Kind = "dropdown"
	KindRating         Kind = "rating"
)

// Rating bounds. MaxRating on a rating question is clamped into this range.
const (
	MinRatingScale     = 2
	MaxRatingScale     = 10
	DefaultRatingScale = 5
)

// Question is one entry in a form. ID is unique within the owning form and
// stable across reorders. Kind-specific fields are zero for other kinds.
type Question struct {
	ID          string   `json:"id"`
	Kind        Kind     `json:"kind"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
	MaxRating   int      `json:"maxRating,omitempty"`
}

// QuestionPatch is a partial update. Nil fields are left untouched.
type QuestionPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Required    *bool     `json:"required,omitempty"`
	Placeholder *string   `json:"placeholder,omitempty"`
	Options     *[]string `json:"options,omitempty"`
	MaxRating   *int      `json:"maxRating,omitempty"`
}

func newQuestion(kind Kind) Question {
	q := Question{
		ID:   uuid.NewString(),
		Kind: kind,
	}
	switch kind {
	case KindText, KindParagraph:
		q.Placeholder = "Your answer"
	case KindEmail:
		q.Placeholder = "name@example.com"
	case KindMultipleChoice, KindCheckbox, KindDropdown:
		q.Options = []string{"Option 1", "Option 2"}
	case KindRating:
		q.MaxRating = DefaultRatingScale
	}
	return q
}

func clampRating(n int) int {
	if n < MinRatingScale {
		return MinRatingScale
	}
	if n > MaxRatingScale {
		return MaxRatingScale
	}
	return n
}

func (q *Question) apply(p QuestionPatch) {
	if p.Title != nil {
		q.Title = *p.Title
	}
	if p.Description != nil {
		q.Description = *p.Description
	}
	if p.Required != nil {
		q.Required = *p.Required
	}
	if p.Placeholder != nil {
		q.Placeholder = *p.Placeholder
	}
	if p.Options != nil {
		q.Options = append([]string(nil), (*p.Options)...)
	}
	if p.MaxRating != nil {
		q.MaxRating = clampRating(*p.MaxRating)
	}
}

func (q Question) clone() Question {
	out := q
	out.Options = append([]string(nil), q.Options...)
	return out
}

// ValidKind reports whether kind is one of the known question kinds.
func ValidKind(kind Kind) bool {
	switch kind {
	case KindText, KindParagraph, KindEmail,
		KindMultipleChoice, KindCheckbox, KindDropdown, KindRating:
		return true
	}
	return false
}
