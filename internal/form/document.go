package form

import (
	"errors"
	"fmt"
)

// ErrQuestionNotFound signals a mutation against a question id that is no
// longer in the document. Callers may ignore it: stale references are a
// normal UI race (delete-then-edit, duplicate click).
var ErrQuestionNotFound = errors.New("question not found")

// PageType selects one of the two singleton pages of a form.
type PageType string

const (
	PageIntro PageType = "intro"
	PageOutro PageType = "outro"
)

// Page is the intro or outro screen of a form.
type Page struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
}

// PagePatch is a partial page update. Nil fields are left untouched.
type PagePatch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	ButtonText  *string `json:"buttonText,omitempty"`
}

func (p *Page) apply(patch PagePatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.ButtonText != nil {
		p.ButtonText = *patch.ButtonText
	}
}

// Document is the in-memory representation of one form under edit. The
// question order is the on-screen order. SubmissionCount is maintained by
// the server and read-only here.
type Document struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Questions       []Question     `json:"questions"`
	Intro           Page           `json:"intro"`
	Outro           Page           `json:"outro"`
	Settings        map[string]any `json:"settings"`
	OwnerID         string         `json:"ownerId"`
	WorkspaceID     string         `json:"workspaceId,omitempty"`
	Slug            string         `json:"slug"`
	IsPublic        bool           `json:"isPublic"`
	IsActive        bool           `json:"isActive"`
	SubmissionCount int            `json:"submissionCount"`
}

// NewDocument creates an empty document with default pages and settings.
func NewDocument(title string) *Document {
	return &Document{
		Title:     title,
		Questions: []Question{},
		Intro:     Page{ButtonText: "Start"},
		Outro:     Page{Title: "Thank you!", ButtonText: "Done"},
		Settings:  map[string]any{},
		IsActive:  true,
	}
}

func (d *Document) indexOf(id string) int {
	for i := range d.Questions {
		if d.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// AddQuestion inserts a new question of the given kind with kind-appropriate
// defaults. at < 0 appends; otherwise at is clamped to [0, len].
func (d *Document) AddQuestion(kind Kind, at int) (Question, error) {
	if !ValidKind(kind) {
		return Question{}, fmt.Errorf("unknown question kind %q", kind)
	}
	q := newQuestion(kind)
	if at < 0 || at > len(d.Questions) {
		at = len(d.Questions)
	}
	d.Questions = append(d.Questions, Question{})
	copy(d.Questions[at+1:], d.Questions[at:])
	d.Questions[at] = q
	return q, nil
}

// UpdateQuestion merges the patch into the question with the matching id.
func (d *Document) UpdateQuestion(id string, patch QuestionPatch) error {
	i := d.indexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	d.Questions[i].apply(patch)
	return nil
}

// RemoveQuestion deletes the question with the matching id.
func (d *Document) RemoveQuestion(id string) error {
	i := d.indexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	return nil
}

// DuplicateQuestion inserts a copy of the question immediately after the
// source. The copy gets a fresh id and a title marking the duplication.
func (d *Document) DuplicateQuestion(id string) (Question, error) {
	i := d.indexOf(id)
	if i < 0 {
		return Question{}, ErrQuestionNotFound
	}
	copyQ := d.Questions[i].clone()
	copyQ.ID = newQuestion(copyQ.Kind).ID
	if copyQ.Title != "" {
		copyQ.Title += " (copy)"
	}
	d.Questions = append(d.Questions, Question{})
	copy(d.Questions[i+2:], d.Questions[i+1:])
	d.Questions[i+1] = copyQ
	return copyQ, nil
}

// Reorder moves the question to newIndex, shifting the others. newIndex is
// clamped to [0, len-1].
func (d *Document) Reorder(id string, newIndex int) error {
	i := d.indexOf(id)
	if i < 0 {
		return ErrQuestionNotFound
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(d.Questions)-1 {
		newIndex = len(d.Questions) - 1
	}
	if newIndex == i {
		return nil
	}
	q := d.Questions[i]
	d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
	d.Questions = append(d.Questions, Question{})
	copy(d.Questions[newIndex+1:], d.Questions[newIndex:])
	d.Questions[newIndex] = q
	return nil
}

// UpdatePage merges the patch into the intro or outro page.
func (d *Document) UpdatePage(pt PageType, patch PagePatch) error {
	switch pt {
	case PageIntro:
		d.Intro.apply(patch)
	case PageOutro:
		d.Outro.apply(patch)
	default:
		return fmt.Errorf("unknown page type %q", pt)
	}
	return nil
}

// UpdateSettings shallow-merges the patch into the settings blob.
func (d *Document) UpdateSettings(patch map[string]any) {
	if d.Settings == nil {
		d.Settings = map[string]any{}
	}
	for k, v := range patch {
		d.Settings[k] = v
	}
}

// Clone returns a deep copy, safe to hand to the synchronization pipeline
// while the editor keeps mutating the original.
func (d *Document) Clone() *Document {
	out := *d
	out.Questions = make([]Question, len(d.Questions))
	for i, q := range d.Questions {
		out.Questions[i] = q.clone()
	}
	out.Settings = make(map[string]any, len(d.Settings))
	for k, v := range d.Settings {
		out.Settings[k] = v
	}
	return &out
}
