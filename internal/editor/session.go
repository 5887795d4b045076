package editor

import (
	"errors"
	"sync"

	"github.com/formforge/formforge/internal/form"
	"github.com/google/uuid"
)

// ErrSessionClosed is returned by mutations on a session after Close.
var ErrSessionClosed = errors.New("editor session closed")

// Session is the single source of truth for one form open in the editor,
// plus the transient selection state. Every mutation applies synchronously
// to the in-memory document and schedules a debounced remote write. One
// session exists per open editor; sessions over different forms are
// independent.
type Session struct {
	id       string
	pipeline *Pipeline

	mu          sync.Mutex
	doc         *form.Document
	selected    string
	dirty       bool
	lastSaveErr error
	seq         uint64
	closed      bool
}

// NewSession opens an editing session over doc.
func NewSession(doc *form.Document, pipeline *Pipeline) *Session {
	return &Session{
		id:       uuid.NewString(),
		pipeline: pipeline,
		doc:      doc,
	}
}

func (s *Session) ID() string { return s.id }

// Document returns a deep copy of the current document.
func (s *Session) Document() *form.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Dirty reports whether local edits are not yet confirmed persisted.
func (s *Session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// LastSaveErr returns the error of the most recent failed remote write, or
// nil. A failed write never reverts local edits.
func (s *Session) LastSaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSaveErr
}

// Load replaces the current document and clears the selection.
func (s *Session) Load(doc *form.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.selected = ""
	s.dirty = false
	s.lastSaveErr = nil
}

// Select sets the focused question for the side-panel editor. An empty id
// clears the selection. Selecting a missing question reports
// form.ErrQuestionNotFound and leaves the selection unchanged.
func (s *Session) Select(questionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if questionID == "" {
		s.selected = ""
		return nil
	}
	for _, q := range s.doc.Questions {
		if q.ID == questionID {
			s.selected = questionID
			return nil
		}
	}
	return form.ErrQuestionNotFound
}

// Selected returns the focused question id, or "".
func (s *Session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// mutate applies fn to the document under the lock; on success it marks the
// session dirty and schedules a snapshot. The pipeline call happens outside
// the lock so write callbacks can't deadlock against it.
func (s *Session) mutate(fn func(doc *form.Document) error) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	if err := fn(s.doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.dirty = true
	s.seq++
	seq := s.seq
	formID := s.doc.ID
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	s.pipeline.Schedule(formID, snapshot, func(err error) { s.writeSettled(seq, err) })
	return nil
}

func (s *Session) writeSettled(seq uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastSaveErr = err
		return
	}
	s.lastSaveErr = nil
	// Only a write carrying the newest edits clears the dirty flag.
	if seq == s.seq {
		s.dirty = false
	}
}

func (s *Session) AddQuestion(kind form.Kind, at int) (form.Question, error) {
	var q form.Question
	err := s.mutate(func(doc *form.Document) error {
		var err error
		q, err = doc.AddQuestion(kind, at)
		return err
	})
	return q, err
}

// UpdateMeta sets the form title and/or description. Nil leaves a field
// untouched.
func (s *Session) UpdateMeta(title, description *string) error {
	return s.mutate(func(doc *form.Document) error {
		if title != nil {
			doc.Title = *title
		}
		if description != nil {
			doc.Description = *description
		}
		return nil
	})
}

func (s *Session) UpdateQuestion(id string, patch form.QuestionPatch) error {
	return s.mutate(func(doc *form.Document) error {
		return doc.UpdateQuestion(id, patch)
	})
}

// RemoveQuestion deletes the question and clears the selection when the
// removed question was the selected one.
func (s *Session) RemoveQuestion(id string) error {
	return s.mutate(func(doc *form.Document) error {
		if err := doc.RemoveQuestion(id); err != nil {
			return err
		}
		if s.selected == id {
			s.selected = ""
		}
		return nil
	})
}

func (s *Session) DuplicateQuestion(id string) (form.Question, error) {
	var q form.Question
	err := s.mutate(func(doc *form.Document) error {
		var err error
		q, err = doc.DuplicateQuestion(id)
		return err
	})
	return q, err
}

func (s *Session) Reorder(id string, newIndex int) error {
	return s.mutate(func(doc *form.Document) error {
		return doc.Reorder(id, newIndex)
	})
}

func (s *Session) UpdatePage(pt form.PageType, patch form.PagePatch) error {
	return s.mutate(func(doc *form.Document) error {
		return doc.UpdatePage(pt, patch)
	})
}

func (s *Session) UpdateSettings(patch map[string]any) error {
	return s.mutate(func(doc *form.Document) error {
		doc.UpdateSettings(patch)
		return nil
	})
}

// Retry re-schedules the current snapshot after a failed write. A no-op on a
// clean session.
func (s *Session) Retry() {
	s.mu.Lock()
	if s.closed || !s.dirty {
		s.mu.Unlock()
		return
	}
	s.seq++
	seq := s.seq
	formID := s.doc.ID
	snapshot := s.doc.Clone()
	s.mu.Unlock()

	s.pipeline.Schedule(formID, snapshot, func(err error) { s.writeSettled(seq, err) })
}

// Flush forces any pending debounced write out immediately.
func (s *Session) Flush() {
	s.mu.Lock()
	formID := s.doc.ID
	s.mu.Unlock()
	s.pipeline.Flush(formID)
}

// Close tears the session down, flushing any pending write first so edits
// are never silently dropped.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	formID := s.doc.ID
	s.mu.Unlock()
	s.pipeline.Flush(formID)
}
