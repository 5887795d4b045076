package editor

import (
	"testing"
	"time"

	"github.com/formforge/formforge/internal/form"
)

func TestManagerOpenGetClose(t *testing.T) {
	w := &flakyWriter{}
	m := NewManager(NewPipeline(time.Hour, w.write))

	doc := form.NewDocument("Survey")
	doc.ID = "f1"
	s := m.Open(doc)

	got, ok := m.Get(s.ID())
	if !ok || got != s {
		t.Fatal("expected to find open session")
	}

	s.AddQuestion(form.KindText, -1)
	m.Close(s.ID())

	if _, ok := m.Get(s.ID()); ok {
		t.Fatal("closed session still registered")
	}
	if w.count() != 1 {
		t.Fatalf("expected close to flush pending write, got %d", w.count())
	}

	// Unknown id is a no-op.
	m.Close("nope")
}

func TestManagerCloseAllFlushesEverySession(t *testing.T) {
	w := &flakyWriter{}
	m := NewManager(NewPipeline(time.Hour, w.write))

	a := form.NewDocument("A")
	a.ID = "f1"
	b := form.NewDocument("B")
	b.ID = "f2"
	s1 := m.Open(a)
	s2 := m.Open(b)
	s1.AddQuestion(form.KindText, -1)
	s2.AddQuestion(form.KindRating, -1)

	m.CloseAll()

	if w.count() != 2 {
		t.Fatalf("expected 2 flushed writes, got %d", w.count())
	}
	if _, ok := m.Get(s1.ID()); ok {
		t.Fatal("sessions must be deregistered after CloseAll")
	}
}
