package form

import (
	"errors"
	"testing"
)

func str(s string) *string { return &s }
func num(n int) *int       { return &n }

func TestAddRemoveDuplicateKeepIDsUnique(t *testing.T) {
	d := NewDocument("Survey")

	for i := 0; i < 5; i++ {
		if _, err := d.AddQuestion(KindText, -1); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	first := d.Questions[0].ID
	if _, err := d.DuplicateQuestion(first); err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if err := d.RemoveQuestion(d.Questions[3].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := d.DuplicateQuestion(d.Questions[2].ID); err != nil {
		t.Fatalf("duplicate: %v", err)
	}

	seen := map[string]bool{}
	for _, q := range d.Questions {
		if q.ID == "" {
			t.Fatal("question with empty id")
		}
		if seen[q.ID] {
			t.Fatalf("duplicate question id %s", q.ID)
		}
		seen[q.ID] = true
	}
}

func TestAddQuestionAtIndex(t *testing.T) {
	d := NewDocument("Survey")
	a, _ := d.AddQuestion(KindText, -1)
	b, _ := d.AddQuestion(KindText, -1)
	c, _ := d.AddQuestion(KindEmail, 1)

	want := []string{a.ID, c.ID, b.ID}
	for i, id := range want {
		if d.Questions[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, d.Questions[i].ID)
		}
	}

	// Out-of-range index appends.
	e, _ := d.AddQuestion(KindText, 99)
	if d.Questions[len(d.Questions)-1].ID != e.ID {
		t.Fatal("out-of-range insert did not append")
	}
}

func TestAddQuestionUnknownKind(t *testing.T) {
	d := NewDocument("Survey")
	if _, err := d.AddQuestion(Kind("hologram"), -1); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if len(d.Questions) != 0 {
		t.Fatal("unknown kind must not add a question")
	}
}

func TestReorderRoundTrip(t *testing.T) {
	d := NewDocument("Survey")
	for i := 0; i < 6; i++ {
		d.AddQuestion(KindText, -1)
	}
	original := make([]string, len(d.Questions))
	for i, q := range d.Questions {
		original[i] = q.ID
	}

	moved := original[1]
	if err := d.Reorder(moved, 4); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if d.Questions[4].ID != moved {
		t.Fatalf("expected %s at index 4, got %s", moved, d.Questions[4].ID)
	}
	if err := d.Reorder(moved, 1); err != nil {
		t.Fatalf("reorder back: %v", err)
	}
	for i, q := range d.Questions {
		if q.ID != original[i] {
			t.Fatalf("round trip broke ordering at %d: expected %s, got %s", i, original[i], q.ID)
		}
	}
}

func TestReorderClampsIndex(t *testing.T) {
	d := NewDocument("Survey")
	a, _ := d.AddQuestion(KindText, -1)
	d.AddQuestion(KindText, -1)
	d.AddQuestion(KindText, -1)

	if err := d.Reorder(a.ID, 99); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if d.Questions[2].ID != a.ID {
		t.Fatal("expected clamp to last index")
	}
	if err := d.Reorder(a.ID, -5); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	if d.Questions[0].ID != a.ID {
		t.Fatal("expected clamp to first index")
	}
}

func TestUpdateAfterRemoveIsBenign(t *testing.T) {
	d := NewDocument("Survey")
	q, _ := d.AddQuestion(KindText, -1)
	if err := d.RemoveQuestion(q.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	err := d.UpdateQuestion(q.ID, QuestionPatch{Title: str("late edit")})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
	if err := d.RemoveQuestion(q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on double remove, got %v", err)
	}
	if _, err := d.DuplicateQuestion(q.ID); !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound on duplicate, got %v", err)
	}
}

func TestDuplicateInsertsAfterSourceWithNewID(t *testing.T) {
	d := NewDocument("Survey")
	a, _ := d.AddQuestion(KindMultipleChoice, -1)
	d.AddQuestion(KindText, -1)
	d.UpdateQuestion(a.ID, QuestionPatch{Title: str("Favorite color")})

	dup, err := d.DuplicateQuestion(a.ID)
	if err != nil {
		t.Fatalf("duplicate: %v", err)
	}
	if d.Questions[1].ID != dup.ID {
		t.Fatal("duplicate not inserted after source")
	}
	if dup.ID == a.ID {
		t.Fatal("duplicate reused source id")
	}
	if dup.Title != "Favorite color (copy)" {
		t.Fatalf("unexpected duplicate title %q", dup.Title)
	}
	if len(dup.Options) != len(d.Questions[0].Options) {
		t.Fatal("duplicate lost options")
	}

	// Option lists must be independent copies.
	d.Questions[0].Options[0] = "mutated"
	if d.Questions[1].Options[0] == "mutated" {
		t.Fatal("duplicate shares options slice with source")
	}
}

func TestRatingDefaultsAndClamp(t *testing.T) {
	d := NewDocument("Customer Feedback")
	if d.Description != "" || len(d.Questions) != 0 || d.Intro.Title != "" {
		t.Fatal("new document not empty")
	}

	q, _ := d.AddQuestion(KindRating, -1)
	if q.MaxRating != DefaultRatingScale {
		t.Fatalf("expected default max rating %d, got %d", DefaultRatingScale, q.MaxRating)
	}

	d.UpdateQuestion(q.ID, QuestionPatch{MaxRating: num(12)})
	if d.Questions[0].MaxRating != MaxRatingScale {
		t.Fatalf("expected clamp to %d, got %d", MaxRatingScale, d.Questions[0].MaxRating)
	}
	d.UpdateQuestion(q.ID, QuestionPatch{MaxRating: num(1)})
	if d.Questions[0].MaxRating != MinRatingScale {
		t.Fatalf("expected clamp to %d, got %d", MinRatingScale, d.Questions[0].MaxRating)
	}
	d.UpdateQuestion(q.ID, QuestionPatch{MaxRating: num(7)})
	if d.Questions[0].MaxRating != 7 {
		t.Fatalf("expected 7, got %d", d.Questions[0].MaxRating)
	}
}

func TestUpdatePageAndSettings(t *testing.T) {
	d := NewDocument("Survey")
	if err := d.UpdatePage(PageIntro, PagePatch{Title: str("Welcome")}); err != nil {
		t.Fatalf("update intro: %v", err)
	}
	if d.Intro.Title != "Welcome" || d.Intro.ButtonText != "Start" {
		t.Fatalf("intro merge wrong: %+v", d.Intro)
	}
	if err := d.UpdatePage(PageType("sidebar"), PagePatch{}); err == nil {
		t.Fatal("expected error for unknown page type")
	}

	d.UpdateSettings(map[string]any{"theme": "dark"})
	d.UpdateSettings(map[string]any{"showProgress": true})
	if d.Settings["theme"] != "dark" || d.Settings["showProgress"] != true {
		t.Fatalf("settings merge wrong: %v", d.Settings)
	}
}

func TestCloneIsDeep(t *testing.T) {
	d := NewDocument("Survey")
	q, _ := d.AddQuestion(KindCheckbox, -1)
	d.UpdateSettings(map[string]any{"theme": "light"})

	snap := d.Clone()
	d.UpdateQuestion(q.ID, QuestionPatch{Title: str("changed")})
	d.Questions[0].Options[0] = "changed"
	d.UpdateSettings(map[string]any{"theme": "dark"})

	if snap.Questions[0].Title == "changed" {
		t.Fatal("clone shares question data")
	}
	if snap.Questions[0].Options[0] == "changed" {
		t.Fatal("clone shares options slice")
	}
	if snap.Settings["theme"] != "light" {
		t.Fatal("clone shares settings map")
	}
}

func TestQuestionsCodecRoundTrip(t *testing.T) {
	d := NewDocument("Survey")
	d.AddQuestion(KindRating, -1)
	d.AddQuestion(KindDropdown, -1)

	encoded, err := EncodeQuestions(d.Questions)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeQuestions(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Kind != KindRating || decoded[1].Kind != KindDropdown {
		t.Fatalf("round trip mismatch: %+v", decoded)
	}

	empty, err := DecodeQuestions("")
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty decode: %v %v", empty, err)
	}
}
