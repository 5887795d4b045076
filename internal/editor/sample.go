package editor

import "github.com/formforge/formforge/internal/form"

// SampleDocument returns the built-in demo form used by the preview when a
// caller explicitly asks for it. It never substitutes for real data
// implicitly; responses carrying it are marked as sample content.
func SampleDocument() *form.Document {
	doc := form.NewDocument("Customer Feedback")
	doc.Description = "Tell us how we are doing."
	doc.Intro = form.Page{
		Title:       "We'd love your feedback",
		Description: "Takes about two minutes.",
		ButtonText:  "Start",
	}
	doc.Outro = form.Page{
		Title:       "Thank you!",
		Description: "Your feedback helps us improve.",
		ButtonText:  "Done",
	}

	rating, _ := doc.AddQuestion(form.KindRating, -1)
	doc.UpdateQuestion(rating.ID, form.QuestionPatch{
		Title:    ptr("How satisfied are you overall?"),
		Required: ptrBool(true),
	})

	choice, _ := doc.AddQuestion(form.KindMultipleChoice, -1)
	opts := []string{"Daily", "Weekly", "Monthly", "Rarely"}
	doc.UpdateQuestion(choice.ID, form.QuestionPatch{
		Title:   ptr("How often do you use the product?"),
		Options: &opts,
	})

	text, _ := doc.AddQuestion(form.KindParagraph, -1)
	doc.UpdateQuestion(text.ID, form.QuestionPatch{
		Title:       ptr("What should we improve?"),
		Placeholder: ptr("Anything goes"),
	})

	return doc
}

func ptr(s string) *string { return &s }
func ptrBool(b bool) *bool { return &b }
