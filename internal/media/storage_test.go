package media

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		size        int64
		want        error
	}{
		{"png ok", "image/png", 1024, nil},
		{"jpeg at limit", "image/jpeg", MaxUploadSize, nil},
		{"over limit", "image/png", MaxUploadSize + 1, ErrTooLarge},
		{"not an image", "application/pdf", 1024, ErrBadType},
		{"empty", "image/png", 0, ErrEmptyUpload},
		{"unknown length", "image/png", -1, ErrEmptyUpload},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.contentType, tc.size)
			if !errors.Is(err, tc.want) {
				t.Fatalf("Validate(%q, %d) = %v, want %v", tc.contentType, tc.size, err, tc.want)
			}
		})
	}
}

func TestObjectName(t *testing.T) {
	a := ObjectName("f1", "Header.PNG")
	b := ObjectName("f1", "Header.PNG")

	if a == b {
		t.Fatal("object names must be unique per upload")
	}
	if !strings.HasPrefix(a, "forms/f1/") {
		t.Fatalf("object name not scoped to form: %q", a)
	}
	if !strings.HasSuffix(a, ".png") {
		t.Fatalf("extension not preserved lowercase: %q", a)
	}
}

func TestObjectFromURL(t *testing.T) {
	name := ObjectName("f1", "header.png")
	url := "http://cdn.example.com/assets/" + name

	got, err := ObjectFromURL("f1", url)
	if err != nil {
		t.Fatalf("ObjectFromURL: %v", err)
	}
	if got != name {
		t.Fatalf("ObjectFromURL = %q, want %q", got, name)
	}

	// A URL pointing at another form's prefix is rejected.
	if _, err := ObjectFromURL("f2", url); err == nil {
		t.Fatal("expected error for foreign form prefix")
	}
	if _, err := ObjectFromURL("f1", "http://cdn.example.com/assets/forms/f1/../f2/x.png"); err == nil {
		t.Fatal("expected error for traversal in url")
	}
}
