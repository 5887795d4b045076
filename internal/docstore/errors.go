package docstore

import (
	"errors"
	"fmt"
)

// Error is returned when the document database server returns an error response.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("docstore: %s", e.Msg)
}

// ErrNotFound is returned by Store implementations when a document id does
// not exist in the collection.
var ErrNotFound = errors.New("docstore: document not found")
