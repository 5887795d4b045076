// Package media handles uploaded form assets such as header images and
// question illustrations.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps uploads at 5 MiB. Enforced before any bytes reach the
// object store.
const MaxUploadSize = 5 << 20

var (
	ErrTooLarge    = errors.New("media: file exceeds the 5MB upload limit")
	ErrBadType     = errors.New("media: only image uploads are accepted")
	ErrEmptyUpload = errors.New("media: empty upload")
)

// Storage persists uploaded objects and serves back public URLs.
type Storage interface {
	Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// Disabled is the storage wired in when no object store is configured.
// Uploads fail with a clear error instead of a nil dereference.
type Disabled struct{}

func (Disabled) Put(ctx context.Context, objectName, contentType string, r io.Reader, size int64) (string, error) {
	return "", errors.New("media: object storage is not configured")
}

func (Disabled) Remove(ctx context.Context, objectName string) error {
	return nil
}

// Validate rejects an upload before it is sent anywhere. Size -1 (unknown
// length) is rejected rather than streamed and checked after the fact.
func Validate(contentType string, size int64) error {
	if size <= 0 {
		return ErrEmptyUpload
	}
	if size > MaxUploadSize {
		return ErrTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrBadType
	}
	return nil
}

// ObjectName builds a collision-free object key, keeping the original
// extension so content type survives a re-serve.
func ObjectName(formID, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("forms/%s/%s%s", formID, uuid.NewString(), ext)
}

// ObjectFromURL recovers the object key from a public URL handed back by
// Put. The key must sit under the given form's prefix so one form cannot
// delete another's assets.
func ObjectFromURL(formID, url string) (string, error) {
	prefix := "forms/" + formID + "/"
	idx := strings.Index(url, "/"+prefix)
	if idx < 0 {
		return "", errors.New("media: url does not reference an asset of this form")
	}
	objectName := url[idx+1:]
	if strings.Contains(objectName, "..") || strings.Count(objectName, "/") != 2 {
		return "", errors.New("media: malformed asset url")
	}
	return objectName, nil
}
