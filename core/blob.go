package core

import (
	"io"

	"github.com/pkg/errors"
)

var ErrBlobTooLarge = errors.New("file exceeds the maximum allowed size")

// FileUpload carries an incoming file into the domain layer.
type FileUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

// BlobStore persists opaque file content and resolves stored references
// to a downloadable location.
type BlobStore interface {
	// Store persists the content and returns an opaque reference.
	Store(name string, content io.Reader) (ref string, err error)
	// Path resolves a reference to a location servable to clients.
	Path(ref string) string
}
