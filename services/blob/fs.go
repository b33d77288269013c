// Package blobsvc stores uploaded files on the local filesystem. References
// are uuid-prefixed file names, safe to hand out and collision-free.
package blobsvc

import (
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

type fsStore struct {
	dir string
}

var _ core.BlobStore = (*fsStore)(nil)

func NewFSStore(conf *core.Config) (*fsStore, error) {
	if err := os.MkdirAll(conf.Uploads.Dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating uploads directory")
	}
	return &fsStore{dir: conf.Uploads.Dir}, nil
}

func (s fsStore) Store(name string, content io.Reader) (string, error) {
	ref := uuid.New().String() + "_" + filepath.Base(name)

	f, err := os.Create(filepath.Join(s.dir, ref))
	if err != nil {
		return "", errors.Wrap(err, "creating blob file")
	}
	defer func() { _ = f.Close() }()

	if _, err = io.Copy(f, content); err != nil {
		return "", errors.Wrap(err, "writing blob file")
	}
	return ref, nil
}

func (s fsStore) Path(ref string) string {
	return filepath.Join(s.dir, ref)
}
