package blobsvc

import (
	"io"
	"io/ioutil"
	"path"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

// MockStore keeps blobs in memory for tests.
type MockStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

var _ core.BlobStore = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{blobs: make(map[string][]byte)}
}

func (s *MockStore) Store(name string, content io.Reader) (string, error) {
	data, err := ioutil.ReadAll(content)
	if err != nil {
		return "", errors.Wrap(err, "reading blob content")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	ref := name
	s.blobs[ref] = data
	return ref, nil
}

func (s *MockStore) Path(ref string) string {
	return path.Join("/blobs", ref)
}

// Blob returns the stored content for assertions.
func (s *MockStore) Blob(ref string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.blobs[ref]
	return data, ok
}
