package store

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sakif/code-cards/internal/apperror"
	"github.com/sakif/code-cards/internal/model"
)

// Compile-time interface check.
var _ Store = (*FileStore)(nil)

// FileStore keeps the whole document in a single flat JSON file.
//
// WRITE STRATEGY:
// Saves go through a temp file in the same directory followed by a rename.
// Rename is atomic on POSIX filesystems, so a failed write (full disk,
// crash mid-write) leaves the previous durable content untouched instead of
// truncating it.
//
// The mutex serializes every read-modify-write cycle; see the package doc.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by the JSON document at path. The
// file is not created until the first save; a missing file loads as the
// empty document so a fresh deployment serves empty collections instead of
// erroring.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load(ctx context.Context) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) Save(ctx context.Context, doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(doc)
}

func (s *FileStore) Update(ctx context.Context, fn func(doc *model.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	return s.save(doc)
}

func (s *FileStore) Close() error {
	return nil
}

// load reads and parses the document. Callers must hold s.mu.
func (s *FileStore) load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewDocument(), nil
	}
	if err != nil {
		return nil, apperror.ReadFailed(err)
	}

	doc := model.NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, apperror.ReadFailed(err)
	}
	return doc, nil
}

// save replaces the file contents in full. Callers must hold s.mu.
func (s *FileStore) save(doc *model.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return apperror.WriteFailed(err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".serverdb-*.json")
	if err != nil {
		return apperror.WriteFailed(err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return apperror.WriteFailed(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return apperror.WriteFailed(err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return apperror.WriteFailed(err)
	}
	return nil
}
