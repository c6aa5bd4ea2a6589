package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps blobs on the local filesystem under a single directory.
// Blob names are random so uploads can never collide or overwrite each other.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the upload directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save streams the reader to a new file and returns its reference.
func (s *LocalStore) Save(r io.Reader, suggestedName string) (FileRef, error) {
	name := SanitizeName(suggestedName)
	blobName := uuid.NewString() + filepath.Ext(name)
	path := filepath.Join(s.dir, blobName)

	f, err := os.Create(path)
	if err != nil {
		return FileRef{}, fmt.Errorf("failed to create blob file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return FileRef{}, fmt.Errorf("failed to write blob file: %w", err)
	}

	return FileRef{Path: path, Name: name, Size: size}, nil
}

// Open returns a reader over a stored blob.
func (s *LocalStore) Open(ref FileRef) (io.ReadCloser, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, err
	}
	return f, nil
}

// Delete releases a stored blob. A missing blob is not an error; the record
// it belonged to is already gone.
func (s *LocalStore) Delete(ref FileRef) error {
	err := os.Remove(ref.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
