// Package storage holds submission deliverables outside the database. The
// database row keeps only a FileRef; the blob itself lives behind BlobStore.
package storage

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/solvemarket/marketplace-api/internal/constants"
)

var ErrBlobNotFound = errors.New("storage: blob not found")

// FileRef identifies a stored blob.
type FileRef struct {
	Path string
	Name string
	Size int64
}

// BlobStore saves, serves and releases submission files.
type BlobStore interface {
	Save(r io.Reader, suggestedName string) (FileRef, error)
	Open(ref FileRef) (io.ReadCloser, error)
	Delete(ref FileRef) error
}

// IsArchiveName reports whether a filename carries an accepted archive
// extension. Deliverables must be compressed containers.
func IsArchiveName(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range constants.AllowedArchiveExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// SanitizeName strips any path components from an uploaded filename.
func SanitizeName(name string) string {
	return filepath.Base(filepath.Clean(name))
}
