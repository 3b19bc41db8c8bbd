// Package blob persists raw payload bytes (text snippets, PNG images) as
// files under one directory, behind names sanitized to a bare basename.
package blob

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrInvalidName reports a filename that reduces to nothing usable.
var ErrInvalidName = errors.New("invalid filename")

// ErrNotFound reports a missing blob.
var ErrNotFound = errors.New("blob not found")

// SafeName reduces a client-supplied filename to its bare basename and
// rejects empty, "." and ".." results, defending against path traversal.
func SafeName(name string) (string, error) {
	base := filepath.Base(name)
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", ErrInvalidName
	}
	return base, nil
}

// Store holds blobs in a single directory.
type Store struct {
	dir string
}

// New creates a Store rooted at dir. The directory is created lazily on the
// first write.
func New(dir string) *Store { return &Store{dir: dir} }

// Dir returns the store's directory.
func (s *Store) Dir() string { return s.dir }

// Put writes the blob, overwriting any previous content under the name.
func (s *Store) Put(name string, data []byte) error {
	safe, err := SafeName(name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, safe), data, 0o644)
}

// Get reads the blob bytes, ErrNotFound when absent.
func (s *Store) Get(name string) ([]byte, error) {
	p, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// Path resolves the blob's on-disk path without checking existence.
func (s *Store) Path(name string) (string, error) {
	safe, err := SafeName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.dir, safe), nil
}

// Has reports whether the blob exists.
func (s *Store) Has(name string) bool {
	p, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// Remove deletes the blob if present; missing blobs are not an error.
func (s *Store) Remove(name string) error {
	p, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
