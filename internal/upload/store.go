package upload

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store persists uploaded files and removes superseded ones.
type Store interface {
	Save(name string, src io.Reader) (string, error)
	Remove(path string) error
}

// DiskStore writes uploads under a base directory and returns the public path
// they are served from. The surrounding web layer serves the directory as
// static content.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates the base directory if needed.
func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

// Save writes the file and returns its public path.
func (s *DiskStore) Save(name string, src io.Reader) (string, error) {
	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/" + filepath.ToSlash(filepath.Join(s.baseDir, name)), nil
}

// Remove deletes a previously stored file by its public path. Missing files
// are not an error.
func (s *DiskStore) Remove(path string) error {
	rel := strings.TrimPrefix(path, "/")
	if rel == "" {
		return nil
	}
	if _, err := os.Stat(rel); os.IsNotExist(err) {
		return nil
	}
	return os.Remove(rel)
}
