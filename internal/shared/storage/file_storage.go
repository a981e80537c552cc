package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStorage is a path-addressed blob store on the local filesystem.
// Attachments and generated forms are opaque blobs under the configured root;
// the stored path is what the API hands back as the download address.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) (*FileStorage, error) {
	if root == "" {
		return nil, fmt.Errorf("storage root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &FileStorage{root: root}, nil
}

// Save writes the blob at the given relative path, creating parent
// directories as needed, and returns the relative path.
func (s *FileStorage) Save(relPath string, r io.Reader) (string, error) {
	clean, err := s.resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(clean), 0o755); err != nil {
		return "", fmt.Errorf("create dir: %w", err)
	}

	f, err := os.Create(clean)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}

	return relPath, nil
}

func (s *FileStorage) Open(relPath string) (io.ReadCloser, error) {
	clean, err := s.resolve(relPath)
	if err != nil {
		return nil, err
	}
	return os.Open(clean)
}

func (s *FileStorage) Exists(relPath string) bool {
	clean, err := s.resolve(relPath)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(clean)
	return statErr == nil
}

// Remove deletes the blob. A missing file is not an error.
func (s *FileStorage) Remove(relPath string) error {
	clean, err := s.resolve(relPath)
	if err != nil {
		return err
	}
	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolve rejects paths escaping the root.
func (s *FileStorage) resolve(relPath string) (string, error) {
	clean := filepath.Clean(relPath)
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage path: %s", relPath)
	}
	return filepath.Join(s.root, clean), nil
}
