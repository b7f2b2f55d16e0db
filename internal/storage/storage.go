// Package storage persists uploaded resources, currently just the author's
// profile photo.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ResourceStorage stores uploaded files under stable target names.
type ResourceStorage interface {
	UploadProfilePhoto(file io.Reader, targetName string) (string, error)
}

// LocalStorage writes resources to a directory on the local filesystem.
// Uploads are idempotent: re-uploading the same target name overwrites the
// previous file.
type LocalStorage struct {
	dir string
}

var _ ResourceStorage = (*LocalStorage)(nil)

// NewLocalStorage creates a storage rooted at dir.
func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

// UploadProfilePhoto stores the file under targetName and returns the stored path.
func (s *LocalStorage) UploadProfilePhoto(file io.Reader, targetName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	path := filepath.Join(s.dir, filepath.Base(targetName))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create photo file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return path, nil
}
