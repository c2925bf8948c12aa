package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStorage stores files on the local filesystem under a base directory
type LocalStorage struct {
	dir string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %q: %w", dir, err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save writes the content under a uuid-derived name, keeping the original
// extension so served files get a sensible content type.
func (s *LocalStorage) Save(originalName string, r io.Reader) (string, int64, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	storedName := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.dir, storedName))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}

	return storedName, size, nil
}

// Open returns a reader over a stored file
func (s *LocalStorage) Open(storedName string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(storedName)))
}

// Remove deletes a stored file. A missing file is not an error: the
// metadata row is the source of truth and may outlive a manually cleaned
// directory.
func (s *LocalStorage) Remove(storedName string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(storedName)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
