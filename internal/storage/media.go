package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MediaStore persists uploaded binary artifacts and returns a stable path.
type MediaStore interface {
	Save(fileName string, data []byte) (string, error)
}

// LocalMediaStore writes uploads under a base directory on local disk.
type LocalMediaStore struct {
	dir string
}

// NewLocalMediaStore builds a store rooted at dir, creating it if needed.
func NewLocalMediaStore(dir string) (*LocalMediaStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalMediaStore{dir: dir}, nil
}

// Save stores data under a collision-free name derived from fileName.
func (s *LocalMediaStore) Save(fileName string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	base := strings.TrimSuffix(filepath.Base(fileName), ext)
	if base == "" {
		base = "upload"
	}
	name := fmt.Sprintf("%s_%s%s", base, uuid.NewString(), ext)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write media file: %w", err)
	}
	return path, nil
}
