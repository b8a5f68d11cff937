// Package file persists carts as JSON files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/your-org/storefront/internal/domain/cart"
)

// Storage writes one file per key under dir
type Storage struct {
	fs  afero.Fs
	dir string
}

// NewStorage creates a storage rooted at dir on the given filesystem
func NewStorage(fsys afero.Fs, dir string) *Storage {
	return &Storage{fs: fsys, dir: dir}
}

// NewOSStorage creates a storage on the real filesystem
func NewOSStorage(dir string) *Storage {
	return NewStorage(afero.NewOsFs(), dir)
}

// Load reads the value for key or returns cart.ErrNotFound
func (s *Storage) Load(_ context.Context, key string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cart.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Save replaces the value for key. The file is written next to its target
// and renamed so readers never see a partial write.
func (s *Storage) Save(_ context.Context, key string, data []byte) error {
	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create %s: %w", s.dir, err)
	}

	tmp, err := afero.TempFile(s.fs, s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close %s: %w", key, err)
	}

	if err := s.fs.Rename(tmpName, s.path(key)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

var _ cart.Storage = (*Storage)(nil)
