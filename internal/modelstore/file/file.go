// Package file stores model blobs as files in a directory.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"studypal/internal/modelstore"
)

// Ext is the file extension of stored blobs.
const Ext = ".spm"

var _ modelstore.Storage = (*Storage)(nil)

// Storage writes each blob to <dir>/<name>.spm. Writes go through a temp
// file and a rename, so readers never observe a partial blob.
type Storage struct {
	dir string
}

func NewStorage(dir string) *Storage { return &Storage{dir: dir} }

// Dir returns the directory holding the blobs.
func (s *Storage) Dir() string { return s.dir }

// Path returns the file path of a named blob.
func (s *Storage) Path(name string) string { return filepath.Join(s.dir, name+Ext) }

// NameOf returns the blob name stored at path, or false when path is not a
// blob of this store.
func (s *Storage) NameOf(path string) (string, bool) {
	if filepath.Clean(filepath.Dir(path)) != filepath.Clean(s.dir) {
		return "", false
	}
	base := filepath.Base(path)
	if !strings.HasSuffix(base, Ext) || strings.HasPrefix(base, ".") {
		return "", false
	}
	return strings.TrimSuffix(base, Ext), true
}

func (s *Storage) Init(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}
	return nil
}

// Put stages every blob in a temp file before renaming any of them into
// place. A staging failure leaves the existing blobs untouched. The renames
// are atomic one by one, not as a set, so a reader between them can see a
// mix of old and new blobs.
func (s *Storage) Put(ctx context.Context, blobs ...modelstore.Blob) error {
	staged := make([]string, 0, len(blobs))
	success := false
	defer func() {
		if !success {
			for _, p := range staged {
				os.Remove(p)
			}
		}
	}()

	for _, b := range blobs {
		if b.Name == "" {
			return errors.New("blob name is empty")
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		tmp, err := writeTemp(s.dir, b.Data)
		if err != nil {
			return fmt.Errorf("staging %s: %w", b.Name, err)
		}
		staged = append(staged, tmp)
	}
	for i, b := range blobs {
		if err := os.Rename(staged[i], s.Path(b.Name)); err != nil {
			return fmt.Errorf("renaming temp file: %w", err)
		}
	}
	success = true
	return nil
}

func writeTemp(dir string, data []byte) (string, error) {
	f, err := os.CreateTemp(dir, ".tmp-*"+Ext)
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("syncing temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	return path, nil
}

func (s *Storage) Get(ctx context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, modelstore.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *Storage) Clear(ctx context.Context) error {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+Ext))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", m, err)
		}
	}
	return nil
}

func (s *Storage) Close() error { return nil }
