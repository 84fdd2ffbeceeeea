// Package images stores uploaded profile images on local disk. Stored names
// are random, so an upload never clobbers another file and the original
// filename only contributes its extension.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore creates the storage directory if needed. baseURL is the public
// path prefix the HTTP server serves the directory under (e.g. "/uploads").
func NewDiskStore(root, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("images.NewDiskStore: %w", err)
	}
	return &DiskStore{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Dir returns the storage directory, for mounting a static file server.
func (s *DiskStore) Dir() string { return s.root }

func (s *DiskStore) Save(_ context.Context, originalName string, content io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext

	f, err := os.Create(filepath.Join(s.root, name))
	if err != nil {
		return "", fmt.Errorf("images.Save: %w", err)
	}

	if _, err := io.Copy(f, content); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("images.Save: write: %w", err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("images.Save: close: %w", err)
	}

	return name, nil
}

// Remove deletes a stored image. A missing file is not an error: the record
// may reference an image that was already cleaned up.
func (s *DiskStore) Remove(_ context.Context, name string) error {
	// Reject anything that could escape the storage directory.
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("images.Remove: invalid name %q", name)
	}

	err := os.Remove(filepath.Join(s.root, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("images.Remove: %w", err)
	}
	return nil
}

// URL resolves a stored name to its public URL. Empty in, empty out.
func (s *DiskStore) URL(name string) string {
	if name == "" {
		return ""
	}
	return s.baseURL + "/" + path.Base(name)
}
