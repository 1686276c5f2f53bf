// Implements Store on a local file with atomic replace.

package snapshot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// File stores the document in a single file on the local filesystem.
//
// Save writes to a temporary file in the same directory and renames it over
// the target, so readers never observe a partially written document.
type File struct {
	path string
}

// NewFile returns a Store backed by path. The parent directory is created if
// missing; the file itself is not.
func NewFile(path string) (*File, error) {
	if path == "" {
		return nil, errors.New("snapshot file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // G301: 0o755 is intentional for data directories
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	return &File{path: path}, nil
}

// Path returns the path of the document on disk.
func (f *File) Path() string {
	return f.path
}

// Load implements Store.
func (f *File) Load(_ context.Context) ([]byte, error) {
	data, err := os.ReadFile(f.path) //nolint:gosec // G304: path comes from configuration
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", f.path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return data, nil
}

// Save implements Store.
func (f *File) Save(_ context.Context, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(f.path), "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // G302: data file is not secret
		return fmt.Errorf("failed to chmod %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

// Driver implements Store.
func (f *File) Driver() Driver {
	return DriverFile
}

// Close implements Store.
func (f *File) Close() error {
	return nil
}
