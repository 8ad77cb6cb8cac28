// Package dest provides the storage capability the file-backed status hooks
// write through.
//
// All paths are relative to a single root directory. Paths are joined and
// cleaned but not confined: a name containing ".." can reach outside the
// root, and callers that accept untrusted names must check for that.
package dest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

const (
	dirPerm  = 0o750
	filePerm = 0o644
)

// Dest is a root-scoped file store.
type Dest interface {
	// Exists reports whether name exists.
	Exists(ctx context.Context, name string) (bool, error)
	// ReadFile returns the whole content of name as UTF-8 text.
	ReadFile(ctx context.Context, name string) (string, error)
	// WriteFile replaces name with data, creating parent directories.
	WriteFile(ctx context.Context, name string, data string) error
	// WriteBytes replaces name with raw bytes, creating parent directories.
	WriteBytes(ctx context.Context, name string, data []byte) error
	// Remove deletes name recursively. A missing name is not an error.
	Remove(ctx context.Context, name string) error
	// ReadDir lists every file below dir, recursively, as slash separated
	// paths relative to dir. A missing dir yields an empty list.
	ReadDir(ctx context.Context, dir string) ([]string, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(ctx context.Context, dir string) error
	// Rename moves oldName to newName, replacing newName.
	Rename(ctx context.Context, oldName, newName string) error
	// Path joins parts under the root and normalizes the result.
	Path(parts ...string) string
}

// Local is a Dest on the local filesystem.
type Local struct {
	dir string
}

var _ Dest = (*Local)(nil)

// NewLocal creates a Dest rooted at dir. The directory is created lazily
// on first write.
func NewLocal(dir string) *Local {
	return &Local{dir: filepath.Clean(dir)}
}

// Root returns the normalized root directory.
func (l *Local) Root() string {
	return l.dir
}

func (l *Local) Path(parts ...string) string {
	return filepath.Join(append([]string{l.dir}, parts...)...)
}

func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	_, err := os.Stat(l.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", name, err)
}

func (l *Local) ReadFile(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := os.ReadFile(l.Path(name))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", name, err)
	}
	return string(data), nil
}

func (l *Local) WriteFile(ctx context.Context, name string, data string) error {
	return l.WriteBytes(ctx, name, []byte(data))
}

func (l *Local) WriteBytes(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path := l.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (l *Local) Remove(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.RemoveAll(l.Path(name)); err != nil {
		return fmt.Errorf("failed to remove %s: %w", name, err)
	}
	return nil
}

func (l *Local) ReadDir(ctx context.Context, dir string) ([]string, error) {
	root := l.Path(dir)
	var names []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		names = append(names, filepath.ToSlash(rel))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(names)
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (l *Local) MkdirAll(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(l.Path(dir), dirPerm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

func (l *Local) Rename(ctx context.Context, oldName, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Rename(l.Path(oldName), l.Path(newName)); err != nil {
		return fmt.Errorf("failed to rename %s to %s: %w", oldName, newName, err)
	}
	return nil
}
