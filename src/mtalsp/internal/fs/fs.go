package fs

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// MtaFS will wrap the filesystem operations used by mta-lsp.
type MtaFS interface {
	MkdirAll(path string) error
	FileExists(path string) (bool, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data string) error
	Remove(name string) error
	// TempFile creates a new file in dir. The name is built from pattern, where the last "*" is replaced by a random string.
	TempFile(dir string, pattern string) (*os.File, error)
	// Glob returns the absolute paths of all files below root whose slash separated path relative to root matches pattern.
	// Files and directories matching any of the exclude patterns are skipped.
	Glob(root string, pattern string, exclude []string) ([]string, error)
}

type fsImpl struct{}

// New creates a new MtaFS.
func New() MtaFS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) WriteFile(name string, data string) error {
	return os.WriteFile(name, []byte(data), 0644)
}

func (fsImpl) Remove(name string) error {
	return os.Remove(name)
}

func (fsImpl) TempFile(dir string, pattern string) (*os.File, error) {
	return os.CreateTemp(dir, pattern)
}

func (fsImpl) Glob(root string, pattern string, exclude []string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, doublestar.ErrBadPattern
	}

	result := []string{}
	err := fs.WalkDir(os.DirFS(root), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than failing the whole walk.
			if rel == "." {
				return err
			}
			return nil
		}
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if ExcludedDir(rel, exclude) {
				return fs.SkipDir
			}
			return nil
		}
		if Excluded(rel, exclude) {
			return nil
		}
		if ok, _ := doublestar.Match(pattern, rel); ok {
			result = append(result, filepath.Join(root, filepath.FromSlash(rel)))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Excluded reports whether the slash separated relative path matches any of the patterns.
func Excluded(rel string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// ExcludedDir reports whether everything below the slash separated relative directory is excluded.
func ExcludedDir(rel string, patterns []string) bool {
	// Any entry inside the directory is representative for patterns ending in "/**".
	return Excluded(rel, patterns) || Excluded(path.Join(rel, "_"), patterns)
}
