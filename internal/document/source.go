package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
)

// ErrNotFound is returned when a document path does not exist or is empty.
var ErrNotFound = errors.New("document not found")

// Source is a read-only hierarchical filesystem of named documents.
// Paths are slash separated and relative to the filesystem root; a leading
// "/" is accepted and ignored.
type Source interface {
	Read(name string) ([]byte, error)
	List(dir string) ([]string, error)
}

// FSSource serves documents from an fs.FS.
type FSSource struct {
	FS fs.FS
}

// NewDirSource serves documents from a directory on the host.
func NewDirSource(root string) *FSSource {
	return &FSSource{FS: os.DirFS(root)}
}

// NormalizePath makes p filesystem-root relative: "config/a.yaml",
// "/config/a.yaml" and "/config/../config/a.yaml" all map to "/config/a.yaml".
func NormalizePath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}

func fsName(p string) string {
	name := strings.TrimPrefix(NormalizePath(p), "/")
	if name == "" {
		return "."
	}
	return name
}

// Read implements Source. An empty file is reported as ErrNotFound.
func (s *FSSource) Read(name string) ([]byte, error) {
	data, err := fs.ReadFile(s.FS, fsName(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, NormalizePath(name))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", NormalizePath(name), err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrNotFound, NormalizePath(name))
	}
	return data, nil
}

// List implements Source. It returns the names of regular files in dir,
// sorted. A missing directory yields ErrNotFound.
func (s *FSSource) List(dir string) ([]string, error) {
	entries, err := fs.ReadDir(s.FS, fsName(dir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, NormalizePath(dir))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", NormalizePath(dir), err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
