package blobstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

const blobExt = ".bin"

// FileStore keeps each namespace in its own directory under Root and each
// value in its own file. Writes go through a temporary file and a rename so a
// reader never observes a partially written blob.
type FileStore struct {
	Root string

	mu sync.Mutex
}

// NewFileStore creates a FileStore rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Root: dir}
}

func (f *FileStore) path(namespace, key string) (string, error) {
	if err := validateName("namespace", namespace); err != nil {
		return "", err
	}
	if err := validateName("key", key); err != nil {
		return "", err
	}
	return filepath.Join(f.Root, namespace, key+blobExt), nil
}

// Get implements Store.
func (f *FileStore) Get(namespace, key string) ([]byte, error) {
	p, err := f.path(namespace, key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", namespace, key, err)
	}
	return data, nil
}

// Put implements Store.
func (f *FileStore) Put(namespace, key string, value []byte) error {
	p, err := f.path(namespace, key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// User-only permissions: the secure namespace lives here too.
	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return fmt.Errorf("failed to create namespace directory: %w", err)
	}

	tmpPath := p + ".tmp"
	if err := os.WriteFile(tmpPath, value, 0600); err != nil {
		return fmt.Errorf("failed to write temporary blob: %w", err)
	}

	if err := os.Rename(tmpPath, p); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save blob %s/%s: %w", namespace, key, err)
	}

	return nil
}

// Delete implements Store. Deleting a missing key is not an error.
func (f *FileStore) Delete(namespace, key string) error {
	p, err := f.path(namespace, key)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete blob %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Clear implements Store.
func (f *FileStore) Clear(namespace string) error {
	if err := validateName("namespace", namespace); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(f.Root, namespace)); err != nil {
		return fmt.Errorf("failed to clear namespace %s: %w", namespace, err)
	}
	return nil
}
