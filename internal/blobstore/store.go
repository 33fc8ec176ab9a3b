package blobstore

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when the namespace has no value for the key.
var ErrNotFound = errors.New("blob not found")

// ErrInvalidName is returned when a namespace or key cannot be used as a name.
var ErrInvalidName = errors.New("invalid blob name")

// Store is a namespaced key to bytes store.
//
// Implementations report a missing value with ErrNotFound so callers can tell
// "not found" apart from a read failure.
type Store interface {
	Get(namespace, key string) ([]byte, error)
	Put(namespace, key string, value []byte) error
	Delete(namespace, key string) error
	Clear(namespace string) error
}

// GetString reads a value as a string, returning def when the key is absent.
func GetString(s Store, namespace, key, def string) (string, error) {
	data, err := s.Get(namespace, key)
	if errors.Is(err, ErrNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return string(data), nil
}

// PutString stores a string value.
func PutString(s Store, namespace, key, value string) error {
	return s.Put(namespace, key, []byte(value))
}

func validateName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty %s", ErrInvalidName, kind)
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %s %q", ErrInvalidName, kind, name)
	}
	return nil
}
