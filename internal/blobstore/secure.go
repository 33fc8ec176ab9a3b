package blobstore

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	// KeySize is the secretbox key length.
	KeySize = 32
	// nonceSize is the secretbox nonce length, prepended to every sealed value.
	nonceSize = 24
)

// ErrDecrypt is returned when a sealed value cannot be opened with the key.
var ErrDecrypt = errors.New("failed to decrypt blob with secretbox")

// SecureStore seals every value with NaCl secretbox before handing it to the
// underlying Store. The 24-byte random nonce is stored in front of the
// ciphertext.
type SecureStore struct {
	inner Store
	key   [KeySize]byte
}

// NewSecureStore wraps inner with encryption under key.
func NewSecureStore(inner Store, key []byte) (*SecureStore, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("invalid secure store key length: expected %d bytes, got %d bytes", KeySize, len(key))
	}
	s := &SecureStore{inner: inner}
	copy(s.key[:], key)
	return s, nil
}

// Get implements Store.
func (s *SecureStore) Get(namespace, key string) ([]byte, error) {
	sealed, err := s.inner.Get(namespace, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: %s/%s is too short", ErrDecrypt, namespace, key)
	}

	var nonce [nonceSize]byte
	copy(nonce[:], sealed[:nonceSize])

	plaintext, ok := secretbox.Open(nil, sealed[nonceSize:], &nonce, &s.key)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrDecrypt, namespace, key)
	}
	return plaintext, nil
}

// Put implements Store.
func (s *SecureStore) Put(namespace, key string, value []byte) error {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Put(namespace, key, sealed)
}

// Delete implements Store.
func (s *SecureStore) Delete(namespace, key string) error {
	return s.inner.Delete(namespace, key)
}

// Clear implements Store.
func (s *SecureStore) Clear(namespace string) error {
	return s.inner.Clear(namespace)
}

// LoadOrCreateKey reads a secretbox key from path, creating a new random key
// with user-only permissions when the file does not exist yet.
func LoadOrCreateKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("invalid key file %s: expected %d bytes, got %d bytes", path, KeySize, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	key = make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(path, key, 0600); err != nil {
		return nil, fmt.Errorf("failed to save key file: %w", err)
	}
	return key, nil
}
