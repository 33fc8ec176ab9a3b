package blobstore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(t.TempDir()),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := s.Get("ns", "missing"); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Get(missing) error = %v, want ErrNotFound", err)
			}

			want := []byte{0x00, 0x01, 0xfe, 0xff}
			if err := s.Put("ns", "blob", want); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			got, err := s.Get("ns", "blob")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("Get() = %v, want %v", got, want)
			}

			if err := s.Delete("ns", "blob"); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := s.Get("ns", "blob"); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after Delete error = %v, want ErrNotFound", err)
			}
			if err := s.Delete("ns", "blob"); err != nil {
				t.Errorf("Delete() of missing key error = %v", err)
			}
		})
	}
}

func TestStoreClear(t *testing.T) {
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_ = s.Put("a", "k1", []byte("1"))
			_ = s.Put("a", "k2", []byte("2"))
			_ = s.Put("b", "k1", []byte("3"))

			if err := s.Clear("a"); err != nil {
				t.Fatalf("Clear() error = %v", err)
			}
			if _, err := s.Get("a", "k1"); !errors.Is(err, ErrNotFound) {
				t.Errorf("a/k1 should be gone, err = %v", err)
			}
			if got, err := s.Get("b", "k1"); err != nil || string(got) != "3" {
				t.Errorf("b/k1 = %q, %v; want \"3\"", got, err)
			}
		})
	}
}

func TestStoreRejectsInvalidNames(t *testing.T) {
	tests := []struct {
		name      string
		namespace string
		key       string
	}{
		{"empty namespace", "", "k"},
		{"empty key", "ns", ""},
		{"traversal", "..", "k"},
		{"separator", "ns", "a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for storeName, s := range stores(t) {
				err := s.Put(tt.namespace, tt.key, []byte("x"))
				if !errors.Is(err, ErrInvalidName) {
					t.Errorf("%s: Put(%q, %q) error = %v, want ErrInvalidName", storeName, tt.namespace, tt.key, err)
				}
			}
		})
	}
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(dir)

	if err := s.Put("ns", "blob", []byte("data")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "ns"))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "blob.bin" {
		t.Errorf("namespace dir entries = %v, want only blob.bin", entries)
	}
}

func TestMemoryStoreCountsWrites(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Put("ns", "k", []byte("1"))
	_ = s.Put("ns", "k", []byte("2"))

	if got := s.Writes("ns", "k"); got != 2 {
		t.Errorf("Writes() = %d, want 2", got)
	}

	s.FailWrites = errors.New("flash worn out")
	if err := s.Put("ns", "k", []byte("3")); err == nil {
		t.Error("Put() should fail when FailWrites is set")
	}
	if got, _ := s.Get("ns", "k"); string(got) != "2" {
		t.Errorf("value after failed write = %q, want \"2\"", got)
	}
}

func TestGetStringDefault(t *testing.T) {
	s := NewMemoryStore()

	got, err := GetString(s, "ns", "missing", "fallback")
	if err != nil || got != "fallback" {
		t.Errorf("GetString(missing) = %q, %v; want fallback", got, err)
	}

	_ = PutString(s, "ns", "present", "value")
	got, err = GetString(s, "ns", "present", "fallback")
	if err != nil || got != "value" {
		t.Errorf("GetString(present) = %q, %v; want value", got, err)
	}
}
