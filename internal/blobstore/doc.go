// Package blobstore provides the namespaced key/value storage used for
// secure scalar values (WiFi credentials, last profile) and for the
// fixed-size settings record.
//
// Three implementations share the Store interface:
//   - MemoryStore: in-process, used by tests and the demo menu
//   - FileStore: one file per key, atomic temp-file + rename writes
//   - SecureStore: wraps another Store and seals values with NaCl secretbox
//
// A missing key is always reported as ErrNotFound:
//
//	data, err := store.Get("tlora-term", "settings")
//	if errors.Is(err, blobstore.ErrNotFound) {
//	    // first boot
//	}
package blobstore
