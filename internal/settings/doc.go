// Package settings persists the mutable device settings record.
//
// The record is a fixed-size little-endian blob (RecordSize bytes) tagged
// with CurrentVersion and protected by a weighted checksum. Encode and Decode
// are pure and can be tested without storage; Store adds load-with-repair and
// save on top of a blobstore.Store.
//
// Loading runs a three stage gate, each stage reported with its own error:
//
//	size     ErrSizeMismatch      layout changed between builds
//	version  ErrVersionMismatch   schema was bumped on purpose
//	checksum ErrChecksumMismatch  bit rot or a torn write
//
// Any failure resets the working copy to factory defaults and saves it
// straight away, so the next boot finds a valid record.
package settings
