package settings

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/muurk/pagerterm/internal/blobstore"
	"github.com/muurk/pagerterm/internal/logging"
)

// Blob store location of the settings record.
const (
	Namespace = "tlora-term"
	Key       = "settings"
)

// Store owns the device settings record and its persistence. The pointer
// returned by Settings stays the same for the life of the Store; Load and
// Reset overwrite it in place so holders always see current values.
//
// Store is not safe for concurrent use.
type Store struct {
	blobs     blobstore.Store
	namespace string
	key       string
	seed      Seed

	current      *DeviceSettings
	lastRecovery error
}

// Option configures a Store.
type Option func(*Store)

// WithSeed replaces the factory seed data.
func WithSeed(seed Seed) Option {
	return func(s *Store) {
		s.seed = seed
	}
}

// WithLocation stores the record under a different namespace and key.
func WithLocation(namespace, key string) Option {
	return func(s *Store) {
		s.namespace = namespace
		s.key = key
	}
}

// NewStore creates a Store holding factory defaults. Call Load to read the
// persisted record.
func NewStore(blobs blobstore.Store, opts ...Option) *Store {
	s := &Store{
		blobs:     blobs,
		namespace: Namespace,
		key:       Key,
		seed:      DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current = Factory(s.seed)
	return s
}

// Settings returns the working copy. Mutations must be followed by Save.
func (s *Store) Settings() *DeviceSettings {
	return s.current
}

// LastRecovery returns why the most recent Load fell back to factory
// defaults, or nil if it loaded the stored record.
func (s *Store) LastRecovery() error {
	return s.lastRecovery
}

// Load reads and validates the persisted record. A record of the wrong
// size, the wrong version or with a bad checksum is replaced by factory
// defaults, which are saved immediately.
func (s *Store) Load() *DeviceSettings {
	data, err := s.blobs.Get(s.namespace, s.key)
	if err != nil {
		if !errors.Is(err, blobstore.ErrNotFound) {
			logging.Warn("Failed to read settings record", zap.Error(err))
		}
		data = nil
	}
	logging.LogRawBytes("Settings record", data)

	decoded, err := Decode(data)
	if err != nil {
		s.recover(err)
		return s.current
	}

	*s.current = *decoded
	s.lastRecovery = nil
	logging.LogSettings("loaded",
		zap.Uint8("version", decoded.Version),
		zap.Uint8("brightness", decoded.Display.Brightness),
		zap.Int("wifi_networks", len(decoded.WifiNetworks)),
	)
	return s.current
}

func (s *Store) recover(cause error) {
	s.lastRecovery = cause
	logging.LogSettings("reset", zap.String("reason", cause.Error()))
	s.Reset()
	if err := s.Save(); err != nil {
		logging.Error("Failed to save factory settings", zap.Error(err))
	}
}

// Save stamps the checksum and writes the whole record as one blob.
func (s *Store) Save() error {
	record := Encode(s.current)
	if err := s.blobs.Put(s.namespace, s.key, record); err != nil {
		logging.Error("Failed to save settings", zap.Error(err))
		return fmt.Errorf("failed to save settings: %w", err)
	}
	logging.LogSettings("saved", zap.String("checksum", fmt.Sprintf("%#08x", s.current.Checksum)))
	return nil
}

// Reset reinitialises the working copy to factory defaults. It does not
// save.
func (s *Store) Reset() *DeviceSettings {
	*s.current = *Factory(s.seed)
	return s.current
}
