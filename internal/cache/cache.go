package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores fetched page bodies for the duration of a run, so a word
// that appears on several input lines is fetched once. Nothing is
// persisted across runs. Keys are raw lookup URLs; implementations
// decide how to normalize them.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the storage key for a lookup URL. MemoryCache applies it
// internally; callers never hash themselves.
func Key(url string) string {
	hash := sha256.Sum256([]byte(url))
	return "synsheet:v1:" + hex.EncodeToString(hash[:])
}
