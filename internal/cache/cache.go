// Package cache stores fetched knowledge base and catalog documents so a
// restart or a flaky origin does not cost another download.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/minthub/mintassist/internal/model"
)

// keyPrefix is bumped when the stored entry layout changes
const keyPrefix = "mintassist:v1:"

// Cache stores raw source bytes by key
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SourceKey derives the cache key of a fetched source. Sources differing
// only in surrounding whitespace share a key.
func SourceKey(source string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(source)))
	return keyPrefix + hex.EncodeToString(hash[:])
}

// New builds the cache described by cfg: memory over disk when a directory
// is set, memory only otherwise, and a no-op cache when disabled.
func New(cfg model.CacheConfig) Cache {
	if !cfg.Enabled {
		return Noop{}
	}
	if cfg.Dir == "" {
		return NewMemoryCache(cfg.MemoryTTL, cleanupInterval(cfg.MemoryTTL))
	}
	return NewLayeredCache(cfg.MemoryTTL, cfg.Dir, cfg.DiskTTL)
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(string) ([]byte, bool)               { return nil, false }
func (Noop) Set(string, []byte, time.Duration) error { return nil }
func (Noop) Delete(string) error                     { return nil }
func (Noop) Clear() error                            { return nil }

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 10 * time.Minute
	}
	return ttl
}
