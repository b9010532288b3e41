// Package cache provides byte-level caching for expensive pipeline stages.
//
// The engine caches two things: reasoning-service replies, keyed by a hash
// of the canvas content they were produced for, and rendered snapshots. Keys
// are generated by a Keyer so alternative layouts (for example per-notebook
// scoping) can prefix them without touching call sites.
//
// Backends:
//   - FileCache: directory-backed storage for CLI usage
//   - NullCache: caching disabled
package cache

import (
	"context"
	"time"
)

// Default TTLs per artifact kind.
const (
	// TTLReply bounds how long a reasoning reply stays valid for an
	// unchanged canvas.
	TTLReply = 24 * time.Hour

	// TTLSnapshot bounds rendered snapshot reuse.
	TTLSnapshot = time.Hour
)

// Cache stores opaque byte values with optional expiration.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the engine's cacheable artifacts.
type Keyer interface {
	// ReplyKey keys a reasoning-service reply by the canvas content hash
	// and the options that shaped the request.
	ReplyKey(canvasHash string, opts ReplyKeyOpts) string

	// SnapshotKey keys a rendered canvas image.
	SnapshotKey(canvasHash string, opts SnapshotKeyOpts) string
}

// ReplyKeyOpts are the request parameters that must split cache entries.
type ReplyKeyOpts struct {
	RecentCount int
	MaxEdge     int
}

// SnapshotKeyOpts are the render parameters that must split cache entries.
type SnapshotKeyOpts struct {
	MaxEdge     int
	ShowRegions bool
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ReplyKey generates a key for reasoning-reply caching.
func (k *DefaultKeyer) ReplyKey(canvasHash string, opts ReplyKeyOpts) string {
	return hashKey("reply", canvasHash, opts)
}

// SnapshotKey generates a key for snapshot caching.
func (k *DefaultKeyer) SnapshotKey(canvasHash string, opts SnapshotKeyOpts) string {
	return hashKey("snapshot", canvasHash, opts)
}

// NullCache discards everything and always misses. The assist session
// runs on it when replies are positional and must not be replayed from
// an earlier run, and it stands in wherever caching is switched off.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the value.
func (c *NullCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(context.Context, string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

var _ Cache = (*NullCache)(nil)

// ScopedKeyer wraps a Keyer with a prefix so callers sharing one backend
// (for example several notebooks in one cache directory) stay isolated.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ReplyKey generates a prefixed key for reasoning-reply caching.
func (k *ScopedKeyer) ReplyKey(canvasHash string, opts ReplyKeyOpts) string {
	return k.prefix + k.inner.ReplyKey(canvasHash, opts)
}

// SnapshotKey generates a prefixed key for snapshot caching.
func (k *ScopedKeyer) SnapshotKey(canvasHash string, opts SnapshotKeyOpts) string {
	return k.prefix + k.inner.SnapshotKey(canvasHash, opts)
}
