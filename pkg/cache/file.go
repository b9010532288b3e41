package cache

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache persists entries under a root directory, one JSON file per
// entry, grouped by artifact kind. Keyer-generated keys carry the kind
// as a segment ("reply:<hash>", "snapshot:<hash>"); the kind becomes a
// subdirectory so reasoning replies and rendered snapshots can be
// inspected or cleared independently:
//
//	<dir>/reply/<keyhash>.json
//	<dir>/snapshot/<keyhash>.json
//
// Keys without a recognized kind land under misc/.
type FileCache struct {
	dir string
}

// NewFileCache creates a file-backed cache rooted at dir.
// The directory is created if it does not exist.
func NewFileCache(dir string) (Cache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// fileEntry is the on-disk record. Kind is redundant with the entry's
// directory but keeps individual files self-describing.
type fileEntry struct {
	Kind      string    `json:"kind"`
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// expired reports whether the entry's deadline has passed.
// A zero ExpiresAt means the entry never expires.
func (e *fileEntry) expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.After(e.ExpiresAt)
}

// Get reads an entry from disk. Corrupt and expired entries are removed
// and reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var entry fileEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		os.Remove(path)
		return nil, false, nil
	}
	if entry.expired(time.Now()) {
		os.Remove(path)
		return nil, false, nil
	}
	return entry.Data, true, nil
}

// Set writes an entry. The write goes through a temp file and rename so
// a half-written snapshot payload is never served by a concurrent Get.
// A non-positive ttl stores the entry without an expiration.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	entry := fileEntry{Kind: artifactKind(key), Data: data}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".write-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}

// Delete removes an entry. Deleting a missing key is not an error.
func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Close is a no-op; files are closed per operation.
func (c *FileCache) Close() error {
	return nil
}

// path maps a key to its entry file. The full key is hashed for the
// filename so scoped keys and arbitrary keys stay filesystem-safe.
func (c *FileCache) path(key string) string {
	return filepath.Join(c.dir, artifactKind(key), Hash([]byte(key))+".json")
}

// artifactKind extracts the kind segment from a Keyer-generated key.
// Scoped keys carry the kind second to last ("notebook:alpha:reply:<hash>").
func artifactKind(key string) string {
	parts := strings.Split(key, ":")
	if len(parts) >= 2 {
		switch kind := parts[len(parts)-2]; kind {
		case "reply", "snapshot":
			return kind
		}
	}
	return "misc"
}

var _ Cache = (*FileCache)(nil)
