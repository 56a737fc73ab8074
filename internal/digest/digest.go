// Package digest computes truncated content hashes for target files and
// memoizes them for the duration of one run, guaranteeing each physical
// file is hashed and renamed at most once however many placeholders
// reference it.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"

	"revstamp/internal/errors"
)

// DefaultPrecision is the number of hex digits embedded in renamed filenames.
const DefaultPrecision = 8

// MinSafePrecision is the precision below which collision risk warrants a warning.
const MinSafePrecision = 6

// Hash reads the file at path and returns its sha256 content digest as
// lowercase hex truncated to precision characters. Identical bytes always
// produce the identical digest.
func Hash(path string, precision int) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.New(errors.MissingTarget, fmt.Sprintf("cannot hash %s", path), err)
		}
		return "", errors.New(errors.IOFailure, fmt.Sprintf("cannot hash %s", path), err)
	}
	sum := sha256.Sum256(data)
	full := hex.EncodeToString(sum[:])
	if precision > 0 && precision < len(full) {
		return full[:precision], nil
	}
	return full, nil
}

// Entry is the cached outcome for one target file, keyed by its pre-rename
// path. A failed entry means the target was missing or not a regular file;
// no hash was computed and every reference to it stays untouched.
type Entry struct {
	Hash string
	OK   bool
}

// Cache maps pre-rename target paths to their digest outcome. Entries are
// created lazily on first resolution and immutable afterward. Owned by a
// single run; nothing persists across runs.
type Cache struct {
	entries map[string]Entry
}

// NewCache creates an empty digest cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]Entry)}
}

// Get returns the entry for path and whether one exists yet.
func (c *Cache) Get(path string) (Entry, bool) {
	e, ok := c.entries[path]
	return e, ok
}

// PutHash records a successful digest for path. The first outcome wins;
// later writes for the same path are ignored.
func (c *Cache) PutHash(path string, hash string) {
	if _, ok := c.entries[path]; ok {
		return
	}
	c.entries[path] = Entry{Hash: hash, OK: true}
}

// PutMissing records the failure sentinel for path.
func (c *Cache) PutMissing(path string) {
	if _, ok := c.entries[path]; ok {
		return
	}
	c.entries[path] = Entry{}
}

// Hashed returns the successfully hashed entries as a path-to-hash map.
func (c *Cache) Hashed() map[string]string {
	out := make(map[string]string)
	for path, e := range c.entries {
		if e.OK {
			out[path] = e.Hash
		}
	}
	return out
}

// Len returns the number of cached entries, failures included.
func (c *Cache) Len() int {
	return len(c.entries)
}
