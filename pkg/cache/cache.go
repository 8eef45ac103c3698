// Package cache memoizes the results of expensive external calls.
//
// Keys are content fingerprints, never display names: two different files
// that share a filename never collide, and identical content never
// recomputes within one process. The cache is process-scoped; no
// cross-process coherency is provided.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Kind identifies the operation whose result is cached. Results of
// different kinds never collide even for equal fingerprints.
type Kind string

const (
	KindTranscription Kind = "transcription"
	KindSummarization Kind = "summarization"
)

type key struct {
	kind        Kind
	fingerprint string
	params      string
}

type entry struct {
	value    string
	storedAt time.Time
}

// Cache is a bounded in-memory memoization table, safe for concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[key]entry
	order      []key // insertion order, for FIFO eviction
	maxEntries int   // 0 means unbounded
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries bounds the table to n entries; the oldest entry is evicted
// when a new one would exceed the bound.
func WithMaxEntries(n int) Option {
	return func(c *Cache) {
		c.maxEntries = n
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{entries: make(map[key]entry)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint derives a content fingerprint from raw bytes.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintText derives a content fingerprint from text.
func FingerprintText(text string) string {
	return Fingerprint([]byte(text))
}

// GetOrCompute returns the cached result for (kind, fingerprint, params),
// or invokes compute, stores its result, and returns it. If compute fails
// the error propagates and nothing is cached. compute runs outside the
// cache lock, so a slow call does not stall unrelated lookups; concurrent
// misses on the same key may compute more than once, with one winner.
func (c *Cache) GetOrCompute(ctx context.Context, kind Kind, fingerprint, params string, compute func(ctx context.Context) (string, error)) (string, error) {
	k := key{kind: kind, fingerprint: fingerprint, params: params}

	c.mu.Lock()
	if e, ok := c.entries[k]; ok {
		c.mu.Unlock()
		return e.value, nil
	}
	c.mu.Unlock()

	value, err := compute(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[k]; !ok {
		c.store(k, value)
	}
	return value, nil
}

// Get returns the cached value for (kind, fingerprint, params), if present.
func (c *Cache) Get(kind Kind, fingerprint, params string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key{kind: kind, fingerprint: fingerprint, params: params}]
	return e.value, ok
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear empties the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[key]entry)
	c.order = nil
}

// store inserts under the caller's lock, evicting the oldest entry when the
// bound would be exceeded.
func (c *Cache) store(k key, value string) {
	if c.maxEntries > 0 && len(c.entries) >= c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[k] = entry{value: value, storedAt: time.Now()}
	c.order = append(c.order, k)
}
