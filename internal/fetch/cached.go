// Package fetch - cached.go provides the write-through on-disk page cache.
package fetch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
)

// Cache is a content-addressed store of fetched page text, keyed by a
// stable hash of the URL. Entries never expire: a run re-using a cache
// directory never re-fetches a previously seen URL even if the remote page
// changed. That staleness tradeoff favors speed and politeness toward the
// search engine over freshness.
type Cache struct {
	dir string
}

// NewCache creates a cache rooted at dir. The directory is created on
// first write, not here, so a read-only run against a cold cache works.
func NewCache(dir string) *Cache {
	return &Cache{dir: dir}
}

// Dir returns the cache root directory.
func (c *Cache) Dir() string {
	return c.dir
}

// Get returns the cached text for a URL and whether it was present.
// Unreadable entries are treated as misses, not errors.
func (c *Cache) Get(urlStr string) (string, bool) {
	if c == nil || c.dir == "" {
		return "", false
	}
	data, err := os.ReadFile(c.path(urlStr))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Put stores text for a URL. Failures are returned so callers can log
// them, but a cache write failure must never fail the surrounding fetch.
func (c *Cache) Put(urlStr, text string) error {
	if c == nil || c.dir == "" {
		return nil
	}
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", c.dir, err)
	}
	if err := os.WriteFile(c.path(urlStr), []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write cache entry for %s: %w", urlStr, err)
	}
	return nil
}

func (c *Cache) path(urlStr string) string {
	return filepath.Join(c.dir, cacheKey(urlStr)+".txt")
}

// cacheKey computes the stable cache key for a URL.
func cacheKey(urlStr string) string {
	sum := sha256.Sum256([]byte(urlStr))
	return hex.EncodeToString(sum[:])
}

// Result holds fetched text plus cache provenance.
type Result struct {
	URL       string
	Text      string
	FromCache bool
}

// CachedFetcher wraps retrying URL fetches with the on-disk cache.
type CachedFetcher struct {
	cache   *Cache
	options *Options
}

// NewCachedFetcher creates a fetcher backed by cache. A nil cache disables
// caching entirely; a nil options uses defaults.
func NewCachedFetcher(cache *Cache, opts *Options) *CachedFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &CachedFetcher{cache: cache, options: opts}
}

// Fetch returns the page text for a URL. A cache hit bypasses the network
// and retry accounting entirely. On a miss, the URL is fetched with retry;
// real content is persisted best-effort, failure sentinels are not cached
// so a later run can retry the URL.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) *Result {
	if text, ok := f.cache.Get(urlStr); ok {
		return &Result{URL: urlStr, Text: text, FromCache: true}
	}

	text := WithRetry(ctx, urlStr, f.options)

	if !IsErrorText(text) {
		if err := f.cache.Put(urlStr, text); err != nil {
			fmt.Printf("[fetch] warning: %v\n", err)
		}
	}

	return &Result{URL: urlStr, Text: text, FromCache: false}
}
