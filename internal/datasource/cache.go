package datasource

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"

	"inflammation/internal/files"
	"inflammation/internal/infrastructure"
	"inflammation/internal/table"
)

// Cache holds loaded collections keyed by the files they were read from.
type Cache struct {
	store *ristretto.Cache
}

// NewCache creates a cache holding at most size collections
func NewCache(size int) (*Cache, error) {
	if size < 1 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	store, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: int64(size) * 10,
		MaxCost:     int64(size),
		BufferItems: 64,
		// cost counts collections, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}
	return &Cache{store: store}, nil
}

func (c *Cache) get(key string) ([]*table.Table, bool) {
	v, ok := c.store.Get(key)
	if !ok {
		return nil, false
	}
	tables, ok := v.([]*table.Table)
	return tables, ok
}

func (c *Cache) set(key string, tables []*table.Table) {
	c.store.Set(key, tables, 1)
	c.store.Wait()
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.store.Clear()
}

// Close releases the cache's background goroutines
func (c *Cache) Close() {
	c.store.Close()
}

// CachedSource serves repeated loads of unchanged files from a Cache. Any
// change to the discovered file names, sizes or modification times misses.
type CachedSource struct {
	inner   FileSource
	cache   *Cache
	metrics *infrastructure.BusinessMetrics
}

var _ Source = (*CachedSource)(nil)

// NewCachedSource decorates inner with cache
func NewCachedSource(inner FileSource, cache *Cache, metrics *infrastructure.BusinessMetrics) *CachedSource {
	return &CachedSource{inner: inner, cache: cache, metrics: metrics}
}

// Load returns a private copy of the cached collection, loading it on a miss.
// One discovery both keys the entry and names the files read, so a file
// landing mid-load cannot be cached under a fingerprint that omits it.
func (s *CachedSource) Load(ctx context.Context) ([]*table.Table, error) {
	found, err := s.inner.Discover()
	if err != nil {
		return nil, err
	}
	key := s.inner.cacheKey() + "|" + files.Fingerprint(found)

	if tables, ok := s.cache.get(key); ok {
		infrastructure.RecordCacheLookup(ctx, s.metrics, true)
		return cloneAll(tables), nil
	}
	infrastructure.RecordCacheLookup(ctx, s.metrics, false)

	tables, err := s.inner.loadFiles(ctx, found)
	if err != nil {
		return nil, err
	}
	s.cache.set(key, cloneAll(tables))
	return tables, nil
}
