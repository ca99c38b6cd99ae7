package extract

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jghiringhelli/codeseeker-sub004/internal/slogutil"
)

// CachedExtractor memoizes another Extractor by path and content hash, so
// analyzing an unchanged file twice parses it once. Errors are not cached.
type CachedExtractor struct {
	inner  Extractor
	cache  *lru.Cache[uint64, *FileAnalysis]
	logger *slog.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedExtractor wraps inner with an LRU of the given size.
func NewCachedExtractor(inner Extractor, size int, logger *slog.Logger) (*CachedExtractor, error) {
	cache, err := lru.New[uint64, *FileAnalysis](size)
	if err != nil {
		return nil, err
	}
	return &CachedExtractor{inner: inner, cache: cache, logger: slogutil.OrDiscard(logger)}, nil
}

// AnalyzeFile returns the cached analysis when path and content are unchanged.
func (c *CachedExtractor) AnalyzeFile(ctx context.Context, path string) (*FileAnalysis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key := cacheKey(path, content)

	if fa, ok := c.cache.Get(key); ok {
		c.hits.Add(1)
		return fa, nil
	}
	c.misses.Add(1)

	fa, err := c.inner.AnalyzeFile(ctx, path)
	if err != nil {
		return nil, err
	}
	c.cache.Add(key, fa)
	return fa, nil
}

// Stats returns cache hit and miss counts.
func (c *CachedExtractor) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// LogStats writes the hit/miss counters at debug level.
func (c *CachedExtractor) LogStats() {
	hits, misses := c.Stats()
	c.logger.Debug("Extraction cache", "hits", hits, "misses", misses, "entries", c.cache.Len())
}

func cacheKey(path string, content []byte) uint64 {
	d := xxhash.New()
	_, _ = d.WriteString(path)
	_, _ = d.Write([]byte{0})
	_, _ = d.Write(content)
	return d.Sum64()
}
