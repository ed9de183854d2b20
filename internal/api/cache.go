package api

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 30 * time.Second

	// flightTimeout bounds a shared upstream call. A flight outlives the
	// caller that started it, so it cannot use that caller's deadline.
	flightTimeout = time.Minute
)

// CacheStats counts cache traffic since the source was created.
type CacheStats struct {
	Hits    uint64
	Misses  uint64
	Shared  uint64
	Entries int
}

// CachedSource wraps a PageSource with an expiring LRU of successful pages.
// Identical concurrent requests share one upstream call; failures are never
// stored. It is safe for concurrent use.
type CachedSource struct {
	source PageSource
	cache  *expirable.LRU[string, PageResponse]
	group  singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
	shared atomic.Uint64
}

var _ PageSource = (*CachedSource)(nil)

// NewCachedSource caches up to size pages for ttl each. Non-positive values
// use the defaults.
func NewCachedSource(source PageSource, size int, ttl time.Duration) *CachedSource {
	if size <= 0 {
		size = defaultCacheSize
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &CachedSource{
		source: source,
		cache:  expirable.NewLRU[string, PageResponse](size, nil, ttl),
	}
}

// FetchPage serves from the cache unless query.Reload is set, in which case
// the entry is refreshed from upstream.
func (s *CachedSource) FetchPage(ctx context.Context, resource string, query PageQuery) (PageResponse, error) {
	key := cacheKey(resource, query)
	if !query.Reload {
		if page, ok := s.cache.Get(key); ok {
			s.hits.Add(1)
			return page, nil
		}
	}
	s.misses.Add(1)

	flight := key
	if query.Reload {
		flight = "reload|" + key
	}
	ch := s.group.DoChan(flight, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), flightTimeout)
		defer cancel()
		page, err := s.source.FetchPage(fctx, resource, query)
		if err != nil {
			return nil, err
		}
		s.cache.Add(key, page)
		return page, nil
	})

	select {
	case <-ctx.Done():
		return PageResponse{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			s.shared.Add(1)
		}
		if res.Err != nil {
			return PageResponse{}, res.Err
		}
		return res.Val.(PageResponse), nil
	}
}

// Invalidate drops every cached page.
func (s *CachedSource) Invalidate() {
	s.cache.Purge()
}

// Stats returns the current counters.
func (s *CachedSource) Stats() CacheStats {
	return CacheStats{
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
		Shared:  s.shared.Load(),
		Entries: s.cache.Len(),
	}
}

func cacheKey(resource string, query PageQuery) string {
	return fmt.Sprintf("%s?%s", resource, query.Values().Encode())
}
