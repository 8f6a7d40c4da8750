// Package cache provides named, independently invalidatable regions of read
// results. Reads follow cache-aside: check, compute on miss, store. Mutating
// services invalidate a fixed set of regions in full; the per-entry TTL and
// the per-region size cap are only a safety net on top of that.
package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

type Region string

const (
	Posts         Region = "posts"
	PostBySlug    Region = "postBySlug"
	RelatedPosts  Region = "relatedPosts"
	FeaturedPosts Region = "featuredPosts"
	LatestPosts   Region = "latestPosts"
	Categories    Region = "categories"
	Tags          Region = "tags"
	Series        Region = "series"
)

// AllRegions lists every region, in declaration order.
var AllRegions = []Region{
	Posts, PostBySlug, RelatedPosts, FeaturedPosts, LatestPosts,
	Categories, Tags, Series,
}

// PostRegions is the invalidation set for mutations touching only posts
// (update, publish, unpublish, delete, sync). Taxonomy regions survive.
var PostRegions = []Region{Posts, PostBySlug, RelatedPosts, FeaturedPosts, LatestPosts}

type entry struct {
	value     any
	expiresAt time.Time
}

// Store holds all regions behind one lock. Contention is low: entries are
// whole query results, not per-row values.
type Store struct {
	ttl        time.Duration
	maxEntries int
	logger     zerolog.Logger
	now        func() time.Time

	group   singleflight.Group
	mu      sync.Mutex
	regions map[Region]map[string]entry
}

func New(ttl time.Duration, maxEntries int) *Store {
	s := &Store{
		ttl:        ttl,
		maxEntries: maxEntries,
		logger:     log.With().Str("service", "cache").Logger(),
		now:        time.Now,
		regions:    make(map[Region]map[string]entry, len(AllRegions)),
	}
	for _, r := range AllRegions {
		s.regions[r] = make(map[string]entry)
	}
	return s
}

// Get returns the cached value for (region, key), honoring the TTL.
func (s *Store) Get(region Region, key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.regions[region][key]
	if !ok {
		return nil, false
	}
	if s.now().After(e.expiresAt) {
		delete(s.regions[region], key)
		return nil, false
	}
	return e.value, true
}

// Put stores a value, evicting arbitrary entries when the region is at its
// cap. The cap is a memory guard, not an LRU; explicit invalidation is the
// primary freshness mechanism.
func (s *Store) Put(region Region, key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.regions[region]
	for len(bucket) >= s.maxEntries {
		for k := range bucket {
			delete(bucket, k)
			break
		}
	}
	bucket[key] = entry{value: value, expiresAt: s.now().Add(s.ttl)}
}

// Invalidate flushes the given regions in full.
func (s *Store) Invalidate(regions ...Region) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range regions {
		if n := len(s.regions[r]); n > 0 {
			s.logger.Debug().Str("region", string(r)).Int("entries", n).Msg("region invalidated")
		}
		s.regions[r] = make(map[string]entry)
	}
}

// getOrCompute is the untyped cache-aside read. Concurrent misses for the
// same (region, key) are collapsed into a single compute call.
func (s *Store) getOrCompute(region Region, key string, compute func() (any, error)) (any, error) {
	if value, ok := s.Get(region, key); ok {
		return value, nil
	}

	value, err, _ := s.group.Do(string(region)+"\x00"+key, func() (any, error) {
		if value, ok := s.Get(region, key); ok {
			return value, nil
		}
		value, err := compute()
		if err != nil {
			return nil, err
		}
		s.Put(region, key, value)
		return value, nil
	})
	return value, err
}
