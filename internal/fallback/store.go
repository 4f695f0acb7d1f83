package fallback

import (
	"sync/atomic"
	"time"

	"github.com/JustJay7/consumer-case-tracker/internal/jagriti"
	"github.com/patrickmn/go-cache"
)

// Store is an in-memory lookup of sub-commissions keyed by region id. It is
// consulted only when upstream blocks a live listing.
type Store struct {
	cache      *cache.Cache
	hits       atomic.Int64
	misses     atomic.Int64
	lastAccess atomic.Int64
}

// Stats reports how often the fallback dataset was consulted
type Stats struct {
	Regions    int       `json:"regions"`
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	LastAccess time.Time `json:"last_access,omitempty"`
}

// NewStore creates a store seeded with dataset
func NewStore(dataset Dataset) *Store {
	s := &Store{
		cache: cache.New(cache.NoExpiration, 0),
	}
	for regionID, items := range dataset {
		s.Put(regionID, items)
	}
	return s
}

// Lookup returns a copy of the sub-commissions for regionID, or an empty
// slice when the region is unknown
func (s *Store) Lookup(regionID string) []jagriti.SubCommission {
	s.lastAccess.Store(time.Now().UnixNano())

	if data, found := s.cache.Get(regionID); found {
		if items, ok := data.([]jagriti.SubCommission); ok {
			s.hits.Add(1)
			out := make([]jagriti.SubCommission, len(items))
			copy(out, items)
			return out
		}
	}

	s.misses.Add(1)
	return []jagriti.SubCommission{}
}

// Put replaces the entries for a region
func (s *Store) Put(regionID string, items []jagriti.SubCommission) {
	stored := make([]jagriti.SubCommission, len(items))
	copy(stored, items)
	s.cache.Set(regionID, stored, cache.NoExpiration)
}

func (s *Store) Stats() Stats {
	stats := Stats{
		Regions: s.cache.ItemCount(),
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}
	if last := s.lastAccess.Load(); last != 0 {
		stats.LastAccess = time.Unix(0, last)
	}
	return stats
}
