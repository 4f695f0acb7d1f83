package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// LimiterCache hands out one token bucket per client key. Buckets of idle
// clients expire, and the oldest bucket is evicted once maxSize is reached.
type LimiterCache struct {
	cache   *cache.Cache
	mu      sync.Mutex
	stats   LimiterStats
	maxSize int
	limit   rate.Limit
	burst   int
}

type LimiterStats struct {
	Clients  int   `json:"clients"`
	Allowed  int64 `json:"allowed"`
	Rejected int64 `json:"rejected"`
}

// NewLimiterCache allows requests per window for each client. A bucket is
// forgotten after two idle windows.
func NewLimiterCache(requests int, window time.Duration, maxSize int) *LimiterCache {
	if window <= 0 {
		window = time.Minute
	}
	if requests <= 0 {
		requests = 1
	}
	return &LimiterCache{
		cache:   cache.New(window*2, window*4),
		maxSize: maxSize,
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   requests,
	}
}

// Allow reports whether the client identified by key may make a request now
func (c *LimiterCache) Allow(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	limiter := c.limiterFor(key)
	// refresh the idle expiration on every request
	c.cache.Set(key, limiter, cache.DefaultExpiration)

	if limiter.Allow() {
		c.stats.Allowed++
		return true
	}
	c.stats.Rejected++
	return false
}

func (c *LimiterCache) limiterFor(key string) *rate.Limiter {
	if data, found := c.cache.Get(key); found {
		if limiter, ok := data.(*rate.Limiter); ok {
			return limiter
		}
	}

	if c.maxSize > 0 && c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}
	return rate.NewLimiter(c.limit, c.burst)
}

func (c *LimiterCache) Stats() LimiterStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := c.stats
	stats.Clients = c.cache.ItemCount()
	return stats
}

func (c *LimiterCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldest int64

	for key, item := range items {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey = key
			oldest = item.Expiration
		}
	}

	c.cache.Delete(oldestKey)
}
