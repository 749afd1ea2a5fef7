package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// TTL is a small wrapper over ristretto used for expiring response caches
// (currently kline payloads). Entries may be evicted early under memory
// pressure; callers must treat misses as a normal fetch.
type TTL struct {
	c   *ristretto.Cache
	ttl time.Duration
}

func NewTTL(maxCost int64, ttl time.Duration) (*TTL, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e5,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &TTL{c: c, ttl: ttl}, nil
}

func (c *TTL) Get(key string) (any, bool) { return c.c.Get(key) }

func (c *TTL) Set(key string, val any) { c.c.SetWithTTL(key, val, 1, c.ttl) }

func (c *TTL) Del(key string) { c.c.Del(key) }

// Wait blocks until buffered writes have been applied. Ristretto admits
// entries asynchronously; only tests need this.
func (c *TTL) Wait() { c.c.Wait() }
