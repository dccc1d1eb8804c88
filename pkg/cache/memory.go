package cache

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/coocood/freecache"
)

// DefaultMemorySize is the size of a memory cache created with size 0.
const DefaultMemorySize = 256 << 20

// MemoryCache keeps entries in a fixed-size in-process segment cache.
// Entries larger than 1/1024 of the cache size are not stored.
type MemoryCache struct {
	cache *freecache.Cache
}

func NewMemoryCache(size int) *MemoryCache {
	if size <= 0 {
		size = DefaultMemorySize
	}
	return &MemoryCache{cache: freecache.NewCache(size)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.cache.Get([]byte(key))
	if errors.Is(err, freecache.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	err := c.cache.Set([]byte(key), data, expireSeconds(ttl))
	if errors.Is(err, freecache.ErrLargeEntry) {
		return nil
	}
	return err
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.cache.Del([]byte(key))
	return nil
}

func (c *MemoryCache) Close() error {
	c.cache.Clear()
	return nil
}

// expireSeconds rounds ttl up to whole seconds; 0 never expires.
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	return int(math.Ceil(ttl.Seconds()))
}

var _ Cache = (*MemoryCache)(nil)
