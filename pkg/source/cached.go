package source

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/natevvv/osm-vector-map/pkg/cache"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/metrics"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// Cached serves repeated fetches of the same bbox from a cache.
// Cache failures are logged and fall through to the wrapped source.
type Cached struct {
	source Source
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

func NewCached(s Source, c cache.Cache, ttl time.Duration, logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.Default()
	}
	return &Cached{source: s, cache: c, ttl: ttl, logger: logger}
}

func (c *Cached) Name() string { return c.source.Name() }

func (c *Cached) key(bbox geometry.BBox) string {
	return c.source.Name() + ":" + bbox.String()
}

func (c *Cached) Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	key := c.key(bbox)

	raw, hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "err", err)
	} else if hit {
		var data network.Data
		if err := json.Unmarshal(raw, &data); err == nil {
			c.logger.Debug("cache hit", "key", key)
			metrics.CacheHits.WithLabelValues(c.Name()).Inc()
			return &data, nil
		}
		c.logger.Warn("discarding unreadable cache entry", "key", key)
	}

	metrics.CacheMisses.WithLabelValues(c.Name()).Inc()
	data, err := c.source.Fetch(ctx, bbox)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(data); err != nil {
		c.logger.Warn("cache encode failed", "key", key, "err", err)
	} else if err := c.cache.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "err", err)
	}
	return data, nil
}
