package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/natevvv/osm-vector-map/internal/config"
	"github.com/natevvv/osm-vector-map/pkg/cache"
	"github.com/natevvv/osm-vector-map/pkg/render"
	"github.com/natevvv/osm-vector-map/pkg/source"
)

// sourceOpts are the source flags shared by render, stats and serve.
type sourceOpts struct {
	input   string // local extract, replaces the configured source
	noCache bool
}

// openSource builds the configured source. Network sources are wrapped in
// the configured cache; the returned close func releases it.
func openSource(ctx context.Context, cfg *config.Config, opts sourceOpts, logger *log.Logger) (source.Source, func() error, error) {
	nop := func() error { return nil }

	if opts.input != "" {
		return source.NewFile(opts.input), nop, nil
	}

	src, err := source.New(cfg.Source.Kind, source.Options{
		Endpoint:   cfg.Source.Endpoint,
		Timeout:    cfg.Source.Timeout,
		Attempts:   cfg.Source.Attempts,
		RetryDelay: cfg.Source.RetryDelay,
	})
	if err != nil {
		return nil, nil, err
	}
	if cfg.Source.Kind == "file" || opts.noCache {
		return src, nop, nil
	}

	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	logger.Debug("using cache", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)
	return source.NewCached(src, c, cfg.Cache.TTL, logger), c.Close, nil
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "file":
		return cache.NewFileCache(cfg.Dir)
	case "memory":
		return cache.NewMemoryCache(cfg.MemorySize), nil
	case "redis":
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return c, nil
	default:
		return cache.NewNullCache(), nil
	}
}

// loadStyles returns the default styles, overridden by path when set.
func loadStyles(path string) (render.Styles, error) {
	if path == "" {
		return render.DefaultStyles(), nil
	}
	return render.LoadStyles(path)
}
