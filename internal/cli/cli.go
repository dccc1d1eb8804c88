// Package cli implements the osmvec command-line interface.
//
// # Commands
//
//   - render: draw the map of a bounding box to SVG, PNG or GeoJSON
//   - stats: print the line count per feature group of a bounding box
//   - classify: classify a tag set given on the command line
//   - serve: run the HTTP render service
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// and the loaded configuration travel in the command context.
package cli

import (
	"context"

	"github.com/natevvv/osm-vector-map/internal/config"
)

const appName = "osmvec"

type configKey struct{}

func withConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// configFromContext returns the loaded configuration. Commands run through
// the root command always have one.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	panic("cli: no config in context")
}
