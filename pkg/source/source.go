// Package source fetches raw OSM data for a bounding box.
//
// A Source is the only blocking step of a render. Failures are returned to
// the caller as terminal; retries of transient upstream errors happen inside
// the source that talks to the network.
package source

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

type Source interface {
	Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error)
	// Name identifies the source in logs and cache keys.
	Name() string
}

// Options configure the network sources.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	Attempts   int
	RetryDelay time.Duration
	Client     *http.Client
}

func (o Options) client() *http.Client {
	if o.Client != nil {
		return o.Client
	}
	return &http.Client{Timeout: o.Timeout}
}

// New returns the source registered under kind: "overpass", "osmapi" or
// "file". For "file", opts.Endpoint is the path.
func New(kind string, opts Options) (Source, error) {
	switch strings.ToLower(kind) {
	case "overpass":
		return NewOverpass(opts), nil
	case "osmapi":
		return NewOSMAPI(opts), nil
	case "file":
		if opts.Endpoint == "" {
			return nil, fmt.Errorf("file source needs a path")
		}
		return NewFile(opts.Endpoint), nil
	default:
		return nil, fmt.Errorf("unknown source %q", kind)
	}
}
