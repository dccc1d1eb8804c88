package source

import (
	"context"

	"github.com/paulmach/osm/osmapi"

	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// OSMAPI reads the bbox from the OSM editing API (/api/0.6/map). The API
// rejects large areas; use Overpass for anything beyond a few streets.
type OSMAPI struct {
	ds *osmapi.Datasource
}

func NewOSMAPI(opts Options) *OSMAPI {
	ds := osmapi.NewDatasource(opts.client())
	if opts.Endpoint != "" {
		ds.BaseURL = opts.Endpoint
	}
	return &OSMAPI{ds: ds}
}

func (a *OSMAPI) Name() string { return "osmapi" }

func (a *OSMAPI) Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	doc, err := a.ds.Map(ctx, bbox.OSMBounds())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "osm api map request for %s", bbox)
	}
	return network.FromOSM(doc), nil
}
