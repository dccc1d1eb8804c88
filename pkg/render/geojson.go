package render

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// FeatureCollection converts the scene into lon/lat GeoJSON features in
// draw order. Closed lines of area styles become polygons. Each feature
// carries its group, way id and tags.
func FeatureCollection(s *Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(s.BBox.Bound())

	_ = s.Walk(func(g feature.Group, style Style, lines []*network.Line) error {
		for _, l := range lines {
			var geom orb.Geometry = l.LineString()
			if style.Area && l.Closed() {
				geom = orb.Polygon{orb.Ring(l.Points)}
			}
			f := geojson.NewFeature(geom)
			f.ID = l.WayID
			for k, v := range l.Tags {
				f.Properties[k] = v
			}
			f.Properties["group"] = g.String()
			f.Properties["way"] = l.WayID
			fc.Append(f)
		}
		return nil
	})
	return fc
}

func RenderGeoJSON(s *Scene) ([]byte, error) {
	data, err := FeatureCollection(s).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}
