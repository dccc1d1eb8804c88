package projection

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/osm-vector-map/pkg/geometry"
)

const epsilon = 1e-6

func TestProject(t *testing.T) {
	origin := Project(orb.Point{0, 0})
	assert.InDelta(t, 0, origin.X(), epsilon)
	assert.InDelta(t, 0, origin.Y(), epsilon)

	// half way around the globe in meters
	east := Project(orb.Point{180, 0})
	assert.InDelta(t, math.Pi*orb.EarthRadius, east.X(), 1)

	north := Project(orb.Point{10, 60})
	south := Project(orb.Point{10, -60})
	assert.InDelta(t, north.Y(), -south.Y(), 1e-3)
	assert.Greater(t, north.Y(), 0.0)

	pole := Project(orb.Point{0, 90})
	assert.False(t, math.IsInf(pole.Y(), 0) || math.IsNaN(pole.Y()))
	assert.Equal(t, Project(orb.Point{0, MaxLatitude}), pole)
}

func TestInterpolatorCorners(t *testing.T) {
	tests := []struct {
		name   string
		bbox   geometry.BBox
		size   orb.Point
		offset orb.Point
	}{
		{"london", geometry.BBox{MinLon: -0.1, MinLat: 51.5, MaxLon: 0.0, MaxLat: 51.6}, orb.Point{720, 360}, orb.Point{0, 0}},
		{"offset frame", geometry.BBox{MinLon: 13.3, MinLat: 52.4, MaxLon: 13.5, MaxLat: 52.6}, orb.Point{1000, 500}, orb.Point{120, 45}},
		{"flipped y", geometry.BBox{MinLon: -74.1, MinLat: 40.6, MaxLon: -73.9, MaxLat: 40.8}, orb.Point{800, -600}, orb.Point{0, 600}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lerp := NewInterpolator(tt.bbox, tt.size, tt.offset)

			sw := lerp(Project(tt.bbox.Min()))
			assert.InDelta(t, tt.offset.X(), sw.X(), epsilon)
			assert.InDelta(t, tt.offset.Y(), sw.Y(), epsilon)

			ne := lerp(Project(tt.bbox.Max()))
			assert.InDelta(t, tt.offset.X()+tt.size.X(), ne.X(), epsilon)
			assert.InDelta(t, tt.offset.Y()+tt.size.Y(), ne.Y(), epsilon)
		})
	}
}

func TestInterpolatorInside(t *testing.T) {
	bbox := geometry.BBox{MinLon: -0.1, MinLat: 51.5, MaxLon: 0.0, MaxLat: 51.6}
	lerp := NewInterpolator(bbox, orb.Point{720, 360}, orb.Point{0, 0})

	p := lerp.Geo(orb.Point{-0.05, 51.55})
	assert.InDelta(t, 360, p.X(), epsilon)
	assert.Greater(t, p.Y(), 0.0)
	assert.Less(t, p.Y(), 360.0)

	line := lerp.Line([]orb.Point{{-0.1, 51.5}, {0.0, 51.6}})
	require.Len(t, line, 2)
	assert.InDelta(t, 0, line[0].X(), epsilon)
	assert.InDelta(t, 360, line[1].Y(), epsilon)
}

func TestInterpolatorDegenerate(t *testing.T) {
	bbox := geometry.BBox{MinLon: 1, MinLat: 2, MaxLon: 1, MaxLat: 3}
	assert.Panics(t, func() { NewInterpolator(bbox, orb.Point{10, 10}, orb.Point{}) })
}

func TestScaleFactor(t *testing.T) {
	bbox := geometry.BBox{MinLon: -0.1, MinLat: 51.5, MaxLon: 0.0, MaxLat: 51.6}
	assert.InDelta(t, 7200, ScaleFactor(bbox, 720), epsilon)
}
