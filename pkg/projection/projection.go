// Package projection maps geographic coordinates into planar target space.
//
// Points are projected with spherical Web Mercator and then linearly
// interpolated between the projected corners of a bounding box. The
// interpolation does not correct the aspect ratio; a box whose projected
// shape differs from the target size is stretched to fit.
package projection

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"github.com/natevvv/osm-vector-map/pkg/geometry"
)

// MaxLatitude is the latitude limit of Web Mercator.
const MaxLatitude = 85.05112878

// Project converts a (lon, lat) point into Web Mercator meters.
// Latitudes beyond MaxLatitude are clamped.
func Project(p orb.Point) orb.Point {
	lat := p.Lat()
	if lat > MaxLatitude {
		lat = MaxLatitude
	} else if lat < -MaxLatitude {
		lat = -MaxLatitude
	}
	return project.WGS84.ToMercator(orb.Point{p.Lon(), lat})
}

// Interpolator maps a projected point into target space.
type Interpolator func(orb.Point) orb.Point

// NewInterpolator returns the affine map taking the projected min corner of
// bbox to offset and the projected max corner to offset+size.
//
// The bbox must be valid; a degenerate box has no finite scale and panics.
func NewInterpolator(bbox geometry.BBox, size, offset orb.Point) Interpolator {
	lo := Project(bbox.Min())
	hi := Project(bbox.Max())

	dx := hi.X() - lo.X()
	dy := hi.Y() - lo.Y()
	if dx == 0 || dy == 0 {
		panic(fmt.Sprintf("projection: degenerate bbox %s", bbox))
	}

	sx := size.X() / dx
	sy := size.Y() / dy
	return func(p orb.Point) orb.Point {
		return orb.Point{
			offset.X() + (p.X()-lo.X())*sx,
			offset.Y() + (p.Y()-lo.Y())*sy,
		}
	}
}

// Geo projects and interpolates a geographic point in one step.
func (f Interpolator) Geo(p orb.Point) orb.Point {
	return f(Project(p))
}

// Line projects and interpolates every point of a line.
func (f Interpolator) Line(points []orb.Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = f.Geo(p)
	}
	return ls
}

// ScaleFactor is the target width per degree of longitude. Renderers use it
// to scale stroke widths with the map scale. It is computed from the raw
// degrees, not from the projected corners.
func ScaleFactor(bbox geometry.BBox, width float64) float64 {
	return width / (bbox.MaxLon - bbox.MinLon)
}
