package geometry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/natevvv/osm-vector-map/pkg/errors"
)

// BBox is a geographic bounding box in degrees.
type BBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// ParseBBox parses "minLon,minLat,maxLon,maxLat" and validates the result.
func ParseBBox(s string) (BBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BBox{}, errors.New(errors.ErrCodeInvalidBBox, "expected 4 comma-separated numbers, got %d", len(parts))
	}

	var v [4]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BBox{}, errors.Wrap(errors.ErrCodeInvalidBBox, err, "value %d (%q) is not a number", i+1, part)
		}
		v[i] = f
	}

	b := BBox{MinLon: v[0], MinLat: v[1], MaxLon: v[2], MaxLat: v[3]}
	if err := b.Validate(); err != nil {
		return BBox{}, err
	}
	return b, nil
}

// Validate checks that all values are finite, within the WGS84 range and
// that min < max on both axes.
func (b BBox) Validate() error {
	for _, f := range []float64{b.MinLon, b.MinLat, b.MaxLon, b.MaxLat} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.New(errors.ErrCodeInvalidBBox, "bbox %s contains a non-finite value", b)
		}
	}
	if b.MinLon < -180 || b.MaxLon > 180 {
		return errors.New(errors.ErrCodeInvalidBBox, "longitude out of range [-180, 180] in %s", b)
	}
	if b.MinLat < -90 || b.MaxLat > 90 {
		return errors.New(errors.ErrCodeInvalidBBox, "latitude out of range [-90, 90] in %s", b)
	}
	if b.MinLon >= b.MaxLon {
		return errors.New(errors.ErrCodeInvalidBBox, "minLon %v must be less than maxLon %v", b.MinLon, b.MaxLon)
	}
	if b.MinLat >= b.MaxLat {
		return errors.New(errors.ErrCodeInvalidBBox, "minLat %v must be less than maxLat %v", b.MinLat, b.MaxLat)
	}
	return nil
}

func (b BBox) String() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

// Min returns the south-west corner as (lon, lat).
func (b BBox) Min() orb.Point { return orb.Point{b.MinLon, b.MinLat} }

// Max returns the north-east corner as (lon, lat).
func (b BBox) Max() orb.Point { return orb.Point{b.MaxLon, b.MaxLat} }

func (b BBox) Width() float64  { return b.MaxLon - b.MinLon }
func (b BBox) Height() float64 { return b.MaxLat - b.MinLat }

func (b BBox) Bound() orb.Bound {
	return orb.Bound{Min: b.Min(), Max: b.Max()}
}

// OSMBounds converts the box for the osm api package.
func (b BBox) OSMBounds() *osm.Bounds {
	return &osm.Bounds{MinLat: b.MinLat, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: b.MaxLon}
}

// Contains reports whether p lies inside the box, edges included.
func (b BBox) Contains(p orb.Point) bool {
	return b.Bound().Contains(p)
}

// Overpass returns the box in Overpass QL order: south,west,north,east.
func (b BBox) Overpass() string {
	return fmt.Sprintf("%v,%v,%v,%v", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon)
}
