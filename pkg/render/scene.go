// Package render draws a network into an output artifact.
//
// A Scene fixes the bbox, the target frame and the styles; the sinks
// (SVG, PNG, GeoJSON) walk the scene group by group in feature.GroupOrder
// so that areas end up behind roads and rails on top.
package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"

	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
	"github.com/natevvv/osm-vector-map/pkg/projection"
)

// Attribution is written at the top left corner of every raster and vector
// image.
const Attribution = "OpenStreetMap"

// Frame is the target rectangle in output pixels.
type Frame struct {
	X, Y          float64
	Width, Height float64
}

func (f Frame) Validate() error {
	for _, v := range []float64{f.X, f.Y, f.Width, f.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "frame %v,%v %vx%v contains a non-finite value", f.X, f.Y, f.Width, f.Height)
		}
	}
	if f.Width <= 0 || f.Height <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "frame size must be positive, got %vx%v", f.Width, f.Height)
	}
	return nil
}

// ValidateBBox checks bbox and rejects boxes that lie entirely beyond the
// Mercator latitude limit, since they project to a line.
func ValidateBBox(bbox geometry.BBox) error {
	if err := bbox.Validate(); err != nil {
		return err
	}
	if projection.Project(bbox.Min()).Y() == projection.Project(bbox.Max()).Y() {
		return errors.New(errors.ErrCodeInvalidBBox, "bbox %s has no height within latitude ±%v", bbox, projection.MaxLatitude)
	}
	return nil
}

// ProgressFunc is called after each drawn line with the number of lines
// drawn so far and the total.
type ProgressFunc func(drawn, total int)

type Scene struct {
	Network *network.Network
	BBox    geometry.BBox
	Frame   Frame
	Styles  Styles

	lerp  projection.Interpolator
	scale float64
}

// NewScene places n into frame. North is up: the northern edge of bbox maps
// to the top of the frame.
func NewScene(n *network.Network, bbox geometry.BBox, frame Frame, styles Styles) (*Scene, error) {
	if err := ValidateBBox(bbox); err != nil {
		return nil, err
	}
	if err := frame.Validate(); err != nil {
		return nil, err
	}
	if styles == nil {
		styles = DefaultStyles()
	}
	size := orb.Point{frame.Width, -frame.Height}
	offset := orb.Point{frame.X, frame.Y + frame.Height}
	return &Scene{
		Network: n,
		BBox:    bbox,
		Frame:   frame,
		Styles:  styles,
		lerp:    projection.NewInterpolator(bbox, size, offset),
		scale:   projection.ScaleFactor(bbox, frame.Width),
	}, nil
}

// Project returns the frame coordinates of a lon/lat point.
func (s *Scene) Project(p orb.Point) orb.Point {
	return s.lerp.Geo(p)
}

func (s *Scene) ScaleFactor() float64 {
	return s.scale
}

// Walk calls fn for every non-empty group in draw order.
func (s *Scene) Walk(fn func(g feature.Group, style Style, lines []*network.Line) error) error {
	for _, g := range feature.GroupOrder {
		lines := s.Network.Lines(g)
		if len(lines) == 0 {
			continue
		}
		if err := fn(g, s.Styles.Get(g), lines); err != nil {
			return err
		}
	}
	return nil
}

// pathData returns SVG path commands for l in frame coordinates.
func (s *Scene) pathData(l *network.Line, close bool) string {
	var sb strings.Builder
	for i, p := range s.lerp.Line(l.Points) {
		if i == 0 {
			sb.WriteString("M")
		} else {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%s,%s", coord(p[0]), coord(p[1]))
	}
	if close {
		sb.WriteString(" Z")
	}
	return sb.String()
}

func coord(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
