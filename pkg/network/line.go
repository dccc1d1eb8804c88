package network

import (
	"github.com/paulmach/orb"

	"github.com/natevvv/osm-vector-map/pkg/feature"
)

// Line is a way with its node references resolved to coordinates.
type Line struct {
	WayID  int64
	Group  feature.Group
	Tags   feature.Tags
	Points []orb.Point // lon, lat
}

func (l *Line) Name() string {
	return l.Tags.Name()
}

func (l *Line) Start() orb.Point { return l.Points[0] }
func (l *Line) End() orb.Point   { return l.Points[len(l.Points)-1] }

// Closed reports whether the line is a ring.
func (l *Line) Closed() bool {
	return len(l.Points) > 2 && l.Start() == l.End()
}

func (l *Line) LineString() orb.LineString {
	return orb.LineString(l.Points)
}
