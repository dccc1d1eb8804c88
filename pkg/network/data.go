package network

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"

	"github.com/natevvv/osm-vector-map/pkg/feature"
)

type Node struct {
	ID    int64     `json:"id"`
	Point orb.Point `json:"point"` // lon, lat
}

type Way struct {
	ID       int64        `json:"id"`
	NodeRefs []int64      `json:"refs"`
	Tags     feature.Tags `json:"tags,omitempty"`
}

type MemberType int

const (
	NodeMember MemberType = iota
	WayMember
	RelationMember
)

type Member struct {
	Type MemberType `json:"type"`
	Ref  int64      `json:"ref"`
}

type Relation struct {
	ID      int64        `json:"id"`
	Members []Member     `json:"members"`
	Tags    feature.Tags `json:"tags,omitempty"`
}

// Data is the raw content of one fetch: flat node, way and relation lists
// in document order.
type Data struct {
	Nodes     []Node     `json:"nodes"`
	Ways      []Way      `json:"ways"`
	Relations []Relation `json:"relations"`
}

// FromOSM converts an osm document. Element order is preserved.
func FromOSM(o *osm.OSM) *Data {
	d := &Data{
		Nodes:     make([]Node, 0, len(o.Nodes)),
		Ways:      make([]Way, 0, len(o.Ways)),
		Relations: make([]Relation, 0, len(o.Relations)),
	}

	for _, n := range o.Nodes {
		d.Nodes = append(d.Nodes, Node{ID: int64(n.ID), Point: orb.Point{n.Lon, n.Lat}})
	}

	for _, w := range o.Ways {
		refs := make([]int64, len(w.Nodes))
		for i, wn := range w.Nodes {
			refs[i] = int64(wn.ID)
		}
		d.Ways = append(d.Ways, Way{ID: int64(w.ID), NodeRefs: refs, Tags: feature.TagsFromOSM(w.Tags)})
	}

	for _, r := range o.Relations {
		members := make([]Member, 0, len(r.Members))
		for _, m := range r.Members {
			members = append(members, Member{Type: memberType(m.Type), Ref: m.Ref})
		}
		d.Relations = append(d.Relations, Relation{ID: int64(r.ID), Members: members, Tags: feature.TagsFromOSM(r.Tags)})
	}

	return d
}

func memberType(t osm.Type) MemberType {
	switch t {
	case osm.TypeWay:
		return WayMember
	case osm.TypeRelation:
		return RelationMember
	default:
		return NodeMember
	}
}

// relationWays returns the ids of all ways that are a member of some relation.
func (d *Data) relationWays() map[int64]struct{} {
	ways := make(map[int64]struct{})
	for _, r := range d.Relations {
		for _, m := range r.Members {
			if m.Type == WayMember {
				ways[m.Ref] = struct{}{}
			}
		}
	}
	return ways
}
