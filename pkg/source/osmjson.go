package source

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/paulmach/osm"

	"github.com/natevvv/osm-vector-map/pkg/network"
)

// osm.OSM only marshals Overpass JSON; reading goes through these element
// types and reuses the osm unmarshalers for node lists and tags.
type overpassDocument struct {
	Elements *[]overpassElement `json:"elements"`
	Remark   string             `json:"remark"`
}

type overpassElement struct {
	Type    osm.Type     `json:"type"`
	ID      int64        `json:"id"`
	Lat     *float64     `json:"lat"`
	Lon     *float64     `json:"lon"`
	Nodes   osm.WayNodes `json:"nodes"`
	Members osm.Members  `json:"members"`
	Tags    osm.Tags     `json:"tags"`
}

// decodeOverpassJSON reads an Overpass JSON document. A document without an
// elements array, a node without coordinates, an element without id or a
// runtime error remark is rejected. Elements of other types (areas,
// counts) are skipped.
func decodeOverpassJSON(r io.Reader) (*network.Data, error) {
	var doc overpassDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	if strings.Contains(doc.Remark, "error") {
		return nil, fmt.Errorf("overpass remark: %s", doc.Remark)
	}
	if doc.Elements == nil {
		return nil, fmt.Errorf("no elements array in document")
	}

	o := &osm.OSM{}
	for i, e := range *doc.Elements {
		known := e.Type == osm.TypeNode || e.Type == osm.TypeWay || e.Type == osm.TypeRelation
		if known && e.ID == 0 {
			return nil, fmt.Errorf("element %d (%s) has no id", i, e.Type)
		}

		switch e.Type {
		case osm.TypeNode:
			if e.Lat == nil || e.Lon == nil {
				return nil, fmt.Errorf("node %d has no coordinates", e.ID)
			}
			o.Nodes = append(o.Nodes, &osm.Node{ID: osm.NodeID(e.ID), Lat: *e.Lat, Lon: *e.Lon, Tags: e.Tags})
		case osm.TypeWay:
			o.Ways = append(o.Ways, &osm.Way{ID: osm.WayID(e.ID), Nodes: e.Nodes, Tags: e.Tags})
		case osm.TypeRelation:
			o.Relations = append(o.Relations, &osm.Relation{ID: osm.RelationID(e.ID), Members: e.Members, Tags: e.Tags})
		}
	}
	return network.FromOSM(o), nil
}
