package pbf

import (
	"context"
	"io"
	"os"
	"runtime"

	"github.com/paulmach/orb"
	"github.com/qedus/osmpbf"

	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// Importer reads nodes, ways and relations of an .osm.pbf file into
// network.Data. With a bbox set, only ways having at least one node inside
// the box are kept; all nodes are indexed so kept ways stay complete.
type Importer struct {
	filename string
	bbox     *geometry.BBox
	data     *network.Data
}

func NewImporter(filename string) *Importer {
	return &Importer{
		filename: filename,
		data:     &network.Data{},
	}
}

// SetBBox restricts the imported ways to those touching b.
func (im *Importer) SetBBox(b geometry.BBox) *Importer {
	im.bbox = &b
	return im
}

func (im *Importer) Import(ctx context.Context) error {
	file, err := os.Open(im.filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return im.decode(ctx, file)
}

func (im *Importer) decode(ctx context.Context, r io.Reader) error {
	decoder := osmpbf.NewDecoder(r)
	decoder.SetBufferSize(osmpbf.MaxBlobSize)

	if err := decoder.Start(runtime.GOMAXPROCS(-1)); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		v, err := decoder.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch v := v.(type) {
		case *osmpbf.Node:
			im.data.Nodes = append(im.data.Nodes, network.Node{ID: v.ID, Point: orb.Point{v.Lon, v.Lat}})
		case *osmpbf.Way:
			im.data.Ways = append(im.data.Ways, network.Way{ID: v.ID, NodeRefs: v.NodeIDs, Tags: feature.Tags(v.Tags)})
		case *osmpbf.Relation:
			im.data.Relations = append(im.data.Relations, convertRelation(v))
		}
	}

	if im.bbox != nil {
		im.data.Ways = filterWays(im.data, *im.bbox)
	}
	return nil
}

func convertRelation(r *osmpbf.Relation) network.Relation {
	members := make([]network.Member, 0, len(r.Members))
	for _, m := range r.Members {
		t := network.NodeMember
		switch m.Type {
		case osmpbf.WayType:
			t = network.WayMember
		case osmpbf.RelationType:
			t = network.RelationMember
		}
		members = append(members, network.Member{Type: t, Ref: m.ID})
	}
	return network.Relation{ID: r.ID, Members: members, Tags: feature.Tags(r.Tags)}
}

func filterWays(data *network.Data, b geometry.BBox) []network.Way {
	inside := make(map[int64]bool, len(data.Nodes))
	for _, n := range data.Nodes {
		if b.Contains(n.Point) {
			inside[n.ID] = true
		}
	}

	ways := data.Ways[:0]
	for _, w := range data.Ways {
		for _, ref := range w.NodeRefs {
			if inside[ref] {
				ways = append(ways, w)
				break
			}
		}
	}
	return ways
}

func (im *Importer) Data() *network.Data {
	return im.data
}
