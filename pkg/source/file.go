package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"

	"github.com/natevvv/osm-vector-map/internal/pbf"
	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

// File reads a local extract. The format follows the extension:
// .osm/.xml (OSM XML), .json (Overpass JSON) or .pbf (OSM PBF).
// Only PBF input is filtered by the bbox; XML and JSON extracts are
// expected to be cut to the area already.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Name() string { return "file:" + f.path }

func (f *File) Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	switch ext := strings.ToLower(filepath.Ext(f.path)); ext {
	case ".pbf":
		im := pbf.NewImporter(f.path).SetBBox(bbox)
		if err := im.Import(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", f.path)
		}
		return im.Data(), nil
	case ".osm", ".xml":
		return f.readXML(ctx)
	case ".json":
		return f.readJSON()
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input file extension %q", ext)
	}
}

func (f *File) readXML(ctx context.Context) (*network.Data, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", f.path)
	}
	defer file.Close()

	doc := &osm.OSM{}
	scanner := osmxml.New(ctx, file)
	defer scanner.Close()

	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			doc.Nodes = append(doc.Nodes, o)
		case *osm.Way:
			doc.Ways = append(doc.Ways, o)
		case *osm.Relation:
			doc.Relations = append(doc.Relations, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", f.path)
	}
	return network.FromOSM(doc), nil
}

func (f *File) readJSON() (*network.Data, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", f.path)
	}
	defer file.Close()

	data, err := decodeOverpassJSON(file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, fmt.Errorf("%s: %w", f.path, err), "parse overpass json")
	}
	return data, nil
}
