package render

import (
	"strings"

	"github.com/natevvv/osm-vector-map/pkg/errors"
)

type Format string

const (
	FormatSVG     Format = "svg"
	FormatPNG     Format = "png"
	FormatGeoJSON Format = "geojson"
)

var Formats = []Format{FormatSVG, FormatPNG, FormatGeoJSON}

// ParseFormat accepts a format name or a file extension. The empty string
// selects SVG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "", "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	case "geojson", "json":
		return FormatGeoJSON, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatGeoJSON:
		return "application/geo+json"
	default:
		return "image/svg+xml"
	}
}

func (f Format) Extension() string {
	return "." + string(f)
}

// Render draws the scene in format f.
func Render(s *Scene, f Format, progress ProgressFunc) ([]byte, error) {
	switch f {
	case FormatSVG:
		return RenderSVG(s, WithProgress(progress)), nil
	case FormatPNG:
		return RenderPNG(s, progress)
	case FormatGeoJSON:
		return RenderGeoJSON(s)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown output format %q", f)
}
