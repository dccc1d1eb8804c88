package render

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/natevvv/osm-vector-map/pkg/feature"
)

// ReferenceScale is the scale factor (pixels per degree of longitude) at
// which style stroke widths are used unchanged.
const ReferenceScale = 7200.0

const minStrokeWidth = 0.25

// Style describes how the lines of one group are drawn. Area styles fill
// closed lines and stroke open ones.
type Style struct {
	Fill        string  `toml:"fill"`
	Stroke      string  `toml:"stroke"`
	StrokeWidth float64 `toml:"stroke_width"`
	Opacity     float64 `toml:"opacity"`
	Area        bool    `toml:"area"`
}

// ScaledWidth returns the stroke width for the given map scale factor.
func (s Style) ScaledWidth(scaleFactor float64) float64 {
	return max(s.StrokeWidth*scaleFactor/ReferenceScale, minStrokeWidth)
}

// Styles holds one style per group.
type Styles map[feature.Group]Style

func DefaultStyles() Styles {
	return Styles{
		feature.WaterArea:        {Fill: "#aad3df", Stroke: "#aad3df", StrokeWidth: 0.5, Opacity: 1, Area: true},
		feature.Water:            {Fill: "#aad3df", Stroke: "#aad3df", StrokeWidth: 0.5, Opacity: 1, Area: true},
		feature.Park:             {Fill: "#c8facc", Stroke: "#b5e3b5", StrokeWidth: 0.5, Opacity: 1, Area: true},
		feature.WaterLine:        {Stroke: "#7fb6d1", StrokeWidth: 2, Opacity: 1},
		feature.Building:         {Fill: "#d9d0c9", Stroke: "#c4b6ab", StrokeWidth: 0.5, Opacity: 1, Area: true},
		feature.Path:             {Stroke: "#fa8072", StrokeWidth: 1, Opacity: 0.8},
		feature.ServiceRoad:      {Stroke: "#ffffff", StrokeWidth: 2, Opacity: 1},
		feature.TrafficRoad:      {Stroke: "#ffffff", StrokeWidth: 4, Opacity: 1},
		feature.TrafficRoadMajor: {Stroke: "#fcd6a4", StrokeWidth: 6, Opacity: 1},
		feature.Rail:             {Stroke: "#707070", StrokeWidth: 1.5, Opacity: 1},
	}
}

// Get returns the style of g, falling back to a thin grey stroke.
func (s Styles) Get(g feature.Group) Style {
	if style, ok := s[g]; ok {
		return style
	}
	return Style{Stroke: "#888888", StrokeWidth: 1, Opacity: 1}
}

// DecodeStyles reads TOML overrides keyed by group name on top of the
// defaults:
//
//	[Building]
//	fill = "#e0d8d0"
//	stroke_width = 1.0
//
// Only keys present in a table replace the default value.
func DecodeStyles(data string) (Styles, error) {
	raw := map[string]map[string]toml.Primitive{}
	md, err := toml.Decode(data, &raw)
	if err != nil {
		return nil, fmt.Errorf("decode styles: %w", err)
	}

	styles := DefaultStyles()
	for name, fields := range raw {
		g, err := feature.ParseGroup(name)
		if err != nil {
			return nil, fmt.Errorf("styles: %w", err)
		}
		style := styles.Get(g)
		for key, prim := range fields {
			var err error
			switch key {
			case "fill":
				err = md.PrimitiveDecode(prim, &style.Fill)
			case "stroke":
				err = md.PrimitiveDecode(prim, &style.Stroke)
			case "stroke_width":
				err = md.PrimitiveDecode(prim, &style.StrokeWidth)
			case "opacity":
				err = md.PrimitiveDecode(prim, &style.Opacity)
			case "area":
				err = md.PrimitiveDecode(prim, &style.Area)
			default:
				err = fmt.Errorf("unknown key %q", key)
			}
			if err != nil {
				return nil, fmt.Errorf("styles: %s.%s: %w", name, key, err)
			}
		}
		styles[g] = style
	}
	return styles, nil
}

// LoadStyles reads a TOML style file; see DecodeStyles.
func LoadStyles(path string) (Styles, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read styles: %w", err)
	}
	return DecodeStyles(string(data))
}

// parseHex parses "#rgb" or "#rrggbb" into components in [0, 1].
func parseHex(s string) (r, g, b float64, err error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid color %q", s)
	}
	return float64(v>>16&0xff) / 255, float64(v>>8&0xff) / 255, float64(v&0xff) / 255, nil
}
