package render

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

var testBBox = geometry.BBox{MinLon: 0, MinLat: 0, MaxLon: 0.1, MaxLat: 0.1}

func testNetwork() *network.Network {
	data := &network.Data{
		Nodes: []network.Node{
			{ID: 1, Point: orb.Point{0.01, 0.01}},
			{ID: 2, Point: orb.Point{0.09, 0.09}},
			{ID: 3, Point: orb.Point{0.05, 0.02}},
			{ID: 4, Point: orb.Point{0.06, 0.03}},
			{ID: 5, Point: orb.Point{0.05, 0.03}},
		},
		Ways: []network.Way{
			{ID: 1, NodeRefs: []int64{1, 2}, Tags: feature.Tags{"railway": "rail"}},
			{ID: 2, NodeRefs: []int64{3, 4, 5, 3}, Tags: feature.Tags{"building": "yes", "name": "Town & Hall"}},
			{ID: 3, NodeRefs: []int64{1, 3}, Tags: feature.Tags{"highway": "primary", "name": "Main Street"}},
			{ID: 4, NodeRefs: []int64{2, 4}, Tags: feature.Tags{"waterway": "river"}},
		},
	}
	return network.Build(data)
}

func testScene(t *testing.T) *Scene {
	t.Helper()
	s, err := NewScene(testNetwork(), testBBox, Frame{Width: 720, Height: 720}, nil)
	require.NoError(t, err)
	return s
}

func TestScenePlacement(t *testing.T) {
	s := testScene(t)

	// north-west corner at the top left, south-east at the bottom right
	nw := s.Project(orb.Point{0, 0.1})
	se := s.Project(orb.Point{0.1, 0})
	assert.InDelta(t, 0, nw[0], 1e-6)
	assert.InDelta(t, 0, nw[1], 1e-6)
	assert.InDelta(t, 720, se[0], 1e-6)
	assert.InDelta(t, 720, se[1], 1e-6)
	assert.InDelta(t, 7200, s.ScaleFactor(), 1e-9)
}

func TestNewSceneValidation(t *testing.T) {
	_, err := NewScene(testNetwork(), geometry.BBox{MinLon: 1, MinLat: 0, MaxLon: 1, MaxLat: 1}, Frame{Width: 10, Height: 10}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidBBox))

	_, err = NewScene(testNetwork(), testBBox, Frame{Width: 0, Height: 10}, nil)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestFrameValidate(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
		ok    bool
	}{
		{"square", Frame{Width: 10, Height: 10}, true},
		{"offset", Frame{X: 5, Y: 5, Width: 10, Height: 20}, true},
		{"zero width", Frame{Width: 0, Height: 10}, false},
		{"negative height", Frame{Width: 10, Height: -1}, false},
		{"nan width", Frame{Width: math.NaN(), Height: 10}, false},
		{"nan height", Frame{Width: 10, Height: math.NaN()}, false},
		{"inf width", Frame{Width: math.Inf(1), Height: 10}, false},
		{"nan offset", Frame{X: math.NaN(), Width: 10, Height: 10}, false},
		{"inf offset", Frame{Y: math.Inf(-1), Width: 10, Height: 10}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "err = %v", err)
		})
	}
}

func TestRenderSVGGroupOrder(t *testing.T) {
	out := string(RenderSVG(testScene(t)))

	ids := regexp.MustCompile(`<g id="(\w+)"`).FindAllStringSubmatch(out, -1)
	var got []string
	for _, m := range ids {
		got = append(got, m[1])
	}
	assert.Equal(t, []string{"WaterLine", "Building", "TrafficRoadMajor", "Rail"}, got)

	assert.Equal(t, 4, strings.Count(out, "<path "))
	assert.Contains(t, out, "<title>Town &amp; Hall</title>")
	assert.Contains(t, out, "<title>Main Street</title>")
	assert.Contains(t, out, `fill="#d9d0c9"`)
	assert.Contains(t, out, ">OpenStreetMap</text>")
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestRenderSVGPaths(t *testing.T) {
	out := string(RenderSVG(testScene(t)))
	assert.Equal(t, 1, strings.Count(out, Attribution))
	assert.Regexp(t, `<text x="5" y="5" [^>]+>OpenStreetMap</text>\n</svg>`, out)

	// the building ring is closed, the rail line is not
	assert.Regexp(t, `<path d="M[^"]+ Z" data-way="2"`, out)
	assert.Regexp(t, `<path d="M72,\d+(\.\d+)? L648,\d+(\.\d+)?" data-way="1"`, out)
}

func TestRenderProgress(t *testing.T) {
	var calls [][2]int
	RenderSVG(testScene(t), WithProgress(func(drawn, total int) {
		calls = append(calls, [2]int{drawn, total})
	}))
	assert.Equal(t, [][2]int{{1, 4}, {2, 4}, {3, 4}, {4, 4}}, calls)
}

func TestRenderPNG(t *testing.T) {
	s, err := NewScene(testNetwork(), testBBox, Frame{Width: 200, Height: 100}, nil)
	require.NoError(t, err)

	drawn := 0
	data, err := RenderPNG(s, func(d, total int) { drawn = d })
	require.NoError(t, err)
	assert.Equal(t, 4, drawn)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
}

func TestRenderGeoJSON(t *testing.T) {
	data, err := RenderGeoJSON(testScene(t))
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type string `json:"type"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 4)

	assert.Equal(t, "WaterLine", doc.Features[0].Properties["group"])
	assert.Equal(t, "Polygon", doc.Features[1].Geometry.Type)
	assert.Equal(t, "Town & Hall", doc.Features[1].Properties["name"])
	assert.Equal(t, "LineString", doc.Features[3].Geometry.Type)
	assert.Equal(t, "Rail", doc.Features[3].Properties["group"])
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatSVG, "SVG": FormatSVG, ".png": FormatPNG, "json": FormatGeoJSON} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("pdf")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestRenderDispatch(t *testing.T) {
	s := testScene(t)
	for _, f := range Formats {
		data, err := Render(s, f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, data, f)
	}
	_, err := Render(s, Format("pdf"), nil)
	assert.Error(t, err)
}

func TestScaledWidth(t *testing.T) {
	style := Style{StrokeWidth: 4}
	assert.InDelta(t, 4, style.ScaledWidth(ReferenceScale), 1e-9)
	assert.InDelta(t, 8, style.ScaledWidth(2*ReferenceScale), 1e-9)
	assert.InDelta(t, minStrokeWidth, style.ScaledWidth(1), 1e-9)
}

func TestLoadStyles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "styles.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[Building]
fill = "#ff0000"

[Rail]
stroke_width = 3.5
`), 0o644))

	styles, err := LoadStyles(path)
	require.NoError(t, err)
	defaults := DefaultStyles()

	assert.Equal(t, "#ff0000", styles[feature.Building].Fill)
	assert.Equal(t, defaults[feature.Building].Stroke, styles[feature.Building].Stroke)
	assert.True(t, styles[feature.Building].Area)
	assert.Equal(t, 3.5, styles[feature.Rail].StrokeWidth)
	assert.Equal(t, defaults[feature.Park], styles[feature.Park])
}

func TestDecodeStylesErrors(t *testing.T) {
	_, err := DecodeStyles("[Highway]\nfill = \"#000\"\n")
	assert.Error(t, err)

	_, err = DecodeStyles("[Rail]\ncolour = \"#000\"\n")
	assert.Error(t, err)

	_, err = DecodeStyles("[Rail]\nstroke_width = \"wide\"\n")
	assert.Error(t, err)

	_, err = LoadStyles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	r, g, b, err := parseHex("#ff8000")
	require.NoError(t, err)
	assert.InDelta(t, 1, r, 1e-9)
	assert.InDelta(t, 128.0/255, g, 1e-9)
	assert.InDelta(t, 0, b, 1e-9)

	r, _, _, err = parseHex("#f00")
	require.NoError(t, err)
	assert.InDelta(t, 1, r, 1e-9)

	_, _, _, err = parseHex("red")
	assert.Error(t, err)
}
