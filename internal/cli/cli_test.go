package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/osm-vector-map/internal/config"
	"github.com/natevvv/osm-vector-map/pkg/cache"
	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/feature"
)

const extract = `{
  "elements": [
    {"type": "node", "id": 1, "lat": 51.51, "lon": -0.09},
    {"type": "node", "id": 2, "lat": 51.55, "lon": -0.05},
    {"type": "node", "id": 3, "lat": 51.58, "lon": -0.02},
    {"type": "way", "id": 10, "nodes": [1, 2], "tags": {"highway": "motorway", "name": "A12"}},
    {"type": "way", "id": 11, "nodes": [2, 3], "tags": {"waterway": "canal"}},
    {"type": "way", "id": 12, "nodes": [3, 99], "tags": {"building": "yes"}},
    {"type": "way", "id": 13, "nodes": [1, 3], "tags": {"amenity": "bench"}}
  ]
}`

// setup isolates the test from config files and environment overrides.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	path := filepath.Join(dir, "extract.json")
	require.NoError(t, os.WriteFile(path, []byte(extract), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(io.Discard)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRender(t *testing.T) {
	input := setup(t)
	output := filepath.Join(t.TempDir(), "london.svg")

	_, err := run(t, "render", "--bbox=-0.1,51.5,0,51.6", "-i", input, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	svg := string(data)
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, `<g id="WaterLine"`)
	assert.Contains(t, svg, `<g id="TrafficRoadMajor"`)
	assert.NotContains(t, svg, `<g id="Building"`)
	assert.Less(t, strings.Index(svg, "WaterLine"), strings.Index(svg, "TrafficRoadMajor"))
}

func TestRenderFormatFromExtension(t *testing.T) {
	input := setup(t)
	output := filepath.Join(t.TempDir(), "london.geojson")

	_, err := run(t, "render", "--bbox=-0.1,51.5,0,51.6", "-i", input, "-o", output)
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestRenderStdout(t *testing.T) {
	input := setup(t)
	out, err := run(t, "render", "--bbox=-0.1,51.5,0,51.6", "-i", input, "-o", "-", "--width=200", "--height=100")
	require.NoError(t, err)
	assert.Contains(t, out, `viewBox="0 0 200 100"`)
}

func TestRenderInvalidBBox(t *testing.T) {
	input := setup(t)
	_, err := run(t, "render", "--bbox=1,2,3", "-i", input)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidBBox))

	_, err = run(t, "render", "-i", input)
	assert.Error(t, err, "bbox is required")
}

func TestStats(t *testing.T) {
	input := setup(t)

	out, err := run(t, "stats", "--bbox=-0.1,51.5,0,51.6", "-i", input)
	require.NoError(t, err)
	assert.Regexp(t, `TrafficRoadMajor\s+1`, out)
	assert.Regexp(t, `WaterLine\s+1`, out)
	assert.Regexp(t, `unresolved\s+1`, out)
	assert.Regexp(t, `unclassified\s+1`, out)

	out, err = run(t, "stats", "--bbox=-0.1,51.5,0,51.6", "-i", input, "--json")
	require.NoError(t, err)
	var report struct {
		Groups []struct {
			Group string `json:"group"`
			Lines int    `json:"lines"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Len(t, report.Groups, len(feature.GroupOrder))
}

func TestClassify(t *testing.T) {
	setup(t)
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"highway=residential"}, "TrafficRoad"},
		{[]string{"natural=water"}, "Water"},
		{[]string{"natural=water", "--relation"}, "WaterArea"},
		{[]string{"railway=rail", "highway=service"}, "ServiceRoad"},
		{[]string{"amenity=bench"}, "None"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, append([]string{"classify"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", out)
		})
	}
}

func TestClassifyExplain(t *testing.T) {
	setup(t)
	out, err := run(t, "classify", "--explain", "building=yes", "leisure=park")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(feature.Rules)+1)
	assert.Equal(t, "Building", lines[len(lines)-1])
	assert.True(t, strings.HasPrefix(lines[7], "* building"))
	assert.True(t, strings.HasPrefix(lines[8], "* park"))
}

func TestParseTags(t *testing.T) {
	tags, err := parseTags([]string{"name=A=B", "highway=primary", "note="})
	require.NoError(t, err)
	assert.Equal(t, feature.Tags{"name": "A=B", "highway": "primary", "note": ""}, tags)

	_, err = parseTags([]string{"highway"})
	assert.Error(t, err)
	_, err = parseTags([]string{"=x"})
	assert.Error(t, err)
}

func TestOutputFormat(t *testing.T) {
	f, err := outputFormat("", "map.png", "svg")
	require.NoError(t, err)
	assert.Equal(t, "png", string(f))

	f, err = outputFormat("", "-", "geojson")
	require.NoError(t, err)
	assert.Equal(t, "geojson", string(f))

	f, err = outputFormat("", "map.txt", "svg")
	require.NoError(t, err)
	assert.Equal(t, "svg", string(f))

	_, err = outputFormat("pdf", "", "svg")
	assert.Error(t, err)
}

func TestOpenSource(t *testing.T) {
	setup(t)
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Cache.Dir = t.TempDir()

	src, closeFn, err := openSource(context.Background(), cfg, sourceOpts{}, loggerFromContext(context.Background()))
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, "overpass", src.Name())

	src, _, err = openSource(context.Background(), cfg, sourceOpts{input: "x.osm"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "file:x.osm", src.Name())

	cfg.Source.Kind = "gopher"
	_, _, err = openSource(context.Background(), cfg, sourceOpts{}, nil)
	assert.Error(t, err)
}

func TestOpenCache(t *testing.T) {
	tests := []struct {
		backend string
		want    any
	}{
		{"none", &cache.NullCache{}},
		{"file", &cache.FileCache{}},
		{"memory", &cache.MemoryCache{}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c, err := openCache(context.Background(), config.CacheConfig{Backend: tt.backend, Dir: t.TempDir(), MemorySize: 1 << 20})
			require.NoError(t, err)
			defer c.Close()
			assert.IsType(t, tt.want, c)
		})
	}
}

func TestVersion(t *testing.T) {
	setup(t)
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("", "", "") })

	out, err := run(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "osmvec v1.2.3")
	assert.Contains(t, out, "commit: abc123")
}
