package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natevvv/osm-vector-map/pkg/cache"
	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

const overpassJSON = `{
  "version": 0.6,
  "generator": "Overpass API",
  "elements": [
    {"type": "node", "id": 1, "lat": 51.51, "lon": -0.09},
    {"type": "node", "id": 2, "lat": 51.55, "lon": -0.05},
    {"type": "way", "id": 10, "nodes": [1, 2], "tags": {"highway": "motorway", "name": "A12"}},
    {"type": "relation", "id": 5, "members": [{"type": "way", "ref": 10, "role": "outer"}], "tags": {"type": "route"}}
  ]
}`

const osmXML = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="51.51" lon="-0.09"/>
  <node id="2" lat="51.55" lon="-0.05"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <tag k="highway" v="motorway"/>
  </way>
</osm>`

var london = geometry.BBox{MinLon: -0.1, MinLat: 51.5, MaxLon: 0.0, MaxLat: 51.6}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func assertMotorway(t *testing.T, data *network.Data) {
	t.Helper()
	n := network.Build(data)
	require.Equal(t, 1, n.Len())
	assert.Len(t, n.Lines(feature.TrafficRoadMajor), 1)
}

func TestOverpassQuery(t *testing.T) {
	o := NewOverpass(Options{Timeout: 25 * time.Second})
	assert.Equal(t, "[out:json][timeout:25];(way(51.5,-0.1,51.6,0);relation(51.5,-0.1,51.6,0););(._;>;);out body;", o.Query(london))
}

func TestOverpassFetch(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		body, _ := io.ReadAll(r.Body)
		values, _ := url.ParseQuery(string(body))
		query = values.Get("data")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(overpassJSON))
	}))
	defer srv.Close()

	o := NewOverpass(Options{Endpoint: srv.URL})
	data, err := o.Fetch(context.Background(), london)
	require.NoError(t, err)
	assert.Contains(t, query, "way(51.5,-0.1,51.6,0)")

	require.Len(t, data.Ways, 1)
	assert.Equal(t, "A12", data.Ways[0].Tags.Name())
	require.Len(t, data.Relations, 1)
	assert.Equal(t, []network.Member{{Type: network.WayMember, Ref: 10}}, data.Relations[0].Members)
	assertMotorway(t, data)
}

func TestOverpassRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "busy", http.StatusGatewayTimeout)
			return
		}
		_, _ = w.Write([]byte(overpassJSON))
	}))
	defer srv.Close()

	o := NewOverpass(Options{Endpoint: srv.URL, Attempts: 3, RetryDelay: time.Millisecond})
	data, err := o.Fetch(context.Background(), london)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assertMotorway(t, data)
}

func TestOverpassFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCalls int32
		wantCode  errors.Code
	}{
		{"bad request", http.StatusBadRequest, "syntax error", 1, errors.ErrCodeUpstreamStatus},
		{"rate limited", http.StatusTooManyRequests, "slow down", 2, errors.ErrCodeUpstreamStatus},
		{"garbage", http.StatusOK, "<html>", 1, errors.ErrCodeNetwork},
		{"no elements", http.StatusOK, `{"version": 0.6, "generator": "Overpass API"}`, 1, errors.ErrCodeNetwork},
		{"timeout remark", http.StatusOK, `{"elements": [], "remark": "runtime error: Query timed out in \"query\" at line 1 after 26 seconds."}`, 1, errors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			o := NewOverpass(Options{Endpoint: srv.URL, Attempts: 2, RetryDelay: time.Millisecond})
			_, err := o.Fetch(context.Background(), london)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.GetCode(err))
			assert.Equal(t, tt.wantCalls, calls.Load())
		})
	}
}

func TestOverpassUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	o := NewOverpass(Options{Endpoint: endpoint, Attempts: 2, RetryDelay: time.Millisecond})
	_, err := o.Fetch(context.Background(), london)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeNetwork))
}

func TestDecodeOverpassJSON(t *testing.T) {
	data, err := decodeOverpassJSON(strings.NewReader(overpassJSON))
	require.NoError(t, err)
	require.Len(t, data.Nodes, 2)
	assert.Equal(t, int64(2), data.Nodes[1].ID)
	assert.Equal(t, []int64{1, 2}, data.Ways[0].NodeRefs)
	assert.Equal(t, "motorway", data.Ways[0].Tags["highway"])
	assert.Equal(t, "route", data.Relations[0].Tags["type"])

	data, err = decodeOverpassJSON(strings.NewReader(`{"elements": [{"type": "area", "id": 3600062422}, {"type": "count", "id": 0, "tags": {"total": "3"}}]}`))
	require.NoError(t, err)
	assert.Empty(t, data.Nodes)
	assert.Empty(t, data.Ways)

	data, err = decodeOverpassJSON(strings.NewReader(`{"elements": []}`))
	require.NoError(t, err)
	assert.Empty(t, data.Ways)

	bad := []struct {
		name string
		doc  string
	}{
		{"empty object", `{}`},
		{"elements null", `{"elements": null}`},
		{"node without coordinates", `{"elements": [{"type": "node", "id": 1}]}`},
		{"element without id", `{"elements": [{"type": "way", "nodes": [1, 2]}]}`},
		{"nodes not ids", `{"elements": [{"type": "way", "id": 1, "nodes": [{"ref": 1}]}]}`},
		{"tags not an object", `{"elements": [{"type": "node", "id": 1, "lat": 1, "lon": 2, "tags": ["a"]}]}`},
		{"error remark", `{"elements": [], "remark": "runtime error: out of memory"}`},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeOverpassJSON(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return &RetryableError{Err: io.ErrUnexpectedEOF}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"overpass json", "extract.json", overpassJSON},
		{"osm xml", "extract.osm", osmXML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFile(writeFile(t, tt.file, tt.content))
			data, err := f.Fetch(context.Background(), london)
			require.NoError(t, err)
			assertMotorway(t, data)
		})
	}
}

func TestFileSourceErrors(t *testing.T) {
	_, err := NewFile(writeFile(t, "extract.csv", "a,b")).Fetch(context.Background(), london)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = NewFile(writeFile(t, "broken.json", "{")).Fetch(context.Background(), london)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = NewFile(writeFile(t, "plain.json", `{"type": "FeatureCollection", "features": []}`)).Fetch(context.Background(), london)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = NewFile(filepath.Join(t.TempDir(), "missing.osm")).Fetch(context.Background(), london)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

type countingSource struct {
	calls int
	data  *network.Data
}

func (s *countingSource) Name() string { return "counting" }

func (s *countingSource) Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	s.calls++
	return s.data, nil
}

func TestCachedSource(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)

	inner := &countingSource{data: &network.Data{
		Nodes: []network.Node{{ID: 1}, {ID: 2}},
		Ways:  []network.Way{{ID: 10, NodeRefs: []int64{1, 2}, Tags: feature.Tags{"highway": "motorway"}}},
	}}
	c := NewCached(inner, fc, time.Hour, quietLogger())

	first, err := c.Fetch(context.Background(), london)
	require.NoError(t, err)
	second, err := c.Fetch(context.Background(), london)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
	assertMotorway(t, second)

	_, err = c.Fetch(context.Background(), geometry.BBox{MinLon: 1, MinLat: 1, MaxLon: 2, MaxLat: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestNew(t *testing.T) {
	for _, kind := range []string{"overpass", "OSMAPI"} {
		s, err := New(kind, Options{})
		require.NoError(t, err)
		assert.Equal(t, strings.ToLower(kind), s.Name())
	}
	s, err := New("file", Options{Endpoint: "map.osm"})
	require.NoError(t, err)
	assert.Equal(t, "file:map.osm", s.Name())

	_, err = New("file", Options{})
	assert.Error(t, err)
	_, err = New("carrier-pigeon", Options{})
	assert.Error(t, err)
}
