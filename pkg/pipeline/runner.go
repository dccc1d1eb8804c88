// Package pipeline runs the fetch, build and draw stages of a render.
//
// Both the CLI and the HTTP service go through a Runner:
//
//	runner := pipeline.NewRunner(src, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    BBox:   "-0.1,51.5,0,51.6",
//	    Format: "svg",
//	})
//
// Every stage reports a progress message in order: "Requesting data",
// "Building network", "Drawing (n elements)", "Writing attribution" and
// "Done!".
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/metrics"
	"github.com/natevvv/osm-vector-map/pkg/network"
	"github.com/natevvv/osm-vector-map/pkg/render"
	"github.com/natevvv/osm-vector-map/pkg/source"
)

// Runner is stateless apart from its source and logger; it can serve
// concurrent requests.
type Runner struct {
	Source source.Source
	Logger *log.Logger
}

func NewRunner(src source.Source, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Source: src, Logger: logger}
}

type Stats struct {
	Build      network.Stats `json:"build"`
	Merged     int           `json:"merged"`
	Lines      int           `json:"lines"`
	FetchTime  time.Duration `json:"fetch_time"`
	BuildTime  time.Duration `json:"build_time"`
	RenderTime time.Duration `json:"render_time"`
}

type Result struct {
	BBox     geometry.BBox
	Format   render.Format
	Artifact []byte
	Network  *network.Network
	Stats    Stats
}

// Execute renders opts.BBox. An invalid bbox fails before any data is
// requested.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	format, _ := render.ParseFormat(opts.Format)
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RendersTotal.WithLabelValues(string(format), status).Inc()
	}()

	bbox, err := parseBBox(opts.BBox)
	if err != nil {
		return nil, err
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result = &Result{BBox: bbox, Format: format}
	n, err := r.network(ctx, bbox, &opts, &result.Stats)
	if err != nil {
		return nil, err
	}
	result.Network = n

	scene, err := render.NewScene(n, bbox, opts.Frame, opts.Styles)
	if err != nil {
		return nil, err
	}

	opts.progress(fmt.Sprintf("Drawing (%d elements)", n.Len()))
	start := time.Now()
	attributed := false
	attribution := func() {
		if !attributed {
			attributed = true
			opts.progress("Writing attribution")
		}
	}
	if n.Len() == 0 {
		attribution()
	}
	artifact, err := render.Render(scene, format, func(drawn, total int) {
		if opts.OnDraw != nil {
			opts.OnDraw(drawn, total)
		}
		if drawn == total {
			attribution()
		}
	})
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	attribution()
	result.Artifact = artifact
	result.Stats.RenderTime = time.Since(start)
	for g, count := range n.Counts() {
		metrics.LinesDrawn.WithLabelValues(g.String()).Add(float64(count))
	}

	opts.progress("Done!")
	opts.Logger.Debug("rendered",
		"bbox", bbox,
		"format", format,
		"lines", n.Len(),
		"bytes", len(artifact),
		"duration", result.Stats.RenderTime)
	return result, nil
}

// Network fetches and builds the network of a bbox without drawing it.
func (r *Runner) Network(ctx context.Context, opts Options) (*network.Network, Stats, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	var stats Stats
	bbox, err := parseBBox(opts.BBox)
	if err != nil {
		return nil, stats, err
	}
	n, err := r.network(ctx, bbox, &opts, &stats)
	return n, stats, err
}

func (r *Runner) network(ctx context.Context, bbox geometry.BBox, opts *Options, stats *Stats) (*network.Network, error) {
	opts.progress("Requesting data")
	start := time.Now()
	data, err := r.Source.Fetch(ctx, bbox)
	stats.FetchTime = time.Since(start)
	metrics.FetchDuration.WithLabelValues(r.Source.Name()).Observe(stats.FetchTime.Seconds())
	if err != nil {
		return nil, fmt.Errorf("fetch from %s: %w", r.Source.Name(), err)
	}
	opts.Logger.Debug("fetched data",
		"source", r.Source.Name(),
		"nodes", len(data.Nodes),
		"ways", len(data.Ways),
		"relations", len(data.Relations),
		"duration", stats.FetchTime)

	opts.progress("Building network")
	start = time.Now()
	n, err := network.BuildParallel(ctx, data, opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("build network: %w", err)
	}
	if opts.Merge {
		n = network.Merge(n)
		stats.Merged = n.Stats().Merged
	}
	stats.BuildTime = time.Since(start)
	stats.Build = n.Stats()
	stats.Lines = n.Len()
	recordBuild(stats.Build)

	opts.Logger.Debug("built network",
		"lines", n.Len(),
		"groups", len(n.Groups()),
		"unresolved", stats.Build.Unresolved,
		"unclassified", stats.Build.Unclassified,
		"merged", stats.Merged,
		"duration", stats.BuildTime)
	return n, nil
}

func parseBBox(s string) (geometry.BBox, error) {
	bbox, err := geometry.ParseBBox(s)
	if err != nil {
		return bbox, err
	}
	return bbox, render.ValidateBBox(bbox)
}

func recordBuild(s network.Stats) {
	metrics.WaysProcessed.WithLabelValues("classified").Add(float64(s.Classified))
	metrics.WaysProcessed.WithLabelValues("unresolved").Add(float64(s.Unresolved))
	metrics.WaysProcessed.WithLabelValues("unclassified").Add(float64(s.Unclassified))
}

// GroupCounts returns the line count of every group in draw order,
// including empty groups.
func GroupCounts(n *network.Network) []GroupCount {
	counts := make([]GroupCount, 0, len(feature.GroupOrder))
	for _, g := range feature.GroupOrder {
		counts = append(counts, GroupCount{Group: g, Lines: len(n.Lines(g))})
	}
	return counts
}

type GroupCount struct {
	Group feature.Group `json:"group"`
	Lines int           `json:"lines"`
}
