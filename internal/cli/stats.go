package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/natevvv/osm-vector-map/pkg/pipeline"
)

type statsOpts struct {
	sourceOpts
	bbox  string
	merge bool
	json  bool
}

func newStatsCmd() *cobra.Command {
	var opts statsOpts

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the line count per feature group of a bounding box",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.bbox, "bbox", "b", "", "bounding box: minLon,minLat,maxLon,maxLat")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read a local .osm, .json or .pbf extract instead of the configured source")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "merge continuing ways of the same name")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	_ = cmd.MarkFlagRequired("bbox")

	return cmd
}

type statsReport struct {
	Groups []pipeline.GroupCount `json:"groups"`
	Stats  pipeline.Stats        `json:"stats"`
}

func runStats(ctx context.Context, w io.Writer, opts *statsOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	src, closeSource, err := openSource(ctx, cfg, opts.sourceOpts, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	runner := pipeline.NewRunner(src, logger)
	n, stats, err := runner.Network(ctx, pipeline.Options{
		BBox:    opts.bbox,
		Merge:   opts.merge,
		Workers: cfg.Render.Workers,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	report := statsReport{Groups: pipeline.GroupCounts(n), Stats: stats}
	if opts.json {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "GROUP\tLINES")
	for _, c := range report.Groups {
		fmt.Fprintf(tw, "%s\t%d\n", c.Group, c.Lines)
	}
	fmt.Fprintf(tw, "\nways\t%d\n", stats.Build.Ways)
	fmt.Fprintf(tw, "unresolved\t%d\n", stats.Build.Unresolved)
	fmt.Fprintf(tw, "unclassified\t%d\n", stats.Build.Unclassified)
	if opts.merge {
		fmt.Fprintf(tw, "merged\t%d\n", stats.Merged)
	}
	return tw.Flush()
}
