package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/natevvv/osm-vector-map/pkg/pipeline"
	"github.com/natevvv/osm-vector-map/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	sourceOpts
	bbox   string
	output string // output file, "-" for stdout
	format string // svg, png or geojson; inferred from output when empty
	width  float64
	height float64
	merge  bool
	styles string // TOML style overrides
}

func newRenderCmd() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the map of a bounding box",
		Example: `  osmvec render --bbox=-0.1,51.5,0,51.6 -o london.svg
  osmvec render --bbox=13.37,52.51,13.39,52.52 -i berlin.osm.pbf -f png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.bbox, "bbox", "b", "", "bounding box: minLon,minLat,maxLon,maxLat")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "read a local .osm, .json or .pbf extract instead of the configured source")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default map.<format>)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: svg (default), png, geojson")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "frame width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "frame height (default from config)")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "merge continuing ways of the same name")
	cmd.Flags().StringVar(&opts.styles, "styles", "", "TOML file with style overrides (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")
	_ = cmd.MarkFlagRequired("bbox")

	return cmd
}

// outputFormat resolves the format from the flag, the output extension and
// the configured default, in that order.
func outputFormat(flag, output, fallback string) (render.Format, error) {
	if flag != "" {
		return render.ParseFormat(flag)
	}
	if ext := filepath.Ext(output); output != "-" && ext != "" {
		if f, err := render.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return render.ParseFormat(fallback)
}

func runRender(ctx context.Context, stdout io.Writer, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	prog := newProgress(logger)

	format, err := outputFormat(opts.format, opts.output, cfg.Render.Format)
	if err != nil {
		return err
	}
	output := opts.output
	if output == "" {
		output = "map" + format.Extension()
	}

	stylesPath := opts.styles
	if stylesPath == "" {
		stylesPath = cfg.Render.Styles
	}
	styles, err := loadStyles(stylesPath)
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(ctx, cfg, opts.sourceOpts, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	frame := render.Frame{Width: cfg.Render.Width, Height: cfg.Render.Height}
	if opts.width > 0 {
		frame.Width = opts.width
	}
	if opts.height > 0 {
		frame.Height = opts.height
	}

	runner := pipeline.NewRunner(src, logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		BBox:    opts.bbox,
		Frame:   frame,
		Format:  string(format),
		Merge:   opts.merge,
		Workers: cfg.Render.Workers,
		Styles:  styles,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	if output == "-" {
		_, err = stdout.Write(result.Artifact)
		return err
	}
	if err := os.WriteFile(output, result.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Wrote %s: %d lines in %d groups", output, result.Network.Len(), len(result.Network.Groups())))
	return nil
}
