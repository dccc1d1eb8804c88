package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/natevvv/osm-vector-map/pkg/pipeline"
	"github.com/natevvv/osm-vector-map/pkg/server/openapi_server"
)

const shutdownTimeout = 10 * time.Second

type serveOpts struct {
	sourceOpts
	port int
}

func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().StringVarP(&opts.input, "input", "i", "", "serve a local .osm, .json or .pbf extract instead of the configured source")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the response cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	styles, err := loadStyles(cfg.Render.Styles)
	if err != nil {
		return err
	}
	src, closeSource, err := openSource(ctx, cfg, opts.sourceOpts, logger)
	if err != nil {
		return err
	}
	defer closeSource()

	addr := cfg.Addr()
	if opts.port > 0 {
		addr = fmt.Sprintf(":%d", opts.port)
	}

	handler := openapi_server.NewHandler(pipeline.NewRunner(src, logger), openapi_server.RenderConfig{
		Width:   cfg.Render.Width,
		Height:  cfg.Render.Height,
		Format:  cfg.Render.Format,
		Workers: cfg.Render.Workers,
		Styles:  styles,
		MaxSize: cfg.Server.MaxSize,
	}, logger)

	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "source", src.Name())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
