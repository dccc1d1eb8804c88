package openapi_server

import (
	"context"
	"net/http"

	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/feature"
	"github.com/natevvv/osm-vector-map/pkg/pipeline"
	"github.com/natevvv/osm-vector-map/pkg/render"
)

// DefaultApiService is a service that implements the logic for the DefaultApiServicer
// Every request runs its own pipeline; the service keeps no per-request state.
type DefaultApiService struct {
	runner *pipeline.Runner
	config RenderConfig
}

// RenderConfig holds the defaults applied to requests that leave a value out.
type RenderConfig struct {
	Width   float64
	Height  float64
	Format  string
	Workers int
	Styles  render.Styles
	// MaxSize bounds width and height of a single render.
	MaxSize float64
}

// NewDefaultApiService creates a default api service
func NewDefaultApiService(runner *pipeline.Runner, config RenderConfig) DefaultApiServicer {
	return &DefaultApiService{
		runner: runner,
		config: config,
	}
}

func (s *DefaultApiService) options(bbox string, merge bool) pipeline.Options {
	return pipeline.Options{
		BBox:    bbox,
		Merge:   merge,
		Workers: s.config.Workers,
		Styles:  s.config.Styles,
		Frame:   render.Frame{Width: s.config.Width, Height: s.config.Height},
		Format:  s.config.Format,
	}
}

// Render - Render the map of a bounding box
func (s *DefaultApiService) Render(ctx context.Context, renderRequest RenderRequest) (ImplResponse, error) {
	opts := s.options(renderRequest.Bbox, renderRequest.Merge)
	if renderRequest.Format != "" {
		opts.Format = renderRequest.Format
	}
	if renderRequest.Width != 0 {
		opts.Frame.Width = renderRequest.Width
	}
	if renderRequest.Height != 0 {
		opts.Frame.Height = renderRequest.Height
	}
	if s.config.MaxSize > 0 && (opts.Frame.Width > s.config.MaxSize || opts.Frame.Height > s.config.MaxSize) {
		err := errors.New(errors.ErrCodeInvalidInput, "frame %vx%v exceeds the limit of %v", opts.Frame.Width, opts.Frame.Height, s.config.MaxSize)
		return Response(http.StatusBadRequest, nil), err
	}

	result, err := s.runner.Execute(ctx, opts)
	if err != nil {
		return Response(StatusCode(err), nil), err
	}
	return Response(http.StatusOK, Artifact{
		ContentType: result.Format.ContentType(),
		Data:        result.Artifact,
	}), nil
}

// GetNetwork - Summarize the network of a bounding box
func (s *DefaultApiService) GetNetwork(ctx context.Context, networkRequest NetworkRequest) (ImplResponse, error) {
	n, stats, err := s.runner.Network(ctx, s.options(networkRequest.Bbox, networkRequest.Merge))
	if err != nil {
		return Response(StatusCode(err), nil), err
	}
	return Response(http.StatusOK, NetworkSummary{
		Bbox:   networkRequest.Bbox,
		Groups: pipeline.GroupCounts(n),
		Stats:  stats.Build,
		Merged: stats.Merged,
	}), nil
}

// GetGroups - List the feature groups in draw order
func (s *DefaultApiService) GetGroups(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, feature.GroupOrder), nil
}

func (s *DefaultApiService) Health(ctx context.Context) (ImplResponse, error) {
	return Response(http.StatusOK, Health{Status: "ok", Source: s.runner.Source.Name()}), nil
}
