// SPDX-License-Identifier: MIT

package openapi_server

import (
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/natevvv/osm-vector-map/pkg/metrics"
	"github.com/natevvv/osm-vector-map/pkg/pipeline"
)

// NewHandler wires the api routes and the /metrics endpoint.
func NewHandler(runner *pipeline.Runner, config RenderConfig, logger *log.Logger) http.Handler {
	service := NewDefaultApiService(runner, config)
	controller := NewDefaultApiController(service)

	router := NewRouter(logger, controller)
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("Metrics")
	router.Use(metrics.Middleware)
	return router
}
