package openapi_server

import (
	"github.com/natevvv/osm-vector-map/pkg/network"
	"github.com/natevvv/osm-vector-map/pkg/pipeline"
)

type NetworkSummary struct {
	Bbox   string                `json:"bbox"`
	Groups []pipeline.GroupCount `json:"groups"`
	Stats  network.Stats         `json:"stats"`
	Merged int                   `json:"merged"`
}

type Health struct {
	Status string `json:"status"`
	Source string `json:"source"`
}
