package openapi_server

import "github.com/natevvv/osm-vector-map/pkg/errors"

type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}
