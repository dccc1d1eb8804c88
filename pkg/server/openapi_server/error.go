// SPDX-License-Identifier: MIT

package openapi_server

import (
	"net/http"

	"github.com/natevvv/osm-vector-map/pkg/errors"
)

// ParsingError indicates that an error has occurred when parsing request parameters
type ParsingError struct {
	Param string
	Err   error
}

func (e *ParsingError) Unwrap() error {
	return e.Err
}

func (e *ParsingError) Error() string {
	return "invalid parameter " + e.Param + ": " + e.Err.Error()
}

// RequiredError indicates that an error has occurred when parsing request parameters
type RequiredError struct {
	Field string
}

func (e *RequiredError) Error() string {
	return "required field '" + e.Field + "' is zero value."
}

// ErrorHandler defines the required method for handling error. You may implement it and inject this into a controller if
// you would like errors to be handled differently from the DefaultErrorHandler
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse)

// DefaultErrorHandler defines the default logic on how to handle errors from the controller. Any errors from parsing
// request params will return a StatusBadRequest. Otherwise, the error code originating from the servicer will be used.
func DefaultErrorHandler(w http.ResponseWriter, r *http.Request, err error, result *ImplResponse) {
	body := ErrorResponse{Code: errors.GetCode(err), Message: errors.UserMessage(err)}

	switch err.(type) {
	case *ParsingError, *RequiredError:
		if body.Code == "" {
			body.Code = errors.ErrCodeInvalidInput
		}
		body.Message = err.Error()
		status := http.StatusBadRequest
		EncodeJSONResponse(body, &status, w)
		return
	}

	status := StatusCode(err)
	if result != nil && result.Code != 0 && status == http.StatusInternalServerError {
		status = result.Code
	}
	if body.Code == "" {
		body.Code = errors.ErrCodeInternal
	}
	EncodeJSONResponse(body, &status, w)
}

// StatusCode maps an error code to the HTTP status of the response.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidBBox, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case errors.ErrCodeNetwork, errors.ErrCodeUpstreamStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
