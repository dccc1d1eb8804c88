// SPDX-License-Identifier: MIT

package openapi_server

// ImplResponse response defines an error code with the associated body
type ImplResponse struct {
	Code int
	Body interface{}
}

// Artifact is a non-JSON response body, written as is with its content type.
type Artifact struct {
	ContentType string
	Data        []byte
}
