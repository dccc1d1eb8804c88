package openapi_server

import (
	"net/http"
	"strings"
)

// DefaultApiController binds http requests to an api service and writes the service results to the http response
type DefaultApiController struct {
	service      DefaultApiServicer
	errorHandler ErrorHandler
}

// DefaultApiOption for how the controller is set up.
type DefaultApiOption func(*DefaultApiController)

// WithDefaultApiErrorHandler inject ErrorHandler into controller
func WithDefaultApiErrorHandler(h ErrorHandler) DefaultApiOption {
	return func(c *DefaultApiController) {
		c.errorHandler = h
	}
}

// NewDefaultApiController creates a default api controller
func NewDefaultApiController(s DefaultApiServicer, opts ...DefaultApiOption) Router {
	controller := &DefaultApiController{
		service:      s,
		errorHandler: DefaultErrorHandler,
	}

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// Routes returns all of the api route for the DefaultApiController
func (c *DefaultApiController) Routes() Routes {
	return Routes{
		{
			"Render",
			strings.ToUpper("Get"),
			"/render",
			c.Render,
		},
		{
			"GetNetwork",
			strings.ToUpper("Get"),
			"/network",
			c.GetNetwork,
		},
		{
			"GetGroups",
			strings.ToUpper("Get"),
			"/groups",
			c.GetGroups,
		},
		{
			"Health",
			strings.ToUpper("Get"),
			"/health",
			c.Health,
		},
	}
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// Render - Render the map of a bounding box
func (c *DefaultApiController) Render(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	renderRequestParam := RenderRequest{
		Bbox:   query.Get("bbox"),
		Format: query.Get("format"),
	}
	var err error
	if renderRequestParam.Width, err = parseFloatParameter(query.Get("width"), 0); err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "width", Err: err}, nil)
		return
	}
	if renderRequestParam.Height, err = parseFloatParameter(query.Get("height"), 0); err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "height", Err: err}, nil)
		return
	}
	if renderRequestParam.Merge, err = parseBoolParameter(query.Get("merge"), false); err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "merge", Err: err}, nil)
		return
	}
	if err := AssertRenderRequestRequired(renderRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.Render(r.Context(), renderRequestParam)
	// If an error occurred, encode the error with the status code
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	// If no error, write the artifact and the result code
	setCORSHeaders(w)
	if artifact, ok := result.Body.(Artifact); ok {
		EncodeArtifactResponse(artifact, &result.Code, w)
		return
	}
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// GetNetwork - Summarize the network of a bounding box
func (c *DefaultApiController) GetNetwork(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	networkRequestParam := NetworkRequest{Bbox: query.Get("bbox")}
	var err error
	if networkRequestParam.Merge, err = parseBoolParameter(query.Get("merge"), false); err != nil {
		c.errorHandler(w, r, &ParsingError{Param: "merge", Err: err}, nil)
		return
	}
	if err := AssertNetworkRequestRequired(networkRequestParam); err != nil {
		c.errorHandler(w, r, err, nil)
		return
	}
	result, err := c.service.GetNetwork(r.Context(), networkRequestParam)
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	setCORSHeaders(w)
	EncodeJSONResponse(result.Body, &result.Code, w)
}

// GetGroups - List the feature groups in draw order
func (c *DefaultApiController) GetGroups(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.GetGroups(r.Context())
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	setCORSHeaders(w)
	EncodeJSONResponse(result.Body, &result.Code, w)
}

func (c *DefaultApiController) Health(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.Health(r.Context())
	if err != nil {
		c.errorHandler(w, r, err, &result)
		return
	}
	EncodeJSONResponse(result.Body, &result.Code, w)
}
