// SPDX-License-Identifier: MIT

package openapi_server

type RenderRequest struct {
	Bbox   string  `json:"bbox"`
	Format string  `json:"format,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Merge  bool    `json:"merge,omitempty"`
}

// AssertRenderRequestRequired checks if the required fields are not zero-ed
func AssertRenderRequestRequired(obj RenderRequest) error {
	elements := map[string]interface{}{
		"bbox": obj.Bbox,
	}
	for name, el := range elements {
		if isZero := IsZeroValue(el); isZero {
			return &RequiredError{Field: name}
		}
	}
	return nil
}

type NetworkRequest struct {
	Bbox  string `json:"bbox"`
	Merge bool   `json:"merge,omitempty"`
}

// AssertNetworkRequestRequired checks if the required fields are not zero-ed
func AssertNetworkRequestRequired(obj NetworkRequest) error {
	if IsZeroValue(obj.Bbox) {
		return &RequiredError{Field: "bbox"}
	}
	return nil
}
