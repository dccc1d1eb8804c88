package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/natevvv/osm-vector-map/pkg/errors"
	"github.com/natevvv/osm-vector-map/pkg/geometry"
	"github.com/natevvv/osm-vector-map/pkg/network"
)

const DefaultOverpassEndpoint = "https://overpass-api.de/api/interpreter"

// Overpass queries an Overpass API interpreter for all ways and relations
// in the bbox plus the nodes they reference.
type Overpass struct {
	endpoint   string
	timeout    time.Duration
	attempts   int
	retryDelay time.Duration
	client     *http.Client
}

func NewOverpass(opts Options) *Overpass {
	o := &Overpass{
		endpoint:   opts.Endpoint,
		timeout:    opts.Timeout,
		attempts:   opts.Attempts,
		retryDelay: opts.RetryDelay,
	}
	if o.endpoint == "" {
		o.endpoint = DefaultOverpassEndpoint
	}
	if o.timeout <= 0 {
		o.timeout = 60 * time.Second
	}
	if o.attempts <= 0 {
		o.attempts = 3
	}
	if o.retryDelay <= 0 {
		o.retryDelay = time.Second
	}
	opts.Timeout = o.timeout
	o.client = opts.client()
	return o
}

func (o *Overpass) Name() string { return "overpass" }

// Query returns the Overpass QL sent for bbox.
func (o *Overpass) Query(bbox geometry.BBox) string {
	b := bbox.Overpass()
	return fmt.Sprintf("[out:json][timeout:%d];(way(%s);relation(%s););(._;>;);out body;",
		int(o.timeout.Seconds()), b, b)
}

func (o *Overpass) Fetch(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	var data *network.Data
	err := Retry(ctx, o.attempts, o.retryDelay, func() error {
		var err error
		data, err = o.do(ctx, bbox)
		return err
	})
	if err != nil {
		if errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "overpass request for %s", bbox)
	}
	return data, nil
}

func (o *Overpass) do(ctx context.Context, bbox geometry.BBox) (*network.Data, error) {
	form := url.Values{"data": {o.Query(bbox)}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := errors.New(errors.ErrCodeUpstreamStatus, "overpass returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, &RetryableError{Err: statusErr}
		}
		return nil, statusErr
	}

	data, err := decodeOverpassJSON(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "decode overpass response")
	}
	return data, nil
}
