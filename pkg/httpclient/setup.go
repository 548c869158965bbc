package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/traceably/spanwrap/pkg/observability"
	"github.com/traceably/spanwrap/pkg/tracer"
	"github.com/traceably/spanwrap/pkg/tracing"
)

const component = "httpclient"

// Client is an outbound HTTP client whose requests run inside outbound-call
// spans and carry W3C trace-context headers, so downstream services join the
// caller's trace.
type Client struct {
	http     *http.Client
	runner   *tracing.Runner
	observer observability.Observer
}

// NewClient returns a Client using the given runner for spans. A nil runner
// disables span creation but not the requests themselves.
func NewClient(cfg Config, runner *tracing.Runner) *Client {
	return &Client{
		http:   &http.Client{Timeout: cfg.Timeout},
		runner: runner,
	}
}

// WithObserver sets the operation observer and returns the client for
// chaining.
func (c *Client) WithObserver(observer observability.Observer) *Client {
	c.observer = observer
	return c
}

// Do sends one request inside an outbound-call span. The span carries the
// method, full URL, and peer host; a malformed URL fails before any span or
// request work. Extra headers, when given, are set on the request before the
// trace-context headers are injected.
//
// The response and error of the underlying round trip are passed through
// unchanged; HTTP error status codes are not turned into Go errors.
func (c *Client) Do(ctx context.Context, method, rawURL string, body io.Reader, headers map[string]string) (*http.Response, error) {
	attrs, err := tracing.CallAttributes(method, rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := tracing.RunValue(c.runner, ctx, tracing.SpanNameCall, attrs, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
		if err != nil {
			return nil, fmt.Errorf("building request for %s %s: %w", method, rawURL, err)
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		for k, v := range tracer.InjectContext(ctx) {
			req.Header.Set(k, v)
		}
		return c.http.Do(req)
	})
	c.observeOperation(method, rawURL, time.Since(start), err)
	return resp, err
}

// Get fetches rawURL and returns the response body. Unlike Do it treats
// non-2xx statuses as errors, since the body is discarded in that case.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Do(ctx, http.MethodGet, rawURL, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

// observeOperation notifies the observer about a completed request if one is
// configured.
func (c *Client) observeOperation(method, rawURL string, duration time.Duration, err error) {
	if c == nil || c.observer == nil {
		return
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component: component,
		Operation: method,
		Resource:  rawURL,
		Duration:  duration,
		Error:     err,
	})
}
