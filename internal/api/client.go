// Package api provides the HTTP clients for the portfolio chat and project services.
package api

import (
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/aufaim/portfoliochat/internal/logging"
	"github.com/aufaim/portfoliochat/internal/models"
)

// maxErrorBody caps how much of an error response is kept for diagnostics
const maxErrorBody = 4096

// maxBody caps success response bodies
const maxBody = 4 << 20

// ClientOption configures ChatClient and ProjectsClient
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient tls_client.HttpClient
	timeout    time.Duration
	apiKey     string
	logger     *zap.Logger
}

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(c tls_client.HttpClient) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithAPIKey sends the key as X-API-Key on every request
func WithAPIKey(key string) ClientOption {
	return func(o *clientOptions) {
		o.apiKey = key
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

func buildOptions(opts []ClientOption) (*clientOptions, error) {
	o := &clientOptions{timeout: 60 * time.Second}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = logging.OrNop(o.logger)

	if o.httpClient == nil {
		c, err := newHTTPClient(o.timeout)
		if err != nil {
			return nil, err
		}
		o.httpClient = c
	}
	return o, nil
}

// newHTTPClient creates the TLS client with a browser profile, matching
// what the website's fetch calls look like to the services.
func newHTTPClient(timeout time.Duration) (tls_client.HttpClient, error) {
	seconds := int(timeout / time.Second)
	if seconds <= 0 {
		seconds = 60
	}

	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(seconds),
		tls_client.WithClientProfile(profiles.Chrome_120),
	}

	httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	return httpClient, nil
}

func setDefaultHeaders(req *http.Request, apiKey string) {
	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
}

// readBody reads at most limit bytes of the response body
func readBody(resp *http.Response, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
