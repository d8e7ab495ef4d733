// Package api implements the request client and the per-domain facades over
// the remote backend. The client owns transport concerns only: it reports
// unauthorized responses as a typed sentinel and leaves session invalidation
// and navigation to the orchestration layer.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smarthomeo/fxclient/internal/core/domain"
	"github.com/smarthomeo/fxclient/internal/infrastructure/api/metrics"
)

// Options shapes a single backend call. The zero value is a plain GET with no
// body and the shared unauthorized handling enabled.
type Options struct {
	Method string // defaults to GET
	Body   any    // marshalled to JSON when non-nil
	// Headers are merged over the default JSON content type.
	Headers map[string]string
	// SkipAuth suppresses the 401 sentinel for calls that treat an
	// unauthorized response as an ordinary outcome (login, verify).
	SkipAuth bool
}

// Client issues requests against a configured base URL. Credentials travel as
// cookies held in the http.Client's jar, so every call after login carries
// the backend session automatically.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

// NewHTTPClient builds the shared transport: a cookie jar for backend session
// cookies plus a request timeout.
func NewHTTPClient(timeout time.Duration) *http.Client {
	// cookiejar.New cannot fail when no PublicSuffixList is supplied
	jar, _ := cookiejar.New(nil)
	return &http.Client{Jar: jar, Timeout: timeout}
}

func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(30 * time.Second)
	}
	for len(baseURL) > 0 && baseURL[len(baseURL)-1] == '/' {
		baseURL = baseURL[:len(baseURL)-1]
	}
	return &Client{baseURL: baseURL, http: httpClient, log: log}
}

// Do performs one call to <base URL><path> and returns the raw success
// payload. Failures map onto the error taxonomy:
//   - 401 without SkipAuth → domain.ErrAuthenticationRequired, checked before
//     any attempt to read the payload
//   - any other non-2xx → *domain.APIError with the server-supplied message,
//     or the generic message when the error body cannot be parsed
//   - transport failures → logged and returned wrapped, never swallowed
func (c *Client) Do(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		raw, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport").Inc()
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized && !opts.SkipAuth {
		metrics.RequestsTotal.WithLabelValues(method, "unauthorized").Inc()
		metrics.UnauthorizedTotal.Inc()
		c.log.Debug().Str("method", method).Str("path", path).Msg("unauthorized response")
		return nil, domain.ErrAuthenticationRequired
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RequestsTotal.WithLabelValues(method, "transport").Inc()
		c.log.Error().Err(err).Str("path", path).Msg("read response failed")
		return nil, fmt.Errorf("%s %s: read response: %w", method, path, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RequestsTotal.WithLabelValues(method, "error").Inc()
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(raw, &envelope)
		apiErr := domain.NewAPIError(resp.StatusCode, envelope.Error)
		c.log.Debug().
			Int("status", resp.StatusCode).
			Str("method", method).
			Str("path", path).
			Str("message", apiErr.Message).
			Msg("api error response")
		return nil, apiErr
	}

	metrics.RequestsTotal.WithLabelValues(method, "success").Inc()
	return raw, nil
}

// HTTPClient exposes the underlying transport so collaborators that bypass
// the shared contract (the admin facade) still share the cookie jar.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}
