package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/haritkart/storefront/pkg/errors"
	"github.com/haritkart/storefront/pkg/metrics"
	"github.com/haritkart/storefront/pkg/types"
)

const (
	defaultTimeout              = 15 * time.Second
	failureBodyReadLimit  int64 = 4096
	networkFailureMessage       = "network error, please check your connection"
)

var errBaseURLRequired = errors.New("upstream base url is required")

// Client wraps calls to the core marketplace API. Each call is a single
// attempt: no retries, no backoff — failures surface to the caller, who
// leaves retrying to the user.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.UpstreamMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithMetrics wires per-operation request metrics.
func WithMetrics(m *metrics.UpstreamMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Request describes one upstream call. Op names the logical operation for
// metrics and error reporting; Path is the endpoint path with IDs already
// interpolated.
type Request struct {
	Op     string
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Meta carries the envelope fields that travel alongside data on list
// endpoints, plus any cookies the upstream set (session issue/refresh).
type Meta struct {
	Results     int
	Total       int
	CurrentPage int
	TotalPages  int
	Message     string
	Cookies     []*http.Cookie
}

// CallError records where an upstream call failed. Status 0 means no
// response was received at all.
type CallError struct {
	Endpoint string
	Status   int
	Cause    error
}

func (e *CallError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: no response: %v", e.Endpoint, e.Cause)
	}
	return fmt.Sprintf("%s: status %d: %v", e.Endpoint, e.Status, e.Cause)
}

func (e *CallError) Unwrap() error { return e.Cause }

// UpstreamStatus reports the HTTP status of the failed call, 0 when the
// failure was transport-level.
func (e *CallError) UpstreamStatus() int { return e.Status }

// UpstreamEndpoint reports "METHOD /path" of the failed call.
func (e *CallError) UpstreamEndpoint() string { return e.Endpoint }

// Do executes a single upstream request, unwraps the success envelope into
// out (when non-nil), and normalizes failures into typed errors.
func (c *Client) Do(ctx context.Context, req Request, out any) (*Meta, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "upstream client not configured")
	}

	endpoint := fmt.Sprintf("%s %s", req.Method, req.Path)

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		body = bytes.NewReader(payload)
	}

	target := c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if cookie := SessionCookiesFromContext(ctx); cookie != "" {
		httpReq.Header.Set("Cookie", cookie)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	c.metrics.ObserveDuration(req.Op, time.Since(start))
	if err != nil {
		c.metrics.IncFailure(req.Op, "network")
		callErr := &CallError{Endpoint: endpoint, Cause: err}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, callErr, networkFailureMessage)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.IncFailure(req.Op, "server")
		return nil, c.serverFailure(endpoint, resp)
	}

	var envelope struct {
		Status      string          `json:"status"`
		Message     string          `json:"message"`
		Data        json.RawMessage `json:"data"`
		Results     int             `json:"results"`
		Total       int             `json:"total"`
		CurrentPage int             `json:"currentPage"`
		TotalPages  int             `json:"totalPages"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		c.metrics.IncFailure(req.Op, "server")
		callErr := &CallError{Endpoint: endpoint, Status: resp.StatusCode, Cause: err}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, callErr, "decode upstream response")
	}

	if out != nil && len(envelope.Data) > 0 {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			c.metrics.IncFailure(req.Op, "server")
			callErr := &CallError{Endpoint: endpoint, Status: resp.StatusCode, Cause: err}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, callErr, "decode upstream payload")
		}
	}

	c.metrics.IncSuccess(req.Op)
	return &Meta{
		Results:     envelope.Results,
		Total:       envelope.Total,
		CurrentPage: envelope.CurrentPage,
		TotalPages:  envelope.TotalPages,
		Message:     envelope.Message,
		Cookies:     resp.Cookies(),
	}, nil
}

// Ping reports whether the upstream host answers at all. Any HTTP response
// counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ping upstream: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}

func (c *Client) serverFailure(endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, failureBodyReadLimit))

	message := ""
	var failure struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &failure); err == nil {
		message = strings.TrimSpace(failure.Message)
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}

	code := codeForStatus(resp.StatusCode)
	if message == "" {
		message = pkgerrors.MetadataFor(code).PublicMessage
	}

	callErr := &CallError{
		Endpoint: endpoint,
		Status:   resp.StatusCode,
		Cause:    fmt.Errorf("upstream reported %s", orUnknown(failure.Status)),
	}
	return pkgerrors.Wrap(code, callErr, message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusUnprocessableEntity:
		return pkgerrors.CodeStateConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	}
	if status >= 400 && status < 500 {
		return pkgerrors.CodeValidation
	}
	return pkgerrors.CodeDependency
}

func orUnknown(status string) string {
	if status == "" {
		return types.StatusError
	}
	return status
}
