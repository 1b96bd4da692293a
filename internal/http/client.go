package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/neondatabase/neon-api-go/internal/http"

// Logger interface for HTTP client logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// Client performs single authenticated round trips against the Neon API.
// It is immutable after construction and safe for concurrent use.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *retryablehttp.Client
	logger     Logger
	debug      bool
	tracer     trace.Tracer
}

// Option configures the Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithHTTPClient reuses the transport and timeout of an existing client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			clone := *httpClient
			c.httpClient.HTTPClient = &clone
		}
	}
}

// WithTimeout sets the overall timeout of a single request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.HTTPClient.Timeout = timeout
		}
	}
}

// WithTracerProvider sets the span source. The global provider is used otherwise.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(c *Client) {
		if provider != nil {
			c.tracer = provider.Tracer(tracerName)
		}
	}
}

// NewClient creates a new HTTP client for baseURL authenticated with apiKey.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = cleanhttp.DefaultPooledClient()
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	retryClient.RetryMax = 0
	retryClient.CheckRetry = noRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		userAgent:  constants.UserAgent,
		httpClient: retryClient,
		tracer:     otel.GetTracerProvider().Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient.RequestLogHook = client.logRequest
	retryClient.ResponseLogHook = client.logResponse

	return client
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request represents an HTTP request. Path is relative to the base URL.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents a successful HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       json.RawMessage
}

// Do executes exactly one HTTP request. A non-2xx status is returned as
// *neon.APIError carrying the raw body, together with a Response holding
// the status code.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	ctx, span := c.tracer.Start(ctx, "neon "+req.Method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			semconv.HTTPMethodKey.String(req.Method),
			semconv.HTTPTargetKey.String(req.Path),
		),
	)
	defer span.End()

	resp, err := c.do(ctx, req)
	if resp != nil {
		span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return resp, err
	}

	span.SetStatus(codes.Ok, "")

	return resp, nil
}

func (c *Client) do(ctx context.Context, req *Request) (*Response, error) {
	var body []byte

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}

		body = data
	}

	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, c.resolve(req.Path, req.Query), rawBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.applyHeaders(httpReq.Header, req.Headers)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}

		return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	response := &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       respBody,
	}

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &neon.APIError{
			StatusCode: httpResp.StatusCode,
			Body:       string(respBody),
			Method:     req.Method,
			Path:       req.Path,
		}

		if c.logger != nil {
			c.logger.Warn("API error", map[string]interface{}{
				"method": req.Method,
				"path":   req.Path,
				"status": httpResp.StatusCode,
			})
		}

		return response, apiErr
	}

	return response, nil
}

// resolve joins the base URL and path with exactly one separator and encodes
// the non-empty query values.
func (c *Client) resolve(path string, query url.Values) string {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")

	encoded := url.Values{}

	for key, values := range query {
		for _, value := range values {
			if value != "" {
				encoded.Add(key, value)
			}
		}
	}

	if len(encoded) > 0 {
		target += "?" + encoded.Encode()
	}

	return target
}

// applyHeaders sets the mandatory headers, then the caller's non-empty ones.
// An empty caller value never clears a mandatory header.
func (c *Client) applyHeaders(header http.Header, extra map[string]string) {
	header.Set(constants.HeaderAuthorization, constants.BearerPrefix+c.apiKey)
	header.Set(constants.HeaderAccept, constants.MediaTypeJSON)
	header.Set(constants.HeaderContentType, constants.MediaTypeJSON)
	header.Set(constants.HeaderUserAgent, c.userAgent)

	for key, value := range extra {
		if value != "" {
			header.Set(key, value)
		}
	}
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, _ int) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	if !c.debug || c.logger == nil {
		return
	}

	c.logger.Debug("HTTP Response", map[string]interface{}{
		"status": resp.StatusCode,
		"url":    resp.Request.URL.String(),
	})
}

// noRetry stops after the first attempt. Only a cancelled context is reported.
func noRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	return false, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}
