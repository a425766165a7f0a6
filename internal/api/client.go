// Package api is the typed client for the HR backend REST API.
//
// Every call reads the bearer token from the token store, attaches it when
// present, and returns either the decoded payload or an *Error. The client never
// retries, caches or de-duplicates.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/platform/middleware"
	"hrconsole/internal/platform/tracer"
)

//go:generate mockgen -source=client.go -destination=mocks/client_mock.go -package=mocks

// TokenSource yields the persisted bearer token. "" means no token.
type TokenSource interface {
	Load(ctx context.Context) (string, error)
}

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the backend under a fixed base URL.
type Client struct {
	baseURL string
	tokens  TokenSource
	http    HTTPDoer
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  tracer.Tracer

	auth        *AuthService
	employees   *EmployeeService
	analytics   *AnalyticsService
	predictions *PredictionService
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPDoer replaces the default http.Client.
func WithHTTPDoer(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithTimeout bounds each call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

func WithTracer(t tracer.Tracer) Option {
	return func(c *Client) {
		c.tracer = t
	}
}

// New creates a client for baseURL (e.g. http://localhost:8000/api).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		tokens:  tokens,
		http:    http.DefaultClient,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.auth = &AuthService{client: c}
	c.employees = &EmployeeService{client: c}
	c.analytics = &AnalyticsService{client: c}
	c.predictions = &PredictionService{client: c}
	return c
}

func (c *Client) Auth() *AuthService              { return c.auth }
func (c *Client) Employees() *EmployeeService     { return c.employees }
func (c *Client) Analytics() *AnalyticsService    { return c.analytics }
func (c *Client) Predictions() *PredictionService { return c.predictions }
func (c *Client) BaseURL() string                 { return c.baseURL }

// Upload is a file sent as the single "file" field of a multipart body.
type Upload struct {
	Filename string
	Content  io.Reader
}

// UploadField is the multipart field name the backend reads.
const UploadField = "file"

// Request describes one backend call.
type Request struct {
	Method string
	// Path is relative to the base URL.
	Path string
	// Route labels metrics and spans; defaults to Path.
	Route  string
	Query  url.Values
	Body   any
	Upload *Upload
	// Header entries override the defaults.
	Header http.Header
}

// Do issues req and decodes a successful response into out.
//
// JSON responses are decoded into out. Any other content type is stored into
// out when it is a *string or *[]byte. A nil out discards the body. Failures
// are always *Error.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	route := req.Route
	if route == "" {
		route = req.Path
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	ctx, span := c.tracer.Start(ctx, "api."+req.Method+" "+route,
		tracer.String("http.method", req.Method),
		tracer.String("http.route", route),
	)
	start := time.Now()

	status, err := c.do(ctx, req, out)

	span.SetAttributes(tracer.Int("http.status_code", status))
	span.End(err)
	c.metrics.ObserveAPIRequest(req.Method, route, status, time.Since(start).Seconds())

	if err != nil {
		c.logger.WarnContext(ctx, "backend request failed",
			"method", req.Method,
			"route", route,
			"status", status,
			"error", err,
		)
		return err
	}
	c.logger.DebugContext(ctx, "backend request",
		"method", req.Method,
		"route", route,
		"status", status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Ping reports whether the backend answers at all. Any HTTP response counts;
// only transport failures are returned.
func (c *Client) Ping(ctx context.Context) error {
	err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/", Route: "ping"}, nil)
	if IsTransport(err) {
		return err
	}
	return nil
}

func (c *Client) do(ctx context.Context, req Request, out any) (int, error) {
	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, err
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, transportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp.StatusCode, NormalizeError(resp.StatusCode, body)
	}
	if err := decodeBody(resp.Header.Get("Content-Type"), body, out); err != nil {
		return resp.StatusCode, &Error{
			Status:  resp.StatusCode,
			Message: "invalid response body: " + err.Error(),
			Err:     err,
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	token, err := c.tokens.Load(ctx)
	if err != nil {
		return nil, transportError(fmt.Errorf("load token: %w", err))
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, transportError(err)
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, transportError(err)
	}

	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := middleware.GetRequestID(ctx)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	httpReq.Header.Set("X-Request-ID", requestID)
	for key, values := range req.Header {
		httpReq.Header.Del(key)
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	return httpReq, nil
}

func encodeBody(req Request) (io.Reader, string, error) {
	if req.Upload != nil {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile(UploadField, req.Upload.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create multipart field: %w", err)
		}
		if _, err := io.Copy(part, req.Upload.Content); err != nil {
			return nil, "", fmt.Errorf("read upload: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart body: %w", err)
		}
		return &buf, w.FormDataContentType(), nil
	}

	if req.Body == nil {
		return nil, "application/json", nil
	}
	data, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

func decodeBody(contentType string, body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if isJSON(contentType) {
		return json.Unmarshal(body, out)
	}
	switch target := out.(type) {
	case *string:
		*target = string(body)
	case *[]byte:
		*target = append((*target)[:0], body...)
	default:
		return fmt.Errorf("unexpected content type %q", contentType)
	}
	return nil
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func transportError(err error) *Error {
	msg := err.Error()
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		msg = urlErr.Err.Error()
	}
	return &Error{Status: 0, Message: msg, Err: err}
}
