package pokeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// ErrStatus is wrapped by every error caused by a non-2xx response.
var ErrStatus = errors.New("unexpected response status")

// StatusError reports a non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Client talks to the Pokedex HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *zap.Logger
	tracer    trace.Tracer
}

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserAgent = "pokedex/0.1"
	requestTimeout   = 5 * time.Second
	tracerName       = "github.com/urielniazov/pokedex/internal/pokeapi"
	requestIDHeader  = "X-Request-ID"
)

// Route templates, also used as metric and span labels.
const (
	routeList     = "/api/pokemon"
	routeTypes    = "/api/pokemon/types"
	routeCaptured = "/api/pokemon/captured"
	routeCapture  = "/api/pokemon/capture/{name}"
	routeRelease  = "/api/pokemon/release/{name}"
	routeHealth   = "/"
)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// NewClient builds a Client for the API served at baseURL ("host:port" or a
// full URL; any path is dropped).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized API origin.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ListQuery configures /api/pokemon requests.
type ListQuery struct {
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	Type      string
	Search    string
}

// Values encodes q the way the API expects. Type and search are only sent
// when set.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("pageSize", strconv.Itoa(q.PageSize))
	values.Set("sortBy", q.SortBy)
	values.Set("sortOrder", q.SortOrder)
	if q.Type != "" {
		values.Set("type", q.Type)
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	return values
}

// ListPokemon retrieves one page of pokemon.
func (c *Client) ListPokemon(ctx context.Context, query ListQuery) (Page, error) {
	if c == nil {
		return Page{}, fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: routeList, RawQuery: query.Values().Encode()}
	var payload ListResponse
	if err := c.doURL(ctx, http.MethodGet, routeList, rel, &payload); err != nil {
		return Page{}, err
	}
	page, corrected := payload.ToPage()
	if corrected {
		c.logger.Warn("list response violated page invariants",
			zap.Int("total", payload.Total),
			zap.Int("page_size", payload.PageSize),
			zap.Int("total_pages", payload.TotalPages),
			zap.Int("items", len(payload.Pokemon)),
		)
	}
	return page, nil
}

// ListTypes retrieves every distinct pokemon type.
func (c *Client) ListTypes(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []string
	if err := c.do(ctx, http.MethodGet, routeTypes, routeTypes, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// FetchCaptured retrieves the names of all captured pokemon.
func (c *Client) FetchCaptured(ctx context.Context) ([]string, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []string
	if err := c.do(ctx, http.MethodGet, routeCaptured, routeCaptured, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Capture marks the named pokemon as captured.
func (c *Client) Capture(ctx context.Context, name string) error {
	return c.mutate(ctx, routeCapture, "/api/pokemon/capture/", name)
}

// Release marks the named pokemon as not captured.
func (c *Client) Release(ctx context.Context, name string) error {
	return c.mutate(ctx, routeRelease, "/api/pokemon/release/", name)
}

// Ping checks that the API root answers.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodGet, routeHealth, routeHealth, nil)
}

func (c *Client) mutate(ctx context.Context, route, prefix, name string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("pokemon name required")
	}
	rel := &url.URL{Path: prefix + name, RawPath: prefix + url.PathEscape(name)}
	return c.doURL(ctx, http.MethodPost, route, rel, nil)
}

func (c *Client) do(ctx context.Context, method, route, path string, dest any) error {
	rel := &url.URL{Path: path}
	return c.doURL(ctx, method, route, rel, dest)
}

func (c *Client) doURL(ctx context.Context, method, route string, rel *url.URL, dest any) (err error) {
	start := time.Now()
	requestID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", route),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	requestsInFlight.WithLabelValues(route).Inc()
	defer requestsInFlight.WithLabelValues(route).Dec()

	code := 0
	defer func() {
		observeRequest(route, code, time.Since(start))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.Debug("api request failed",
				zap.String("method", method),
				zap.String("route", route),
				zap.String("request_id", requestID),
				zap.Duration("duration", time.Since(start)),
				zap.Error(err),
			)
			return
		}
		c.logger.Debug("api request completed",
			zap.String("method", method),
			zap.String("route", route),
			zap.String("request_id", requestID),
			zap.Duration("duration", time.Since(start)),
		)
	}()

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(requestIDHeader, requestID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	code = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", code))
	if code < 200 || code >= 300 {
		return &StatusError{Path: rel.Path, Code: code}
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api url %q: missing host", raw)
	}
	u.Path = ""
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
