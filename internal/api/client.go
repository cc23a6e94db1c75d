package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	rerrors "github.com/felixgeelhaar/rcup/internal/errors"
	"github.com/felixgeelhaar/rcup/internal/log"
	"github.com/felixgeelhaar/rcup/internal/metrics"
	"github.com/felixgeelhaar/rcup/internal/token"
)

// DefaultBaseURL is used when no API URL is configured.
const DefaultBaseURL = "http://localhost:8000/api"

// DefaultTimeout bounds a single request when Options.Timeout is zero.
const DefaultTimeout = 30 * time.Second

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Store      *token.Store
	Navigator  Navigator
	Logger     *log.Logger
	Metrics    *metrics.Metrics
	UserAgent  string
}

// Client is the Russian Cup API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	pipeline   *Pipeline
	store      *token.Store
	logger     *log.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a new API client. The pipeline is composed here and
// shared by every request the client issues.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	logger = logger.WithComponent("api")

	store := opts.Store
	if store == nil {
		store = token.NewStore(token.NewMemorySlot(), nil, logger)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		pipeline:   NewPipeline(store, opts.Navigator, logger, opts.Metrics, opts.UserAgent),
		store:      store,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// BaseURL returns the API base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Store returns the credential store the pipeline reads from.
func (c *Client) Store() *token.Store {
	return c.store
}

// Pipeline returns the request pipeline.
func (c *Client) Pipeline() *Pipeline {
	return c.pipeline
}

// do performs a request through the pipeline and decodes a 2xx JSON body
// into target. path is relative to the base URL.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body *payload, target any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = body.reader
	}
	ctx = log.WithRequestID(ctx, uuid.NewString())
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", body.contentType)
	}
	req.Header.Set("Accept", "application/json")
	req = c.pipeline.BeforeSend(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordTransportError(method, elapsed)
		return c.pipeline.OnError(ctx, path, transportError(ctx, method, fullURL, err))
	}
	defer resp.Body.Close()
	c.metrics.RecordRequest(method, resp.StatusCode, elapsed)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return c.pipeline.OnError(ctx, path, transportError(ctx, method, fullURL, err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.pipeline.OnError(ctx, path, &APIError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Detail:     parseDetail(data),
			Body:       data,
		})
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return rerrors.Wrap(rerrors.ErrCodeDecode, fmt.Sprintf("failed to decode %s %s response", method, path), err)
	}
	return nil
}

// transportError classifies a failure where no response was received.
func transportError(ctx context.Context, method, fullURL string, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return rerrors.Wrap(rerrors.ErrCodeTimeout, fmt.Sprintf("%s %s timed out", method, fullURL), err).
			WithSuggestion("Increase RCUP_HTTP_TIMEOUT or check the API server load")
	}
	return rerrors.NewNetworkError(method, fullURL, err)
}

// Ping checks that the API answers by listing a single event.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "GET", "/events", url.Values{"limit": {"1"}}, nil, nil)
}
