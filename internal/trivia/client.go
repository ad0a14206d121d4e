package trivia

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robalobadob/jeopardy/internal/game"
	"github.com/robalobadob/jeopardy/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	userAgent      = "jeopardy-board/1.0"
	tracerName     = "github.com/robalobadob/jeopardy/internal/trivia"

	// maxBodyBytes bounds a single provider response.
	maxBodyBytes = 4 << 20
)

// Client is an HTTP Provider for a jService-compatible API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	metrics    *metrics.Metrics
	tracer     trace.Tracer
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client (useful in tests).
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each individual provider request.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics records request counts and latency.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a provider client rooted at baseURL
// (e.g. "https://jservice.io/api").
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Categories fetches the candidate pool.
func (c *Client) Categories(ctx context.Context, count int) ([]CategorySummary, error) {
	var out []CategorySummary
	q := url.Values{"count": {strconv.Itoa(count)}}
	if err := c.getJSON(ctx, "categories", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Category fetches one category with its clues.
func (c *Client) Category(ctx context.Context, id CategoryID) (*RawCategory, error) {
	var out RawCategory
	q := url.Values{"id": {id.String()}}
	if err := c.getJSON(ctx, "category", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// getJSON performs GET {base}/{endpoint}?{query} and decodes the body into out.
// Every failure is reported as game.ErrProviderUnavailable.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "trivia."+endpoint, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("trivia.endpoint", endpoint), attribute.String("trivia.query", query.Encode()))

	start := time.Now()
	defer func() {
		outcome := metrics.OutcomeOK
		if err != nil {
			outcome = metrics.OutcomeError
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		c.metrics.ObserveProvider(endpoint, outcome, time.Since(start))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := c.baseURL + "/" + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("%w: creating request: %w", game.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", game.ErrProviderUnavailable, endpoint, err)
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return fmt.Errorf("%w: GET %s: status %d", game.ErrProviderUnavailable, endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %w", game.ErrProviderUnavailable, endpoint, err)
	}
	return nil
}
