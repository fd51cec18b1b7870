// Package client provides the core Springboard Retail HTTP client: tenant
// addressing, bearer authentication, page fetching with bounded retry, and
// error classification.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/retailkit/springboard-client/pkg/logging"
)

// Prometheus metrics for Springboard client operations.
var (
	sbRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "springboard_requests_total",
		Help: "Total Springboard requests by path and status",
	}, []string{"path", "status"})

	sbRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "springboard_request_duration_seconds",
		Help:    "Springboard page fetch duration in seconds by path",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"path"})

	sbErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "springboard_errors_total",
		Help: "Total Springboard fetch errors by class",
	}, []string{"class"})
)

// Tenant identifies one Springboard instance and the credential used to
// access it. It is a plain value owned by the caller; the client never
// mutates or stores it.
type Tenant struct {
	// Subdomain of the instance, e.g. "acme" for acme.myspringboard.us.
	Subdomain string

	// Token is the bearer credential for the instance.
	Token string
}

// BaseURL returns the API root for the tenant.
func (t Tenant) BaseURL() string {
	return fmt.Sprintf("https://%s.myspringboard.us/api", t.Subdomain)
}

// Page is one fetched page of a collection. Records are opaque to the
// client and passed through in arrival order. TotalPages reflects the
// collection's size at fetch time only; the collection may grow or shrink
// between fetches.
type Page struct {
	Records    []json.RawMessage
	TotalPages int
}

// envelope is the wire shape of a Springboard collection response.
type envelope struct {
	Results []json.RawMessage `json:"results"`
	Pages   int               `json:"pages"`
	Error   string            `json:"error"`
}

// Config holds the client configuration.
type Config struct {
	// UserAgent header sent with every request.
	UserAgent string

	// Timeout per HTTP request.
	Timeout time.Duration

	// Retry controls the bounded retry of transport failures.
	Retry RetryConfig

	// BaseURL overrides the per-tenant API root when non-empty. Intended
	// for tests against local servers; production callers leave it empty.
	BaseURL string
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		UserAgent: "springboard-client/0.1.0",
		Timeout:   30 * time.Second,
		Retry:     DefaultRetryConfig(),
	}
}

// Client fetches pages of Springboard collections.
type Client struct {
	httpClient *http.Client
	config     Config
	logger     zerolog.Logger
}

// New creates a new Springboard client. Zero config fields fall back to the
// defaults from DefaultConfig.
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if cfg.Retry.InitialBackoff <= 0 {
		cfg.Retry.InitialBackoff = def.Retry.InitialBackoff
	}
	if cfg.Retry.MaxBackoff <= 0 {
		cfg.Retry.MaxBackoff = def.Retry.MaxBackoff
	}
	if cfg.Retry.BackoffMultiplier <= 0 {
		cfg.Retry.BackoffMultiplier = def.Retry.BackoffMultiplier
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		config: cfg,
		logger: logging.NewLogger("springboard-client"),
	}
}

// FetchPage fetches one page of the collection at path for the tenant.
// Transport failures are retried up to the configured attempt bound and
// surface as *TransportError on exhaustion; an error field in the response
// body surfaces immediately as *RemoteError.
func (c *Client) FetchPage(ctx context.Context, tenant Tenant, path string, page int) (*Page, error) {
	url := c.pageURL(tenant, path, page)

	start := time.Now()
	defer func() {
		sbRequestDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	c.logger.Debug().
		Str("subdomain", tenant.Subdomain).
		Str("path", path).
		Int("page", page).
		Msg("Fetching page")

	var result *Page
	attempts, err := retryWithBackoff(ctx, c.config.Retry, classifyError, func() error {
		p, ferr := c.fetchOnce(ctx, tenant, url, path, page)
		if ferr != nil {
			return ferr
		}
		result = p
		return nil
	})
	if err != nil {
		var remote *RemoteError
		if errors.As(err, &remote) {
			sbErrorsTotal.WithLabelValues(string(ErrorClassRemote)).Inc()
			c.logger.Warn().
				Str("path", path).
				Int("page", page).
				Str("message", remote.Message).
				Msg("Remote error in response body")
			return nil, remote
		}
		if errors.Is(err, ErrContextCancelled) {
			return nil, err
		}

		class := classifyError(err)
		sbErrorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Error().
			Err(err).
			Str("path", path).
			Int("page", page).
			Str("error_class", string(class)).
			Int("attempts", attempts).
			Msg("Page fetch failed")
		return nil, &TransportError{
			Subdomain: tenant.Subdomain,
			Path:      path,
			Page:      page,
			Class:     class,
			Attempts:  attempts,
			Err:       err,
		}
	}

	c.logger.Debug().
		Str("path", path).
		Int("page", page).
		Int("records", len(result.Records)).
		Int("total_pages", result.TotalPages).
		Msg("Page fetched")

	return result, nil
}

// fetchOnce performs a single GET attempt and decodes the envelope.
func (c *Client) fetchOnce(ctx context.Context, tenant Tenant, url, path string, page int) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+tenant.Token)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		sbRequestsTotal.WithLabelValues(path, "network_error").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	sbRequestsTotal.WithLabelValues(path, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= 400 {
		return nil, &statusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Error != "" {
		return nil, &RemoteError{
			Subdomain: tenant.Subdomain,
			Path:      path,
			Page:      page,
			Message:   env.Error,
		}
	}

	return &Page{Records: env.Results, TotalPages: env.Pages}, nil
}

// pageURL joins the tenant API root, the collection path, and the page
// number. The page parameter is appended with & when the path already
// carries a query string.
func (c *Client) pageURL(tenant Tenant, path string, page int) string {
	base := c.config.BaseURL
	if base == "" {
		base = tenant.BaseURL()
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s/%s%spage=%d",
		strings.TrimRight(base, "/"), strings.TrimLeft(path, "/"), sep, page)
}

// classifyError categorizes a fetch failure for retry decisions and
// observability.
func classifyError(err error) ErrorClass {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return ErrorClassRemote
	}
	var status *statusError
	if errors.As(err, &status) {
		if status.StatusCode >= 500 {
			return ErrorClassServer
		}
		return ErrorClassClient
	}
	return ErrorClassNetwork
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
