// Package api is the HTTP client for the document-analysis backend.
// Every response body is validated by the schema package before a typed value is returned.
package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/Veraticus/meddoc/internal/common"
	"github.com/Veraticus/meddoc/internal/metrics"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Operation names used in errors, logs and metrics.
const (
	OpUploadDocument     = "upload_document"
	OpListDocuments      = "list_documents"
	OpGetDocument        = "get_document"
	OpTranslate          = "translate"
	OpChat               = "chat"
	OpExtractMedications = "extract_medications"
	OpCheckInteractions  = "check_interactions"
	OpActionItems        = "action_items"
	OpLatestEvalReport   = "latest_eval_report"
)

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	HTTPClient          *http.Client
	Metrics             *metrics.ClientMetrics
	BaseURL             string
	Timeout             time.Duration
	RetryDelay          time.Duration
	BreakerCooldown     time.Duration
	RetryAttempts       int
	AIRequestsPerMinute int
	BreakerFailures     uint32
}

// Client talks to one backend chosen at construction time.
type Client struct {
	httpClient *http.Client
	metrics    *metrics.ClientMetrics
	limiter    *rate.Limiter
	reads      *gobreaker.CircuitBreaker[[]byte]
	baseURL    string
	timeout    time.Duration
	retry      common.RetryOptions
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	// AI endpoints can run for minutes, so the shared client has no timeout.
	// Reads get a per-request deadline instead.
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	retry := common.DefaultRetryOptions()
	retry.MaxAttempts = cfg.RetryAttempts
	if cfg.RetryDelay > 0 {
		retry.InitialDelay = cfg.RetryDelay
	}

	c := &Client{
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		limiter:    newLimiter(cfg.AIRequestsPerMinute),
		baseURL:    baseURL,
		timeout:    cfg.Timeout,
		retry:      retry,
	}
	c.reads = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "backend-reads",
		MaxRequests: 1,
		Timeout:     cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !IsTransport(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
			c.metrics.SetBreakerOpen(name, to == gobreaker.StateOpen)
		},
	})

	return c, nil
}

// BaseURL returns the normalized backend URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultBaseURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: api base url %q: %v", common.ErrInvalidConfig, raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: api base url %q must use http or https", common.ErrInvalidConfig, raw)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: api base url %q has no host", common.ErrInvalidConfig, raw)
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// newLimiter spreads AI calls evenly across a minute with a small burst.
// A non-positive rate disables limiting.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}
