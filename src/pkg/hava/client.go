package hava

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

var logger = log.WithField("package", "hava")

const (
	DefaultBaseURL        = "https://api.hava.io"
	DefaultJobTimeout     = 360000 * time.Millisecond
	DefaultPollInterval   = 1000 * time.Millisecond
	DefaultRequestTimeout = 30 * time.Second
	DefaultRateLimit      = 10.0
	DefaultRateBurst      = 5
)

// ClientConfig configures the Hava API client
type ClientConfig struct {
	// BaseURL of the API, empty means DefaultBaseURL
	BaseURL string
	// Token is sent as a bearer token on every API request
	Token string

	RequestTimeout time.Duration
	JobTimeout     time.Duration
	PollInterval   time.Duration

	// RateLimit in requests per second and RateBurst pace all calls made by the client
	RateLimit float64
	RateBurst int

	// Transport is the base round tripper, nil means http.DefaultTransport
	Transport http.RoundTripper
}

// Client talks to the Hava REST API.
// Each pipeline run owns its own Client.
type Client struct {
	config ClientConfig

	api      *http.Client // authenticated, follows redirects
	jobs     *http.Client // authenticated, never follows redirects
	download *http.Client // unauthenticated
	limiter  *rate.Limiter

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a Client, zero values in cfg are replaced with defaults
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = DefaultJobTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = DefaultRateLimit
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = DefaultRateBurst
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	authTransport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
		Base:   base,
	}

	return &Client{
		config: cfg,
		api: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: authTransport,
		},
		jobs: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: authTransport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		download: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: base,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		now:     time.Now,
		sleep:   sleepContext,
	}
}

// Config returns the effective configuration
func (c *Client) Config() ClientConfig {
	return c.config
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// response is a fully read HTTP response
type response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *response) decode(target any) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}

func (c *Client) url(format string, args ...any) string {
	return c.config.BaseURL + fmt.Sprintf(format, args...)
}

// do sends a request with hc and reads the whole body
func (c *Client) do(ctx context.Context, hc *http.Client, method, url string, body any) (*response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.WithField("method", method).WithField("url", url).Debug("Sending request")
	resp, err := hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	logger.WithField("url", url).WithField("statusCode", resp.StatusCode).Debug("Received response")

	return &response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
