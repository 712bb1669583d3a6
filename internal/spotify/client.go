package spotify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"ifyoulike/internal/config"
	"ifyoulike/internal/logging"
	"ifyoulike/internal/services"
)

const (
	defaultAPIBaseURL    = "https://api.spotify.com/v1"
	defaultMarket        = "from_token"
	defaultTimeout       = 15 * time.Second
	defaultRetryCount    = 4
	defaultRetryWait     = time.Second
	defaultRetryMaxWait  = 10 * time.Second
	maxTrackIDsPerLookup = 50
	// MaxTracksPerAdd is the Web API limit for one add-items call.
	MaxTracksPerAdd = 100
)

// APIError is a non-2xx Web API response.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: spotify %s: http %d: %s", services.ErrExternal, e.Op, e.Status, msg)
}

func (e *APIError) Unwrap() error { return services.ErrExternal }

// Client talks to the Spotify Web API.
type Client struct {
	rest   *resty.Client
	market string
	logger *slog.Logger

	base         *http.Client
	tokenSource  oauth2.TokenSource
	retryWait    time.Duration
	retryMaxWait time.Duration

	userOnce sync.Once
	user     User
	userErr  error
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the transport used beneath the oauth2 layer.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.base = client
	}
}

// WithTokenSource replaces the refresh-token source built from configuration.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		c.tokenSource = ts
	}
}

// WithRetryWait overrides the retry backoff bounds.
func WithRetryWait(wait, maxWait time.Duration) Option {
	return func(c *Client) {
		c.retryWait = wait
		c.retryMaxWait = maxWait
	}
}

// WithLogger sets the client logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New builds a client authenticated with the configured refresh token.
func New(ctx context.Context, cfg config.Spotify, opts ...Option) (*Client, error) {
	c := &Client{
		market:       strings.TrimSpace(cfg.Market),
		retryWait:    defaultRetryWait,
		retryMaxWait: defaultRetryMaxWait,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.market == "" {
		c.market = defaultMarket
	}
	c.logger = logging.NewComponentLogger(c.logger, "spotify")

	if c.base != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.base)
	}
	if c.tokenSource == nil {
		if strings.TrimSpace(cfg.RefreshToken) == "" {
			return nil, services.Wrap(services.ErrConfiguration, "setup", "spotify", "refresh token is required", nil)
		}
		c.tokenSource = OAuthConfig(cfg).TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.APIBaseURL), "/")
	if baseURL == "" {
		baseURL = defaultAPIBaseURL
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	httpClient := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(nil, c.tokenSource))
	c.rest = resty.NewWithClient(httpClient).
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetRetryCount(defaultRetryCount).
		SetRetryWaitTime(c.retryWait).
		SetRetryMaxWaitTime(c.retryMaxWait).
		AddRetryCondition(shouldRetry).
		SetRetryAfter(c.retryAfter)
	return c, nil
}

func shouldRetry(resp *resty.Response, err error) bool {
	if err != nil {
		var netErr interface{ Timeout() bool }
		return errors.As(err, &netErr) && netErr.Timeout()
	}
	if resp == nil {
		return false
	}
	status := resp.StatusCode()
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// retryAfter honours the Retry-After header; zero falls back to resty's backoff.
func (c *Client) retryAfter(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
	if resp == nil {
		return 0, nil
	}
	value := strings.TrimSpace(resp.Header().Get("Retry-After"))
	if value == "" {
		return 0, nil
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 0 {
		return 0, nil
	}
	delay := time.Duration(seconds) * time.Second
	if delay > c.retryMaxWait {
		delay = c.retryMaxWait
	}
	c.logger.Debug("spotify rate limited", logging.Duration("retry_after", delay))
	return delay, nil
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, out any) error {
	resp, err := c.rest.R().SetContext(ctx).SetQueryParams(query).Get(path)
	return decodeResponse(op, resp, err, out)
}

func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	resp, err := c.rest.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(path)
	return decodeResponse(op, resp, err, out)
}

func decodeResponse(op string, resp *resty.Response, err error, out any) error {
	if err != nil {
		return services.Wrap(services.ErrExternal, "spotify", op, "request failed", err)
	}
	if resp.IsError() {
		apiErr := &APIError{Op: op, Status: resp.StatusCode()}
		var payload errorResponse
		if json.Unmarshal(resp.Body(), &payload) == nil {
			apiErr.Message = payload.Error.Message
		}
		return apiErr
	}
	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return services.Wrap(services.ErrExternal, "spotify", op, "decode response", err)
	}
	return nil
}
