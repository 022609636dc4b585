package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	defaultUserAgent   = "League-API-datastore/1.0"
	defaultHTTPTimeout = 15 * time.Second
	maxRetryAttempts   = 3
	retryBaseDelay     = time.Second
	retryMaxDelay      = 30 * time.Second
)

var ErrAPIKeyRequired = errors.New("riot api key is required")

type HTTPStatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "riot request failed"
	}
	return fmt.Sprintf("request %s failed: status %d body %q", e.URL, e.StatusCode, e.Body)
}

// IsNotFound reports whether err carries a 404 from the API.
func IsNotFound(err error) bool {
	statusErr, ok := errors.AsType[*HTTPStatusError](err)
	return ok && statusErr.StatusCode == http.StatusNotFound
}

// RequestObserver receives one call per finished HTTP attempt.
type RequestObserver interface {
	ObserveRequest(endpoint string, statusCode int, elapsed time.Duration)
}

type Client struct {
	apiKey     string
	httpClient *http.Client
	limiter    *Limiter
	baseURL    string
	observer   RequestObserver
	logger     *slog.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLimiter(limiter *Limiter) Option {
	return func(c *Client) {
		if limiter != nil {
			c.limiter = limiter
		}
	}
}

// WithBaseURL routes every platform to one host. Used for mirrors and tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
}

func WithObserver(observer RequestObserver) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}
	c := &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    NewLimiter(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) platformURL(platform Platform, path string) string {
	if c.baseURL != "" {
		return c.baseURL + path
	}
	return fmt.Sprintf("https://%s.api.riotgames.com%s", platform.Host(), path)
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	var lastErr error
	for attempt := range maxRetryAttempts {
		if attempt > 0 {
			backoff := min(retryBaseDelay*time.Duration(1<<uint(attempt)), retryMaxDelay)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
			c.logger.Debug("Retrying riot request", "endpoint", endpoint, "attempt", attempt+1, "error", lastErr)
		}

		if err := c.limiter.Wait(ctx, endpoint); err != nil {
			return err
		}

		statusErr, err := c.do(ctx, endpoint, target)
		if err == nil && statusErr == nil {
			return nil
		}
		if err != nil {
			if isRetryableRequestError(err) {
				lastErr = err
				continue
			}
			return err
		}
		if !isRetryable(statusErr.StatusCode) {
			return statusErr
		}
		lastErr = statusErr
	}
	return lastErr
}

func (c *Client) do(ctx context.Context, endpoint string, target any) (*HTTPStatusError, error) {
	if target == nil {
		return nil, fmt.Errorf("target is nil")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("X-Riot-Token", c.apiKey)

	startedAt := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(endpoint, 0, time.Since(startedAt))
		return nil, fmt.Errorf("request %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.observe(endpoint, resp.StatusCode, time.Since(startedAt))

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return nil, fmt.Errorf("decode %s: %w", endpoint, err)
		}
		return nil, nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	statusErr := &HTTPStatusError{URL: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.PauseFor(parseRetryAfter(resp))
	}
	return statusErr, nil
}

func (c *Client) observe(endpoint string, status int, elapsed time.Duration) {
	if c.observer == nil {
		return
	}
	c.observer.ObserveRequest(endpointPath(endpoint), status, elapsed)
}

func isRetryable(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests ||
		statusCode == http.StatusInternalServerError ||
		statusCode == http.StatusBadGateway ||
		statusCode == http.StatusServiceUnavailable ||
		statusCode == http.StatusGatewayTimeout
}

func isRetryableRequestError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	_, ok := errors.AsType[net.Error](err)
	return ok
}

func parseRetryAfter(resp *http.Response) time.Duration {
	val := resp.Header.Get("Retry-After")
	if val == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(val); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(val); err == nil {
		return time.Until(t)
	}
	return 0
}
