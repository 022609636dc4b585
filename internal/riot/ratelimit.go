package riot

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRateLimitRequests = 1900
	defaultRateLimitBurst    = 50
	defaultRateLimitWindow   = 10 * time.Second
)

// Limiter throttles outgoing requests with a set of default windows plus
// optional per-endpoint windows, and honors server-issued Retry-After pauses.
type Limiter struct {
	mu        sync.RWMutex
	defaults  []*rate.Limiter
	endpoints []endpointLimiter

	pauseMu     sync.RWMutex
	pausedUntil time.Time
}

type endpointLimiter struct {
	prefix   string
	limiters []*rate.Limiter
}

type rateLimitWindow struct {
	Requests int
	Window   time.Duration
	Burst    int
}

func NewLimiter() *Limiter {
	return &Limiter{
		defaults: []*rate.Limiter{newRateLimiter(defaultRateLimitRequests, defaultRateLimitWindow, defaultRateLimitBurst)},
	}
}

// Wait blocks until every limiter matching the endpoint allows one request.
func (l *Limiter) Wait(ctx context.Context, endpoint string) error {
	if l == nil {
		return nil
	}
	if wait := l.pauseRemaining(); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	for _, limiter := range l.forEndpoint(endpoint) {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (l *Limiter) pauseRemaining() time.Duration {
	l.pauseMu.RLock()
	defer l.pauseMu.RUnlock()
	return time.Until(l.pausedUntil)
}

// PauseFor stops all requests for d, extending any pause already in effect.
func (l *Limiter) PauseFor(d time.Duration) {
	if l == nil || d <= 0 {
		return
	}
	l.pauseMu.Lock()
	if newUntil := time.Now().Add(d); newUntil.After(l.pausedUntil) {
		l.pausedUntil = newUntil
	}
	l.pauseMu.Unlock()
}

func (l *Limiter) apply(defaultWindows []rateLimitWindow, endpoints map[string][]rateLimitWindow) error {
	compiledDefaults, err := compileLimiters(defaultWindows)
	if err != nil {
		return fmt.Errorf("compile default limiters: %w", err)
	}
	if len(compiledDefaults) == 0 {
		compiledDefaults = []*rate.Limiter{newRateLimiter(defaultRateLimitRequests, defaultRateLimitWindow, defaultRateLimitBurst)}
	}

	compiledEndpoints := make([]endpointLimiter, 0, len(endpoints))
	for prefix, windows := range endpoints {
		compiled, err := compileLimiters(windows)
		if err != nil {
			return fmt.Errorf("compile endpoint limiter %q: %w", prefix, err)
		}
		if len(compiled) == 0 {
			continue
		}
		compiledEndpoints = append(compiledEndpoints, endpointLimiter{prefix: prefix, limiters: compiled})
	}
	// Longest prefix wins.
	slices.SortFunc(compiledEndpoints, func(a, b endpointLimiter) int {
		return cmp.Compare(len(b.prefix), len(a.prefix))
	})

	l.mu.Lock()
	l.defaults = compiledDefaults
	l.endpoints = compiledEndpoints
	l.mu.Unlock()
	return nil
}

func (l *Limiter) forEndpoint(endpoint string) []*rate.Limiter {
	path := endpointPath(endpoint)

	l.mu.RLock()
	defer l.mu.RUnlock()

	selected := slices.Clone(l.defaults)
	if path == "" || len(l.endpoints) == 0 {
		return selected
	}
	for _, entry := range l.endpoints {
		if pathMatchesPrefix(path, entry.prefix) {
			selected = append(selected, entry.limiters...)
			break
		}
	}
	return selected
}

func compileLimiters(windows []rateLimitWindow) ([]*rate.Limiter, error) {
	if len(windows) == 0 {
		return nil, nil
	}
	limiters := make([]*rate.Limiter, 0, len(windows))
	for _, window := range windows {
		if window.Requests <= 0 || window.Window <= 0 {
			return nil, fmt.Errorf("invalid limiter window: requests=%d window=%s", window.Requests, window.Window)
		}
		burst := window.Burst
		if burst <= 0 {
			burst = max(min(window.Requests, defaultRateLimitBurst), 1)
		}
		limiters = append(limiters, newRateLimiter(window.Requests, window.Window, burst))
	}
	return limiters, nil
}

func newRateLimiter(requests int, window time.Duration, burst int) *rate.Limiter {
	return rate.NewLimiter(rate.Every(window/time.Duration(requests)), burst)
}

func endpointPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Path
}

func pathMatchesPrefix(path, prefix string) bool {
	if path == "" || prefix == "" {
		return false
	}
	if strings.HasSuffix(prefix, "/") {
		return strings.HasPrefix(path, prefix)
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
