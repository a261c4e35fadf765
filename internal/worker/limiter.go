package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter throttles remote source fetches per host. Local paths are never
// throttled.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.Mutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a per-host limiter. A non-positive rate disables
// throttling.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}

	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  limit,
		defaultBurst: burst,
	}
}

// Wait blocks until a fetch of source is allowed or ctx is done
func (l *Limiter) Wait(ctx context.Context, source string) error {
	host, err := hostOf(source)
	if err != nil {
		return err
	}
	if host == "" {
		return ctx.Err()
	}
	return l.limiterFor(host).Wait(ctx)
}

// Allow reports whether a fetch of source may happen now
func (l *Limiter) Allow(source string) bool {
	host, err := hostOf(source)
	if err != nil {
		return false
	}
	if host == "" {
		return true
	}
	return l.limiterFor(host).Allow()
}

// SetHostRate overrides the rate for one host, e.g. a slow mirror
func (l *Limiter) SetHostRate(host string, requestsPerSecond float64, burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = l.defaultBurst
	}
	l.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func (l *Limiter) limiterFor(host string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
		l.limiters[host] = limiter
	}
	return limiter
}

// hostOf returns the host of an http(s) source, or "" for local paths
func hostOf(source string) (string, error) {
	parsed, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("parse source: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", nil
	}
	return parsed.Host, nil
}
