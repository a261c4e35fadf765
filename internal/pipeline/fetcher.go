package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/minthub/mintassist/internal/cache"
	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/util"
	"github.com/minthub/mintassist/internal/worker"
)

var (
	// ErrUnexpectedStatus wraps non-2xx responses
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrDisallowed is returned when robots.txt forbids fetching a source
	ErrDisallowed = errors.New("disallowed by robots.txt")

	// ErrTooLarge is returned when a source exceeds the configured size
	ErrTooLarge = errors.New("source too large")
)

// fetchSleepFunc waits out a retry backoff or until ctx is done.
// Tests swap it out.
var fetchSleepFunc = sleepContext

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

// StatusError carries the HTTP status of a failed fetch
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: %d %s", ErrUnexpectedStatus, e.Code, e.Status)
}

// Unwrap lets errors.Is match ErrUnexpectedStatus
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}

// Fetcher loads knowledge base and catalog sources from local files or
// http(s) URLs
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	maxRetries int
	cache      cache.Cache
	limiter    *worker.Limiter
	robots     *util.RobotsChecker
	logger     *zap.Logger

	delayedMu sync.Mutex
	delayed   map[string]bool
}

// FetcherOption configures a Fetcher
type FetcherOption func(*Fetcher)

// WithCache stores successful remote fetches in c
func WithCache(c cache.Cache) FetcherOption {
	return func(f *Fetcher) {
		if c != nil {
			f.cache = c
		}
	}
}

// WithLimiter throttles remote fetches per host
func WithLimiter(l *worker.Limiter) FetcherOption {
	return func(f *Fetcher) {
		if l != nil {
			f.limiter = l
		}
	}
}

// WithFetchLogger sets the logger
func WithFetchLogger(logger *zap.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a fetcher from the HTTP settings
func NewFetcher(cfg model.HTTPConfig, opts ...FetcherOption) *Fetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	client := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 3 {
				return fmt.Errorf("stopped after 3 redirects")
			}
			return nil
		},
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: cfg.MaxRetries,
		cache:      cache.Noop{},
		limiter:    worker.NewLimiter(0, 1),
		logger:     zap.NewNop(),
		delayed:    make(map[string]bool),
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(client, cfg.UserAgent)
	}

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchResult is one loaded source
type FetchResult struct {
	Data        []byte
	Source      string
	ContentType string
	FromCache   bool
}

// Fetch loads source once. Local paths are read from disk; URLs go through
// the cache, robots.txt and the per-host limiter.
func (f *Fetcher) Fetch(ctx context.Context, source string) (*FetchResult, error) {
	if !isRemote(source) {
		return f.readFile(source)
	}

	key := cache.SourceKey(source)
	if data, ok := f.cache.Get(key); ok {
		f.logger.Debug("source cache hit", zap.String("source", source))
		return &FetchResult{Data: data, Source: source, FromCache: true}, nil
	}

	if err := f.checkRobots(ctx, source); err != nil {
		return nil, err
	}

	if err := f.limiter.Wait(ctx, source); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json, application/yaml, application/toml, text/html;q=0.8, */*;q=0.5")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := f.readLimited(resp.Body)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(key, body, 0); err != nil {
		f.logger.Warn("cache store failed", zap.String("source", source), zap.Error(err))
	}

	return &FetchResult{
		Data:        body,
		Source:      resp.Request.URL.String(),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// FetchWithRetry retries transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, source string) (*FetchResult, error) {
	attempts := f.maxRetries
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			f.logger.Debug("retrying fetch",
				zap.String("source", source),
				zap.Int("attempt", i+1),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr),
			)
			if err := fetchSleepFunc(ctx, backoff); err != nil {
				return nil, err
			}
		}

		result, err := f.Fetch(ctx, source)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func (f *Fetcher) readFile(path string) (*FetchResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := f.readLimited(file)
	if err != nil {
		return nil, err
	}
	return &FetchResult{Data: data, Source: path}, nil
}

func (f *Fetcher) readLimited(r io.Reader) ([]byte, error) {
	if f.maxBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, f.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return data, nil
}

// checkRobots enforces robots.txt and turns a crawl delay into a host rate
func (f *Fetcher) checkRobots(ctx context.Context, source string) error {
	if f.robots == nil {
		return nil
	}

	allowed, delay, err := f.robots.CanFetch(ctx, source)
	if err != nil {
		return fmt.Errorf("robots: %w", err)
	}
	if !allowed {
		return fmt.Errorf("%w: %s", ErrDisallowed, source)
	}

	if delay > 0 {
		u, _ := url.Parse(source)
		f.delayedMu.Lock()
		if !f.delayed[u.Host] {
			f.delayed[u.Host] = true
			f.limiter.SetHostRate(u.Host, 1/delay.Seconds(), 1)
		}
		f.delayedMu.Unlock()
	}
	return nil
}

// isRetryableFetchError reports whether err is a 5xx, a 429 or a
// transport failure
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
