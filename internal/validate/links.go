// Package validate checks that catalog download links still resolve.
package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/minthub/mintassist/internal/model"
	"github.com/minthub/mintassist/internal/util"
	"github.com/minthub/mintassist/internal/worker"
)

const checkMaxRetries = 3

// checkSleepFunc is the sleep function used between retries (injectable for tests)
var checkSleepFunc = time.Sleep

// LinkChecker checks download links concurrently
type LinkChecker struct {
	httpClient *http.Client
	userAgent  string
	maxWorkers int
	limiter    *worker.Limiter
}

// NewLinkChecker creates a link checker. A nil limiter does not throttle.
func NewLinkChecker(cfg model.HTTPConfig, maxWorkers int, limiter *worker.Limiter) *LinkChecker {
	if maxWorkers <= 0 {
		maxWorkers = 20
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)

	return &LinkChecker{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent:  cfg.UserAgent,
		maxWorkers: maxWorkers,
		limiter:    limiter,
	}
}

// Check checks the link of every file. Results keep the order of files.
func (c *LinkChecker) Check(ctx context.Context, files []model.FileRecord) []model.LinkStatus {
	results := make([]model.LinkStatus, len(files))
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, c.maxWorkers)

	for i, f := range files {
		wg.Add(1)
		go func(idx int, f model.FileRecord) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				results[idx] = model.LinkStatus{FileID: f.ID, URL: f.Link, Error: "context cancelled"}
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = c.checkWithRetry(ctx, f)
		}(i, f)
	}

	wg.Wait()
	return results
}

// checkSingle checks one link. HEAD is tried first; servers that refuse it
// get a GET whose body is discarded.
func (c *LinkChecker) checkSingle(ctx context.Context, f model.FileRecord) (model.LinkStatus, error) {
	result := model.LinkStatus{FileID: f.ID, URL: f.Link}

	if !strings.HasPrefix(f.Link, "http://") && !strings.HasPrefix(f.Link, "https://") {
		result.Error = "not an http link"
		result.Dead = true
		return result, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, f.Link); err != nil {
			result.Error = fmt.Sprintf("rate limit: %v", err)
			return result, nil
		}
	}

	resp, err := c.do(ctx, http.MethodHead, f.Link)
	if err == nil && (resp.StatusCode == http.StatusMethodNotAllowed || resp.StatusCode == http.StatusNotImplemented) {
		_ = resp.Body.Close()
		resp, err = c.do(ctx, http.MethodGet, f.Link)
	}
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Dead = ctx.Err() == nil
		return result, err
	}
	defer func() { _ = resp.Body.Close() }()

	result.StatusCode = resp.StatusCode

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 400:
		result.Accessible = true
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		result.Dead = true
	}

	if final := resp.Request.URL.String(); final != f.Link {
		result.RedirectURL = final
	}

	return result, nil
}

func (c *LinkChecker) do(ctx context.Context, method, link string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, link, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.httpClient.Do(req)
}

// checkWithRetry retries transient failures with exponential backoff
func (c *LinkChecker) checkWithRetry(ctx context.Context, f model.FileRecord) model.LinkStatus {
	var result model.LinkStatus
	for attempt := 0; attempt < checkMaxRetries; attempt++ {
		var err error
		result, err = c.checkSingle(ctx, f)
		if !isRetryable(result, err) {
			return result
		}
		if attempt < checkMaxRetries-1 {
			if ctx.Err() != nil {
				return result
			}
			checkSleepFunc(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}
	return result
}

// isRetryable reports whether a check failed transiently
func isRetryable(result model.LinkStatus, err error) bool {
	// Retry on 5xx server errors and 429 rate limit
	if result.StatusCode >= 500 && result.StatusCode < 600 || result.StatusCode == http.StatusTooManyRequests {
		return true
	}
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// Dead returns the statuses whose link is dead
func Dead(results []model.LinkStatus) []model.LinkStatus {
	var dead []model.LinkStatus
	for _, r := range results {
		if r.Dead {
			dead = append(dead, r)
		}
	}
	return dead
}
