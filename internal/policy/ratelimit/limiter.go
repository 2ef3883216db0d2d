// Package ratelimit paces page fetches per host with a token bucket.
package ratelimit

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	"github.com/JakeFAU/oja-awards-crawler/internal/crawler"
)

// Config holds rate limiter configuration. A non-positive RPS disables pacing.
type Config struct {
	RPS   float64
	Burst int
}

// Limiter manages one bucket per host.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

// New creates a new Limiter.
func New(cfg Config) *Limiter {
	limit := rate.Limit(cfg.RPS)
	if cfg.RPS <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

// Wait blocks until a token is available for the URL's host or ctx ends.
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host := "unknown"
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		host = u.Hostname()
	}
	l.mu.Lock()
	limiter, ok := l.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[host] = limiter
	}
	l.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	return nil
}

// Fetcher paces an underlying crawler.Fetcher.
type Fetcher struct {
	next    crawler.Fetcher
	limiter *Limiter
}

// Wrap returns next unchanged when pacing is disabled.
func Wrap(next crawler.Fetcher, cfg Config) crawler.Fetcher {
	if cfg.RPS <= 0 {
		return next
	}
	return &Fetcher{next: next, limiter: New(cfg)}
}

// Fetch waits for a token and then delegates.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (crawler.FetchResponse, error) {
	if err := f.limiter.Wait(ctx, rawURL); err != nil {
		return crawler.FetchResponse{}, err
	}
	return f.next.Fetch(ctx, rawURL)
}
