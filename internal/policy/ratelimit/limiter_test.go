package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/oja-awards-crawler/internal/crawler"
)

func TestLimiterWaitPacesSameHost(t *testing.T) {
	t.Parallel()

	// 10 RPS with burst 1 leaves ~100ms between tokens.
	l := New(Config{RPS: 10, Burst: 1})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "https://awards.journalists.org/winners/2020/"))
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://awards.journalists.org/entries/a/"))
	assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
}

func TestLimiterHostsAreIndependent(t *testing.T) {
	t.Parallel()

	l := New(Config{RPS: 1, Burst: 1})
	ctx := context.Background()

	require.NoError(t, l.Wait(ctx, "https://a.example/1"))
	start := time.Now()
	require.NoError(t, l.Wait(ctx, "https://b.example/1"))
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	t.Parallel()

	l := New(Config{RPS: 0.1, Burst: 1})
	require.NoError(t, l.Wait(context.Background(), "https://a.example/1"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	require.Error(t, l.Wait(ctx, "https://a.example/2"))
}

type countingFetcher struct {
	calls int
}

func (c *countingFetcher) Fetch(_ context.Context, url string) (crawler.FetchResponse, error) {
	c.calls++
	return crawler.FetchResponse{URL: url, StatusCode: 200}, nil
}

func TestWrap(t *testing.T) {
	t.Parallel()

	inner := &countingFetcher{}
	assert.Same(t, inner, Wrap(inner, Config{}), "pacing disabled returns the fetcher as is")

	paced := Wrap(inner, Config{RPS: 100, Burst: 2})
	require.IsType(t, &Fetcher{}, paced)
	resp, err := paced.Fetch(context.Background(), "https://a.example/x")
	require.NoError(t, err)
	assert.Equal(t, "https://a.example/x", resp.URL)
	assert.Equal(t, 1, inner.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	slow := Wrap(inner, Config{RPS: 0.01, Burst: 1})
	_, err = slow.Fetch(context.Background(), "https://a.example/y")
	require.NoError(t, err)
	_, err = slow.Fetch(ctx, "https://a.example/z")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}
