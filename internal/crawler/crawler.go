package crawler

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
)

// Config controls where the Crawler looks for pages.
type Config struct {
	BaseURL string
}

// Crawler walks one year of the awards site: the winners page, then every
// entry page it links to, one request at a time.
type Crawler struct {
	cfg     Config
	fetcher Fetcher
	emitter progress.Emitter
	logger  *zap.Logger
}

// New constructs a Crawler.
func New(cfg Config, fetcher Fetcher, emitter progress.Emitter, logger *zap.Logger) *Crawler {
	if emitter == nil {
		emitter = progress.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Crawler{
		cfg:     cfg,
		fetcher: fetcher,
		emitter: emitter,
		logger:  logger,
	}
}

// Crawl returns one slot per entry URL discovered for the year. Fetch and
// parse failures become nil slots; only context cancellation is returned as
// an error, together with the slots filled so far. A cancelled crawl never
// reports YEAR_CRAWLED.
func (c *Crawler) Crawl(ctx context.Context, year int) (YearResult, error) {
	urls := c.EntryURLs(ctx, year)
	result := make(YearResult, 0, len(urls))
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("crawl %d: %w", year, err)
		}
		result = append(result, c.entry(ctx, year, url))
	}
	// A fetch cut short by cancellation looks like any other failed page.
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("crawl %d: %w", year, err)
	}
	c.emitter.Emit(ctx, progress.Event{Stage: progress.StageYearCrawled, Year: year, Count: len(result)})
	return result, nil
}

// EntryURLs loads the winners page for the year and extracts its entry
// links. Any failure yields an empty list.
func (c *Crawler) EntryURLs(ctx context.Context, year int) []string {
	listing := ListingURL(c.cfg.BaseURL, year)
	body, ok := c.load(ctx, year, listing)
	if !ok {
		c.emitter.Emit(ctx, progress.Event{
			Stage: progress.StageListingFailed,
			Year:  year,
			URL:   listing,
			Err:   fmt.Errorf("listing %s unavailable", listing),
		})
		return []string{}
	}
	urls, err := ExtractEntryURLs(body, EntryPrefix(c.cfg.BaseURL))
	if err != nil {
		c.emitter.Emit(ctx, progress.Event{Stage: progress.StageListingFailed, Year: year, URL: listing, Err: err})
		return []string{}
	}
	c.logger.Debug("entry urls discovered", zap.Int("year", year), zap.Int("count", len(urls)))
	return urls
}

func (c *Crawler) entry(ctx context.Context, year int, url string) *Entry {
	body, ok := c.load(ctx, year, url)
	if !ok {
		return nil
	}
	entry, err := ParseEntry(body, url, year)
	if err != nil {
		c.emitter.Emit(ctx, progress.Event{Stage: progress.StageParseFailed, Year: year, URL: url, Err: err})
		return nil
	}
	c.emitter.Emit(ctx, progress.Event{Stage: progress.StageEntryParsed, Year: year, URL: url})
	return entry
}

// load fetches url and decodes the body as UTF-8 text. A failure emits one
// FETCH_FAILED event and reports ok=false; it is never returned as an error.
func (c *Crawler) load(ctx context.Context, year int, url string) (string, bool) {
	resp, err := c.fetcher.Fetch(ctx, url)
	if err == nil && !utf8.Valid(resp.Body) {
		err = ErrInvalidEncoding
	}
	if err != nil {
		c.emitter.Emit(ctx, progress.Event{Stage: progress.StageFetchFailed, Year: year, URL: url, Err: err})
		return "", false
	}
	c.logger.Debug("page fetched",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.String("content_type", resp.Headers.Get("Content-Type")),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("duration", resp.Duration),
	)
	return string(resp.Body), true
}
