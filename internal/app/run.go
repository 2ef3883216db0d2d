package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/crawler"
	"github.com/JakeFAU/oja-awards-crawler/internal/notifier/slack"
	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
)

// DefaultYears are the award years processed by a run, newest first.
var DefaultYears = []int{2020, 2019, 2018, 2017, 2016, 2015, 2014}

const jsonContentType = "application/json"

// YearCrawler produces the result set for one awards year.
type YearCrawler interface {
	Crawl(ctx context.Context, year int) (crawler.YearResult, error)
}

// BlobStore persists one object per path, replacing earlier versions.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, r io.Reader) (string, error)
}

// Notifier delivers the completion message.
type Notifier interface {
	Notify(ctx context.Context, text string) (slack.Response, error)
}

// RunConfig carries the deployment values the driver needs.
type RunConfig struct {
	Bucket     string
	FolderPath string
	GCSLinkURL string
	// Years overrides DefaultYears when non-nil. An empty slice processes nothing.
	Years []int
}

// Runner crawls every configured year, uploads each result set and notifies once.
type Runner struct {
	cfg      RunConfig
	crawler  YearCrawler
	store    BlobStore
	notifier Notifier
	emitter  progress.Emitter
	logger   *zap.Logger
}

// NewRunner wires a Runner.
func NewRunner(cfg RunConfig, c YearCrawler, store BlobStore, n Notifier, emitter progress.Emitter, logger *zap.Logger) *Runner {
	if cfg.Years == nil {
		cfg.Years = DefaultYears
	}
	if emitter == nil {
		emitter = progress.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:      cfg,
		crawler:  c,
		store:    store,
		notifier: n,
		emitter:  emitter,
		logger:   logger,
	}
}

// Run processes the years in order. Upload and notification failures abort the
// run; fetch and parse failures have already been absorbed by the crawler.
func (r *Runner) Run(ctx context.Context) error {
	for _, year := range r.cfg.Years {
		result, err := r.crawler.Crawl(ctx, year)
		if err != nil {
			return err
		}
		if err := r.upload(ctx, year, result); err != nil {
			return err
		}
	}
	r.emitter.Emit(ctx, progress.Event{Stage: progress.StageRunDone})

	resp, err := r.notifier.Notify(ctx, CompletionMessage(r.cfg.GCSLinkURL))
	if err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	if !resp.OK() {
		r.logger.Warn("webhook rejected completion message",
			zap.Int("status", resp.StatusCode),
			zap.String("body", resp.Body),
		)
	}
	r.emitter.Emit(ctx, progress.Event{Stage: progress.StageNotified, Note: resp.Body})
	return nil
}

func (r *Runner) upload(ctx context.Context, year int, result crawler.YearResult) error {
	if result == nil {
		result = crawler.YearResult{}
	}
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode %d: %w", year, err)
	}
	path := ObjectPath(r.cfg.FolderPath, year)
	uri, err := r.store.PutObject(ctx, path, jsonContentType, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("upload %s: %w", path, err)
	}
	r.logger.Debug("object stored", zap.String("uri", uri))
	r.emitter.Emit(ctx, progress.Event{
		Stage: progress.StageUploaded,
		Year:  year,
		URL:   path,
		Bytes: int64(len(data)),
		Note:  r.cfg.Bucket,
	})
	return nil
}

// ObjectPath is the storage key for a year. The folder is used verbatim, so it
// carries its own trailing slash when one is wanted.
func ObjectPath(folder string, year int) string {
	return fmt.Sprintf("%sgeneral-%d.json", folder, year)
}

// CompletionMessage is the Slack text sent once all years are uploaded.
func CompletionMessage(link string) string {
	return fmt.Sprintf("All OJA data are completed, stored in <%s|GCS>.", link)
}
