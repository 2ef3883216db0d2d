// Package app initializes and holds long-lived services for a crawl run,
// acting as a dependency injection container.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/JakeFAU/oja-awards-crawler/internal/config"
	"github.com/JakeFAU/oja-awards-crawler/internal/crawler"
	collyfetcher "github.com/JakeFAU/oja-awards-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/oja-awards-crawler/internal/notifier/slack"
	"github.com/JakeFAU/oja-awards-crawler/internal/policy/ratelimit"
	"github.com/JakeFAU/oja-awards-crawler/internal/progress"
	"github.com/JakeFAU/oja-awards-crawler/internal/progress/sinks"
	"github.com/JakeFAU/oja-awards-crawler/internal/storage/gcs"
	"github.com/JakeFAU/oja-awards-crawler/internal/storage/local"
	"github.com/JakeFAU/oja-awards-crawler/internal/storage/memory"
)

// App holds the services shared by a run.
type App struct {
	logger   *zap.Logger
	store    BlobStore
	hub      *progress.Hub
	registry *prometheus.Registry
	runner   *Runner
	textfile string
	closers  []io.Closer
}

// New builds every service from cfg and fails fast when one cannot be initialized.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{
		logger:   logger,
		registry: prometheus.NewRegistry(),
		textfile: cfg.Metrics.TextfilePath,
	}

	store, err := a.openStorage(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.store = store

	notifier, err := slack.NewClient(cfg.OJA.SlackWebhookURL)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("failed to initialize notifier: %w", err)
	}

	promSink, err := sinks.NewPrometheusSink(a.registry)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("failed to initialize metrics: %w", err)
	}
	a.hub, err = progress.NewHub(progress.Config{Logger: logger}, sinks.NewLogSink(logger), promSink)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("failed to initialize progress hub: %w", err)
	}

	fetcher := ratelimit.Wrap(collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.HTTP.UserAgent,
		Timeout:   cfg.RequestTimeout(),
	}), ratelimit.Config{RPS: cfg.HTTP.RequestsPerSecond, Burst: cfg.HTTP.Burst})
	c := crawler.New(crawler.Config{BaseURL: cfg.BaseURL()}, fetcher, a.hub, logger)

	a.runner = NewRunner(RunConfig{
		Bucket:     cfg.OJA.BucketName,
		FolderPath: cfg.OJA.FolderPath,
		GCSLinkURL: cfg.OJA.GCSLinkURL,
	}, c, store, notifier, a.hub, logger)

	logger.Info("application services initialized",
		zap.String("run_id", a.hub.RunID().String()),
		zap.String("storage", cfg.Storage.Provider),
		zap.String("site", cfg.BaseURL()),
	)
	return a, nil
}

func (a *App) openStorage(ctx context.Context, cfg config.Config) (BlobStore, error) {
	switch cfg.Storage.Provider {
	case config.StorageGCS:
		store, err := gcs.Open(ctx, gcs.Config{Bucket: cfg.OJA.BucketName, Endpoint: cfg.Storage.GCS.Endpoint})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	case config.StorageLocal:
		return local.New(local.Config{BaseDir: cfg.Storage.Local.BaseDir})
	case config.StorageMemory:
		a.logger.Info("using in-memory storage; uploads are discarded at exit")
		return memory.NewBlobStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}
}

// Run executes the crawl.
func (a *App) Run(ctx context.Context) error {
	return a.runner.Run(ctx)
}

// Store exposes the configured blob store.
func (a *App) Store() BlobStore {
	return a.store
}

// Registry exposes the metrics registry fed by the progress hub.
func (a *App) Registry() *prometheus.Registry {
	return a.registry
}

// Close flushes metrics to the textfile when configured and releases clients.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.hub.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if a.textfile != "" {
		if err := prometheus.WriteToTextfile(a.textfile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("write metrics textfile: %w", err))
		}
	}
	errs = append(errs, a.closeAll())
	return errors.Join(errs...)
}

func (a *App) closeAll() error {
	var errs []error
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("error closing service", zap.Error(err))
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
