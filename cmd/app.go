package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/clock/system"
	"github.com/JakeFAU/movie-catalog-scraper/internal/config"
	"github.com/JakeFAU/movie-catalog-scraper/internal/embed"
	collyfetcher "github.com/JakeFAU/movie-catalog-scraper/internal/fetcher/colly"
	"github.com/JakeFAU/movie-catalog-scraper/internal/listing"
	"github.com/JakeFAU/movie-catalog-scraper/internal/logging"
	"github.com/JakeFAU/movie-catalog-scraper/internal/memo"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metadata"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metrics"
	"github.com/JakeFAU/movie-catalog-scraper/internal/pipeline"
	"github.com/JakeFAU/movie-catalog-scraper/internal/rehost"
	"github.com/JakeFAU/movie-catalog-scraper/internal/storage/gcs"
	"github.com/JakeFAU/movie-catalog-scraper/internal/storage/local"
	"github.com/JakeFAU/movie-catalog-scraper/internal/storage/memory"
)

// App bundles the configured services shared by every subcommand.
type App struct {
	Config       config.Config
	Logger       *zap.Logger
	Store        catalog.BlobStore
	Clock        catalog.Clock
	Orchestrator *pipeline.Orchestrator

	closers []io.Closer
}

// NewApp loads configuration and wires the scraping pipeline.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)
	metrics.Init()

	app := &App{Config: cfg, Logger: logger, Clock: system.New()}
	store, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.Orchestrator = buildOrchestrator(cfg, store, app.Clock, logger)
	return app, nil
}

func (a *App) openStore(ctx context.Context) (catalog.BlobStore, error) {
	switch a.Config.Storage.Backend {
	case config.BackendGCS:
		store, err := gcs.Open(ctx, gcs.Config{Bucket: a.Config.Storage.GCSBucket})
		if err != nil {
			return nil, fmt.Errorf("open gcs store: %w", err)
		}
		a.closers = append(a.closers, store)
		return store, nil
	case config.BackendLocal:
		store, err := local.New(local.Config{BaseDir: a.Config.Storage.LocalDir})
		if err != nil {
			return nil, fmt.Errorf("open local store: %w", err)
		}
		return store, nil
	default:
		a.Logger.Warn("using in-memory blob store; rehosted posters will not survive restarts")
		return memory.NewBlobStore(), nil
	}
}

func buildOrchestrator(cfg config.Config, store catalog.BlobStore, clock catalog.Clock, logger *zap.Logger) *pipeline.Orchestrator {
	timeout := cfg.RequestTimeout()
	fetcher := collyfetcher.New(collyfetcher.Config{
		UserAgent: cfg.Source.UserAgent,
		Timeout:   timeout,
	})

	discoverer := listing.New(fetcher, cfg.Source.BaseURL, logger.Named("listing"))
	resolver := embed.New(fetcher, embed.Config{
		Endpoint: cfg.AjaxEndpoint(),
		Action:   cfg.Source.AjaxAction,
		Tab:      cfg.Source.AjaxTab,
	}, logger.Named("embed"))

	client := metadata.NewClient(metadata.ClientConfig{
		APIKey:   cfg.Metadata.APIKey,
		BaseURL:  cfg.Metadata.BaseURL,
		Language: cfg.Metadata.Language,
		Timeout:  timeout,
	}, nil)
	if !client.Configured() {
		logger.Warn("metadata api key not set; canonical artwork lookups disabled")
	}
	enricher := metadata.NewEnricher(
		client,
		cfg.Metadata.ImageBaseURL,
		memo.New[catalog.Artwork](cfg.Cache.MaxEntries),
		logger.Named("metadata"),
	)

	rehoster := rehost.New(
		fetcher,
		store,
		cfg.Storage.PosterFolder,
		memo.New[string](cfg.Cache.MaxEntries),
		logger.Named("rehost"),
	)

	return pipeline.New(discoverer, fetcher, resolver, enricher, rehoster,
		pipeline.WithClock(clock),
		pipeline.WithLogger(logger.Named("pipeline")),
	)
}

// Close releases store handles and flushes the logger.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.Logger.Warn("close failed", zap.Error(err))
		}
	}
	if err := a.Logger.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", err)
	}
}
