package pipeline

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/clock/system"
	"github.com/JakeFAU/movie-catalog-scraper/internal/extract"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metrics"
)

// Worker bounds.
const (
	MinWorkers     = 1
	MaxWorkers     = 16
	DefaultWorkers = 8
)

// ClampWorkers forces n into [MinWorkers, MaxWorkers].
func ClampWorkers(n int) int {
	switch {
	case n < MinWorkers:
		return MinWorkers
	case n > MaxWorkers:
		return MaxWorkers
	default:
		return n
	}
}

// Orchestrator wires the per-URL pipeline together.
type Orchestrator struct {
	discoverer Discoverer
	fetcher    catalog.Fetcher
	embeds     EmbedResolver
	enricher   Enricher
	rehoster   Rehoster
	clock      catalog.Clock
	logger     *zap.Logger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used to measure elapsed time.
func WithClock(clock catalog.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithLogger sets the orchestrator's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New constructs an Orchestrator. enricher and rehoster may be nil, in
// which case that stage is skipped.
func New(
	discoverer Discoverer,
	fetcher catalog.Fetcher,
	embeds EmbedResolver,
	enricher Enricher,
	rehoster Rehoster,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		discoverer: discoverer,
		fetcher:    fetcher,
		embeds:     embeds,
		enricher:   enricher,
		rehoster:   rehoster,
		clock:      system.New(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run scrapes one listing page. It never fails: URLs whose pipeline cannot
// produce a named record are dropped and the rest are returned.
func (o *Orchestrator) Run(ctx context.Context, page, workerCount int) catalog.RunResult {
	start := o.clock.Now()
	workers := ClampWorkers(workerCount)
	logger := o.logger.With(zap.Int("page", page), zap.Int("workers", workers))

	urls := o.discoverer.Discover(ctx, page)
	if len(urls) == 0 {
		logger.Info("no detail urls discovered")
		return o.finish(page, []catalog.MovieRecord{}, start)
	}
	logger.Info("dispatching detail pages", zap.Int("urls", len(urls)))

	jobs := make(chan string)
	results := make(chan catalog.MovieRecord)

	var wg sync.WaitGroup
	for i := 0; i < min(workers, len(urls)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range jobs {
				metrics.IncActiveWorkers()
				rec, ok := o.process(ctx, u)
				metrics.DecActiveWorkers()
				if ok {
					results <- rec
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, u := range urls {
			jobs <- u
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	movies := make([]catalog.MovieRecord, 0, len(urls))
	for rec := range results {
		rec.ID = len(movies) + 1
		movies = append(movies, rec)
		logger.Debug("record collected", zap.Int("id", rec.ID), zap.String("url", rec.URL))
	}
	return o.finish(page, movies, start)
}

func (o *Orchestrator) finish(page int, movies []catalog.MovieRecord, start time.Time) catalog.RunResult {
	elapsed := o.clock.Now().Sub(start)
	metrics.ObserveRun(elapsed)
	o.logger.Info("page scraped",
		zap.Int("page", page),
		zap.Int("count", len(movies)),
		zap.Duration("elapsed", elapsed),
	)
	return catalog.RunResult{
		Page:                 page,
		Movies:               movies,
		Count:                len(movies),
		ExecutionTimeSeconds: elapsed.Seconds(),
	}
}

// process runs the full pipeline for one detail URL. The bool is false
// when the record must be dropped.
func (o *Orchestrator) process(ctx context.Context, detailURL string) (catalog.MovieRecord, bool) {
	logger := o.logger.With(zap.String("url", detailURL))

	resp, err := o.fetcher.Fetch(ctx, catalog.FetchRequest{URL: detailURL})
	if err != nil {
		metrics.ObserveDetailPage(metrics.StatusFetchError)
		logger.Warn("detail fetch failed; dropping", zap.Error(err))
		return catalog.MovieRecord{}, false
	}
	if err := resp.Err(); err != nil {
		metrics.ObserveDetailPage(metrics.StatusBadStatus)
		logger.Warn("detail fetch returned non-success status; dropping", zap.Int("status", resp.StatusCode))
		return catalog.MovieRecord{}, false
	}

	rec, postID, err := extract.Parse(resp.Body, detailURL)
	if err != nil || !rec.HasName() {
		metrics.ObserveDetailPage(metrics.StatusNoName)
		logger.Warn("detail page has no name; dropping", zap.Error(err))
		return catalog.MovieRecord{}, false
	}

	if o.embeds != nil {
		rec.IframeSrc = o.embeds.Resolve(ctx, postID)
	}
	o.applyArtwork(ctx, &rec)

	metrics.ObserveDetailPage(metrics.StatusOK)
	return rec, true
}

// applyArtwork prefers canonical artwork and falls back to rehosting the
// site poster when no canonical poster exists.
func (o *Orchestrator) applyArtwork(ctx context.Context, rec *catalog.MovieRecord) {
	var art catalog.Artwork
	if o.enricher != nil {
		art = o.enricher.Enrich(ctx, *rec.Name, rec.Year)
	}
	rec.Backdrop = art.Backdrop
	if art.Poster != nil {
		rec.Poster = art.Poster
		return
	}
	if o.rehoster == nil || !o.rehoster.ShouldRehost(rec.Poster) {
		return
	}
	if durable := o.rehoster.Rehost(ctx, *rec.Poster); durable != nil {
		rec.Poster = durable
	}
}
