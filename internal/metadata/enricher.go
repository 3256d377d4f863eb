package metadata

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/memo"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metrics"
)

// Searcher runs a movie search.
type Searcher interface {
	SearchMovie(ctx context.Context, title string, year *int) ([]SearchResult, error)
}

// Enricher resolves canonical artwork for a title and optional year.
type Enricher struct {
	searcher  Searcher
	imageBase string
	cache     *memo.Cache[catalog.Artwork]
	logger    *zap.Logger
}

// NewEnricher constructs an Enricher. Artwork URLs are imageBase followed
// by the result's relative asset path.
func NewEnricher(searcher Searcher, imageBase string, cache *memo.Cache[catalog.Artwork], logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = memo.New[catalog.Artwork](0)
	}
	return &Enricher{
		searcher:  searcher,
		imageBase: strings.TrimRight(imageBase, "/"),
		cache:     cache,
		logger:    logger,
	}
}

// Enrich returns canonical artwork for rawName. Any failure yields empty
// artwork; completed lookups are memoized by cleaned title and year.
func (e *Enricher) Enrich(ctx context.Context, rawName string, year *int) catalog.Artwork {
	title := CleanTitle(rawName)
	if title == "" {
		return catalog.Artwork{}
	}
	art, cached, err := e.cache.GetOrCompute(cacheKey(title, year), func() (catalog.Artwork, error) {
		return e.lookup(ctx, title, year)
	})
	switch {
	case errors.Is(err, ErrNotConfigured):
		return catalog.Artwork{}
	case err != nil:
		metrics.ObserveEnrichment(metrics.ResultError)
		e.logger.Debug("enrichment failed", zap.String("title", title), zap.Error(err))
		return catalog.Artwork{}
	case cached:
		metrics.ObserveEnrichment(metrics.ResultCached)
	}
	return art
}

func (e *Enricher) lookup(ctx context.Context, title string, year *int) (catalog.Artwork, error) {
	results, err := e.searcher.SearchMovie(ctx, title, year)
	if err != nil {
		return catalog.Artwork{}, err
	}
	outcome := metrics.ResultHit
	if len(results) == 0 && year != nil {
		outcome = metrics.ResultRetryHit
		results, err = e.searcher.SearchMovie(ctx, title, nil)
		if err != nil {
			return catalog.Artwork{}, err
		}
	}
	if len(results) == 0 {
		metrics.ObserveEnrichment(metrics.ResultMiss)
		return catalog.Artwork{}, nil
	}
	metrics.ObserveEnrichment(outcome)
	first := results[0]
	return catalog.Artwork{
		Poster:   e.imageURL(first.PosterPath),
		Backdrop: e.imageURL(first.BackdropPath),
	}, nil
}

func (e *Enricher) imageURL(path string) *string {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := e.imageBase + path
	return &u
}

func cacheKey(title string, year *int) string {
	key := strings.ToLower(title) + "|"
	if year != nil {
		key += strconv.Itoa(*year)
	}
	return key
}
