package pipeline

import (
	"context"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
)

// Discoverer lists the detail URLs of a listing page.
type Discoverer interface {
	Discover(ctx context.Context, page int) []string
}

// EmbedResolver resolves a post identifier to an embed URL.
type EmbedResolver interface {
	Resolve(ctx context.Context, postID *string) *string
}

// Enricher looks up canonical artwork.
type Enricher interface {
	Enrich(ctx context.Context, rawName string, year *int) catalog.Artwork
}

// Rehoster copies a site-hosted poster into durable storage.
type Rehoster interface {
	ShouldRehost(poster *string) bool
	Rehost(ctx context.Context, sourceURL string) *string
}
