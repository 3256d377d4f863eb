// Package main hosts the movie catalog scraper entrypoint.
//
// Architecture overview:
//   - Listing discovery: internal/listing fetches one listing page and collects
//     detail URLs in document order.
//   - Per-URL pipeline: internal/pipeline fans detail URLs out to a bounded
//     worker pool (1..16). Each worker fetches the detail page through the
//     Colly fetcher, extracts fields with goquery selectors, resolves the player
//     embed via the site's AJAX endpoint, looks up canonical artwork from the
//     metadata service and, when none exists, rehosts the site poster to the
//     configured BlobStore (memory/local/GCS).
//   - Surfaces: `serve` exposes POST /api/movies behind chi with health and
//     Prometheus endpoints; `scrape` prints one page as JSON; `snapshot` writes
//     a page range atomically to disk and uploads it to the BlobStore.
//   - Configuration & plumbing: Viper populates config from env (SCRAPER_*) and
//     an optional YAML file; zap provides structured logging.
//
// Operational notes:
//   - Nothing is persisted between runs except rehosted posters and snapshots.
//     Lookup caches live in process memory and are bounded by cache.max_entries.
//   - Every outbound request carries the configured timeout. A failing URL is
//     dropped or degraded; a run never fails as a whole.
//   - The server listens on server.port (overridable via PORT) and drains on
//     SIGINT/SIGTERM.
package main
