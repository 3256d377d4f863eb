// Package api hosts the HTTP server, middleware, and handlers for the
// scraper. Notable routes:
//   - POST /api/movies scrapes one listing page and returns its records.
//   - GET /healthz / readyz for Kubernetes probes.
//   - GET /metrics for Prometheus scraping.
package api
