// Package embed resolves a post's embedded player source through the
// site's form-encoded fragment endpoint.
package embed

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metrics"
)

// Config names the fragment endpoint and its fixed form fields.
type Config struct {
	Endpoint string
	Action   string
	Tab      string
}

// Resolver fetches the player fragment for a post and reads its iframe.
type Resolver struct {
	fetcher catalog.Fetcher
	cfg     Config
	logger  *zap.Logger
}

// New constructs a Resolver.
func New(fetcher catalog.Fetcher, cfg Config, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, cfg: cfg, logger: logger}
}

// Resolve returns the embed URL for postID, or nil when there is no
// identifier, the request fails, or the fragment holds no iframe.
func (r *Resolver) Resolve(ctx context.Context, postID *string) *string {
	if postID == nil || *postID == "" {
		metrics.ObserveEmbed(metrics.ResultSkipped)
		return nil
	}
	form := map[string]string{
		"action":  r.cfg.Action,
		"post_id": *postID,
	}
	if r.cfg.Tab != "" {
		form["tab"] = r.cfg.Tab
	}
	resp, err := r.fetcher.Fetch(ctx, catalog.FetchRequest{
		URL:    r.cfg.Endpoint,
		Method: http.MethodPost,
		Form:   form,
	})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		metrics.ObserveEmbed(metrics.ResultError)
		r.logger.Debug("embed fetch failed", zap.String("post_id", *postID), zap.Error(err))
		return nil
	}

	src := FirstFrameSrc(resp.Body)
	if src == nil {
		metrics.ObserveEmbed(metrics.ResultMissing)
		return nil
	}
	metrics.ObserveEmbed(metrics.ResultFound)
	return src
}

// FirstFrameSrc returns the non-empty src of the first iframe in fragment.
func FirstFrameSrc(fragment []byte) *string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(fragment))
	if err != nil {
		return nil
	}
	src, ok := doc.Find("iframe").First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return nil
	}
	return &src
}
