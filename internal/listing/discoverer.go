// Package listing discovers detail page URLs on a paginated listing page.
package listing

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
)

const containerSelector = "div#gmr-main-load"

// Discoverer fetches listing pages and extracts their detail links.
type Discoverer struct {
	fetcher catalog.Fetcher
	baseURL string
	logger  *zap.Logger
}

// New constructs a Discoverer rooted at baseURL.
func New(fetcher catalog.Fetcher, baseURL string, logger *zap.Logger) *Discoverer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &Discoverer{fetcher: fetcher, baseURL: baseURL, logger: logger}
}

// PageURL returns the listing address for page. Page one is the bare base.
func (d *Discoverer) PageURL(page int) string {
	if page <= 1 {
		return d.baseURL
	}
	return fmt.Sprintf("%spage/%d/", d.baseURL, page)
}

// Discover returns the detail URLs on page in document order. A failed
// fetch, a non-success status, or a missing listing container all yield an
// empty list.
func (d *Discoverer) Discover(ctx context.Context, page int) []string {
	pageURL := d.PageURL(page)
	logger := d.logger.With(zap.Int("page", page), zap.String("url", pageURL))

	resp, err := d.fetcher.Fetch(ctx, catalog.FetchRequest{URL: pageURL})
	if err == nil {
		err = resp.Err()
	}
	if err != nil {
		logger.Warn("listing fetch failed", zap.Error(err))
		return []string{}
	}

	urls, found := ParseListing(resp.Body)
	if !found {
		logger.Info("no listing container found")
		return []string{}
	}
	logger.Debug("listing discovered", zap.Int("urls", len(urls)))
	return urls
}

// ParseListing extracts detail hrefs from a listing document. The bool
// reports whether the listing container was present.
func ParseListing(body []byte) ([]string, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return []string{}, false
	}
	container := doc.Find(containerSelector).First()
	if container.Length() == 0 {
		return []string{}, false
	}
	urls := []string{}
	container.Find("article").Each(func(_ int, article *goquery.Selection) {
		href, ok := article.Find("h2.entry-title").First().Find("a").First().Attr("href")
		if ok && strings.TrimSpace(href) != "" {
			urls = append(urls, strings.TrimSpace(href))
		}
	})
	return urls, true
}
