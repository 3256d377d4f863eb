// Package rehost copies site-hosted fallback posters into durable object
// storage.
package rehost

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/hash/sha256"
	"github.com/JakeFAU/movie-catalog-scraper/internal/memo"
	"github.com/JakeFAU/movie-catalog-scraper/internal/metrics"
)

// DefaultFolder is the object namespace for rehosted posters.
const DefaultFolder = "movie_posters"

var (
	unsafeIDChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	digests       = sha256.New()
)

// Rehoster downloads a poster and uploads it under a stable object path.
type Rehoster struct {
	fetcher catalog.Fetcher
	store   catalog.BlobStore
	folder  string
	cache   *memo.Cache[string]
	logger  *zap.Logger
}

// New constructs a Rehoster writing under folder.
func New(
	fetcher catalog.Fetcher,
	store catalog.BlobStore,
	folder string,
	cache *memo.Cache[string],
	logger *zap.Logger,
) *Rehoster {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = memo.New[string](0)
	}
	folder = strings.Trim(folder, "/")
	if folder == "" {
		folder = DefaultFolder
	}
	return &Rehoster{
		fetcher: fetcher,
		store:   store,
		folder:  folder,
		cache:   cache,
		logger:  logger,
	}
}

// ShouldRehost reports whether poster is a web URL not already stored.
func (r *Rehoster) ShouldRehost(poster *string) bool {
	if poster == nil {
		return false
	}
	u, err := url.Parse(*poster)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	return !strings.HasPrefix(*poster, r.store.PublicURL(""))
}

// ObjectPath returns the storage path for a poster URL.
func (r *Rehoster) ObjectPath(sourceURL string) string {
	return r.folder + "/" + AssetID(sourceURL)
}

// Rehost uploads sourceURL and returns its durable URL, or nil on failure.
// Repeated calls for the same source URL reuse the first upload.
func (r *Rehoster) Rehost(ctx context.Context, sourceURL string) *string {
	durable, cached, err := r.cache.GetOrCompute(sourceURL, func() (string, error) {
		return r.upload(ctx, sourceURL)
	})
	if err != nil {
		metrics.ObserveRehost(metrics.ResultError)
		r.logger.Warn("poster rehost failed", zap.String("poster", sourceURL), zap.Error(err))
		return nil
	}
	if cached {
		metrics.ObserveRehost(metrics.ResultCached)
	} else {
		metrics.ObserveRehost(metrics.ResultUploaded)
	}
	return &durable
}

func (r *Rehoster) upload(ctx context.Context, sourceURL string) (string, error) {
	resp, err := r.fetcher.Fetch(ctx, catalog.FetchRequest{URL: sourceURL})
	if err != nil {
		return "", fmt.Errorf("download poster: %w", err)
	}
	if err := resp.Err(); err != nil {
		return "", fmt.Errorf("download poster: %w", err)
	}
	if len(resp.Body) == 0 {
		return "", fmt.Errorf("download poster: empty body from %s", sourceURL)
	}
	contentType := posterContentType(resp.Headers, resp.Body)
	uri, err := r.store.PutObject(ctx, r.ObjectPath(sourceURL), contentType, bytes.NewReader(resp.Body))
	if err != nil {
		return "", fmt.Errorf("upload poster: %w", err)
	}
	return uri, nil
}

// posterContentType trusts a specific upstream Content-Type and sniffs the
// body when the header is missing or generic.
func posterContentType(headers http.Header, body []byte) string {
	ct := headers.Get("Content-Type")
	if ct != "" && !strings.HasPrefix(ct, "application/octet-stream") {
		return ct
	}
	return mimetype.Detect(body).String()
}

// AssetID derives a stable identifier from the file name of sourceURL with
// its extension removed. URLs without a usable file name fall back to a
// digest of the whole URL.
func AssetID(sourceURL string) string {
	name := ""
	if u, err := url.Parse(sourceURL); err == nil {
		base := path.Base(u.Path)
		name = strings.TrimSuffix(base, path.Ext(base))
	}
	name = strings.Trim(unsafeIDChars.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return digests.Short([]byte(sourceURL), 8)
	}
	return name
}
