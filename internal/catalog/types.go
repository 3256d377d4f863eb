package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrStatus marks an upstream response with a non-success status code.
var ErrStatus = errors.New("unexpected upstream status")

// DownloadLink is one labeled download target from a detail page.
type DownloadLink struct {
	Label string  `json:"label"`
	URL   *string `json:"url"`
}

// MovieRecord is one catalog entry extracted from a detail page.
type MovieRecord struct {
	ID            int            `json:"id"`
	URL           string         `json:"url"`
	Name          *string        `json:"name"`
	Poster        *string        `json:"poster"`
	PosterAlt     *string        `json:"poster_alt"`
	Backdrop      *string        `json:"backdrop"`
	Genres        []string       `json:"genre"`
	Tags          []string       `json:"tags"`
	Quality       *string        `json:"quality"`
	Year          *int           `json:"year"`
	Duration      *string        `json:"duration"`
	Rating        *float64       `json:"rating"`
	IframeSrc     *string        `json:"iframe_src"`
	Description   *string        `json:"description"`
	ReleaseDate   *string        `json:"release_date"`
	Language      *string        `json:"language"`
	DownloadLinks []DownloadLink `json:"download_links"`
}

// NewMovieRecord returns an empty record bound to its source URL with every
// optional field unknown and every list empty.
func NewMovieRecord(sourceURL string) MovieRecord {
	return MovieRecord{
		URL:           sourceURL,
		Genres:        []string{},
		Tags:          []string{},
		DownloadLinks: []DownloadLink{},
	}
}

// HasName reports whether the record carries a usable display name.
func (m MovieRecord) HasName() bool {
	return m.Name != nil && *m.Name != ""
}

// Artwork holds canonical artwork URLs from the metadata service.
type Artwork struct {
	Poster   *string `json:"poster"`
	Backdrop *string `json:"backdrop"`
}

// Empty reports whether neither poster nor backdrop is known.
func (a Artwork) Empty() bool {
	return a.Poster == nil && a.Backdrop == nil
}

// RunResult is the aggregate returned for one listing page.
type RunResult struct {
	Page                 int           `json:"page"`
	Movies               []MovieRecord `json:"movies"`
	Count                int           `json:"count"`
	ExecutionTimeSeconds float64       `json:"executionTimeSeconds"`
}

// FetchRequest captures everything needed to fetch a URL.
type FetchRequest struct {
	URL     string
	Method  string
	Form    map[string]string
	Headers http.Header
}

// FetchResponse is the result returned by a Fetcher implementation.
type FetchResponse struct {
	URL        string
	StatusCode int
	Headers    http.Header
	Body       []byte
	Duration   time.Duration
}

// OK reports whether the response carries a 2xx status.
func (r FetchResponse) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Err returns an ErrStatus-wrapped error for non-success responses.
func (r FetchResponse) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%w: %d from %s", ErrStatus, r.StatusCode, r.URL)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
