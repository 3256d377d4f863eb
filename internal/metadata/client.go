// Package metadata enriches movie records with canonical artwork from a
// TMDB-compatible search API.
package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("metadata api key not configured")

// ClientConfig configures the search client.
type ClientConfig struct {
	APIKey   string
	BaseURL  string
	Language string
	Timeout  time.Duration
}

// SearchResult is one movie hit from the search endpoint.
type SearchResult struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	ReleaseDate  string `json:"release_date"`
	PosterPath   string `json:"poster_path"`
	BackdropPath string `json:"backdrop_path"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// Client queries the movie search endpoint.
type Client struct {
	apiKey   string
	baseURL  string
	language string
	httpc    *http.Client
}

// NewClient builds a Client. A nil httpc gets one with cfg.Timeout.
func NewClient(cfg ClientConfig, httpc *http.Client) *Client {
	if httpc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:   strings.TrimSpace(cfg.APIKey),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		language: cfg.Language,
		httpc:    httpc,
	}
}

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool {
	return c != nil && c.apiKey != ""
}

// SearchMovie searches by title, narrowed to year when one is given.
func (c *Client) SearchMovie(ctx context.Context, title string, year *int) ([]SearchResult, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	endpoint, err := url.JoinPath(c.baseURL, "search", "movie")
	if err != nil {
		return nil, fmt.Errorf("build search url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	q := req.URL.Query()
	q.Set("api_key", c.apiKey)
	q.Set("query", title)
	if c.language != "" {
		q.Set("language", c.language)
	}
	if year != nil {
		q.Set("year", strconv.Itoa(*year))
	}
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search request failed: %s", resp.Status)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return out.Results, nil
}
