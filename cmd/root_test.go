package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/clock/system"
	"github.com/JakeFAU/movie-catalog-scraper/internal/config"
	"github.com/JakeFAU/movie-catalog-scraper/internal/pipeline"
	"github.com/JakeFAU/movie-catalog-scraper/internal/storage/memory"
)

type pageDiscoverer struct{ perPage map[int][]string }

func (d pageDiscoverer) Discover(_ context.Context, page int) []string { return d.perPage[page] }

type htmlFetcher struct{}

func (htmlFetcher) Fetch(_ context.Context, req catalog.FetchRequest) (catalog.FetchResponse, error) {
	name := strings.Trim(req.URL[strings.LastIndex(strings.TrimSuffix(req.URL, "/"), "/")+1:], "/")
	body := `<html><body><article><h1 class="entry-title">` + name + `</h1></article></body></html>`
	return catalog.FetchResponse{URL: req.URL, StatusCode: 200, Body: []byte(body)}, nil
}

type countingCloser struct{ closed int }

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func withFakeApp(t *testing.T, store *memory.BlobStore) *countingCloser {
	t.Helper()
	closer := &countingCloser{}
	orig := newApp
	t.Cleanup(func() { newApp = orig })
	newApp = func(context.Context, string) (*App, error) {
		disc := pageDiscoverer{perPage: map[int][]string{
			1: {"https://site.example/alpha/", "https://site.example/beta/"},
			2: {"https://site.example/gamma/"},
		}}
		return &App{
			Config: config.Config{
				Pipeline: config.PipelineConfig{DefaultWorkers: 2},
				Snapshot: config.SnapshotConfig{Object: "snapshots/movies.json"},
			},
			Logger:       zap.NewNop(),
			Store:        store,
			Clock:        system.New(),
			Orchestrator: pipeline.New(disc, htmlFetcher{}, nil, nil, nil),
			closers:      []io.Closer{closer},
		}, nil
	}
	return closer
}

func TestScrapeCommandPrintsJSON(t *testing.T) {
	closer := withFakeApp(t, memory.NewBlobStore())

	c := newCLI()
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetArgs([]string{"scrape", "--page", "1", "--workers", "3"})
	require.NoError(t, c.run(context.Background()))
	assert.Equal(t, 1, closer.closed)

	var result catalog.RunResult
	require.NoError(t, json.Unmarshal(out.Bytes(), &result))
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 2, result.Count)
	names := []string{*result.Movies[0].Name, *result.Movies[1].Name}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestScrapeCommandRejectsBadPage(t *testing.T) {
	closer := withFakeApp(t, memory.NewBlobStore())

	c := newCLI()
	c.root.SetOut(&bytes.Buffer{})
	c.root.SetErr(&bytes.Buffer{})
	c.root.SetArgs([]string{"scrape", "--page", "0"})
	err := c.run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--page")
	assert.Equal(t, 1, closer.closed, "app must be closed when the subcommand fails")
}

func TestSnapshotCommandWritesAndUploads(t *testing.T) {
	store := memory.NewBlobStore()
	closer := withFakeApp(t, store)
	path := filepath.Join(t.TempDir(), "movies.json")

	c := newCLI()
	var out bytes.Buffer
	c.root.SetOut(&out)
	c.root.SetArgs([]string{"snapshot", "--from", "1", "--to", "3", "--out", path})
	require.NoError(t, c.run(context.Background()))
	assert.Equal(t, 1, closer.closed)

	assert.Equal(t, store.PublicURL("snapshots/movies.json"), strings.TrimSpace(out.String()))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	uploaded, ok := store.Object("snapshots/movies.json")
	require.True(t, ok)
	assert.Equal(t, data, uploaded)

	var doc struct {
		Count  int `json:"count"`
		ToPage int `json:"toPage"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 3, doc.Count)
	assert.Equal(t, 2, doc.ToPage)
}

func TestResolveAppWithoutInit(t *testing.T) {
	_, err := resolveApp(context.Background())
	assert.Error(t, err)
}
