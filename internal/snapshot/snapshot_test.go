package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/storage/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type pagedRunner struct {
	pages map[int][]string
	calls []int
}

func (r *pagedRunner) Run(_ context.Context, page, _ int) catalog.RunResult {
	r.calls = append(r.calls, page)
	names := r.pages[page]
	movies := make([]catalog.MovieRecord, 0, len(names))
	for i, n := range names {
		rec := catalog.NewMovieRecord("https://site.example/" + n + "/")
		rec.ID = i + 1
		rec.Name = catalog.StringPtr(n)
		movies = append(movies, rec)
	}
	return catalog.RunResult{Page: page, Movies: movies, Count: len(movies), ExecutionTimeSeconds: 0.5}
}

type failingStore struct{}

func (failingStore) PutObject(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (failingStore) PublicURL(path string) string { return path }

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestBuild_RenumbersAcrossPages(t *testing.T) {
	t.Parallel()

	runner := &pagedRunner{pages: map[int][]string{1: {"a", "b"}, 2: {"c"}}}
	pub := New(runner, memory.NewBlobStore(), fixedClock{epoch}, nil)

	doc, err := pub.Build(context.Background(), 1, 2, 4)
	require.NoError(t, err)

	require.Len(t, doc.Movies, 3)
	for i, m := range doc.Movies {
		assert.Equal(t, i+1, m.ID)
	}
	assert.Equal(t, 3, doc.Count)
	assert.Equal(t, 1, doc.FromPage)
	assert.Equal(t, 2, doc.ToPage)
	assert.InDelta(t, 1.0, doc.ExecutionTimeSeconds, 1e-9)
	assert.Equal(t, epoch, doc.GeneratedAt)
}

func TestBuild_StopsAtEmptyPage(t *testing.T) {
	t.Parallel()

	runner := &pagedRunner{pages: map[int][]string{1: {"a"}}}
	pub := New(runner, memory.NewBlobStore(), fixedClock{epoch}, nil)

	doc, err := pub.Build(context.Background(), 1, 5, 1)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, runner.calls)
	assert.Equal(t, 1, doc.ToPage)
	assert.Equal(t, 1, doc.Count)
}

func TestBuild_RejectsBadRange(t *testing.T) {
	t.Parallel()

	pub := New(&pagedRunner{}, memory.NewBlobStore(), fixedClock{epoch}, nil)
	_, err := pub.Build(context.Background(), 3, 2, 1)
	assert.Error(t, err)
	_, err = pub.Build(context.Background(), 0, 2, 1)
	assert.Error(t, err)
}

func TestEncode_PreservesNonASCII(t *testing.T) {
	t.Parallel()

	rec := catalog.NewMovieRecord("https://site.example/amelie/")
	rec.Name = catalog.StringPtr("Amélie & <Friends>")
	data, err := Encode(Document{Movies: []catalog.MovieRecord{rec}, Count: 1})
	require.NoError(t, err)

	assert.Contains(t, string(data), "Amélie & <Friends>")
	assert.Contains(t, string(data), "\n  \"movies\"")
}

func TestPublish_WritesFileAndUploads(t *testing.T) {
	t.Parallel()

	store := memory.NewBlobStore()
	runner := &pagedRunner{pages: map[int][]string{1: {"heat"}}}
	pub := New(runner, store, fixedClock{epoch}, nil)
	doc, err := pub.Build(context.Background(), 1, 1, 2)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out", "movies.json")
	uri, err := pub.Publish(context.Background(), doc, path, "snapshots/movies.json")
	require.NoError(t, err)
	assert.Equal(t, store.PublicURL("snapshots/movies.json"), uri)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	uploaded, ok := store.Object("snapshots/movies.json")
	require.True(t, ok)
	assert.Equal(t, onDisk, uploaded)

	assert.Equal(t, "application/json", store.ContentType("snapshots/movies.json"))

	var decoded Document
	require.NoError(t, json.Unmarshal(onDisk, &decoded))
	assert.Equal(t, 1, decoded.Count)
	assert.Equal(t, "heat", *decoded.Movies[0].Name)
}

func TestPublish_UploadFailureIsError(t *testing.T) {
	t.Parallel()

	pub := New(&pagedRunner{}, failingStore{}, fixedClock{epoch}, nil)
	path := filepath.Join(t.TempDir(), "movies.json")

	_, err := pub.Publish(context.Background(), Document{Movies: []catalog.MovieRecord{}}, path, "snapshots/movies.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload snapshot")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr)
}
