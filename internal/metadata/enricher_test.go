package metadata

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/memo"
)

type searchCall struct {
	title string
	year  *int
}

type fakeSearcher struct {
	mu      sync.Mutex
	calls   []searchCall
	byYear  []SearchResult
	noYear  []SearchResult
	err     error
	release chan struct{}
}

func (f *fakeSearcher) SearchMovie(_ context.Context, title string, year *int) ([]SearchResult, error) {
	if f.release != nil {
		<-f.release
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, searchCall{title: title, year: year})
	if f.err != nil {
		return nil, f.err
	}
	if year != nil {
		return f.byYear, nil
	}
	return f.noYear, nil
}

func (f *fakeSearcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func intPtr(v int) *int { return &v }

const imageBase = "https://image.example/t/p/original"

func TestEnrichWithYearHitIssuesNoRetry(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{byYear: []SearchResult{{PosterPath: "/p.jpg", BackdropPath: "/b.jpg"}, {PosterPath: "/other.jpg"}}}
	e := NewEnricher(s, imageBase, nil, nil)

	art := e.Enrich(context.Background(), "Heat (1995)", intPtr(1995))
	require.NotNil(t, art.Poster)
	require.Equal(t, imageBase+"/p.jpg", *art.Poster)
	require.NotNil(t, art.Backdrop)
	require.Equal(t, imageBase+"/b.jpg", *art.Backdrop)

	require.Len(t, s.calls, 1)
	require.Equal(t, "Heat", s.calls[0].title)
	require.Equal(t, 1995, *s.calls[0].year)
}

func TestEnrichRetriesOnceWithoutYear(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{noYear: []SearchResult{{PosterPath: "/p.jpg"}}}
	e := NewEnricher(s, imageBase, nil, nil)

	art := e.Enrich(context.Background(), "Some Movie 2023", intPtr(2023))
	require.NotNil(t, art.Poster)
	require.Nil(t, art.Backdrop)

	require.Len(t, s.calls, 2)
	require.NotNil(t, s.calls[0].year)
	require.Nil(t, s.calls[1].year)
	require.Equal(t, "Some Movie", s.calls[1].title)
}

func TestEnrichWithoutYearDoesNotRetry(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{}
	e := NewEnricher(s, imageBase, nil, nil)

	art := e.Enrich(context.Background(), "Obscure", nil)
	require.True(t, art.Empty())
	require.Len(t, s.calls, 1)
}

func TestEnrichSwallowsErrorsAndDoesNotCacheThem(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{err: errors.New("status 500")}
	cache := memo.New[catalog.Artwork](8)
	e := NewEnricher(s, imageBase, cache, nil)

	art := e.Enrich(context.Background(), "Heat", intPtr(1995))
	require.True(t, art.Empty())
	require.Equal(t, 0, cache.Len())
}

func TestEnrichMemoizesByTitleAndYear(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{byYear: []SearchResult{{PosterPath: "/p.jpg"}}, noYear: []SearchResult{{PosterPath: "/q.jpg"}}}
	e := NewEnricher(s, imageBase, nil, nil)

	first := e.Enrich(context.Background(), "Heat (1995)", intPtr(1995))
	second := e.Enrich(context.Background(), "Heat 1995", intPtr(1995))
	require.Equal(t, first, second)
	require.Equal(t, 1, s.callCount())

	noYear := e.Enrich(context.Background(), "Heat", nil)
	require.Equal(t, imageBase+"/q.jpg", *noYear.Poster)
	require.Equal(t, 2, s.callCount())
}

func TestEnrichConcurrentSameKeySharesLookup(t *testing.T) {
	t.Parallel()

	s := &fakeSearcher{byYear: []SearchResult{{PosterPath: "/p.jpg"}}, release: make(chan struct{})}
	e := NewEnricher(s, imageBase, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			art := e.Enrich(context.Background(), "Heat", intPtr(1995))
			if art.Poster == nil {
				t.Error("expected poster")
			}
		}()
	}
	close(s.release)
	wg.Wait()
	require.LessOrEqual(t, s.callCount(), 6)
	require.GreaterOrEqual(t, s.callCount(), 1)
}

func TestEnrichNotConfiguredSkipsLookup(t *testing.T) {
	t.Parallel()

	e := NewEnricher(NewClient(ClientConfig{BaseURL: "http://127.0.0.1:1"}, nil), imageBase, nil, nil)
	require.True(t, e.Enrich(context.Background(), "Heat", nil).Empty())
}
