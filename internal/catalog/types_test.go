package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewMovieRecordMarshalsUnknownAsNull(t *testing.T) {
	t.Parallel()

	rec := NewMovieRecord("https://example.com/movie/")
	raw, err := json.Marshal(rec)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Nil(t, decoded["name"])
	require.Nil(t, decoded["rating"])
	require.Nil(t, decoded["year"])
	require.Equal(t, []any{}, decoded["genre"])
	require.Equal(t, []any{}, decoded["download_links"])
	require.False(t, rec.HasName())
}

func TestHasNameRejectsEmpty(t *testing.T) {
	t.Parallel()

	rec := NewMovieRecord("u")
	rec.Name = StringPtr("")
	require.False(t, rec.HasName())
	rec.Name = StringPtr("Heat")
	require.True(t, rec.HasName())
}

func TestFetchResponseErr(t *testing.T) {
	t.Parallel()

	require.NoError(t, FetchResponse{StatusCode: http.StatusOK}.Err())
	err := FetchResponse{StatusCode: http.StatusNotFound, URL: "https://example.com"}.Err()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrStatus))
}
