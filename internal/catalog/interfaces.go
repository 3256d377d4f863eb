package catalog

import (
	"context"
	"io"
	"time"
)

// Fetcher fetches a URL and returns the body plus metadata.
type Fetcher interface {
	Fetch(ctx context.Context, request FetchRequest) (FetchResponse, error)
}

// BlobStore writes artifacts under a path, overwriting any previous object,
// and returns the object's URL.
type BlobStore interface {
	PutObject(ctx context.Context, path string, contentType string, data io.Reader) (string, error)
	PublicURL(path string) string
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
