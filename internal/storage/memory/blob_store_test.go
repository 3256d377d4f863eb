package memory

import (
	"bytes"
	"context"
	"testing"
)

func TestBlobStorePutObjectCopiesData(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	payload := []byte("content")
	uri, err := store.PutObject(context.Background(), "movie_posters/heat", "image/jpeg", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("PutObject() error = %v", err)
	}
	if uri != "memory://movie_posters/heat" {
		t.Fatalf("unexpected uri %s", uri)
	}
	payload[0] = 'C'
	stored, ok := store.Object("movie_posters/heat")
	if !ok || string(stored) != "content" {
		t.Fatalf("expected stored copy to be immutable, got %q", stored)
	}
	if ct := store.ContentType("movie_posters/heat"); ct != "image/jpeg" {
		t.Fatalf("unexpected content type %q", ct)
	}
}

func TestBlobStoreOverwrites(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()
	ctx := context.Background()
	first, _ := store.PutObject(ctx, "p", "", bytes.NewReader([]byte("one")))
	second, _ := store.PutObject(ctx, "p", "", bytes.NewReader([]byte("two")))
	if first != second {
		t.Fatalf("expected stable uri, got %s and %s", first, second)
	}
	stored, _ := store.Object("p")
	if string(stored) != "two" {
		t.Fatalf("expected overwrite, got %q", stored)
	}
	if store.Puts() != 2 {
		t.Fatalf("expected 2 puts, got %d", store.Puts())
	}
}
