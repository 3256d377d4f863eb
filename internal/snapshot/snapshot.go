// Package snapshot scrapes a range of listing pages into one catalog
// document, writes it atomically to disk and publishes it to blob storage.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
)

const contentType = "application/json"

// Runner scrapes a single listing page.
type Runner interface {
	Run(ctx context.Context, page, workerCount int) catalog.RunResult
}

// Document is the persisted catalog for a page range.
type Document struct {
	GeneratedAt          time.Time             `json:"generatedAt"`
	FromPage             int                   `json:"fromPage"`
	ToPage               int                   `json:"toPage"`
	Movies               []catalog.MovieRecord `json:"movies"`
	Count                int                   `json:"count"`
	ExecutionTimeSeconds float64               `json:"executionTimeSeconds"`
}

// Publisher builds and publishes snapshots.
type Publisher struct {
	runner Runner
	store  catalog.BlobStore
	clock  catalog.Clock
	logger *zap.Logger
}

// New constructs a Publisher.
func New(runner Runner, store catalog.BlobStore, clock catalog.Clock, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{runner: runner, store: store, clock: clock, logger: logger}
}

// Build scrapes pages from..to inclusive. Identifiers are renumbered so they
// stay unique and contiguous across the whole document. Scraping stops early
// at the first page that yields no records.
func (p *Publisher) Build(ctx context.Context, from, to, workers int) (Document, error) {
	if from < 1 || to < from {
		return Document{}, fmt.Errorf("invalid page range %d..%d", from, to)
	}
	doc := Document{
		GeneratedAt: p.clock.Now().UTC(),
		FromPage:    from,
		ToPage:      from - 1,
		Movies:      []catalog.MovieRecord{},
	}
	for page := from; page <= to; page++ {
		if err := ctx.Err(); err != nil {
			return Document{}, fmt.Errorf("snapshot interrupted at page %d: %w", page, err)
		}
		res := p.runner.Run(ctx, page, workers)
		doc.ExecutionTimeSeconds += res.ExecutionTimeSeconds
		if res.Count == 0 {
			p.logger.Info("page yielded no records; stopping", zap.Int("page", page))
			break
		}
		for _, m := range res.Movies {
			m.ID = len(doc.Movies) + 1
			doc.Movies = append(doc.Movies, m)
		}
		doc.ToPage = page
	}
	doc.Count = len(doc.Movies)
	return doc, nil
}

// Encode renders the document as indented JSON without HTML escaping.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// Publish writes doc to localPath and uploads the same bytes to object,
// returning the uploaded object's URL.
func (p *Publisher) Publish(ctx context.Context, doc Document, localPath, object string) (string, error) {
	data, err := Encode(doc)
	if err != nil {
		return "", err
	}
	if err := WriteFile(localPath, data); err != nil {
		return "", err
	}
	uri, err := p.store.PutObject(ctx, object, contentType, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}
	p.logger.Info("snapshot published",
		zap.String("path", localPath),
		zap.String("uri", uri),
		zap.Int("count", doc.Count),
	)
	return uri, nil
}
