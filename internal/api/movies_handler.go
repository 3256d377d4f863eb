package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/JakeFAU/movie-catalog-scraper/internal/catalog"
	"github.com/JakeFAU/movie-catalog-scraper/internal/pipeline"
)

const (
	msgMissingPage  = "Missing 'page' parameter in request body"
	msgPageNotInt   = "'page' must be an integer"
	msgPageTooSmall = "Page number must be greater than or equal to 1"
	msgWorkersNaN   = "'workerCount' must be an integer"
)

var errNotInteger = errors.New("not an integer")

// Runner scrapes a single listing page.
type Runner interface {
	Run(ctx context.Context, page, workerCount int) catalog.RunResult
}

// MoviesHandler serves POST /api/movies.
type MoviesHandler struct {
	runner         Runner
	defaultWorkers int
	logger         *zap.Logger
}

// NewMoviesHandler wires the runner. defaultWorkers applies when the request
// omits workerCount.
func NewMoviesHandler(runner Runner, defaultWorkers int, logger *zap.Logger) *MoviesHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultWorkers <= 0 {
		defaultWorkers = pipeline.DefaultWorkers
	}
	return &MoviesHandler{runner: runner, defaultWorkers: defaultWorkers, logger: logger}
}

// ScrapePage handles POST /api/movies with body {"page": N, "workerCount": W}.
// It returns 400 for a missing, non-integer or non-positive page and 200 with
// the run result otherwise, including when the page yields no records.
func (h *MoviesHandler) ScrapePage(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		body = nil
	}
	rawPage, ok := body["page"]
	if !ok || isNull(rawPage) {
		writeError(w, h.logger, http.StatusBadRequest, msgMissingPage)
		return
	}
	page, err := parseInteger(rawPage)
	if err != nil {
		writeError(w, h.logger, http.StatusBadRequest, msgPageNotInt)
		return
	}
	if page < 1 {
		writeError(w, h.logger, http.StatusBadRequest, msgPageTooSmall)
		return
	}

	workers := h.defaultWorkers
	if rawWorkers, ok := body["workerCount"]; ok && !isNull(rawWorkers) {
		n, err := parseInteger(rawWorkers)
		if err != nil {
			writeError(w, h.logger, http.StatusBadRequest, msgWorkersNaN)
			return
		}
		workers = pipeline.ClampWorkers(n)
	}

	h.logger.Info("scrape requested",
		zap.Int("page", page),
		zap.Int("workers", workers),
		zap.String("request_id", RequestID(r.Context())),
	)
	result := h.runner.Run(r.Context(), page, workers)
	writeJSON(w, h.logger, http.StatusOK, result)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// parseInteger accepts JSON integers, integral floats and numeric strings.
func parseInteger(raw json.RawMessage) (int, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return 0, errNotInteger
	}
	switch t := v.(type) {
	case json.Number:
		return numberToInt(string(t))
	case string:
		return numberToInt(strings.TrimSpace(t))
	default:
		return 0, errNotInteger
	}
}

func numberToInt(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, errNotInteger
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, errNotInteger
	}
	return int(f), nil
}
