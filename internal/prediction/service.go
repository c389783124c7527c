// Package prediction answers "is this movie worth watching" queries with frozen models.
package prediction

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/movie-insight/internal/artifacts"
	"github.com/jonathan/movie-insight/internal/dataset"
	"github.com/jonathan/movie-insight/internal/types"
)

// DefaultOverviewLimit is the display length of overviews, in characters
const DefaultOverviewLimit = 300

// Ellipsis marks a truncated overview
const Ellipsis = "..."

// NotFoundOverview replaces the overview when the title is not in the dataset
const NotFoundOverview = "Movie not found in database."

// Options configures a Service
type Options struct {
	OverviewLimit int // <= 0 uses DefaultOverviewLimit
}

// Service is built once at startup and is read-only afterwards.
type Service struct {
	store  *dataset.Store
	bundle *artifacts.Bundle
	limit  int
}

// New wraps an indexed dataset and a consistent artifact bundle.
func New(store *dataset.Store, bundle *artifacts.Bundle, opts Options) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("prediction service requires a dataset")
	}
	if bundle == nil {
		return nil, fmt.Errorf("prediction service requires model artifacts")
	}
	if err := bundle.CheckConsistency(); err != nil {
		return nil, fmt.Errorf("invalid model artifacts: %w", err)
	}

	limit := opts.OverviewLimit
	if limit <= 0 {
		limit = DefaultOverviewLimit
	}
	return &Service{store: store, bundle: bundle, limit: limit}, nil
}

// Load reads the dataset and the three artifacts. Any failure is a startup load error naming the path.
func Load(ctx context.Context, source dataset.Source, paths artifacts.Paths, opts Options) (*Service, error) {
	bundle, err := artifacts.LoadBundle(ctx, paths)
	if err != nil {
		return nil, err
	}

	records, err := source.LoadRecords(ctx)
	if err != nil {
		return nil, err
	}

	return New(dataset.NewStore(records), bundle, opts)
}

// ModelAccuracy returns the training-time accuracy as a percentage rounded to 2 decimals.
func (s *Service) ModelAccuracy() float64 {
	return percent(s.bundle.Accuracy)
}

// DatasetSize returns the number of indexed records
func (s *Service) DatasetSize() int {
	return s.store.Len()
}

// Predict looks up movieName case-insensitively and classifies its overview.
// An unknown title is reported as VerdictUnknown, never as an error.
func (s *Service) Predict(movieName string) types.PredictionResult {
	name := strings.TrimSpace(movieName)

	record, ok := s.store.Lookup(name)
	if !ok {
		return types.PredictionResult{
			Title:         name,
			Overview:      NotFoundOverview,
			Verdict:       types.VerdictUnknown,
			ModelAccuracy: s.ModelAccuracy(),
		}
	}

	vec := s.bundle.Vectorizer.Transform(record.Overview)
	label, prob := s.bundle.Classifier.Predict(vec)

	verdict := types.VerdictNotWorthWatching
	if label == 1 {
		verdict = types.VerdictWorthWatching
	}
	confidence := percent(prob)

	return types.PredictionResult{
		Title:         record.Title,
		Rating:        record.Rating,
		Overview:      Truncate(record.Overview, s.limit),
		Verdict:       verdict,
		Confidence:    &confidence,
		ModelAccuracy: s.ModelAccuracy(),
	}
}

// Truncate keeps the first limit characters of text and appends Ellipsis only when something was cut.
func Truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + Ellipsis
}

func percent(fraction float64) float64 {
	return math.Round(fraction*100*100) / 100
}
