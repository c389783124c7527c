package dataset

import (
	"context"

	"github.com/jonathan/movie-insight/internal/types"
)

// Source supplies every movie record in a stable order
type Source interface {
	LoadRecords(ctx context.Context) ([]types.MovieRecord, error)
	Describe() string
}

// CSVSource reads records from a Latin-1 tolerant CSV file
type CSVSource struct {
	Path string
}

// LoadRecords reads the whole file.
func (s CSVSource) LoadRecords(_ context.Context) ([]types.MovieRecord, error) {
	return LoadCSV(s.Path)
}

// Describe names the file for diagnostics
func (s CSVSource) Describe() string {
	return s.Path
}

// StaticSource serves a fixed slice of records
type StaticSource []types.MovieRecord

// LoadRecords returns the slice as-is.
func (s StaticSource) LoadRecords(_ context.Context) ([]types.MovieRecord, error) {
	return s, nil
}

// Describe names the source for diagnostics
func (s StaticSource) Describe() string {
	return "(in-memory)"
}
