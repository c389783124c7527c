package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jonathan/movie-insight/internal/types"
)

// -----------------------------------------------------------------------------
// Movies Methods
// -----------------------------------------------------------------------------

// ReplaceMovies replaces the movies table with records, preserving their order.
// It runs in one transaction so readers never see a partial dataset.
func (db *DB) ReplaceMovies(ctx context.Context, records []types.MovieRecord) (int64, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM movies`); err != nil {
		return 0, fmt.Errorf("failed to clear movies: %w", err)
	}

	count, err := tx.CopyFrom(ctx,
		pgx.Identifier{"movies"},
		[]string{"position", "title", "vote_average", "overview", "clean_overview", "worth_watching"},
		pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
			r := records[i]
			return []any{i, r.Title, r.Rating, r.Overview, r.CleanOverview, r.WorthWatching}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy movies: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit movies: %w", err)
	}
	return count, nil
}

// ListMovies returns every movie in dataset order
func (db *DB) ListMovies(ctx context.Context) ([]types.MovieRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, vote_average, overview, clean_overview, worth_watching
		 FROM movies ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	var records []types.MovieRecord
	for rows.Next() {
		var r types.MovieRecord
		if err := rows.Scan(&r.Title, &r.Rating, &r.Overview, &r.CleanOverview, &r.WorthWatching); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}
	return records, nil
}

// MovieSource adapts the movies table to the dataset source interface
type MovieSource struct {
	DB *DB
}

// LoadRecords returns every movie in dataset order
func (s MovieSource) LoadRecords(ctx context.Context) ([]types.MovieRecord, error) {
	return s.DB.ListMovies(ctx)
}

// Describe names the source for diagnostics
func (s MovieSource) Describe() string {
	return "postgres:movies"
}
