package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jonathan/movie-insight/internal/types"
)

// -----------------------------------------------------------------------------
// Training Run Methods
// -----------------------------------------------------------------------------

// CreateTrainingRun inserts a running training run with its parameters
func (db *DB) CreateTrainingRun(ctx context.Context, runID uuid.UUID, source string, params map[string]any) error {
	var paramsJSON []byte
	if params != nil {
		var err error
		paramsJSON, err = json.Marshal(params)
		if err != nil {
			return fmt.Errorf("failed to marshal parameters: %w", err)
		}
	}

	_, err := db.pool.Exec(ctx,
		`INSERT INTO training_runs (id, source, status, parameters)
		 VALUES ($1, $2, $3, $4)`,
		runID, source, RunStatusRunning, paramsJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to create training run: %w", err)
	}
	return nil
}

// CompleteTrainingRun sets the final status and, when available, the report and accuracy
func (db *DB) CompleteTrainingRun(ctx context.Context, runID uuid.UUID, status string, report *types.TrainingReport) error {
	var reportJSON []byte
	var accuracy *float64
	if report != nil {
		var err error
		reportJSON, err = json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		accuracy = &report.Accuracy
	}

	_, err := db.pool.Exec(ctx,
		`UPDATE training_runs
		 SET status = $1, report = $2, accuracy = $3, completed_at = NOW()
		 WHERE id = $4`,
		status, reportJSON, accuracy, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete training run: %w", err)
	}
	return nil
}

// SaveModelArtifact stores an artifact document for a training run
func (db *DB) SaveModelArtifact(ctx context.Context, runID uuid.UUID, name string, content []byte) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO model_artifacts (run_id, name, content)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (run_id, name) DO UPDATE SET content = $3, created_at = NOW()`,
		runID, name, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save model artifact %s: %w", name, err)
	}
	return nil
}

// GetTrainingRun retrieves a training run by ID. Returns nil when it does not exist.
func (db *DB) GetTrainingRun(ctx context.Context, runID uuid.UUID) (*TrainingRun, error) {
	var run TrainingRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, source, status, parameters, report, accuracy, created_at, completed_at
		 FROM training_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Source, &run.Status, &run.Parameters, &run.Report, &run.Accuracy, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get training run: %w", err)
	}
	return &run, nil
}

// ListTrainingRuns retrieves the most recent training runs
func (db *DB) ListTrainingRuns(ctx context.Context, limit int) ([]TrainingRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, source, status, parameters, report, accuracy, created_at, completed_at
		 FROM training_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	defer rows.Close()

	var runs []TrainingRun
	for rows.Next() {
		var run TrainingRun
		if err := rows.Scan(&run.ID, &run.Source, &run.Status, &run.Parameters, &run.Report, &run.Accuracy, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan training run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list training runs: %w", err)
	}
	return runs, nil
}

// GetModelArtifact retrieves an artifact document by run and name. Returns nil when it does not exist.
func (db *DB) GetModelArtifact(ctx context.Context, runID uuid.UUID, name string) (*ModelArtifact, error) {
	var artifact ModelArtifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, run_id, name, content, created_at
		 FROM model_artifacts WHERE run_id = $1 AND name = $2`,
		runID, name,
	).Scan(&artifact.ID, &artifact.RunID, &artifact.Name, &artifact.Content, &artifact.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get model artifact %s: %w", name, err)
	}
	return &artifact, nil
}
