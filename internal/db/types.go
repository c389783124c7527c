package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/movie-insight/internal/types"
)

// Training run statuses
const (
	RunStatusRunning   = types.RunStatusRunning
	RunStatusCompleted = types.RunStatusCompleted
	RunStatusFailed    = types.RunStatusFailed
)

// TrainingRun represents a training_runs record
type TrainingRun struct {
	ID          uuid.UUID       `json:"id"`
	Source      string          `json:"source"`
	Status      string          `json:"status"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Report      json.RawMessage `json:"report,omitempty"`
	Accuracy    *float64        `json:"accuracy,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

// ModelArtifact represents a stored artifact document for a training run
type ModelArtifact struct {
	ID        uuid.UUID       `json:"id"`
	RunID     uuid.UUID       `json:"run_id"`
	Name      string          `json:"name"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
}
