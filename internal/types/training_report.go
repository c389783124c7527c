// Package types provides type definitions for structured data used throughout the movie-insight system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Training run statuses recorded in the audit trail
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// TrainingReport summarizes a single training run
type TrainingReport struct {
	RunID          string         `json:"run_id"`
	LoadedRows     int            `json:"loaded_rows"`
	SampledRows    int            `json:"sampled_rows"`
	UsableRows     int            `json:"usable_rows"`
	TrainRows      int            `json:"train_rows"`
	TestRows       int            `json:"test_rows"`
	VocabularySize int            `json:"vocabulary_size"`
	Iterations     int            `json:"iterations"`
	Converged      bool           `json:"converged"`
	Accuracy       float64        `json:"accuracy"`
	Classes        []ClassMetrics `json:"classes"`
	ArtifactPaths  []string       `json:"artifact_paths"`
}

// ClassMetrics holds held-out precision, recall and F1 for one label
type ClassMetrics struct {
	Label     int     `json:"label"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}
