package db

import (
	"strings"
	"testing"

	"github.com/jonathan/movie-insight/internal/dataset"
	"github.com/stretchr/testify/assert"
)

// MovieSource must satisfy the dataset source contract
var _ dataset.Source = MovieSource{}

func TestRunStatusConstants(t *testing.T) {
	statuses := []string{RunStatusRunning, RunStatusCompleted, RunStatusFailed}

	seen := make(map[string]bool)
	for _, status := range statuses {
		assert.NotEmpty(t, status, "status constant should not be empty")
		assert.False(t, seen[status], "status constants must be distinct")
		seen[status] = true
	}
}

func TestSchemaSQL_DefinesTables(t *testing.T) {
	for _, table := range []string{"movies", "training_runs", "model_artifacts"} {
		assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.True(t, strings.Contains(schemaSQL, "UNIQUE (run_id, name)"), "artifact upserts rely on the unique key")
}

func TestMovieSource_Describe(t *testing.T) {
	assert.Equal(t, "postgres:movies", MovieSource{}.Describe())
}
