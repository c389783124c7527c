package main

import (
	"bytes"
	"encoding/json"
	"image"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/movie-insight/internal/poster"
	"github.com/jonathan/movie-insight/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// trainFixture trains artifacts into dir with the built binary and returns the dataset path.
func trainFixture(t *testing.T, binaryPath, dir string) string {
	t.Helper()

	datasetPath := writeDatasetCSV(t, dir, 90)
	cmd := exec.Command(binaryPath, "train", "--dataset", datasetPath, "--artifacts-dir", dir)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "training should succeed: %s", output)
	return datasetPath
}

func TestPredictCommand_KnownTitle(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	datasetPath := trainFixture(t, binaryPath, dir)

	cmd := exec.Command(binaryPath, "predict", "--title", "inception", "--dataset", datasetPath, "--artifacts-dir", dir)
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command should succeed: %s", output)

	assert.Contains(t, string(output), "--- Movie Prediction Result ---")
	assert.Contains(t, string(output), "Title           : Inception")
	assert.Contains(t, string(output), "Rating          : 8.3")
	assert.Contains(t, string(output), "Model Accuracy  : ")
	assert.NotContains(t, string(output), "Prediction      : Unknown")
}

func TestPredictCommand_UnknownTitleJSON(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	datasetPath := trainFixture(t, binaryPath, dir)

	cmd := exec.Command(binaryPath, "predict", "-t", "Some Nonexistent Title Xyz123", "-d", datasetPath, "-a", dir, "--json")
	output, err := cmd.Output()
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal(output, &result))
	assert.Equal(t, "Unknown", result["result"])
	assert.Equal(t, "N/A", result["confidence"])
	assert.Equal(t, "Movie not found in database.", result["overview"])
	assert.NotNil(t, result["model_accuracy"])
}

func TestPredictCommand_PromptsForTitle(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	datasetPath := trainFixture(t, binaryPath, dir)

	cmd := exec.Command(binaryPath, "predict", "-d", datasetPath, "-a", dir)
	cmd.Stdin = strings.NewReader("  INCEPTION  \n")
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command should succeed: %s", output)

	assert.Contains(t, string(output), "Enter the movie name: ")
	assert.Contains(t, string(output), "Title           : Inception")
}

func TestPredictCommand_MissingArtifact(t *testing.T) {
	binaryPath := getBinaryPath(t)
	dir := t.TempDir()
	datasetPath := trainFixture(t, binaryPath, dir)

	accuracyPath := filepath.Join(dir, "model_accuracy.json")
	require.NoError(t, os.Remove(accuracyPath))

	cmd := exec.Command(binaryPath, "predict", "-t", "Inception", "-d", datasetPath, "-a", dir)
	output, err := cmd.CombinedOutput()

	assert.Error(t, err, "command should fail")
	assert.Contains(t, string(output), accuracyPath)
	if exitError, ok := err.(*exec.ExitError); ok {
		assert.Equal(t, 1, exitError.ExitCode())
	}
}

func TestPromptTitle(t *testing.T) {
	var out bytes.Buffer
	title, err := promptTitle(strings.NewReader("  The Matrix \n"), &out)
	require.NoError(t, err)
	assert.Equal(t, "The Matrix", title)
	assert.Equal(t, "Enter the movie name: ", out.String())

	title, err = promptTitle(strings.NewReader("Dune"), &out)
	require.NoError(t, err)
	assert.Equal(t, "Dune", title, "input without a trailing newline is accepted")

	_, err = promptTitle(strings.NewReader("\n"), &out)
	assert.Error(t, err)
}

func TestPosterSource(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	provider := poster.NewMemoryProvider(map[string]image.Image{"Inception": img}, nil)

	source, err := posterSource(provider, types.PredictionResult{Title: "Inception", Verdict: types.VerdictWorthWatching})
	require.NoError(t, err)
	assert.Equal(t, string(poster.SourceTitle), source)

	source, err = posterSource(provider, types.PredictionResult{Title: "Inception", Verdict: types.VerdictUnknown})
	require.NoError(t, err)
	assert.Equal(t, string(poster.SourcePlaceholder), source)
}
