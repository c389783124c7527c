package main

import (
	"os"
	"path/filepath"
	"testing"
)

// getBinaryPath returns the path to the movie_insight binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "movie_insight"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath, err := filepath.Abs(filepath.Join("..", "..", "bin", binaryName))
	if err != nil {
		t.Fatalf("failed to resolve binary path: %v", err)
	}
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/movie_insight ./cmd/movie_insight'", binaryPath)
	}

	return binaryPath
}
