package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	fixturePraise = []string{"brilliant", "masterpiece", "moving", "gripping", "stunning", "heartfelt"}
	fixturePans   = []string{"boring", "clumsy", "tedious", "forgettable", "bland", "messy"}
	fixtureScenes = []string{"heist", "voyage", "romance", "courtroom", "village", "space"}
)

// writeDatasetCSV writes a small separable dataset with an Inception row first and returns its path.
func writeDatasetCSV(t *testing.T, dir string, n int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("id,title,vote_average,overview,clean_overview,worth_watching\n")
	sb.WriteString("0,Inception,8.3,\"A thief who steals corporate secrets, brilliant gripping heist.\",thief steals corporate secrets brilliant gripping heist,1\n")
	for i := 1; i < n; i++ {
		positive := i%3 != 0
		words := fixturePans
		label := 0
		if positive {
			words = fixturePraise
			label = 1
		}
		text := fmt.Sprintf("%s %s %s", words[i%len(words)], fixtureScenes[i%len(fixtureScenes)], words[(i+2)%len(words)])
		sb.WriteString(fmt.Sprintf("%d,Movie %03d,5.5,The %s.,%s,%d\n", i, i, text, text, label))
	}

	path := filepath.Join(dir, "train_dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0644))
	return path
}
