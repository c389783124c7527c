package dataset

import (
	"fmt"
	"testing"

	"github.com/jonathan/movie-insight/internal/types"
	"github.com/stretchr/testify/assert"
)

func makeRecords(n int) []types.MovieRecord {
	records := make([]types.MovieRecord, n)
	for i := range records {
		label := i%2 == 0
		records[i] = types.MovieRecord{
			Title:         fmt.Sprintf("Movie %03d", i),
			CleanOverview: fmt.Sprintf("overview %d", i),
			WorthWatching: &label,
		}
	}
	return records
}

func titles(records []types.MovieRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Title
	}
	return out
}

func TestSample_BelowCapKeepsEverything(t *testing.T) {
	records := makeRecords(10)

	sampled := Sample(records, 20, 42)
	assert.Equal(t, titles(records), titles(sampled))

	sampled = Sample(records, 0, 42)
	assert.Len(t, sampled, 10)

	sampled = Sample(makeRecords(100), -1, 42)
	assert.Len(t, sampled, 100)
}

func TestSample_AboveCapIsDeterministic(t *testing.T) {
	records := makeRecords(100)

	first := Sample(records, 25, 42)
	second := Sample(records, 25, 42)
	other := Sample(records, 25, 7)

	assert.Len(t, first, 25)
	assert.Equal(t, titles(first), titles(second))
	assert.NotEqual(t, titles(first), titles(other))

	seen := make(map[string]bool)
	for _, title := range titles(first) {
		assert.False(t, seen[title], "sample must not repeat records")
		seen[title] = true
	}
}

func TestFilterUsable(t *testing.T) {
	positive := true
	records := []types.MovieRecord{
		{Title: "ok", CleanOverview: "text", WorthWatching: &positive},
		{Title: "no label", CleanOverview: "text"},
		{Title: "no text", WorthWatching: &positive},
	}

	usable := FilterUsable(records)
	assert.Equal(t, []string{"ok"}, titles(usable))
}

func TestSplit_Proportions(t *testing.T) {
	tests := []struct {
		n, wantTrain, wantTest int
	}{
		{100, 80, 20},
		{10, 8, 2},
		{7, 5, 2},
		{1, 0, 1},
		{0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			train, test := Split(makeRecords(tt.n), 0.2, 42)
			assert.Len(t, train, tt.wantTrain)
			assert.Len(t, test, tt.wantTest)
		})
	}
}

func TestSplit_DisjointAndDeterministic(t *testing.T) {
	records := makeRecords(50)

	train1, test1 := Split(records, 0.2, 42)
	train2, test2 := Split(records, 0.2, 42)
	assert.Equal(t, titles(train1), titles(train2))
	assert.Equal(t, titles(test1), titles(test2))

	inTest := make(map[string]bool)
	for _, title := range titles(test1) {
		inTest[title] = true
	}
	for _, title := range titles(train1) {
		assert.False(t, inTest[title], "held-out record %s leaked into training split", title)
	}
	assert.Equal(t, 50, len(train1)+len(test1))
}
