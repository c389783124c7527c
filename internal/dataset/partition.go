package dataset

import (
	"math"
	"math/rand/v2"

	"github.com/jonathan/movie-insight/internal/types"
)

// Sample draws up to limit records at random using a seeded generator.
// A non-positive limit, or a dataset no larger than limit, returns every record.
func Sample(records []types.MovieRecord, limit int, seed uint64) []types.MovieRecord {
	if limit <= 0 || len(records) <= limit {
		out := make([]types.MovieRecord, len(records))
		copy(out, records)
		return out
	}

	perm := newRand(seed).Perm(len(records))
	out := make([]types.MovieRecord, limit)
	for i := 0; i < limit; i++ {
		out[i] = records[perm[i]]
	}
	return out
}

// FilterUsable drops records missing a cleaned overview or a label.
func FilterUsable(records []types.MovieRecord) []types.MovieRecord {
	out := make([]types.MovieRecord, 0, len(records))
	for i := range records {
		if records[i].Usable() {
			out = append(out, records[i])
		}
	}
	return out
}

// Split shuffles records with the seed and partitions them into train and held-out sets.
// The held-out set holds ceil(testRatio * n) records.
func Split(records []types.MovieRecord, testRatio float64, seed uint64) (train, test []types.MovieRecord) {
	n := len(records)
	nTest := int(math.Ceil(testRatio * float64(n)))
	if nTest > n {
		nTest = n
	}

	perm := newRand(seed).Perm(n)
	test = make([]types.MovieRecord, 0, nTest)
	train = make([]types.MovieRecord, 0, n-nTest)
	for i, idx := range perm {
		if i < nTest {
			test = append(test, records[idx])
		} else {
			train = append(train, records[idx])
		}
	}
	return train, test
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
