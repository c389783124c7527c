package dataset

import (
	"strings"

	"github.com/jonathan/movie-insight/internal/types"
	"golang.org/x/text/cases"
)

// Store is a read-only, case-insensitive title index over the dataset.
// When several records share a title, the first one in dataset order wins.
// Records with a blank title stay in the dataset but are never matched.
type Store struct {
	records []types.MovieRecord
	byTitle map[string]int
}

// NewStore indexes the given records. The slice is not copied and must not be mutated afterwards.
func NewStore(records []types.MovieRecord) *Store {
	byTitle := make(map[string]int, len(records))
	for i := range records {
		key := titleKey(records[i].Title)
		if key == "" {
			continue
		}
		if _, exists := byTitle[key]; !exists {
			byTitle[key] = i
		}
	}
	return &Store{records: records, byTitle: byTitle}
}

// Lookup returns the first record whose title equals name, ignoring case.
func (s *Store) Lookup(name string) (*types.MovieRecord, bool) {
	key := titleKey(name)
	if key == "" {
		return nil, false
	}
	idx, ok := s.byTitle[key]
	if !ok {
		return nil, false
	}
	return &s.records[idx], true
}

// Len returns the number of records in the store
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the underlying records in dataset order
func (s *Store) Records() []types.MovieRecord {
	return s.records
}

// Duplicates returns case-folded titles that occur more than once.
func (s *Store) Duplicates() []string {
	counts := make(map[string]int, len(s.records))
	var dups []string
	for i := range s.records {
		key := titleKey(s.records[i].Title)
		if key == "" {
			continue
		}
		counts[key]++
		if counts[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}

// titleKey applies Unicode case folding, so "µ" and "Μ" map to the same key where lowercasing does not.
// Whitespace-only titles yield the empty key.
func titleKey(title string) string {
	if strings.TrimSpace(title) == "" {
		return ""
	}
	return cases.Fold().String(title)
}
