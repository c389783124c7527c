// Package types provides type definitions for structured data used throughout the movie-insight system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// MovieRecord represents a single row of the movie dataset
type MovieRecord struct {
	Title         string   `json:"title"`
	Rating        *float64 `json:"rating,omitempty"` // vote_average; nil when missing
	Overview      string   `json:"overview"`
	CleanOverview string   `json:"clean_overview"`           // Preprocessed synopsis used for training
	WorthWatching *bool    `json:"worth_watching,omitempty"` // Binary label; nil when missing
}

// Usable reports whether the record carries every field required for training.
func (m *MovieRecord) Usable() bool {
	return strings.TrimSpace(m.CleanOverview) != "" && m.WorthWatching != nil
}

// Label returns the binary training label (1 = worth watching).
// Callers must check Usable first.
func (m *MovieRecord) Label() int {
	if m.WorthWatching != nil && *m.WorthWatching {
		return 1
	}
	return 0
}
