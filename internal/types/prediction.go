// Package types provides type definitions for structured data used throughout the movie-insight system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
)

// Verdict is the discrete outcome of a prediction
type Verdict string

// Verdict values
const (
	VerdictWorthWatching    Verdict = "Worth Watching"
	VerdictNotWorthWatching Verdict = "Not Worth Watching"
	VerdictUnknown          Verdict = "Unknown"
)

// NotApplicable is rendered for fields that have no value (missing rating, confidence of an unknown movie)
const NotApplicable = "N/A"

// PredictionResult is the outcome of a single prediction query
type PredictionResult struct {
	Title         string   `json:"title"`
	Rating        *float64 `json:"rating"`
	Overview      string   `json:"overview"`
	Verdict       Verdict  `json:"result"`
	Confidence    *float64 `json:"confidence"`     // Positive-class probability in percent; nil when not applicable
	ModelAccuracy float64  `json:"model_accuracy"` // Held-out accuracy in percent
}

// RatingText formats the rating for display.
func (r PredictionResult) RatingText() string {
	if r.Rating == nil {
		return NotApplicable
	}
	return formatNumber(*r.Rating)
}

// ConfidenceText formats the confidence for display, including the percent sign.
func (r PredictionResult) ConfidenceText() string {
	if r.Confidence == nil {
		return NotApplicable
	}
	return formatNumber(*r.Confidence) + "%"
}

// ModelAccuracyText formats the model accuracy for display, including the percent sign.
func (r PredictionResult) ModelAccuracyText() string {
	return formatNumber(r.ModelAccuracy) + "%"
}

// MarshalJSON renders nil rating and confidence as "N/A" instead of null.
func (r PredictionResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		Title         string  `json:"title"`
		Rating        any     `json:"rating"`
		Overview      string  `json:"overview"`
		Verdict       Verdict `json:"result"`
		Confidence    any     `json:"confidence"`
		ModelAccuracy float64 `json:"model_accuracy"`
	}
	w := wire{
		Title:         r.Title,
		Rating:        NotApplicable,
		Overview:      r.Overview,
		Verdict:       r.Verdict,
		Confidence:    NotApplicable,
		ModelAccuracy: r.ModelAccuracy,
	}
	if r.Rating != nil {
		w.Rating = *r.Rating
	}
	if r.Confidence != nil {
		w.Confidence = *r.Confidence
	}
	return json.Marshal(w)
}

// formatNumber prints a float without trailing zeros (78.4 rather than 78.40).
func formatNumber(v float64) string {
	return fmt.Sprintf("%g", v)
}
