// Package schemas embeds the JSON Schemas describing persisted model artifacts.
package schemas

import _ "embed"

// Vectorizer describes tfidf_vectorizer.json
//
//go:embed vectorizer.schema.json
var Vectorizer string

// Classifier describes movie_model_tfidf_lr.json
//
//go:embed classifier.schema.json
var Classifier string

// Accuracy describes model_accuracy.json
//
//go:embed accuracy.schema.json
var Accuracy string
