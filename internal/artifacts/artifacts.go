package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/movie-insight/internal/classifier"
	"github.com/jonathan/movie-insight/internal/schemas"
	"github.com/jonathan/movie-insight/internal/vectorize"
	artifactschemas "github.com/jonathan/movie-insight/schemas"
	"golang.org/x/sync/errgroup"
)

// Default artifact file names
const (
	VectorizerFile = "tfidf_vectorizer.json"
	ClassifierFile = "movie_model_tfidf_lr.json"
	AccuracyFile   = "model_accuracy.json"
)

// Document kinds written into each artifact
const (
	KindVectorizer = "tfidf_vectorizer"
	KindClassifier = "logistic_regression"
	KindAccuracy   = "model_accuracy"
)

// Paths locates the three artifact files
type Paths struct {
	Vectorizer string
	Classifier string
	Accuracy   string
}

// PathsIn returns the default artifact locations inside dir.
func PathsIn(dir string) Paths {
	return Paths{
		Vectorizer: filepath.Join(dir, VectorizerFile),
		Classifier: filepath.Join(dir, ClassifierFile),
		Accuracy:   filepath.Join(dir, AccuracyFile),
	}
}

// All returns the paths in save order
func (p Paths) All() []string {
	return []string{p.Vectorizer, p.Classifier, p.Accuracy}
}

// ClassifierMeta records how the classifier was fitted
type ClassifierMeta struct {
	ClassBalanced bool
	Iterations    int
	Converged     bool
}

// Bundle holds the three artifacts the prediction service needs together
type Bundle struct {
	Vectorizer *vectorize.Model
	Classifier *classifier.Model
	Accuracy   float64
}

// CheckConsistency verifies that the classifier consumes the vectorizer's feature space.
func (b *Bundle) CheckConsistency() error {
	if b.Vectorizer == nil || b.Classifier == nil {
		return fmt.Errorf("bundle is incomplete")
	}
	if b.Vectorizer.Dimension() != b.Classifier.Dimension() {
		return fmt.Errorf("classifier expects %d features but vectorizer produces %d",
			b.Classifier.Dimension(), b.Vectorizer.Dimension())
	}
	if b.Accuracy < 0 || b.Accuracy > 1 {
		return fmt.Errorf("accuracy %v is outside [0, 1]", b.Accuracy)
	}
	return nil
}

type vectorizerDocument struct {
	Kind        string         `json:"kind"`
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
	StopWords   bool           `json:"stop_words"`
}

type classifierDocument struct {
	Kind          string    `json:"kind"`
	Weights       []float64 `json:"weights"`
	Bias          float64   `json:"bias"`
	ClassBalanced bool      `json:"class_balanced"`
	Iterations    int       `json:"iterations"`
	Converged     bool      `json:"converged"`
}

type accuracyDocument struct {
	Kind     string  `json:"kind"`
	Accuracy float64 `json:"accuracy"`
	TestRows int     `json:"test_rows,omitempty"`
}

// EncodeVectorizer renders the vectorizer artifact document.
func EncodeVectorizer(m *vectorize.Model) ([]byte, error) {
	return json.MarshalIndent(vectorizerDocument{
		Kind:        KindVectorizer,
		Vocabulary:  m.Vocabulary,
		IDF:         m.IDF,
		MaxFeatures: m.MaxFeatures,
		StopWords:   m.StopWords,
	}, "", "  ")
}

// EncodeClassifier renders the classifier artifact document.
func EncodeClassifier(m *classifier.Model, meta ClassifierMeta) ([]byte, error) {
	return json.MarshalIndent(classifierDocument{
		Kind:          KindClassifier,
		Weights:       m.Weights,
		Bias:          m.Bias,
		ClassBalanced: meta.ClassBalanced,
		Iterations:    meta.Iterations,
		Converged:     meta.Converged,
	}, "", "  ")
}

// EncodeAccuracy renders the accuracy artifact document. Go's float formatting round-trips exactly.
func EncodeAccuracy(accuracy float64, testRows int) ([]byte, error) {
	return json.MarshalIndent(accuracyDocument{
		Kind:     KindAccuracy,
		Accuracy: accuracy,
		TestRows: testRows,
	}, "", "  ")
}

// SaveVectorizer writes the vectorizer artifact to path.
func SaveVectorizer(path string, m *vectorize.Model) error {
	data, err := EncodeVectorizer(m)
	if err != nil {
		return fmt.Errorf("failed to marshal vectorizer: %w", err)
	}
	return writeFile(path, data)
}

// SaveClassifier writes the classifier artifact to path.
func SaveClassifier(path string, m *classifier.Model, meta ClassifierMeta) error {
	data, err := EncodeClassifier(m, meta)
	if err != nil {
		return fmt.Errorf("failed to marshal classifier: %w", err)
	}
	return writeFile(path, data)
}

// SaveAccuracy writes the accuracy artifact to path.
func SaveAccuracy(path string, accuracy float64, testRows int) error {
	data, err := EncodeAccuracy(accuracy, testRows)
	if err != nil {
		return fmt.Errorf("failed to marshal accuracy: %w", err)
	}
	return writeFile(path, data)
}

// LoadVectorizer reads and validates a vectorizer artifact.
func LoadVectorizer(path string) (*vectorize.Model, error) {
	var doc vectorizerDocument
	if err := readDocument(path, artifactschemas.Vectorizer, &doc); err != nil {
		return nil, err
	}
	m := &vectorize.Model{
		Vocabulary:  doc.Vocabulary,
		IDF:         doc.IDF,
		MaxFeatures: doc.MaxFeatures,
		StopWords:   doc.StopWords,
	}
	if err := m.Validate(); err != nil {
		return nil, &LoadError{Path: path, Message: "invalid vectorizer", Cause: err}
	}
	return m, nil
}

// LoadClassifier reads and validates a classifier artifact.
func LoadClassifier(path string) (*classifier.Model, ClassifierMeta, error) {
	var doc classifierDocument
	if err := readDocument(path, artifactschemas.Classifier, &doc); err != nil {
		return nil, ClassifierMeta{}, err
	}
	m := &classifier.Model{Weights: doc.Weights, Bias: doc.Bias}
	if err := m.Validate(); err != nil {
		return nil, ClassifierMeta{}, &LoadError{Path: path, Message: "invalid classifier", Cause: err}
	}
	meta := ClassifierMeta{
		ClassBalanced: doc.ClassBalanced,
		Iterations:    doc.Iterations,
		Converged:     doc.Converged,
	}
	return m, meta, nil
}

// LoadAccuracy reads an accuracy artifact.
func LoadAccuracy(path string) (float64, error) {
	var doc accuracyDocument
	if err := readDocument(path, artifactschemas.Accuracy, &doc); err != nil {
		return 0, err
	}
	return doc.Accuracy, nil
}

// Save writes all three artifacts and returns the written paths.
func Save(paths Paths, bundle *Bundle, meta ClassifierMeta, testRows int) ([]string, error) {
	if err := bundle.CheckConsistency(); err != nil {
		return nil, fmt.Errorf("refusing to save inconsistent artifacts: %w", err)
	}
	if err := SaveVectorizer(paths.Vectorizer, bundle.Vectorizer); err != nil {
		return nil, err
	}
	if err := SaveClassifier(paths.Classifier, bundle.Classifier, meta); err != nil {
		return nil, err
	}
	if err := SaveAccuracy(paths.Accuracy, bundle.Accuracy, testRows); err != nil {
		return nil, err
	}
	return paths.All(), nil
}

// WriteDocuments writes stored artifact documents, keyed by file name, into paths.
// Every document must pass its schema before anything is written.
func WriteDocuments(paths Paths, docs map[string][]byte) ([]string, error) {
	targets := []struct {
		name   string
		path   string
		schema string
	}{
		{VectorizerFile, paths.Vectorizer, artifactschemas.Vectorizer},
		{ClassifierFile, paths.Classifier, artifactschemas.Classifier},
		{AccuracyFile, paths.Accuracy, artifactschemas.Accuracy},
	}

	for _, t := range targets {
		data, ok := docs[t.name]
		if !ok {
			return nil, fmt.Errorf("artifact %s is missing", t.name)
		}
		if err := schemas.ValidateBytes(t.schema, data); err != nil {
			return nil, fmt.Errorf("artifact %s failed schema validation: %w", t.name, err)
		}
	}

	written := make([]string, 0, len(targets))
	for _, t := range targets {
		if err := writeFile(t.path, docs[t.name]); err != nil {
			return nil, err
		}
		written = append(written, t.path)
	}
	return written, nil
}

// LoadBundle reads the three artifacts concurrently and checks that they describe one feature space.
// The first failure is returned.
func LoadBundle(ctx context.Context, paths Paths) (*Bundle, error) {
	var bundle Bundle
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		m, err := LoadVectorizer(paths.Vectorizer)
		bundle.Vectorizer = m
		return err
	})
	g.Go(func() error {
		m, _, err := LoadClassifier(paths.Classifier)
		bundle.Classifier = m
		return err
	})
	g.Go(func() error {
		acc, err := LoadAccuracy(paths.Accuracy)
		bundle.Accuracy = acc
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := bundle.CheckConsistency(); err != nil {
		return nil, &LoadError{Path: paths.Classifier, Message: "artifacts are inconsistent", Cause: err}
	}
	return &bundle, nil
}

func readDocument(path, schema string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &LoadError{Path: path, Message: "failed to read artifact", Cause: err}
	}
	if err := schemas.ValidateBytes(schema, data); err != nil {
		return &LoadError{Path: path, Message: "artifact failed schema validation", Cause: err}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &LoadError{Path: path, Message: "failed to decode artifact", Cause: err}
	}
	return nil
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write artifact %s: %w", path, err)
	}
	return nil
}
