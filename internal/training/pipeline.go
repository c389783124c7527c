package training

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/jonathan/movie-insight/internal/artifacts"
	"github.com/jonathan/movie-insight/internal/classifier"
	"github.com/jonathan/movie-insight/internal/dataset"
	"github.com/jonathan/movie-insight/internal/evaluation"
	"github.com/jonathan/movie-insight/internal/types"
	"github.com/jonathan/movie-insight/internal/vectorize"
)

// Defaults mirror the offline training configuration
const (
	DefaultSampleCap = 200000
	DefaultSeed      = 42
	DefaultTestRatio = 0.2
)

// Recorder stores an audit trail of training runs. It is optional.
type Recorder interface {
	CreateTrainingRun(ctx context.Context, runID uuid.UUID, source string, params map[string]any) error
	SaveModelArtifact(ctx context.Context, runID uuid.UUID, name string, content []byte) error
	CompleteTrainingRun(ctx context.Context, runID uuid.UUID, status string, report *types.TrainingReport) error
}

// Options configures a training run
type Options struct {
	Source    dataset.Source
	Artifacts artifacts.Paths

	SampleCap     int     // Rows sampled before filtering; <= 0 keeps everything
	Seed          uint64  // Seed for sampling and splitting
	TestRatio     float64 // Held-out fraction; <= 0 uses DefaultTestRatio
	MaxFeatures   int     // Vocabulary bound; <= 0 uses vectorize.DefaultMaxFeatures
	KeepStopWords bool    // Keep English stop words in the vocabulary
	MaxIter       int     // Optimizer iteration cap; <= 0 uses classifier.DefaultMaxIter

	Recorder Recorder  // Optional run audit
	Out      io.Writer // Progress output; nil discards
}

// Result is the in-memory outcome of fitting, before anything is persisted
type Result struct {
	Bundle *artifacts.Bundle
	Meta   artifacts.ClassifierMeta
	Report *types.TrainingReport
}

func (o *Options) applyDefaults() {
	if o.TestRatio <= 0 {
		o.TestRatio = DefaultTestRatio
	}
	if o.MaxFeatures <= 0 {
		o.MaxFeatures = vectorize.DefaultMaxFeatures
	}
	if o.MaxIter <= 0 {
		o.MaxIter = classifier.DefaultMaxIter
	}
	if o.Out == nil {
		o.Out = io.Discard
	}
}

// Run loads the dataset, fits both models, evaluates on the held-out split and saves the three artifacts.
func Run(ctx context.Context, opts Options) (*types.TrainingReport, error) {
	opts.applyDefaults()
	if opts.Source == nil {
		return nil, fmt.Errorf("training requires a dataset source")
	}

	runID := uuid.New()
	progress(opts.Out, 1, "Loading dataset from %s", opts.Source.Describe())
	records, err := opts.Source.LoadRecords(ctx)
	if err != nil {
		return nil, &DataError{Message: fmt.Sprintf("cannot read dataset %s", opts.Source.Describe()), Cause: err}
	}

	if opts.Recorder != nil {
		params := map[string]any{
			"sample_cap":   opts.SampleCap,
			"seed":         opts.Seed,
			"test_ratio":   opts.TestRatio,
			"max_features": opts.MaxFeatures,
			"max_iter":     opts.MaxIter,
			"stop_words":   !opts.KeepStopWords,
		}
		if err := opts.Recorder.CreateTrainingRun(ctx, runID, opts.Source.Describe(), params); err != nil {
			return nil, fmt.Errorf("failed to record training run: %w", err)
		}
	}

	result, err := Fit(records, opts)
	if err != nil {
		recordFailure(ctx, opts.Recorder, runID)
		return nil, err
	}
	result.Report.RunID = runID.String()

	progress(opts.Out, 7, "Saving artifacts")
	written, err := artifacts.Save(opts.Artifacts, result.Bundle, result.Meta, result.Report.TestRows)
	if err != nil {
		recordFailure(ctx, opts.Recorder, runID)
		return nil, err
	}
	result.Report.ArtifactPaths = written

	if opts.Recorder != nil {
		if err := recordArtifacts(ctx, opts.Recorder, runID, result); err != nil {
			recordFailure(ctx, opts.Recorder, runID)
			return nil, err
		}
		if err := opts.Recorder.CompleteTrainingRun(ctx, runID, types.RunStatusCompleted, result.Report); err != nil {
			recordFailure(ctx, opts.Recorder, runID)
			return nil, fmt.Errorf("failed to complete training run: %w", err)
		}
	}

	return result.Report, nil
}

// Fit runs the sampling, filtering, splitting, fitting and evaluation steps on records in memory.
func Fit(records []types.MovieRecord, opts Options) (*Result, error) {
	opts.applyDefaults()
	report := &types.TrainingReport{LoadedRows: len(records)}

	progress(opts.Out, 2, "Sampling and dropping rows with missing values")
	sampled := dataset.Sample(records, opts.SampleCap, opts.Seed)
	report.SampledRows = len(sampled)
	usable := dataset.FilterUsable(sampled)
	report.UsableRows = len(usable)
	if len(usable) == 0 {
		return nil, &DataError{Message: fmt.Sprintf("no usable rows after dropping missing clean_overview or worth_watching (%d sampled of %d loaded)",
			len(sampled), len(records))}
	}

	progress(opts.Out, 3, "Splitting %d rows (test ratio %.2f)", len(usable), opts.TestRatio)
	train, test := dataset.Split(usable, opts.TestRatio, opts.Seed)
	report.TrainRows = len(train)
	report.TestRows = len(test)
	if len(train) == 0 || len(test) == 0 {
		return nil, &DataError{Message: fmt.Sprintf("split produced an empty partition (train=%d, test=%d)", len(train), len(test))}
	}

	trainDocs, trainLabels := columns(train)
	if _, err := classifier.ClassWeights(trainLabels); err != nil {
		return nil, &DataError{Message: fmt.Sprintf("training split of %d rows cannot be fitted", len(train)), Cause: err}
	}

	progress(opts.Out, 4, "Fitting TF-IDF vectorizer")
	vec, err := vectorize.Fit(trainDocs, vectorize.Options{
		MaxFeatures: opts.MaxFeatures,
		StopWords:   !opts.KeepStopWords,
	})
	if err != nil {
		if errors.Is(err, vectorize.ErrEmptyVocabulary) {
			return nil, &DataError{Message: "training synopses produce no vocabulary", Cause: err}
		}
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	report.VocabularySize = vec.Dimension()

	progress(opts.Out, 5, "Training logistic regression (%d features)", vec.Dimension())
	model, fit, err := classifier.Fit(vec.TransformAll(trainDocs), trainLabels, vec.Dimension(), classifier.Options{
		MaxIter:       opts.MaxIter,
		ClassBalanced: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	report.Iterations = fit.Iterations
	report.Converged = fit.Converged
	if !fit.Converged {
		_, _ = fmt.Fprintf(opts.Out, "Warning: optimizer stopped after %d iterations without converging\n", fit.Iterations)
	}

	progress(opts.Out, 6, "Evaluating on %d held-out rows", len(test))
	testDocs, testLabels := columns(test)
	predicted := make([]int, len(testDocs))
	for i, doc := range testDocs {
		predicted[i], _ = model.Predict(vec.Transform(doc))
	}
	if report.Accuracy, err = evaluation.Accuracy(testLabels, predicted); err != nil {
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}
	if report.Classes, err = evaluation.ClassReport(testLabels, predicted); err != nil {
		return nil, fmt.Errorf("failed to evaluate model: %w", err)
	}

	return &Result{
		Bundle: &artifacts.Bundle{Vectorizer: vec, Classifier: model, Accuracy: report.Accuracy},
		Meta: artifacts.ClassifierMeta{
			ClassBalanced: true,
			Iterations:    fit.Iterations,
			Converged:     fit.Converged,
		},
		Report: report,
	}, nil
}

func columns(records []types.MovieRecord) ([]string, []int) {
	docs := make([]string, len(records))
	labels := make([]int, len(records))
	for i := range records {
		docs[i] = records[i].CleanOverview
		labels[i] = records[i].Label()
	}
	return docs, labels
}

func recordArtifacts(ctx context.Context, rec Recorder, runID uuid.UUID, result *Result) error {
	vecDoc, err := artifacts.EncodeVectorizer(result.Bundle.Vectorizer)
	if err != nil {
		return fmt.Errorf("failed to encode vectorizer: %w", err)
	}
	clfDoc, err := artifacts.EncodeClassifier(result.Bundle.Classifier, result.Meta)
	if err != nil {
		return fmt.Errorf("failed to encode classifier: %w", err)
	}
	accDoc, err := artifacts.EncodeAccuracy(result.Bundle.Accuracy, result.Report.TestRows)
	if err != nil {
		return fmt.Errorf("failed to encode accuracy: %w", err)
	}

	docs := []struct {
		name    string
		content []byte
	}{
		{artifacts.VectorizerFile, vecDoc},
		{artifacts.ClassifierFile, clfDoc},
		{artifacts.AccuracyFile, accDoc},
	}
	for _, d := range docs {
		if err := rec.SaveModelArtifact(ctx, runID, d.name, d.content); err != nil {
			return fmt.Errorf("failed to record artifact %s: %w", d.name, err)
		}
	}
	return nil
}

func recordFailure(ctx context.Context, rec Recorder, runID uuid.UUID) {
	if rec == nil {
		return
	}
	_ = rec.CompleteTrainingRun(ctx, runID, types.RunStatusFailed, nil)
}

func progress(out io.Writer, step int, format string, args ...any) {
	_, _ = fmt.Fprintf(out, "Step %d/7: %s\n", step, fmt.Sprintf(format, args...))
}
