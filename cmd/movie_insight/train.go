package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/movie-insight/internal/artifacts"
	"github.com/jonathan/movie-insight/internal/observability"
	"github.com/jonathan/movie-insight/internal/training"
	"github.com/spf13/cobra"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the TF-IDF vectorizer and classifier",
	Long: `Loads the movie dataset, samples and filters it, splits 80/20, fits a TF-IDF vectorizer and a
class-balanced logistic regression on the training split, evaluates on the held-out split and writes
tfidf_vectorizer.json, movie_model_tfidf_lr.json and model_accuracy.json.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runTrain,
}

var (
	trainConfigPath    string
	trainDataset       string
	trainArtifactsDir  string
	trainSampleCap     int
	trainSeed          uint64
	trainTestRatio     float64
	trainMaxFeatures   int
	trainMaxIter       int
	trainKeepStopWords bool
	trainDatabaseURL   string
	trainFromDB        bool
	trainRecord        bool
	trainVerbose       bool
)

func init() {
	// Config file flag (processed first)
	trainCmd.Flags().StringVar(&trainConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	trainCmd.Flags().StringVarP(&trainDataset, "dataset", "d", "", "Path to the movie CSV dataset (default train_dataset.csv)")
	trainCmd.Flags().StringVarP(&trainArtifactsDir, "artifacts-dir", "a", "", "Directory to write model artifacts to (default current directory)")
	trainCmd.Flags().IntVar(&trainSampleCap, "sample-cap", 0, "Maximum rows sampled before filtering (default 200000, -1 keeps every row)")
	trainCmd.Flags().Uint64Var(&trainSeed, "seed", 0, "Seed for sampling and splitting (default 42)")
	trainCmd.Flags().Float64Var(&trainTestRatio, "test-ratio", 0, "Held-out fraction (default 0.2)")
	trainCmd.Flags().IntVar(&trainMaxFeatures, "max-features", 0, "Maximum vocabulary size (default 5000)")
	trainCmd.Flags().IntVar(&trainMaxIter, "max-iter", 0, "Maximum optimizer iterations (default 300)")
	trainCmd.Flags().BoolVar(&trainKeepStopWords, "keep-stop-words", false, "Keep English stop words in the vocabulary")
	trainCmd.Flags().BoolVar(&trainRecord, "record", false, "Record the run and its artifacts in PostgreSQL")
	trainCmd.Flags().BoolVarP(&trainVerbose, "verbose", "v", false, "Print detailed progress information")
	addDatabaseFlags(trainCmd, &trainDatabaseURL, &trainFromDB)

	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	cfg, err := loadConfig(trainConfigPath, trainVerbose)
	if err != nil {
		return err
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("dataset") {
		cfg.Dataset = trainDataset
	}
	if cmd.Flags().Changed("artifacts-dir") {
		cfg.ArtifactsDir = trainArtifactsDir
	}
	if cmd.Flags().Changed("sample-cap") {
		cfg.SampleCap = trainSampleCap
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = trainSeed
	}
	if cmd.Flags().Changed("test-ratio") {
		cfg.TestRatio = trainTestRatio
	}
	if cmd.Flags().Changed("max-features") {
		cfg.MaxFeatures = trainMaxFeatures
	}
	if cmd.Flags().Changed("max-iter") {
		cfg.MaxIter = trainMaxIter
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = trainVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = trainDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg, err = finishConfig(cfg)
	if err != nil {
		return err
	}

	// Step 4: Resolve the dataset source
	source, database, err := openSource(ctx, cfg, trainFromDB)
	if err != nil {
		return err
	}
	if database == nil && trainRecord {
		database, err = connect(ctx, cfg)
		if err != nil {
			return err
		}
	}
	if database != nil {
		defer database.Close()
	}

	opts := training.Options{
		Source:        source,
		Artifacts:     artifacts.PathsIn(cfg.ArtifactsDir),
		SampleCap:     cfg.SampleCap,
		Seed:          cfg.Seed,
		TestRatio:     cfg.TestRatio,
		MaxFeatures:   cfg.MaxFeatures,
		KeepStopWords: trainKeepStopWords,
		MaxIter:       cfg.MaxIter,
		Out:           os.Stdout,
	}
	if trainRecord {
		opts.Recorder = database
	}

	// Step 5: Train and persist
	report, err := training.Run(ctx, opts)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintTrainingReport(report)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Accuracy: %.2f%%\n", report.Accuracy*100)
	for _, path := range report.ArtifactPaths {
		_, _ = fmt.Fprintf(os.Stdout, "Saved %s\n", path)
	}
	_, _ = fmt.Fprintln(os.Stdout, "Training complete")

	return nil
}
