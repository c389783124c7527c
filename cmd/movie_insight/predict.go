package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jonathan/movie-insight/internal/artifacts"
	"github.com/jonathan/movie-insight/internal/observability"
	"github.com/jonathan/movie-insight/internal/poster"
	"github.com/jonathan/movie-insight/internal/prediction"
	"github.com/jonathan/movie-insight/internal/types"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict whether a movie is worth watching",
	Long: `Loads the dataset and the three trained artifacts, looks the movie up by title (case-insensitive)
and classifies its overview. When --title is omitted the movie name is read from standard input.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runPredict,
}

var (
	predictConfigPath    string
	predictTitle         string
	predictDataset       string
	predictArtifactsDir  string
	predictPosterDir     string
	predictOverviewLimit int
	predictJSON          bool
	predictDatabaseURL   string
	predictFromDB        bool
	predictVerbose       bool
)

func init() {
	// Config file flag (processed first)
	predictCmd.Flags().StringVar(&predictConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	predictCmd.Flags().StringVarP(&predictTitle, "title", "t", "", "Movie title to look up (prompts when omitted)")
	predictCmd.Flags().StringVarP(&predictDataset, "dataset", "d", "", "Path to the movie CSV dataset (default train_dataset.csv)")
	predictCmd.Flags().StringVarP(&predictArtifactsDir, "artifacts-dir", "a", "", "Directory holding the trained artifacts (default current directory)")
	predictCmd.Flags().StringVar(&predictPosterDir, "posters", "", "Directory of <title>.jpg posters; reports which poster would be shown")
	predictCmd.Flags().IntVar(&predictOverviewLimit, "overview-limit", 0, "Maximum overview characters shown (default 300)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "Print the result as JSON")
	predictCmd.Flags().BoolVarP(&predictVerbose, "verbose", "v", false, "Print detailed debug information")
	addDatabaseFlags(predictCmd, &predictDatabaseURL, &predictFromDB)

	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	cfg, err := loadConfig(predictConfigPath, predictVerbose)
	if err != nil {
		return err
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("dataset") {
		cfg.Dataset = predictDataset
	}
	if cmd.Flags().Changed("artifacts-dir") {
		cfg.ArtifactsDir = predictArtifactsDir
	}
	if cmd.Flags().Changed("posters") {
		cfg.PosterDir = predictPosterDir
	}
	if cmd.Flags().Changed("overview-limit") {
		cfg.OverviewLimit = predictOverviewLimit
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = predictVerbose
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = predictDatabaseURL
	}

	// Step 3: Apply defaults for unset values
	cfg, err = finishConfig(cfg)
	if err != nil {
		return err
	}

	// Step 4: Build the prediction service; any load failure is fatal
	source, database, err := openSource(ctx, cfg, predictFromDB)
	if err != nil {
		return err
	}
	if database != nil {
		defer database.Close()
	}

	service, err := prediction.Load(ctx, source, artifacts.PathsIn(cfg.ArtifactsDir), prediction.Options{
		OverviewLimit: cfg.OverviewLimit,
	})
	if err != nil {
		return err
	}
	if cfg.Verbose {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded %d movies from %s\n", service.DatasetSize(), source.Describe())
	}

	// Step 5: Read the movie name
	title := predictTitle
	if !cmd.Flags().Changed("title") {
		title, err = promptTitle(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}

	// Step 6: Predict and render
	result := service.Predict(title)

	if predictJSON {
		jsonOutput, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal prediction to JSON: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(jsonOutput))
		return nil
	}

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintPrediction(result)

	if cfg.PosterDir != "" {
		source, err := posterSource(poster.NewFSProvider(cfg.PosterDir), result)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		printer.PrintPredictionSummary(result, source)
	}

	return nil
}

// promptTitle asks for a movie name on out and reads one line from in.
func promptTitle(in io.Reader, out io.Writer) (string, error) {
	_, _ = fmt.Fprint(out, "Enter the movie name: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read movie name: %w", err)
	}
	title := strings.TrimSpace(line)
	if title == "" {
		return "", fmt.Errorf("movie name is required")
	}
	return title, nil
}

// posterSource describes the poster that would accompany result. Unknown movies show the default poster.
func posterSource(provider poster.Provider, result types.PredictionResult) (string, error) {
	title := result.Title
	if result.Verdict == types.VerdictUnknown {
		title = ""
	}
	p, err := provider.Get(title)
	if err != nil {
		return string(poster.SourcePlaceholder), err
	}
	if p.Path != "" {
		return fmt.Sprintf("%s (%s)", p.Source, p.Path), nil
	}
	return string(p.Source), nil
}
