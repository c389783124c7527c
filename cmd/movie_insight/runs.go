package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/jonathan/movie-insight/internal/artifacts"
	"github.com/jonathan/movie-insight/internal/config"
	"github.com/jonathan/movie-insight/internal/db"
	"github.com/jonathan/movie-insight/internal/observability"
	"github.com/jonathan/movie-insight/internal/types"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded training runs and restore their artifacts",
	Long: `Reads the training_runs audit written by "train --record".

Without --run-id the most recent runs are listed. With --run-id the run's report is printed, and
--export-dir additionally writes the run's three stored artifacts so predict can use them.`,
	RunE: runRuns,
}

var (
	runsLimit       int
	runsRunID       string
	runsExportDir   string
	runsDatabaseURL string
)

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "Number of recent runs to list")
	runsCmd.Flags().StringVar(&runsRunID, "run-id", "", "Show a single training run")
	runsCmd.Flags().StringVar(&runsExportDir, "export-dir", "", "Write the run's stored artifacts into this directory (requires --run-id)")
	runsCmd.Flags().StringVar(&runsDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(runsCmd)
}

func runRuns(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// 1. Check flag combinations before connecting
	if runsExportDir != "" && runsRunID == "" {
		return fmt.Errorf("--export-dir requires --run-id")
	}
	var runID uuid.UUID
	if runsRunID != "" {
		var err error
		if runID, err = uuid.Parse(runsRunID); err != nil {
			return fmt.Errorf("invalid run ID %q: %w", runsRunID, err)
		}
	}
	if runsLimit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", runsLimit)
	}

	// 2. Connect and migrate
	cfg := config.Config{DatabaseURL: runsDatabaseURL}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	// 3. List, show or export
	if runsRunID == "" {
		runs, err := database.ListTrainingRuns(ctx, runsLimit)
		if err != nil {
			return err
		}
		printRuns(runs)
		return nil
	}

	run, err := database.GetTrainingRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("training run %s not found", runID)
	}
	if err := printRun(run); err != nil {
		return err
	}

	if runsExportDir != "" {
		return exportRun(ctx, database, run, runsExportDir)
	}
	return nil
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func printRuns(runs []db.TrainingRun) {
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No training runs recorded")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTATUS\tACCURACY\tCREATED\tSOURCE")
	for _, run := range runs {
		accuracy := "N/A"
		if run.Accuracy != nil {
			accuracy = fmt.Sprintf("%.2f%%", *run.Accuracy*100)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", run.ID, run.Status, accuracy, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Source)
	}
	w.Flush()
}

func printRun(run *db.TrainingRun) error {
	_, _ = fmt.Fprintf(os.Stdout, "Run %s (%s) from %s\n", run.ID, run.Status, run.Source)
	if len(run.Report) == 0 {
		return nil
	}
	var report types.TrainingReport
	if err := json.Unmarshal(run.Report, &report); err != nil {
		return fmt.Errorf("failed to decode report of run %s: %w", run.ID, err)
	}
	observability.NewPrinter(os.Stdout).PrintTrainingReport(&report)
	return nil
}

// exportRun restores a completed run's artifacts and checks that they load as one bundle.
func exportRun(ctx context.Context, database *db.DB, run *db.TrainingRun, dir string) error {
	if run.Status != db.RunStatusCompleted {
		return fmt.Errorf("training run %s is %s; only completed runs can be exported", run.ID, run.Status)
	}

	docs := make(map[string][]byte, 3)
	for _, name := range []string{artifacts.VectorizerFile, artifacts.ClassifierFile, artifacts.AccuracyFile} {
		artifact, err := database.GetModelArtifact(ctx, run.ID, name)
		if err != nil {
			return err
		}
		if artifact == nil {
			return fmt.Errorf("training run %s has no stored %s", run.ID, name)
		}
		docs[name] = artifact.Content
	}

	paths := artifacts.PathsIn(dir)
	written, err := artifacts.WriteDocuments(paths, docs)
	if err != nil {
		return err
	}
	if _, err := artifacts.LoadBundle(ctx, paths); err != nil {
		return err
	}

	for _, path := range written {
		_, _ = fmt.Fprintf(os.Stdout, "Saved %s\n", path)
	}
	return nil
}
