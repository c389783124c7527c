package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/movie-insight/internal/config"
	"github.com/jonathan/movie-insight/internal/dataset"
	"github.com/spf13/cobra"
)

var importMoviesCmd = &cobra.Command{
	Use:   "import-movies",
	Short: "Load the movie CSV dataset into PostgreSQL",
	Long:  "Reads the Latin-1 movie CSV and replaces the contents of the movies table, so train and predict can use --from-db.",
	RunE:  runImportMovies,
}

var (
	importDataset     string
	importDatabaseURL string
)

func init() {
	importMoviesCmd.Flags().StringVarP(&importDataset, "dataset", "d", "", "Path to the movie CSV dataset (required)")
	importMoviesCmd.Flags().StringVar(&importDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	if err := importMoviesCmd.MarkFlagRequired("dataset"); err != nil {
		panic(fmt.Sprintf("failed to mark dataset flag as required: %v", err))
	}

	rootCmd.AddCommand(importMoviesCmd)
}

func runImportMovies(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// 1. Read the dataset first so a bad file never touches the table
	records, err := dataset.LoadCSV(importDataset)
	if err != nil {
		return err
	}
	if dups := dataset.NewStore(records).Duplicates(); len(dups) > 0 {
		_, _ = fmt.Fprintf(os.Stderr, "Warning: %d duplicate titles; lookups use the first occurrence\n", len(dups))
	}

	// 2. Connect and migrate
	cfg := config.Config{DatabaseURL: importDatabaseURL}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	// 3. Replace the movies table
	count, err := database.ReplaceMovies(ctx, records)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(os.Stdout, "Imported %d movies from %s\n", count, importDataset)
	return nil
}
