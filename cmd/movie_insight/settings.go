package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/movie-insight/internal/config"
	"github.com/jonathan/movie-insight/internal/dataset"
	"github.com/jonathan/movie-insight/internal/db"
	"github.com/spf13/cobra"
)

// loadConfig reads and validates the optional --config file.
func loadConfig(path string, verbose bool) (config.Config, error) {
	var cfg config.Config
	if path == "" {
		return cfg, nil
	}

	loadedCfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loadedCfg.Validate(); err != nil {
		return cfg, err
	}
	if verbose {
		_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", path)
	}
	return *loadedCfg, nil
}

// finishConfig fills defaults and the DATABASE_URL fallback, then re-validates the merged result.
func finishConfig(cfg config.Config) (config.Config, error) {
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	// Paths are checked when they are opened so the error names the file
	checked := cfg
	checked.Dataset = ""
	checked.PosterDir = ""
	if err := checked.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// addDatabaseFlags registers --db-url and --from-db on cmd.
func addDatabaseFlags(cmd *cobra.Command, dbURL *string, fromDB *bool) {
	cmd.Flags().StringVar(dbURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().BoolVar(fromDB, "from-db", false, "Read movies from the PostgreSQL movies table instead of the CSV dataset")
}

// openSource returns the dataset source and, when Postgres is involved, the open connection.
// The caller must close the returned DB when it is not nil.
func openSource(ctx context.Context, cfg config.Config, fromDB bool) (dataset.Source, *db.DB, error) {
	if !fromDB {
		return dataset.CSVSource{Path: cfg.Dataset}, nil, nil
	}
	database, err := connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return db.MovieSource{DB: database}, database, nil
}

func connect(ctx context.Context, cfg config.Config) (*db.DB, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}
