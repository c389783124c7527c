// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Dataset      string `json:"dataset,omitempty"`       // Path to the movie CSV dataset
	ArtifactsDir string `json:"artifacts_dir,omitempty"` // Directory holding the three model artifacts
	PosterDir    string `json:"poster_dir,omitempty"`    // Directory of <title>.jpg posters

	// Training
	SampleCap   int     `json:"sample_cap,omitempty" validate:"gte=-1"`         // Maximum rows sampled before filtering (0 = default, NoSampleCap = keep all)
	Seed        uint64  `json:"seed,omitempty"`                                 // Seed for sampling and splitting
	TestRatio   float64 `json:"test_ratio,omitempty" validate:"gte=0,lt=1"`     // Held-out fraction
	MaxFeatures int     `json:"max_features,omitempty" validate:"gte=0"`        // Vocabulary bound
	MaxIter     int     `json:"max_iter,omitempty" validate:"gte=0,lte=100000"` // Optimizer iteration cap

	// Prediction
	OverviewLimit int `json:"overview_limit,omitempty" validate:"gte=0"` // Display length of overviews, in characters

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed progress information
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// NoSampleCap disables sampling so every dataset row reaches the filter step.
const NoSampleCap = -1

// Defaults returns the built-in configuration used when neither a config file nor a flag sets a value.
func Defaults() Config {
	return Config{
		Dataset:       "train_dataset.csv",
		ArtifactsDir:  ".",
		SampleCap:     200000,
		Seed:          42,
		TestRatio:     0.2,
		MaxFeatures:   5000,
		MaxIter:       300,
		OverviewLimit: 300,
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("'%s' fails %s=%s", jsonName(fe.Field()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}

	// Validate file paths exist (if specified)
	if c.Dataset != "" {
		if _, err := os.Stat(c.Dataset); os.IsNotExist(err) {
			return fmt.Errorf("config error: dataset file not found: %s", c.Dataset)
		}
	}

	if c.PosterDir != "" {
		if info, err := os.Stat(c.PosterDir); err != nil || !info.IsDir() {
			return fmt.Errorf("config error: poster directory not found: %s", c.PosterDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Dataset == "" {
		result.Dataset = defaults.Dataset
	}
	if result.ArtifactsDir == "" {
		result.ArtifactsDir = defaults.ArtifactsDir
	}
	if result.PosterDir == "" {
		result.PosterDir = defaults.PosterDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Numeric fields: use default if zero
	if result.SampleCap == 0 {
		result.SampleCap = defaults.SampleCap
	}
	if result.Seed == 0 {
		result.Seed = defaults.Seed
	}
	if result.TestRatio == 0 {
		result.TestRatio = defaults.TestRatio
	}
	if result.MaxFeatures == 0 {
		result.MaxFeatures = defaults.MaxFeatures
	}
	if result.MaxIter == 0 {
		result.MaxIter = defaults.MaxIter
	}
	if result.OverviewLimit == 0 {
		result.OverviewLimit = defaults.OverviewLimit
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// jsonName maps a struct field name to its JSON key for error messages.
func jsonName(field string) string {
	switch field {
	case "SampleCap":
		return "sample_cap"
	case "TestRatio":
		return "test_ratio"
	case "MaxFeatures":
		return "max_features"
	case "MaxIter":
		return "max_iter"
	case "OverviewLimit":
		return "overview_limit"
	default:
		return field
	}
}
