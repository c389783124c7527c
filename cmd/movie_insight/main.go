// Package main provides the entry point for the movie_insight CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "movie_insight",
	Short: "Movie worth-watching predictor",
	Long:  "Movie Insight trains a TF-IDF + logistic regression classifier on movie synopses and predicts whether a movie is worth watching.",
	// Errors are printed once by main
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
