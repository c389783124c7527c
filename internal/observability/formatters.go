// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/movie-insight/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// labelWidth aligns the labels of the plain prediction listing
	labelWidth = 16
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintPrediction writes the labeled result lines, one field per line.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintPrediction(result types.PredictionResult) {
	fmt.Fprintln(p.out, "--- Movie Prediction Result ---")
	p.printField("Title", result.Title)
	p.printField("Rating", result.RatingText())
	p.printField("Overview", result.Overview)
	p.printField("Prediction", string(result.Verdict))
	p.printField("Confidence", result.ConfidenceText())
	p.printField("Model Accuracy", result.ModelAccuracyText())
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printField(label, value string) {
	fmt.Fprintf(p.out, "%-*s: %s\n", labelWidth, label, value)
}

// PrintPredictionSummary outputs a boxed verdict with the poster source, if any.
func (p *Printer) PrintPredictionSummary(result types.PredictionResult, posterSource string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Title:      %s\n", result.Title))
	sb.WriteString(fmt.Sprintf("Verdict:    %s\n", result.Verdict))
	sb.WriteString(fmt.Sprintf("Confidence: %s\n", result.ConfidenceText()))
	sb.WriteString(fmt.Sprintf("Accuracy:   %s", result.ModelAccuracyText()))
	if posterSource != "" {
		sb.WriteString(fmt.Sprintf("\nPoster:     %s", posterSource))
	}

	p.printBox("MOVIE INSIGHT", sb.String())
}

// PrintTrainingReport outputs row counts, model size and held-out metrics of a training run.
func (p *Printer) PrintTrainingReport(report *types.TrainingReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	if report.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run:        %s\n", report.RunID))
	}
	sb.WriteString(fmt.Sprintf("Rows:       %d loaded, %d sampled, %d usable\n", report.LoadedRows, report.SampledRows, report.UsableRows))
	sb.WriteString(fmt.Sprintf("Split:      %d train / %d test\n", report.TrainRows, report.TestRows))
	sb.WriteString(fmt.Sprintf("Vocabulary: %d terms\n", report.VocabularySize))
	converged := "converged"
	if !report.Converged {
		converged = "not converged"
	}
	sb.WriteString(fmt.Sprintf("Optimizer:  %d iterations (%s)\n", report.Iterations, converged))
	sb.WriteString(fmt.Sprintf("Accuracy:   %.2f%%\n", report.Accuracy*100))

	if len(report.Classes) > 0 {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("%-7s %9s %7s %7s %8s\n", "label", "precision", "recall", "f1", "support"))
		for _, c := range report.Classes {
			sb.WriteString(fmt.Sprintf("%-7d %9.2f %7.2f %7.2f %8d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support))
		}
	}

	if len(report.ArtifactPaths) > 0 {
		sb.WriteString("\nArtifacts:\n")
		for _, path := range report.ArtifactPaths {
			sb.WriteString(fmt.Sprintf("  • %s\n", path))
		}
	}

	p.printBox("TRAINING REPORT", strings.TrimSuffix(sb.String(), "\n"))
}
