// Package dataset loads, filters and partitions the movie dataset.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/jonathan/movie-insight/internal/types"
	"golang.org/x/text/encoding/charmap"
)

// Column names expected in the dataset header
const (
	ColumnTitle         = "title"
	ColumnRating        = "vote_average"
	ColumnOverview      = "overview"
	ColumnCleanOverview = "clean_overview"
	ColumnWorthWatching = "worth_watching"
)

var requiredColumns = []string{
	ColumnTitle,
	ColumnRating,
	ColumnOverview,
	ColumnCleanOverview,
	ColumnWorthWatching,
}

// naValues are cell contents treated as missing, matching common CSV exports.
var naValues = map[string]bool{
	"":          true,
	"#N/A":      true,
	"#N/A N/A":  true,
	"#NA":       true,
	"-1.#IND":   true,
	"-1.#QNAN":  true,
	"-NaN":      true,
	"-nan":      true,
	"1.#IND":    true,
	"1.#QNAN":   true,
	"<NA>":      true,
	"N/A":       true,
	"NA":        true,
	"NULL":      true,
	"NaN":       true,
	"None":      true,
	"n/a":       true,
	"nan":       true,
	"null":      true,
}

// Latin-1 decoding of a UTF-8 byte order mark
const latin1BOM = "\u00ef\u00bb\u00bf"

// LoadCSV reads the movie dataset from a delimited file with one header row.
// Bytes are decoded as ISO-8859-1 so no input sequence is rejected.
func LoadCSV(path string) ([]types.MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to open dataset", Cause: err}
	}
	defer func() { _ = f.Close() }()

	records, err := ReadCSV(f)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to parse dataset", Cause: err}
	}
	return records, nil
}

// ReadCSV parses Latin-1 encoded CSV content into movie records.
func ReadCSV(r io.Reader) ([]types.MovieRecord, error) {
	reader := csv.NewReader(charmap.ISO8859_1.NewDecoder().Reader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("dataset is empty: missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []types.MovieRecord
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}
		records = append(records, parseRow(row, columns))
	}

	return records, nil
}

// indexColumns maps required column names to their header position.
func indexColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, latin1BOM)
		}
		name = strings.ToLower(strings.TrimSpace(name))
		if _, exists := columns[name]; !exists {
			columns[name] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	return columns, nil
}

func parseRow(row []string, columns map[string]int) types.MovieRecord {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	return types.MovieRecord{
		Title:         cell(ColumnTitle),
		Rating:        parseRating(cell(ColumnRating)),
		Overview:      textValue(cell(ColumnOverview)),
		CleanOverview: textValue(cell(ColumnCleanOverview)),
		WorthWatching: parseLabel(cell(ColumnWorthWatching)),
	}
}

func isNA(value string) bool {
	return naValues[strings.TrimSpace(value)]
}

func textValue(value string) string {
	if isNA(value) {
		return ""
	}
	return value
}

func parseRating(value string) *float64 {
	if isNA(value) {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return nil
	}
	return &rating
}

// parseLabel accepts 1/0, 1.0/0.0 and true/false. Anything else is missing.
func parseLabel(value string) *bool {
	if isNA(value) {
		return nil
	}
	value = strings.TrimSpace(value)

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		switch f {
		case 1:
			label := true
			return &label
		case 0:
			label := false
			return &label
		default:
			return nil
		}
	}

	if b, err := strconv.ParseBool(value); err == nil {
		return &b
	}
	return nil
}
