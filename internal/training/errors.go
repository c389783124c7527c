// Package training fits the vectorizer and classifier offline and persists the artifacts.
package training

import "fmt"

// DataError reports a dataset that is unusable for training; it is raised before any fitting.
type DataError struct {
	Message string
	Cause   error
}

func (e *DataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("training data error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("training data error: %s", e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Cause
}
