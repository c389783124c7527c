// Package evaluation scores held-out predictions against true labels.
package evaluation

import (
	"fmt"

	"github.com/jonathan/movie-insight/internal/types"
)

// Accuracy returns the fraction of predictions that exactly match the true labels.
func Accuracy(truth, predicted []int) (float64, error) {
	if err := checkLengths(truth, predicted); err != nil {
		return 0, err
	}
	matches := 0
	for i := range truth {
		if truth[i] == predicted[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(truth)), nil
}

// ClassReport returns precision, recall, F1 and support for labels 0 and 1.
// Undefined ratios (zero denominators) are reported as 0.
func ClassReport(truth, predicted []int) ([]types.ClassMetrics, error) {
	if err := checkLengths(truth, predicted); err != nil {
		return nil, err
	}

	report := make([]types.ClassMetrics, 0, 2)
	for _, label := range []int{0, 1} {
		var tp, fp, fn int
		for i := range truth {
			switch {
			case truth[i] == label && predicted[i] == label:
				tp++
			case truth[i] != label && predicted[i] == label:
				fp++
			case truth[i] == label && predicted[i] != label:
				fn++
			}
		}

		m := types.ClassMetrics{
			Label:     label,
			Precision: ratio(tp, tp+fp),
			Recall:    ratio(tp, tp+fn),
			Support:   tp + fn,
		}
		if m.Precision+m.Recall > 0 {
			m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
		}
		report = append(report, m)
	}
	return report, nil
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func checkLengths(truth, predicted []int) error {
	if len(truth) == 0 {
		return fmt.Errorf("no labels to evaluate")
	}
	if len(truth) != len(predicted) {
		return fmt.Errorf("have %d true labels but %d predictions", len(truth), len(predicted))
	}
	return nil
}
