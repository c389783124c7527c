// Package classifier implements a binary logistic regression over sparse TF-IDF vectors.
package classifier

import (
	"errors"
	"fmt"
	"math"

	"github.com/jonathan/movie-insight/internal/vectorize"
	"gonum.org/v1/gonum/optimize"
)

// Defaults match the offline training configuration
const (
	DefaultC         = 1.0
	DefaultMaxIter   = 300
	DefaultTolerance = 1e-4

	lbfgsMemory = 10
)

// ErrSingleClass is returned when the training labels contain only one class
var ErrSingleClass = errors.New("training labels contain a single class")

// Model is a fitted linear decision function: z = Weights·x + Bias.
type Model struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

// Options configures fitting
type Options struct {
	C             float64 // Inverse regularization strength; <= 0 uses DefaultC
	MaxIter       int     // Maximum optimizer iterations; <= 0 uses DefaultMaxIter
	Tolerance     float64 // Stop when the largest gradient component falls below this
	ClassBalanced bool    // Weight samples inversely to class frequency
}

// FitResult reports how the optimizer finished
type FitResult struct {
	Iterations int
	Converged  bool
	Loss       float64
}

// Sigmoid is the logistic link function, computed without overflow.
func Sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// Dimension returns the number of input features the model expects
func (m *Model) Dimension() int {
	return len(m.Weights)
}

// Decision returns the raw linear score for x.
func (m *Model) Decision(x vectorize.Vector) float64 {
	return x.Dot(m.Weights) + m.Bias
}

// Probability returns P(label = 1 | x).
func (m *Model) Probability(x vectorize.Vector) float64 {
	return Sigmoid(m.Decision(x))
}

// Predict returns the hard label (1 when the decision score is positive) and the positive-class probability.
func (m *Model) Predict(x vectorize.Vector) (int, float64) {
	z := m.Decision(x)
	label := 0
	if z > 0 {
		label = 1
	}
	return label, Sigmoid(z)
}

// Validate checks that every parameter is finite.
func (m *Model) Validate() error {
	if len(m.Weights) == 0 {
		return fmt.Errorf("classifier has no weights")
	}
	for i, w := range m.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("non-finite weight at dimension %d", i)
		}
	}
	if math.IsNaN(m.Bias) || math.IsInf(m.Bias, 0) {
		return fmt.Errorf("non-finite bias")
	}
	return nil
}

// ClassWeights returns per-label sample weights n / (2 * n_label).
func ClassWeights(labels []int) ([2]float64, error) {
	var counts [2]int
	for i, y := range labels {
		if y != 0 && y != 1 {
			return [2]float64{}, fmt.Errorf("label %d at row %d is not binary", y, i)
		}
		counts[y]++
	}
	if counts[0] == 0 || counts[1] == 0 {
		return [2]float64{}, ErrSingleClass
	}
	n := float64(len(labels))
	return [2]float64{n / (2 * float64(counts[0])), n / (2 * float64(counts[1]))}, nil
}

// Fit trains an L2-regularized logistic regression on x and binary labels with L-BFGS.
// The intercept is not penalized. Fitting stops once the largest gradient component is below
// Tolerance, the loss stops improving, or MaxIter iterations have run.
func Fit(x []vectorize.Vector, labels []int, dim int, opts Options) (*Model, *FitResult, error) {
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("cannot fit classifier: no samples")
	}
	if len(x) != len(labels) {
		return nil, nil, fmt.Errorf("have %d samples but %d labels", len(x), len(labels))
	}
	if dim <= 0 {
		return nil, nil, fmt.Errorf("invalid feature dimension %d", dim)
	}
	for i, v := range x {
		for _, idx := range v.Indices {
			if idx < 0 || idx >= dim {
				return nil, nil, fmt.Errorf("sample %d has feature index %d outside dimension %d", i, idx, dim)
			}
		}
	}

	if opts.C <= 0 {
		opts.C = DefaultC
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = DefaultMaxIter
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}

	balanced, err := ClassWeights(labels)
	if err != nil {
		return nil, nil, err
	}
	sampleWeight := [2]float64{1, 1}
	if opts.ClassBalanced {
		sampleWeight = balanced
	}

	obj := &objective{x: x, labels: labels, dim: dim, c: opts.C, sampleWeight: sampleWeight}
	scratch := make([]float64, dim+1)
	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			return obj.evaluate(params, scratch)
		},
		Grad: func(grad, params []float64) {
			obj.evaluate(params, grad)
		},
	}
	settings := &optimize.Settings{
		GradientThreshold: opts.Tolerance,
		MajorIterations:   opts.MaxIter,
	}

	res, err := optimize.Minimize(problem, make([]float64, dim+1), settings, &optimize.LBFGS{Store: lbfgsMemory})
	if res == nil {
		return nil, nil, fmt.Errorf("failed to fit classifier: %w", err)
	}
	// A failed line search still leaves the best point found so far in res.X.
	if !finite(res.X) {
		return nil, nil, fmt.Errorf("optimizer diverged: %v", err)
	}

	params := res.X
	model := &Model{
		Weights: params[:dim:dim],
		Bias:    params[dim],
	}
	result := &FitResult{
		Iterations: res.Stats.MajorIterations,
		Converged:  err == nil && converged(res.Status),
		Loss:       res.F,
	}
	return model, result, nil
}

func converged(status optimize.Status) bool {
	return status == optimize.GradientThreshold || status == optimize.FunctionConvergence
}

func finite(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// objective is 0.5*||w||^2 + C * sum_i s_i * logloss_i; params holds w followed by the bias.
type objective struct {
	x            []vectorize.Vector
	labels       []int
	dim          int
	c            float64
	sampleWeight [2]float64
}

func (o *objective) evaluate(params, grad []float64) float64 {
	w := params[:o.dim]
	b := params[o.dim]

	var loss float64
	for j := 0; j < o.dim; j++ {
		loss += 0.5 * w[j] * w[j]
		grad[j] = w[j]
	}
	grad[o.dim] = 0

	for i, xi := range o.x {
		z := xi.Dot(w) + b
		y := o.labels[i]
		s := o.sampleWeight[y] * o.c

		// log(1 + exp(-z)) for y=1, log(1 + exp(z)) for y=0
		if y == 1 {
			loss += s * softplus(-z)
		} else {
			loss += s * softplus(z)
		}

		residual := s * (Sigmoid(z) - float64(y))
		for k, idx := range xi.Indices {
			grad[idx] += residual * xi.Values[k]
		}
		grad[o.dim] += residual
	}
	return loss
}

func softplus(z float64) float64 {
	if z > 0 {
		return z + math.Log1p(math.Exp(-z))
	}
	return math.Log1p(math.Exp(z))
}
