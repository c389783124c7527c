package classifier

import (
	"math"
	"testing"

	"github.com/jonathan/movie-insight/internal/vectorize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sparse(indices []int, values []float64) vectorize.Vector {
	return vectorize.Vector{Indices: indices, Values: values}
}

// separable puts positives on feature 0 and negatives on feature 1.
func separable() ([]vectorize.Vector, []int) {
	x := []vectorize.Vector{
		sparse([]int{0}, []float64{1}),
		sparse([]int{0, 2}, []float64{0.8, 0.6}),
		sparse([]int{0}, []float64{1}),
		sparse([]int{1}, []float64{1}),
		sparse([]int{1, 2}, []float64{0.8, 0.6}),
		sparse([]int{1}, []float64{1}),
	}
	return x, []int{1, 1, 1, 0, 0, 0}
}

func TestSigmoid(t *testing.T) {
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.InDelta(t, 1.0, Sigmoid(800), 1e-12)
	assert.InDelta(t, 0.0, Sigmoid(-800), 1e-12)
	assert.False(t, math.IsNaN(Sigmoid(-1000)))
	assert.InDelta(t, 1-Sigmoid(2.5), Sigmoid(-2.5), 1e-15)
}

func TestClassWeights(t *testing.T) {
	w, err := ClassWeights([]int{1, 0, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 4.0/6.0, w[0], 1e-12)
	assert.InDelta(t, 2.0, w[1], 1e-12)

	_, err = ClassWeights([]int{1, 1})
	assert.ErrorIs(t, err, ErrSingleClass)

	_, err = ClassWeights([]int{1, 2})
	assert.Error(t, err)
}

func TestFit_Separable(t *testing.T) {
	x, y := separable()

	model, result, err := Fit(x, y, 3, Options{ClassBalanced: true})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Converged)
	assert.LessOrEqual(t, result.Iterations, DefaultMaxIter)
	assert.Equal(t, 3, model.Dimension())
	require.NoError(t, model.Validate())

	for i, xi := range x {
		label, prob := model.Predict(xi)
		assert.Equal(t, y[i], label, "sample %d", i)
		assert.GreaterOrEqual(t, prob, 0.0)
		assert.LessOrEqual(t, prob, 1.0)
		if label == 1 {
			assert.Greater(t, prob, 0.5)
		} else {
			assert.Less(t, prob, 0.5)
		}
	}
	assert.Greater(t, model.Weights[0], 0.0)
	assert.Less(t, model.Weights[1], 0.0)
}

func TestFit_GradientVanishesAtOptimum(t *testing.T) {
	x, y := separable()

	model, _, err := Fit(x, y, 3, Options{Tolerance: 1e-8, MaxIter: 1000})
	require.NoError(t, err)

	obj := &objective{x: x, labels: y, dim: 3, c: DefaultC, sampleWeight: [2]float64{1, 1}}
	params := append(append([]float64{}, model.Weights...), model.Bias)
	grad := make([]float64, len(params))
	obj.evaluate(params, grad)
	for i, g := range grad {
		assert.Less(t, math.Abs(g), 1e-4, "gradient component %d", i)
	}
}

func TestFit_ClassBalancingShiftsBoundary(t *testing.T) {
	// One positive among many identical negatives sharing a feature.
	x := []vectorize.Vector{
		sparse([]int{0}, []float64{1}),
		sparse([]int{0}, []float64{1}),
		sparse([]int{0}, []float64{1}),
		sparse([]int{0}, []float64{1}),
		sparse([]int{0}, []float64{1}),
		sparse([]int{0}, []float64{1}),
	}
	y := []int{1, 0, 0, 0, 0, 0}

	plain, _, err := Fit(x, y, 1, Options{})
	require.NoError(t, err)
	balanced, _, err := Fit(x, y, 1, Options{ClassBalanced: true})
	require.NoError(t, err)

	assert.Greater(t, balanced.Probability(x[0]), plain.Probability(x[0]))
}

func TestFit_Deterministic(t *testing.T) {
	x, y := separable()

	first, _, err := Fit(x, y, 3, Options{ClassBalanced: true})
	require.NoError(t, err)
	second, _, err := Fit(x, y, 3, Options{ClassBalanced: true})
	require.NoError(t, err)

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, first.Bias, second.Bias)
}

func TestFit_Errors(t *testing.T) {
	x, y := separable()

	_, _, err := Fit(nil, nil, 3, Options{})
	assert.Error(t, err)

	_, _, err = Fit(x, y[:2], 3, Options{})
	assert.Error(t, err)

	_, _, err = Fit(x, y, 2, Options{})
	assert.Error(t, err, "feature index outside dimension")

	_, _, err = Fit(x[:3], y[:3], 3, Options{ClassBalanced: true})
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestPredict_ZeroVectorUsesBias(t *testing.T) {
	model := &Model{Weights: []float64{2, -2}, Bias: -0.5}

	label, prob := model.Predict(vectorize.Vector{})
	assert.Equal(t, 0, label)
	assert.InDelta(t, Sigmoid(-0.5), prob, 1e-15)

	label, prob = model.Predict(sparse([]int{0}, []float64{1}))
	assert.Equal(t, 1, label)
	assert.InDelta(t, Sigmoid(1.5), prob, 1e-15)
}

func TestValidate(t *testing.T) {
	assert.Error(t, (&Model{}).Validate())
	assert.Error(t, (&Model{Weights: []float64{math.Inf(1)}}).Validate())
	assert.Error(t, (&Model{Weights: []float64{1}, Bias: math.NaN()}).Validate())
	assert.NoError(t, (&Model{Weights: []float64{1}, Bias: 0.1}).Validate())
}
