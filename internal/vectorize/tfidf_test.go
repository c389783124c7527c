package vectorize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func l2(v Vector) float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercases", "A Thief STEALS", []string{"thief", "steals"}},
		{"punctuation splits", "dream-sharing, tech.", []string{"dream", "sharing", "tech"}},
		{"drops single runes", "a b cd", []string{"cd"}},
		{"keeps digits", "agent 007 returns", []string{"agent", "007", "returns"}},
		{"unicode letters", "Café Amélie", []string{"café", "amélie"}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.text)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFit_VocabularyIsAlphabetical(t *testing.T) {
	model, err := Fit([]string{"zebra apple", "mango apple"}, Options{})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"apple": 0, "mango": 1, "zebra": 2}, model.Vocabulary)
	assert.Equal(t, 3, model.Dimension())
	require.NoError(t, model.Validate())
}

func TestFit_SmoothedIDF(t *testing.T) {
	model, err := Fit([]string{"zebra apple", "mango apple"}, Options{})
	require.NoError(t, err)

	// apple appears in both documents, zebra in one.
	assert.InDelta(t, 1.0, model.IDF[model.Vocabulary["apple"]], 1e-12)
	assert.InDelta(t, math.Log(3.0/2.0)+1, model.IDF[model.Vocabulary["zebra"]], 1e-12)
}

func TestFit_StopWords(t *testing.T) {
	model, err := Fit([]string{"the thief and the dream"}, Options{StopWords: true})
	require.NoError(t, err)

	assert.Contains(t, model.Vocabulary, "thief")
	assert.Contains(t, model.Vocabulary, "dream")
	assert.NotContains(t, model.Vocabulary, "the")
	assert.NotContains(t, model.Vocabulary, "and")
}

func TestFit_MaxFeaturesKeepsMostFrequent(t *testing.T) {
	docs := []string{
		"heist heist heist dream",
		"heist dream space",
		"dream ocean",
	}

	model, err := Fit(docs, Options{MaxFeatures: 2})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"dream": 0, "heist": 1}, model.Vocabulary)
	assert.Equal(t, 2, model.MaxFeatures)
}

func TestFit_MaxFeaturesTieBreak(t *testing.T) {
	model, err := Fit([]string{"alpha beta gamma"}, Options{MaxFeatures: 2})
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"beta": 0, "gamma": 1}, model.Vocabulary)
}

func TestFit_Errors(t *testing.T) {
	_, err := Fit(nil, Options{})
	assert.Error(t, err)

	_, err = Fit([]string{"the and of", "a"}, Options{StopWords: true})
	assert.ErrorIs(t, err, ErrEmptyVocabulary)
}

func TestTransform_FixedDimensionAndUnknownTerms(t *testing.T) {
	model, err := Fit([]string{"thief steals secrets", "dull boring film"}, Options{StopWords: true})
	require.NoError(t, err)

	vec := model.Transform("A thief with completely unseen words")
	require.Len(t, vec.Indices, 1)
	assert.Equal(t, model.Vocabulary["thief"], vec.Indices[0])
	assert.InDelta(t, 1.0, l2(vec), 1e-12)

	empty := model.Transform("nothing recognised here")
	assert.Empty(t, empty.Indices)
	assert.Equal(t, 0.0, empty.Dot(make([]float64, model.Dimension())))

	for _, idx := range model.Transform("thief film secrets boring").Indices {
		assert.Less(t, idx, model.Dimension())
	}
}

func TestTransform_WeightsAndOrder(t *testing.T) {
	model, err := Fit([]string{"zebra apple", "mango apple"}, Options{})
	require.NoError(t, err)

	vec := model.Transform("zebra zebra apple")
	assert.Equal(t, []int{0, 2}, vec.Indices)

	zebra := 2 * (math.Log(1.5) + 1)
	apple := 1.0
	norm := math.Sqrt(zebra*zebra + apple*apple)
	assert.InDelta(t, apple/norm, vec.Values[0], 1e-12)
	assert.InDelta(t, zebra/norm, vec.Values[1], 1e-12)
}

func TestTransform_Deterministic(t *testing.T) {
	model, err := Fit([]string{"space crew ship", "ship wreck ocean", "crew mutiny"}, Options{})
	require.NoError(t, err)

	first := model.Transform("crew ship ocean mutiny")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, model.Transform("crew ship ocean mutiny"))
	}

	all := model.TransformAll([]string{"crew", "ocean"})
	require.Len(t, all, 2)
	assert.Equal(t, model.Transform("crew"), all[0])
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		model Model
	}{
		{"empty", Model{}},
		{"length mismatch", Model{Vocabulary: map[string]int{"a": 0}, IDF: []float64{1, 2}}},
		{"out of range", Model{Vocabulary: map[string]int{"a": 3}, IDF: []float64{1}}},
		{"duplicate dimension", Model{Vocabulary: map[string]int{"a": 0, "b": 0}, IDF: []float64{1, 2}}},
		{"bad idf", Model{Vocabulary: map[string]int{"a": 0}, IDF: []float64{math.NaN()}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.model.Validate())
		})
	}
}
