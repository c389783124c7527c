// Package vectorize converts synopsis text into TF-IDF weighted sparse vectors
// over a bounded, frozen vocabulary.
package vectorize

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMaxFeatures bounds the vocabulary when no explicit limit is configured
const DefaultMaxFeatures = 5000

// tokenPattern matches runs of word characters; tokens shorter than two runes are dropped.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}\p{M}_]+`)

// ErrEmptyVocabulary is returned by Fit when no document yields a single term
var ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or no tokens")

// Options configures vectorizer fitting
type Options struct {
	MaxFeatures int  // Maximum vocabulary size; <= 0 means unbounded
	StopWords   bool // Drop English stop words
}

// Model is a fitted TF-IDF vectorizer. After Fit the term→dimension mapping is frozen.
type Model struct {
	Vocabulary  map[string]int `json:"vocabulary"`
	IDF         []float64      `json:"idf"`
	MaxFeatures int            `json:"max_features"`
	StopWords   bool           `json:"stop_words"`
}

// Vector is a sparse feature vector; Indices are strictly increasing.
type Vector struct {
	Indices []int
	Values  []float64
}

// Dot returns the inner product of the vector with a dense weight slice.
func (v Vector) Dot(weights []float64) float64 {
	var sum float64
	for k, idx := range v.Indices {
		sum += v.Values[k] * weights[idx]
	}
	return sum
}

// Tokenize lowercases text and splits it into word tokens of at least two runes.
func Tokenize(text string) []string {
	matches := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := matches[:0]
	for _, m := range matches {
		if utf8.RuneCountInString(m) >= 2 {
			tokens = append(tokens, m)
		}
	}
	return tokens
}

// Fit learns the vocabulary and document frequencies from documents.
// When the vocabulary exceeds MaxFeatures, the most frequent terms across the corpus are kept
// (ties resolved towards the lexically later term) and dimensions are assigned alphabetically.
func Fit(documents []string, opts Options) (*Model, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("cannot fit vectorizer: no documents")
	}

	docFreq := make(map[string]int)
	termFreq := make(map[string]int)
	for _, doc := range documents {
		seen := make(map[string]bool)
		for _, term := range terms(doc, opts.StopWords) {
			termFreq[term]++
			if !seen[term] {
				seen[term] = true
				docFreq[term]++
			}
		}
	}
	if len(termFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	kept := make([]string, 0, len(termFreq))
	for term := range termFreq {
		kept = append(kept, term)
	}
	if opts.MaxFeatures > 0 && len(kept) > opts.MaxFeatures {
		sort.Slice(kept, func(i, j int) bool {
			if termFreq[kept[i]] != termFreq[kept[j]] {
				return termFreq[kept[i]] > termFreq[kept[j]]
			}
			return kept[i] > kept[j]
		})
		kept = kept[:opts.MaxFeatures]
	}
	sort.Strings(kept)

	n := float64(len(documents))
	model := &Model{
		Vocabulary:  make(map[string]int, len(kept)),
		IDF:         make([]float64, len(kept)),
		MaxFeatures: opts.MaxFeatures,
		StopWords:   opts.StopWords,
	}
	for i, term := range kept {
		model.Vocabulary[term] = i
		// Smoothed IDF: as if one extra document contained every term once.
		model.IDF[i] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	return model, nil
}

// Dimension returns the size of the feature space
func (m *Model) Dimension() int {
	return len(m.IDF)
}

// Transform maps text to an L2-normalized TF-IDF vector. Unknown terms contribute nothing;
// text without known terms yields the zero vector.
func (m *Model) Transform(text string) Vector {
	counts := make(map[int]float64)
	for _, term := range terms(text, m.StopWords) {
		if idx, ok := m.Vocabulary[term]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)

	var norm float64
	for _, idx := range vec.Indices {
		w := counts[idx] * m.IDF[idx]
		vec.Values = append(vec.Values, w)
		norm += w * w
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range vec.Values {
			vec.Values[k] /= norm
		}
	}
	return vec
}

// TransformAll vectorizes each document in order.
func (m *Model) TransformAll(documents []string) []Vector {
	out := make([]Vector, len(documents))
	for i, doc := range documents {
		out[i] = m.Transform(doc)
	}
	return out
}

// Validate checks the internal consistency of a loaded model.
func (m *Model) Validate() error {
	if len(m.IDF) == 0 {
		return ErrEmptyVocabulary
	}
	if len(m.Vocabulary) != len(m.IDF) {
		return fmt.Errorf("vocabulary has %d terms but idf has %d entries", len(m.Vocabulary), len(m.IDF))
	}
	used := make([]bool, len(m.IDF))
	for term, idx := range m.Vocabulary {
		if idx < 0 || idx >= len(m.IDF) {
			return fmt.Errorf("term %q maps to out-of-range dimension %d", term, idx)
		}
		if used[idx] {
			return fmt.Errorf("dimension %d is assigned to more than one term", idx)
		}
		used[idx] = true
	}
	for i, w := range m.IDF {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 1 {
			return fmt.Errorf("invalid idf weight %v at dimension %d", w, i)
		}
	}
	return nil
}

func terms(text string, dropStopWords bool) []string {
	tokens := Tokenize(text)
	if !dropStopWords {
		return tokens
	}
	out := tokens[:0]
	for _, t := range tokens {
		if !IsStopWord(t) {
			out = append(out, t)
		}
	}
	return out
}
