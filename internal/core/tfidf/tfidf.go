// Package tfidf converts token lists into L2 normalized tf-idf rows
package tfidf

import (
	"math"
	"sort"

	"disasterresponse/internal/core/sparse"
	perr "disasterresponse/internal/platform/errors"
)

// Options tune vocabulary selection
type Options struct {
	// MaxFeatures keeps the most frequent terms across the corpus, 0 keeps all
	MaxFeatures int `yaml:"max_features" json:"max_features" validate:"min=0"`
	// MinDF drops terms found in fewer documents, values below 1 mean 1
	MinDF int `yaml:"min_df" json:"min_df" validate:"min=0"`
}

// Vectorizer holds a fitted vocabulary; the zero value must be fitted before use
type Vectorizer struct {
	Opts  Options
	Terms []string // alphabetical, Terms[i] is column i
	IDF   []float64
	Vocab map[string]int
}

// New returns an unfitted vectorizer
func New(opts Options) *Vectorizer { return &Vectorizer{Opts: opts} }

// Fit learns the vocabulary and smoothed idf weights ln((1+n)/(1+df))+1
func (v *Vectorizer) Fit(docs [][]string) error {
	df := map[string]int{}
	tf := map[string]int{}
	for _, d := range docs {
		seen := map[string]struct{}{}
		for _, w := range d {
			tf[w]++
			if _, ok := seen[w]; !ok {
				seen[w] = struct{}{}
				df[w]++
			}
		}
	}

	minDF := max(v.Opts.MinDF, 1)
	terms := make([]string, 0, len(df))
	for w, n := range df {
		if n >= minDF {
			terms = append(terms, w)
		}
	}
	if len(terms) == 0 {
		return perr.Validationf("tfidf: empty vocabulary from %d documents", len(docs))
	}

	if v.Opts.MaxFeatures > 0 && len(terms) > v.Opts.MaxFeatures {
		sort.Slice(terms, func(a, b int) bool {
			if tf[terms[a]] != tf[terms[b]] {
				return tf[terms[a]] > tf[terms[b]]
			}
			return terms[a] < terms[b]
		})
		terms = terms[:v.Opts.MaxFeatures]
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.Terms = terms
	v.Vocab = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, w := range terms {
		v.Vocab[w] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[w]))) + 1
	}
	return nil
}

// Transform maps each document onto the vocabulary; unknown terms are ignored
// and a document with no known terms yields an empty row
func (v *Vectorizer) Transform(docs [][]string) (*sparse.CSR, error) {
	if len(v.Terms) == 0 {
		return nil, perr.Modelf("tfidf: vectorizer is not fitted")
	}
	b := sparse.NewBuilder(len(v.Terms))
	for _, d := range docs {
		counts := map[int]float64{}
		for _, w := range d {
			if j, ok := v.Vocab[w]; ok {
				counts[j]++
			}
		}
		idx := make([]int, 0, len(counts))
		for j := range counts {
			idx = append(idx, j)
		}
		sort.Ints(idx)
		val := make([]float64, len(idx))
		var norm float64
		for k, j := range idx {
			val[k] = counts[j] * v.IDF[j]
			norm += val[k] * val[k]
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for k := range val {
				val[k] /= norm
			}
		}
		b.AddRow(idx, val)
	}
	return b.Build(), nil
}

// FitTransform is Fit followed by Transform on the same documents
func (v *Vectorizer) FitTransform(docs [][]string) (*sparse.CSR, error) {
	if err := v.Fit(docs); err != nil {
		return nil, err
	}
	return v.Transform(docs)
}
