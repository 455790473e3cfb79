package tree

import (
	"context"
	"math/rand/v2"

	"disasterresponse/internal/core/sparse"
)

// Forest averages the leaf distributions of bootstrap trained trees
type Forest struct {
	Params  Params
	Classes []int
	Trees   []*Tree
}

// NewForest returns an unfitted forest with defaults applied
func NewForest(p Params) *Forest { return &Forest{Params: p.WithDefaults(true)} }

// Labels returns the sorted class values seen at fit time
func (f *Forest) Labels() []int { return f.Classes }

// Fit trains NEstimators trees, each on a bootstrap sample drawn from its own seed
func (f *Forest) Fit(ctx context.Context, X *sparse.CSR, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	if err := f.Params.Validate(); err != nil {
		return err
	}
	f.Classes = classesOf(y)
	f.Trees = make([]*Tree, 0, f.Params.NEstimators)
	n := len(y)
	for k := 0; k < f.Params.NEstimators; k++ {
		seed := SubSeed(f.Params.Seed, k)
		rng := rand.New(rand.NewPCG(uint64(seed), 0xb007))
		w := make([]float64, n)
		for range n {
			w[rng.IntN(n)]++
		}
		p := f.Params
		p.Seed = seed
		t := &Tree{Params: p}
		if err := t.fit(ctx, X, y, f.Classes, w); err != nil {
			return err
		}
		f.Trees = append(f.Trees, t)
	}
	return nil
}

// PredictProba is the mean of the trees' class probabilities
func (f *Forest) PredictProba(X *sparse.CSR) [][]float64 {
	out := make([][]float64, X.Rows)
	for i := range out {
		out[i] = make([]float64, len(f.Classes))
	}
	if len(f.Trees) == 0 {
		return out
	}
	for _, t := range f.Trees {
		for i := range out {
			for c, p := range t.leaf(X, i).Value {
				out[i][c] += p
			}
		}
	}
	inv := 1 / float64(len(f.Trees))
	for i := range out {
		for c := range out[i] {
			out[i][c] *= inv
		}
	}
	return out
}

// Predict returns the class with the highest mean probability per row
func (f *Forest) Predict(X *sparse.CSR) []int {
	proba := f.PredictProba(X)
	out := make([]int, len(proba))
	for i, p := range proba {
		out[i] = f.Classes[argmax(p)]
	}
	return out
}
