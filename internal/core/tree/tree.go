// Package tree implements CART decision trees and bootstrap forests over
// sparse feature rows
package tree

import (
	"context"
	"encoding/gob"
	"math/rand/v2"
	"slices"

	"disasterresponse/internal/core/sparse"
	perr "disasterresponse/internal/platform/errors"
)

// Estimator is a fitted or fittable single label classifier
type Estimator interface {
	Fit(ctx context.Context, X *sparse.CSR, y []int) error
	PredictProba(X *sparse.CSR) [][]float64
	Predict(X *sparse.CSR) []int
	Labels() []int
}

func init() {
	gob.Register(&Tree{})
	gob.Register(&Forest{})
}

// Node is one tree node; leaves have Feature -1
type Node struct {
	Feature   int
	Threshold float64
	Left      int
	Right     int
	Value     []float64 // class probabilities in Classes order
}

// Tree is a CART classifier; rows go left when x[Feature] <= Threshold
type Tree struct {
	Params    Params
	Classes   []int
	NFeatures int
	Nodes     []Node
}

// NewTree returns an unfitted tree with defaults applied
func NewTree(p Params) *Tree { return &Tree{Params: p.WithDefaults(false)} }

// Labels returns the sorted class values seen at fit time
func (t *Tree) Labels() []int { return t.Classes }

// Fit grows the tree on every row of X
func (t *Tree) Fit(ctx context.Context, X *sparse.CSR, y []int) error {
	if err := checkXY(X, y); err != nil {
		return err
	}
	return t.fit(ctx, X, y, classesOf(y), nil)
}

// fit grows the tree over rows with non-zero weight; nil weights mean 1 each
func (t *Tree) fit(ctx context.Context, X *sparse.CSR, y []int, classes []int, w []float64) error {
	if err := t.Params.Validate(); err != nil {
		return err
	}
	t.Classes = classes
	t.NFeatures = X.Cols
	t.Nodes = t.Nodes[:0]

	ci := make([]int, len(y))
	for i, v := range y {
		ci[i], _ = slices.BinarySearch(classes, v)
	}
	if w == nil {
		w = make([]float64, len(y))
		for i := range w {
			w[i] = 1
		}
	}
	samples := make([]int, 0, len(y))
	for i := range y {
		if w[i] > 0 {
			samples = append(samples, i)
		}
	}

	b := &builder{
		ctx:    ctx,
		p:      t.Params,
		X:      X,
		y:      ci,
		w:      w,
		nc:     len(classes),
		rng:    rand.New(rand.NewPCG(uint64(t.Params.Seed), 0x5eed)),
		cnt:    make([]int, X.Cols),
		start:  make([]int, X.Cols),
		perm:   identity(X.Cols),
		kFeats: t.Params.featureCount(X.Cols),
	}
	if _, err := b.grow(samples, 0); err != nil {
		return err
	}
	t.Nodes = b.nodes
	return nil
}

// PredictProba returns class probabilities per row in Classes order
func (t *Tree) PredictProba(X *sparse.CSR) [][]float64 {
	out := make([][]float64, X.Rows)
	for i := range out {
		out[i] = slices.Clone(t.leaf(X, i).Value)
	}
	return out
}

// Predict returns the most probable class per row; ties go to the smaller class
func (t *Tree) Predict(X *sparse.CSR) []int {
	out := make([]int, X.Rows)
	for i := range out {
		out[i] = t.Classes[argmax(t.leaf(X, i).Value)]
	}
	return out
}

func (t *Tree) leaf(X *sparse.CSR, i int) *Node {
	n := &t.Nodes[0]
	for n.Feature >= 0 {
		if X.At(i, n.Feature) <= n.Threshold {
			n = &t.Nodes[n.Left]
		} else {
			n = &t.Nodes[n.Right]
		}
	}
	return n
}

// Depth is the longest root to leaf edge count
func (t *Tree) Depth() int {
	if len(t.Nodes) == 0 {
		return 0
	}
	var walk func(i int) int
	walk = func(i int) int {
		n := t.Nodes[i]
		if n.Feature < 0 {
			return 0
		}
		return 1 + max(walk(n.Left), walk(n.Right))
	}
	return walk(0)
}

// Leaves counts leaf nodes
func (t *Tree) Leaves() int {
	c := 0
	for _, n := range t.Nodes {
		if n.Feature < 0 {
			c++
		}
	}
	return c
}

func checkXY(X *sparse.CSR, y []int) error {
	if X == nil || X.Rows == 0 {
		return perr.Validationf("tree: no training rows")
	}
	if X.Rows != len(y) {
		return perr.Validationf("tree: %d rows but %d labels", X.Rows, len(y))
	}
	return nil
}

func classesOf(y []int) []int {
	c := slices.Clone(y)
	slices.Sort(c)
	return slices.Compact(c)
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}
