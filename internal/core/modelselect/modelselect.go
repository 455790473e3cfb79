// Package modelselect splits rows for evaluation and searches tree
// hyperparameters with k-fold cross validation
package modelselect

import (
	"context"
	"math"
	"math/rand/v2"

	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
)

// Split shuffles row indices with seed and returns the train and test sets;
// the test set is the first ceil(n*testSize) shuffled rows
func Split(n int, testSize float64, seed int64) (train, test []int, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, perr.WithField(perr.InvalidArgf("split: test size %v outside (0, 1)", testSize), "test_size")
	}
	nTest := int(math.Ceil(float64(n) * testSize))
	if nTest < 1 || n-nTest < 1 {
		return nil, nil, perr.Validationf("split: %d rows cannot give both a train and a test set at test size %v", n, testSize)
	}
	perm := rand.New(rand.NewPCG(uint64(seed), 0x5b11)).Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Fold is one train/test partition of row indices
type Fold struct {
	Train []int
	Test  []int
}

// KFold partitions 0..n-1 into k contiguous test blocks; the first n%k blocks
// get one extra row
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, perr.WithField(perr.InvalidArgf("kfold: need at least 2 folds, got %d", k), "folds")
	}
	if n < k {
		return nil, perr.Validationf("kfold: %d rows cannot fill %d folds", n, k)
	}
	folds := make([]Fold, 0, k)
	lo := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		hi := lo + size
		fold := Fold{Test: make([]int, 0, size), Train: make([]int, 0, n-size)}
		for i := 0; i < n; i++ {
			if i >= lo && i < hi {
				fold.Test = append(fold.Test, i)
			} else {
				fold.Train = append(fold.Train, i)
			}
		}
		folds = append(folds, fold)
		lo = hi
	}
	return folds, nil
}

// Grid lists the values searched per hyperparameter; an empty list keeps the base value
type Grid struct {
	Criterion   []string `yaml:"criterion" json:"criterion"`
	MaxDepth    []int    `yaml:"max_depth" json:"max_depth"`
	MaxFeatures []string `yaml:"max_features" json:"max_features"`
}

// DefaultGrid is searched when none is configured
func DefaultGrid() Grid {
	return Grid{
		Criterion:   []string{tree.Gini, tree.Entropy},
		MaxDepth:    []int{10, 50, 0},
		MaxFeatures: []string{tree.FeaturesSqrt, tree.FeaturesLog2},
	}
}

// Candidates expands the grid over base in a fixed order: criterion, then
// max_depth, then max_features varying fastest
func (g Grid) Candidates(base tree.Params) []tree.Params {
	crit := g.Criterion
	if len(crit) == 0 {
		crit = []string{base.Criterion}
	}
	depth := g.MaxDepth
	if len(depth) == 0 {
		depth = []int{base.MaxDepth}
	}
	feats := g.MaxFeatures
	if len(feats) == 0 {
		feats = []string{base.MaxFeatures}
	}
	out := make([]tree.Params, 0, len(crit)*len(depth)*len(feats))
	for _, c := range crit {
		for _, d := range depth {
			for _, f := range feats {
				p := base
				p.Criterion, p.MaxDepth, p.MaxFeatures = c, d, f
				out = append(out, p)
			}
		}
	}
	return out
}

// ScoreFunc fits on train rows with p and scores the test rows
type ScoreFunc func(ctx context.Context, p tree.Params, train, test []int) (float64, error)

// Candidate is one evaluated grid point
type Candidate struct {
	Params     tree.Params `json:"params"`
	FoldScores []float64   `json:"fold_scores"`
	Mean       float64     `json:"mean"`
}

// Result is the outcome of a search; Best is the first candidate with the top mean
type Result struct {
	Best       tree.Params `json:"best"`
	BestScore  float64     `json:"best_score"`
	Candidates []Candidate `json:"candidates"`
}

// GridSearch scores every candidate on every fold and keeps the best mean
func GridSearch(ctx context.Context, n int, base tree.Params, g Grid, folds int, score ScoreFunc) (Result, error) {
	fs, err := KFold(n, folds)
	if err != nil {
		return Result{}, err
	}
	cands := g.Candidates(base)
	for _, p := range cands {
		if err := p.Validate(); err != nil {
			return Result{}, err
		}
	}

	res := Result{BestScore: math.Inf(-1)}
	for _, p := range cands {
		c := Candidate{Params: p}
		for _, f := range fs {
			if err := ctx.Err(); err != nil {
				return Result{}, perr.Wrap(err, perr.ErrorCodeCanceled, "grid search")
			}
			s, err := score(ctx, p, f.Train, f.Test)
			if err != nil {
				return Result{}, err
			}
			c.FoldScores = append(c.FoldScores, s)
			c.Mean += s
		}
		c.Mean /= float64(len(fs))
		res.Candidates = append(res.Candidates, c)
		if c.Mean > res.BestScore {
			res.Best, res.BestScore = p, c.Mean
		}
	}
	return res, nil
}
