// Package multioutput fits one independent tree estimator per output label
package multioutput

import (
	"context"
	"runtime"
	"sync"

	"disasterresponse/internal/core/sparse"
	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
)

// Estimator kinds
const (
	KindTree   = "tree"
	KindForest = "forest"
)

// Classifier holds one fitted estimator per label, in label order
type Classifier struct {
	Kind       string
	Params     tree.Params
	Estimators []tree.Estimator

	workers int
}

// New returns an unfitted classifier; workers <= 0 means one per CPU
func New(kind string, p tree.Params, workers int) (*Classifier, error) {
	switch kind {
	case KindTree, KindForest:
	default:
		return nil, perr.WithField(perr.InvalidArgf("multioutput: unknown estimator %q", kind), "estimator")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Classifier{Kind: kind, Params: p, workers: workers}, nil
}

// SetWorkers bounds the label fitting pool
func (c *Classifier) SetWorkers(n int) { c.workers = n }

func (c *Classifier) newEstimator(label int) tree.Estimator {
	p := c.Params
	p.Seed = tree.SubSeed(c.Params.Seed, label)
	if c.Kind == KindForest {
		return tree.NewForest(p)
	}
	return tree.NewTree(p)
}

// Fit trains one estimator per column of Y (rows by labels) on a bounded pool;
// each label draws from its own seed so results do not depend on scheduling
func (c *Classifier) Fit(ctx context.Context, X *sparse.CSR, Y [][]int) error {
	if X == nil || X.Rows != len(Y) || len(Y) == 0 {
		return perr.Validationf("multioutput: %d label rows for the feature matrix", len(Y))
	}
	nLabels := len(Y[0])
	if nLabels == 0 {
		return perr.Validationf("multioutput: no labels")
	}
	for i, row := range Y {
		if len(row) != nLabels {
			return perr.Validationf("multioutput: row %d has %d labels, want %d", i, len(row), nLabels)
		}
	}
	X.CSC()

	workers := c.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	ests := make([]tree.Estimator, nLabels)
	errs := make([]error, nLabels)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)
	wg := sync.WaitGroup{}
	for j := 0; j < nLabels; j++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(j int) {
			defer func() { <-sem; wg.Done() }()
			y := make([]int, len(Y))
			for i := range Y {
				y[i] = Y[i][j]
			}
			e := c.newEstimator(j)
			if err := e.Fit(ctx, X, y); err != nil {
				errs[j] = perr.WithOp(err, "multioutput.fit")
				cancel()
				return
			}
			ests[j] = e
		}(j)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil && !perr.IsCode(err, perr.ErrorCodeCanceled) {
			return err
		}
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	c.Estimators = ests
	return nil
}

// Predict returns rows by labels
func (c *Classifier) Predict(X *sparse.CSR) ([][]int, error) {
	if len(c.Estimators) == 0 {
		return nil, perr.Modelf("multioutput: classifier is not fitted")
	}
	out := make([][]int, X.Rows)
	for i := range out {
		out[i] = make([]int, len(c.Estimators))
	}
	for j, e := range c.Estimators {
		for i, v := range e.Predict(X) {
			out[i][j] = v
		}
	}
	return out, nil
}

// Labels is the fitted output width
func (c *Classifier) Labels() int { return len(c.Estimators) }
