package service

import (
	"context"

	"disasterresponse/internal/core/metrics"
	"disasterresponse/internal/core/modelselect"
	"disasterresponse/internal/core/multioutput"
	"disasterresponse/internal/core/pipeline"
	"disasterresponse/internal/core/tfidf"
	"disasterresponse/internal/core/tokenize"
	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	dom "disasterresponse/internal/services/train/domain"
)

// DefaultFolds is the cross validation fold count
const DefaultFolds = 3

// GridSearch scores every grid candidate by mean subset accuracy over k folds
// of the training rows. The corpus is tokenized once; the vectorizer is refit per fold
func (s *Service) GridSearch(ctx context.Context, cfg pipeline.Config, grid modelselect.Grid, folds int, train dom.Dataset) (modelselect.Result, error) {
	if folds == 0 {
		folds = DefaultFolds
	}
	kind := cfg.Estimator
	if kind == "" {
		kind = multioutput.KindForest
	}
	if len(grid.Criterion)+len(grid.MaxDepth)+len(grid.MaxFeatures) == 0 {
		grid = modelselect.DefaultGrid()
	}
	log := logger.C(ctx)

	tok, err := tokenize.Default()
	if err != nil {
		return modelselect.Result{}, err
	}
	docs, err := tok.Corpus(ctx, train.Texts, cfg.Workers)
	if err != nil {
		return modelselect.Result{}, err
	}

	score := func(ctx context.Context, p tree.Params, trIdx, teIdx []int) (float64, error) {
		vec := tfidf.New(cfg.Vectorizer)
		Xtr, err := vec.FitTransform(pickDocs(docs, trIdx))
		if err != nil {
			return 0, err
		}
		clf, err := multioutput.New(kind, p, cfg.Workers)
		if err != nil {
			return 0, err
		}
		if err := clf.Fit(ctx, Xtr, pickRows(train.Y, trIdx)); err != nil {
			return 0, err
		}
		Xte, err := vec.Transform(pickDocs(docs, teIdx))
		if err != nil {
			return 0, err
		}
		pred, err := clf.Predict(Xte)
		if err != nil {
			return 0, err
		}
		acc := metrics.SubsetAccuracy(pickRows(train.Y, teIdx), pred)
		log.Debug().
			Str("criterion", p.Criterion).
			Int("max_depth", p.MaxDepth).
			Str("max_features", p.MaxFeatures).
			Float64("score", acc).
			Msg("fold scored")
		return acc, nil
	}

	res, err := modelselect.GridSearch(ctx, train.Len(), cfg.Tree, grid, folds, score)
	if err != nil {
		return modelselect.Result{}, perr.WithOp(err, "train.grid_search")
	}
	log.Info().
		Int("candidates", len(res.Candidates)).
		Int("folds", folds).
		Str("criterion", res.Best.Criterion).
		Int("max_depth", res.Best.MaxDepth).
		Str("max_features", res.Best.MaxFeatures).
		Float64("score", res.BestScore).
		Msg("grid search finished")
	return res, nil
}

// ApplyCriterionOverride replaces the searched criterion with override.
// A differing value is logged as a warning; an empty override keeps the searched best
func ApplyCriterionOverride(ctx context.Context, best tree.Params, override string) tree.Params {
	if override == "" || override == best.Criterion {
		return best
	}
	logger.C(ctx).Warn().
		Str("searched", best.Criterion).
		Str("override", override).
		Msg("criterion override replaces the grid search result")
	best.Criterion = override
	return best
}

func pickDocs(docs [][]string, idx []int) [][]string {
	out := make([][]string, len(idx))
	for i, j := range idx {
		out[i] = docs[j]
	}
	return out
}

func pickRows(y [][]int, idx []int) [][]int {
	out := make([][]int, len(idx))
	for i, j := range idx {
		out[i] = y[j]
	}
	return out
}
