// Package pipeline chains the shared tokenizer, the tf-idf vectorizer and
// the multi-output classifier into one fitted, persistable model
package pipeline

import (
	"context"

	"disasterresponse/internal/core/multioutput"
	"disasterresponse/internal/core/tfidf"
	"disasterresponse/internal/core/tokenize"
	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
)

// Config selects the estimator and its knobs
type Config struct {
	Estimator  string        `yaml:"estimator" json:"estimator" validate:"omitempty,oneof=tree forest"`
	Vectorizer tfidf.Options `yaml:"vectorizer" json:"vectorizer"`
	Tree       tree.Params   `yaml:"params" json:"params"`
	Workers    int           `yaml:"workers" json:"workers" validate:"min=0"`
}

// TokenizerInfo records the tokenizer settings a model was trained with
type TokenizerInfo struct {
	MinRunes  int
	Stopwords int
}

// Pipeline is text in, one 0/1 flag per category out
type Pipeline struct {
	Categories []string
	Tokenizer  TokenizerInfo
	Vectorizer *tfidf.Vectorizer
	Classifier *multioutput.Classifier

	tok     *tokenize.Tokenizer
	workers int
}

// New builds an unfitted pipeline; Estimator defaults to forest
func New(cfg Config) (*Pipeline, error) {
	if cfg.Estimator == "" {
		cfg.Estimator = multioutput.KindForest
	}
	tok, err := tokenize.Default()
	if err != nil {
		return nil, err
	}
	clf, err := multioutput.New(cfg.Estimator, cfg.Tree, cfg.Workers)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		Tokenizer:  TokenizerInfo{MinRunes: tokenize.MinRunes, Stopwords: len(tokenize.Stopwords())},
		Vectorizer: tfidf.New(cfg.Vectorizer),
		Classifier: clf,
		tok:        tok,
		workers:    cfg.Workers,
	}, nil
}

// SetWorkers bounds tokenization and label fitting concurrency
func (p *Pipeline) SetWorkers(n int) {
	p.workers = n
	p.Classifier.SetWorkers(n)
}

// Fit tokenizes texts, learns the vocabulary and trains every label;
// Y is rows by categories
func (p *Pipeline) Fit(ctx context.Context, texts []string, Y [][]int, categories []string) error {
	if len(texts) != len(Y) {
		return perr.Validationf("pipeline: %d texts but %d label rows", len(texts), len(Y))
	}
	if len(Y) > 0 && len(Y[0]) != len(categories) {
		return perr.Validationf("pipeline: %d label columns but %d categories", len(Y[0]), len(categories))
	}
	docs, err := p.tok.Corpus(ctx, texts, p.workers)
	if err != nil {
		return err
	}
	X, err := p.Vectorizer.FitTransform(docs)
	if err != nil {
		return err
	}
	if err := p.Classifier.Fit(ctx, X, Y); err != nil {
		return err
	}
	p.Categories = append([]string(nil), categories...)
	return nil
}

// Predict returns rows by categories for texts
func (p *Pipeline) Predict(ctx context.Context, texts []string) ([][]int, error) {
	docs, err := p.tok.Corpus(ctx, texts, p.workers)
	if err != nil {
		return nil, err
	}
	X, err := p.Vectorizer.Transform(docs)
	if err != nil {
		return nil, err
	}
	return p.Classifier.Predict(X)
}

// PredictOne classifies a single text
func (p *Pipeline) PredictOne(ctx context.Context, text string) ([]int, error) {
	out, err := p.Predict(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// Tokens exposes the tokenizer the pipeline runs
func (p *Pipeline) Tokens(text string) []string { return p.tok.Tokenize(text) }
