package service

import (
	"bytes"
	"errors"
	"io"
	"os"
	"runtime"

	"disasterresponse/internal/core/multioutput"
	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
	dom "disasterresponse/internal/services/train/domain"

	"gopkg.in/yaml.v3"
)

// Vocabulary bounds applied unless a config or flag overrides them
const (
	DefaultMaxFeatures = 20000
	DefaultMinDF       = 1
)

// DefaultOptions mirrors the classic run: forest, 20% test split, gini override on,
// vocabulary capped at DefaultMaxFeatures terms
func DefaultOptions() dom.Options {
	o := dom.Options{
		TestSize:          0.2,
		Seed:              42,
		Folds:             DefaultFolds,
		CriterionOverride: tree.Gini,
	}
	o.Pipeline.Estimator = multioutput.KindForest
	o.Pipeline.Workers = runtime.NumCPU()
	o.Pipeline.Vectorizer.MaxFeatures = DefaultMaxFeatures
	o.Pipeline.Vectorizer.MinDF = DefaultMinDF
	return o
}

// LoadConfigFile decodes a YAML training config over opts; unknown keys are rejected
func LoadConfigFile(path string, opts *dom.Options) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return perr.WithField(perr.IOf(err, "read training config %s", path), "config")
	}
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "parse training config %s", path), "config")
	}
	return nil
}
