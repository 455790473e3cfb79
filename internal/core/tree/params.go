package tree

import (
	"math"

	perr "disasterresponse/internal/platform/errors"
)

// Split quality measures
const (
	Gini    = "gini"
	Entropy = "entropy"
)

// Feature sampling policies
const (
	FeaturesAll  = "all"
	FeaturesSqrt = "sqrt"
	FeaturesLog2 = "log2"
)

// Params configure a single tree or every tree of a forest
type Params struct {
	Criterion       string `yaml:"criterion" json:"criterion" validate:"omitempty,oneof=gini entropy"`
	MaxDepth        int    `yaml:"max_depth" json:"max_depth" validate:"min=0"`
	MaxFeatures     string `yaml:"max_features" json:"max_features" validate:"omitempty,oneof=all sqrt log2"`
	MinSamplesSplit int    `yaml:"min_samples_split" json:"min_samples_split" validate:"min=0"`
	MinSamplesLeaf  int    `yaml:"min_samples_leaf" json:"min_samples_leaf" validate:"min=0"`
	NEstimators     int    `yaml:"n_estimators" json:"n_estimators" validate:"min=0"`
	Seed            int64  `yaml:"seed" json:"seed"`
}

// WithDefaults fills zero fields; forests sample sqrt features by default
func (p Params) WithDefaults(forest bool) Params {
	if p.Criterion == "" {
		p.Criterion = Gini
	}
	if p.MaxFeatures == "" {
		p.MaxFeatures = FeaturesAll
		if forest {
			p.MaxFeatures = FeaturesSqrt
		}
	}
	if p.MinSamplesSplit < 2 {
		p.MinSamplesSplit = 2
	}
	if p.MinSamplesLeaf < 1 {
		p.MinSamplesLeaf = 1
	}
	if p.NEstimators < 1 {
		p.NEstimators = 10
	}
	return p
}

// Validate rejects values WithDefaults cannot repair
func (p Params) Validate() error {
	switch p.Criterion {
	case "", Gini, Entropy:
	default:
		return perr.WithField(perr.InvalidArgf("tree: unknown criterion %q", p.Criterion), "criterion")
	}
	switch p.MaxFeatures {
	case "", FeaturesAll, FeaturesSqrt, FeaturesLog2:
	default:
		return perr.WithField(perr.InvalidArgf("tree: unknown max_features %q", p.MaxFeatures), "max_features")
	}
	if p.MaxDepth < 0 {
		return perr.WithField(perr.InvalidArgf("tree: negative max_depth %d", p.MaxDepth), "max_depth")
	}
	return nil
}

// featureCount is how many non constant features a node inspects
func (p Params) featureCount(d int) int {
	switch p.MaxFeatures {
	case FeaturesSqrt:
		return max(1, int(math.Sqrt(float64(d))))
	case FeaturesLog2:
		return max(1, int(math.Log2(float64(d))))
	}
	return d
}

// SubSeed derives an independent stream seed for child i of base
func SubSeed(base int64, i int) int64 {
	z := uint64(base) + uint64(i+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
