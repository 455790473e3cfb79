package module

import (
	"disasterresponse/internal/platform/config"
	"disasterresponse/internal/services/train/domain"
	"disasterresponse/internal/services/train/service"
)

// FromConfig seeds training Options from TRAIN_* on top of the built-in defaults
func FromConfig(cfg config.Conf) domain.Options {
	tc := cfg.Prefix("TRAIN_")
	o := service.DefaultOptions()
	o.Pipeline.Estimator = tc.MayEnum("ESTIMATOR", o.Pipeline.Estimator, "tree", "forest")
	o.Pipeline.Workers = tc.MayInt("WORKERS", o.Pipeline.Workers)
	o.Pipeline.Vectorizer.MaxFeatures = tc.MayInt("MAX_FEATURES", o.Pipeline.Vectorizer.MaxFeatures)
	o.Pipeline.Vectorizer.MinDF = tc.MayInt("MIN_DF", o.Pipeline.Vectorizer.MinDF)
	o.TestSize = tc.MayFloat64("TEST_SIZE", o.TestSize)
	o.Seed = int64(tc.MayInt("SEED", int(o.Seed)))
	o.Folds = tc.MayInt("FOLDS", o.Folds)
	o.CriterionOverride = tc.MayString("CRITERION_OVERRIDE", o.CriterionOverride)
	return o
}
