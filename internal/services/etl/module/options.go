package module

import "disasterresponse/internal/platform/config"

// Options holds configuration settings for the etl module
type Options struct {
	StrictFlags bool
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	ec := cfg.Prefix("ETL_")
	return Options{
		StrictFlags: ec.MayBool("STRICT_FLAGS", false),
	}
}
