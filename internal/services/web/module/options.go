package module

import (
	"disasterresponse/internal/platform/config"
)

// Options holds the web binary settings read from WEB_*
type Options struct {
	Database       string
	ModelPath      string
	EnableSwagger  bool
	EnableProfiler bool
}

// FromConfig reads WEB_DATABASE, WEB_MODEL_PATH, WEB_SWAGGER and WEB_PROFILER
func FromConfig(cfg config.Conf) Options {
	wc := cfg.Prefix("WEB_")
	return Options{
		Database:       wc.MayString("DATABASE", "data/DisasterResponse.db"),
		ModelPath:      wc.MayString("MODEL_PATH", "models/classifier.bin"),
		EnableSwagger:  wc.MayBool("SWAGGER", true),
		EnableProfiler: wc.MayBool("PROFILER", false),
	}
}
