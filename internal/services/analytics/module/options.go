package module

import (
	"time"

	"disasterresponse/internal/platform/config"
)

// Options holds configuration settings for the analytics module
type Options struct {
	HardLimit     int
	Buffer        int
	Batch         int
	FlushInterval time.Duration
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	ac := cfg.Prefix("ANALYTICS_")
	return Options{
		HardLimit:     ac.MayInt("HARD_LIMIT", 100),
		Buffer:        ac.MayInt("BUFFER", 1024),
		Batch:         ac.MayInt("BATCH", 256),
		FlushInterval: ac.MayDuration("FLUSH_INTERVAL", time.Second),
	}
}
