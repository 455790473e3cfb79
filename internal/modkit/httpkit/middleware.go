package httpkit

import (
	"net/http"
	"time"

	"disasterresponse/internal/platform/config"
	"disasterresponse/internal/platform/net/middleware"
)

// CommonStack returns the root middleware slice configured from WEB_*:
// CORS_ORIGINS, TIMEOUT and SLOW_REQUEST
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	wc := cfg.Prefix("WEB_")
	return middleware.Defaults(middleware.DefaultsOptions{
		Timeout: wc.MayDuration("TIMEOUT", 30*time.Second),
		Slow:    wc.MayDuration("SLOW_REQUEST", 500*time.Millisecond),
		CORS: middleware.CORSOptions{
			AllowedOrigins: wc.MayCSV("CORS_ORIGINS", nil),
			MaxAge:         300,
		},
	})
}

// APIStack is applied to /api routes only; HTML pages stay cacheable
func APIStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{middleware.NoCache()}
}
