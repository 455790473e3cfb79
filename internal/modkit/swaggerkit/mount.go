// Package swaggerkit provides helpers to mount Swagger UI and a normalized JSON spec
package swaggerkit

import (
	"net/http"

	phttp "disasterresponse/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Options configures where the UI lives and which spec it serves
type Options struct {
	// Prefix is the UI root, default /api/docs
	Prefix string
	// BaseURL is advertised in the spec servers block, default /api/v1
	BaseURL string
	// Instance is the swag instance name the docs package registered
	Instance string
	// Read returns the raw spec JSON
	Read func() string
}

// Mount the Swagger UI and JSON spec if enabled
func Mount(r phttp.Router, enabled bool, o Options) {
	if !enabled || o.Read == nil {
		return
	}
	if o.Prefix == "" {
		o.Prefix = "/api/docs"
	}
	if o.BaseURL == "" {
		o.BaseURL = "/api/v1"
	}
	r.Get(o.Prefix, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, o.Prefix+"/index.html", http.StatusMovedPermanently)
	})
	r.Get(o.Prefix+"/doc.json", serveDocJSON(o))
	r.Handle(o.Prefix+"/*", httpSwagger.Handler(
		httpSwagger.InstanceName(o.Instance),
		httpSwagger.URL(o.Prefix+"/doc.json"),
	))
}
