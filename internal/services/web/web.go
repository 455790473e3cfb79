// Package web assembles the dashboard, the JSON API and the meta routes
package web

import (
	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/modkit/module"
	"disasterresponse/internal/modkit/swaggerkit"
	phttp "disasterresponse/internal/platform/net/http"

	anmod "disasterresponse/internal/services/analytics/module"
	"disasterresponse/internal/services/web/appctx"
	"disasterresponse/internal/services/web/docs"
	"disasterresponse/internal/services/web/meta"
	webmod "disasterresponse/internal/services/web/module"
	"disasterresponse/internal/services/web/service"
)

// Options are the web assembly inputs
type Options struct {
	Deps           modkit.Deps
	App            *appctx.Context
	Analytics      *anmod.Module
	Service        string
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount registers every route on r. Pages live at the root, JSON under /api/v1
func Mount(r phttp.Router, opt Options) error {
	var sink service.EventSink
	if opt.Analytics != nil {
		if em := module.MustPortsOf[anmod.Ports](opt.Analytics).Emitter; em != nil {
			sink = em
		}
	}
	clf := service.New(opt.App, sink)

	dash, err := webmod.NewDashboard(clf, opt.App.Rows())
	if err != nil {
		return err
	}
	dash.MountRoutes(r)

	mods := []module.Module{
		meta.New(opt.Deps, opt.Service, opt.App.Rows()),
		webmod.NewAPI(clf),
	}
	if opt.Analytics != nil {
		mods = append(mods, opt.Analytics)
	}

	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Options{
		Instance: docs.SwaggerInfo.InstanceName(),
		Read:     docs.SwaggerInfo.ReadDoc,
	})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.APIStack(), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})
	return nil
}
