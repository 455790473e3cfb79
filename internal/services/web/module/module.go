// Package module wires the dashboard pages and the JSON API over one classifier
package module

import (
	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/services/web/domain"
	webhttp "disasterresponse/internal/services/web/http"
)

// Ports exposed by the web modules
type Ports struct {
	Classifier domain.ClassifierPort
}

// Dashboard serves the HTML pages at the router root
type Dashboard struct {
	built modkit.Built
	pages *webhttp.Pages
	clf   domain.ClassifierPort
	rows  int
}

// NewDashboard parses the page templates; rows is shown on the index page
func NewDashboard(clf domain.ClassifierPort, rows int, opts ...modkit.Option) (*Dashboard, error) {
	b := modkit.Build([]modkit.Option{modkit.WithName("dashboard")}, opts...)
	pages, err := webhttp.NewPages(clf)
	if err != nil {
		return nil, err
	}
	return &Dashboard{built: b, pages: pages, clf: clf, rows: rows}, nil
}

// Name satisfies module.Module
func (m *Dashboard) Name() string { return m.built.Name }

// Ports satisfies module.Module
func (m *Dashboard) Ports() any { return Ports{Classifier: m.clf} }

// MountRoutes satisfies module.Module
func (m *Dashboard) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { m.pages.Register(rr, m.rows) })
}

// API serves the JSON classification routes; mount it under /api/v1
type API struct {
	built modkit.Built
	clf   domain.ClassifierPort
}

// NewAPI constructs the API module
func NewAPI(clf domain.ClassifierPort, opts ...modkit.Option) *API {
	b := modkit.Build([]modkit.Option{modkit.WithName("classify")}, opts...)
	return &API{built: b, clf: clf}
}

// Name satisfies module.Module
func (m *API) Name() string { return m.built.Name }

// Ports satisfies module.Module
func (m *API) Ports() any { return Ports{Classifier: m.clf} }

// MountRoutes satisfies module.Module
func (m *API) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { webhttp.RegisterAPI(rr, m.clf) })
}
