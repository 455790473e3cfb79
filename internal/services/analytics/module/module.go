// Package module wires the ClickHouse analytics sink; every port is nil when ClickHouse is not configured
package module

import (
	"context"

	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/services/analytics/domain"
	ahttp "disasterresponse/internal/services/analytics/http"
	"disasterresponse/internal/services/analytics/repo"
	"disasterresponse/internal/services/analytics/service"
)

// Ports exposed by the analytics module
type Ports struct {
	Runs    domain.RunWriterPort
	Events  domain.EventWriterPort
	Query   domain.QueryPort
	Emitter *service.Emitter
}

// Module implements module.Module
type Module struct {
	deps    modkit.Deps
	built   modkit.Built
	storage repo.Storage
	ports   Ports
}

// New constructs the analytics module over deps.CH
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("analytics"),
		modkit.WithPrefix("/analytics"),
	}, opts...)
	m := &Module{deps: deps, built: b}
	if deps.CH == nil {
		return m
	}

	o := FromConfig(deps.Cfg)
	m.storage = repo.NewCH(deps.CH)
	svc := service.New(m.storage, service.Config{HardLimit: o.HardLimit})
	m.ports = Ports{
		Runs:   svc,
		Events: svc,
		Query:  svc,
		Emitter: service.NewEmitter(svc, service.EmitterConfig{
			Buffer:   o.Buffer,
			Batch:    o.Batch,
			Interval: o.FlushInterval,
		}),
	}
	return m
}

// Enabled reports whether ClickHouse is configured
func (m *Module) Enabled() bool { return m.storage != nil }

// EnsureSchema creates the analytics tables; a no-op when disabled
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m.storage == nil {
		return nil
	}
	return m.storage.EnsureSchema(ctx)
}

// Name satisfies module.Module
func (m *Module) Name() string { return m.built.Name }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module; nothing is mounted when disabled
func (m *Module) MountRoutes(r httpkit.Router) {
	if m.ports.Query == nil {
		return
	}
	m.built.Mount(r, func(rr httpkit.Router) { ahttp.Register(rr, m.ports.Query) })
}
