package meta

import (
	"time"

	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
)

// Module mounts the meta routes under /meta
type Module struct {
	built modkit.Built
	deps  Deps
}

// New constructs the meta module; rows is the loaded table size
func New(deps modkit.Deps, service string, rows int, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)
	return &Module{built: b, deps: Deps{
		ServiceName: service,
		StartedAt:   time.Now(),
		DB:          deps.DB,
		CH:          deps.CH,
		ModelRows:   rows,
	}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return m.built.Name }

// Ports satisfies module.Module
func (m *Module) Ports() any { return nil }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(r httpkit.Router) {
	m.built.Mount(r, func(rr httpkit.Router) { Register(rr, m.deps) })
}
