// Package module wires the ETL runner
package module

import (
	"io"

	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	mmodule "disasterresponse/internal/modkit/module"
	"disasterresponse/internal/services/etl/domain"
	"disasterresponse/internal/services/etl/service"
	msgmod "disasterresponse/internal/services/messages/module"
)

// Ports exposed by the etl module
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// WithMessages hands the messages module to the etl module
func WithMessages(m mmodule.Module) modkit.Option {
	return modkit.WithPorts(m)
}

// New constructs the etl module; target labels the database in progress output
func New(deps modkit.Deps, target string, out io.Writer, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("etl")}, opts...)
	msgs, ok := b.Ports.(mmodule.Module)
	if !ok {
		panic("etl module: expected WithMessages(messages module)")
	}
	ports := mmodule.MustPortsOf[msgmod.Ports](msgs)
	if ports.Writer == nil {
		panic("etl module: messages Writer port missing")
	}

	cfg := FromConfig(deps.Cfg)
	svc := service.New(ports.Writer, service.Config{StrictFlags: cfg.StrictFlags, Target: target}, out)
	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "etl" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(httpkit.Router) {}
