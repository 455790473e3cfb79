// Package module wires the trainer over the message table and the optional analytics sink
package module

import (
	"io"

	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	mmodule "disasterresponse/internal/modkit/module"
	anmod "disasterresponse/internal/services/analytics/module"
	msgmod "disasterresponse/internal/services/messages/module"
	"disasterresponse/internal/services/train/domain"
	"disasterresponse/internal/services/train/service"
)

// Ports exposed by the train module
type Ports struct {
	Runner domain.RunnerPort
}

// DepsModules carries the modules the trainer reads ports from; Analytics may be nil
type DepsModules struct {
	Messages  mmodule.Module
	Analytics mmodule.Module
}

// WithDepsModules hands dependency modules to the train module
func WithDepsModules(messages, analytics mmodule.Module) modkit.Option {
	return modkit.WithPorts(DepsModules{Messages: messages, Analytics: analytics})
}

// Module implements module.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs the train module; out receives progress lines and the report
func New(deps modkit.Deps, out io.Writer, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("train")}, opts...)
	dm, ok := b.Ports.(DepsModules)
	if !ok || dm.Messages == nil {
		panic("train module: expected WithDepsModules(messages, analytics)")
	}
	reader := mmodule.MustPortsOf[msgmod.Ports](dm.Messages).Reader
	if reader == nil {
		panic("train module: messages Reader port missing")
	}

	svc := service.New(reader, nil, out)
	if dm.Analytics != nil {
		if runs := mmodule.MustPortsOf[anmod.Ports](dm.Analytics).Runs; runs != nil {
			svc = service.New(reader, runs, out)
		}
	}
	return &Module{deps: deps, ports: Ports{Runner: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "train" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(httpkit.Router) {}
