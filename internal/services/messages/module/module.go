// Package module wires the message table service for the binaries
package module

import (
	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	"disasterresponse/internal/platform/config"
	"disasterresponse/internal/services/messages/domain"
	"disasterresponse/internal/services/messages/service"
)

// Ports exposed by the messages module
type Ports struct {
	Writer domain.WriterPort
	Reader domain.ReaderPort
}

// Module exposes the message table; it mounts no routes
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// FromConfig reads MESSAGES_STATEMENT_TIMEOUT, MESSAGES_RETRIES and
// MESSAGES_RETRY_WAIT over service.DefaultOptions
func FromConfig(cfg config.Conf) service.Options {
	o := service.DefaultOptions()
	mc := cfg.Prefix("MESSAGES_")
	o.StatementTimeout = mc.MayDuration("STATEMENT_TIMEOUT", o.StatementTimeout)
	o.Retries = uint64(max(0, mc.MayInt("RETRIES", int(o.Retries))))
	o.RetryWait = mc.MayDuration("RETRY_WAIT", o.RetryWait)
	return o
}

// New constructs the messages module over deps.DB
func New(deps modkit.Deps) *Module {
	svc := service.New(deps.DB, deps.Dialect, FromConfig(deps.Cfg))
	return &Module{deps: deps, ports: Ports{Writer: svc, Reader: svc}}
}

// Name satisfies module.Module
func (m *Module) Name() string { return "messages" }

// Ports satisfies module.Module
func (m *Module) Ports() any { return m.ports }

// MountRoutes satisfies module.Module
func (m *Module) MountRoutes(httpkit.Router) {}
