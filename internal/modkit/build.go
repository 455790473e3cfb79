package modkit

import (
	"disasterresponse/internal/modkit/httpkit"
	str "disasterresponse/internal/platform/strings"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Ports  any
}

// Build applies Option funcs over defaults and returns a plain struct
func Build(defaults []Option, opts ...Option) Built {
	var c buildCfg
	for _, o := range defaults {
		o(&c)
	}
	for _, o := range opts {
		o(&c)
	}
	return Built{Name: c.name, Prefix: c.prefix, Ports: c.ports}
}

// Mount mounts the module's own routes under b.Prefix, or in a group at the
// parent when there is no prefix
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	if b.Prefix == "" {
		r.Group(own)
		return
	}
	r.Route(str.MustPrefix(b.Prefix), own)
}
