// Package modkit provides module wiring and core deps
package modkit

import (
	"disasterresponse/internal/modkit/repokit"
	"disasterresponse/internal/platform/config"
	"disasterresponse/internal/platform/logger"
	"disasterresponse/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	DB      repokit.TxRunner
	Dialect store.Dialect
	CH      store.Clickhouse
}

// FromStore lifts the seams of an opened store into Deps
func FromStore(cfg config.Conf, st *store.Store) Deps {
	d := Deps{Cfg: cfg}
	if st == nil {
		return d
	}
	d.Log, d.DB, d.Dialect, d.CH = st.Log, st.DB, st.Dialect, st.CH
	return d
}
