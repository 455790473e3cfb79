// Package trace logs SQL statements issued through the store adapters
package trace

import (
	"context"
	"strings"

	"disasterresponse/internal/platform/logger"

	"github.com/rs/zerolog"
)

// QueryEvent describes one executed statement
type QueryEvent struct {
	SQL       string
	Args      []any
	ElapsedUS int64
	Err       error
	Slow      bool
}

// QueryTracer receives query events from an adapter
type QueryTracer interface {
	OnQuery(ctx context.Context, ev QueryEvent)
}

// maxArgs caps how many bind args are logged; bulk inserts carry thousands
const maxArgs = 16

// Tracer returns a zerolog tracer tagged with the backend name. It logs at
// Info even when the root logger is quieter, so LOG_SQL stays useful
func Tracer(root logger.Logger, backend string) QueryTracer {
	ll := root.Level(zerolog.DebugLevel).With().Str("component", "sql").Str("backend", backend).Logger()
	return &zlTracer{log: ll}
}

type zlTracer struct{ log logger.Logger }

func (z *zlTracer) OnQuery(_ context.Context, ev QueryEvent) {
	evt := z.log.Info()
	if ev.Slow {
		evt = z.log.Warn()
	}
	if ev.Err != nil {
		evt = z.log.Error().Err(ev.Err)
	}
	args := ev.Args
	if len(args) > maxArgs {
		args = args[:maxArgs]
	}
	evt.Float64("elapsed_ms", float64(ev.ElapsedUS)/1000.0).
		Bool("slow", ev.Slow).
		Str("sql", Compact(ev.SQL)).
		Interface("args", args).
		Int("n_args", len(ev.Args)).
		Msg("sql query")
}

// Compact collapses whitespace runs so multi-line SQL fits on one log line
func Compact(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch r {
		case '\n', '\t', '\r', ' ':
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsSlow reports whether elapsed microseconds cross the slowMs threshold; negative disables
func IsSlow(elapsedUS int64, slowMs int) bool {
	return slowMs >= 0 && elapsedUS >= int64(slowMs)*1000
}
