package service

import (
	"context"
	"sync"
	"time"

	"disasterresponse/internal/platform/logger"
	dom "disasterresponse/internal/services/analytics/domain"
)

// EmitterConfig bounds the async event buffer
type EmitterConfig struct {
	Buffer   int
	Batch    int
	Interval time.Duration
}

// Emitter buffers prediction events and flushes them in batches from one goroutine.
// Emit never blocks; events are dropped when the buffer is full
type Emitter struct {
	w    dom.EventWriterPort
	cfg  EmitterConfig
	in   chan dom.PredictionEvent
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	dropped int
}

// NewEmitter constructs an emitter; call Run to start flushing
func NewEmitter(w dom.EventWriterPort, cfg EmitterConfig) *Emitter {
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1024
	}
	if cfg.Batch <= 0 {
		cfg.Batch = 256
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second
	}
	return &Emitter{w: w, cfg: cfg, in: make(chan dom.PredictionEvent, cfg.Buffer), done: make(chan struct{})}
}

// Emit queues ev and reports whether it was accepted
func (e *Emitter) Emit(ev dom.PredictionEvent) bool {
	select {
	case e.in <- ev:
		return true
	default:
		e.mu.Lock()
		e.dropped++
		e.mu.Unlock()
		return false
	}
}

// Dropped returns how many events were refused because the buffer was full
func (e *Emitter) Dropped() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dropped
}

// Run flushes on a ticker or when a batch fills, until ctx is done.
// Pending events get one final flush on a short detached deadline
func (e *Emitter) Run(ctx context.Context) {
	defer e.once.Do(func() { close(e.done) })
	log := logger.Named("analytics")
	t := time.NewTicker(e.cfg.Interval)
	defer t.Stop()

	batch := make([]dom.PredictionEvent, 0, e.cfg.Batch)
	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := e.w.WriteEvents(ctx, batch); err != nil {
			log.Warn().Err(err).Int("events", len(batch)).Msg("prediction events not recorded")
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
		drain:
			for {
				select {
				case ev := <-e.in:
					batch = append(batch, ev)
				default:
					break drain
				}
			}
			fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			flush(fctx)
			cancel()
			return
		case ev := <-e.in:
			batch = append(batch, ev)
			if len(batch) >= e.cfg.Batch {
				flush(ctx)
			}
		case <-t.C:
			flush(ctx)
		}
	}
}

// Done is closed once Run has returned
func (e *Emitter) Done() <-chan struct{} { return e.done }
