package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/testkit"
	dom "disasterresponse/internal/services/analytics/domain"
)

type fakeStorage struct {
	mu     sync.Mutex
	runs   []dom.TrainingRun
	events [][]dom.PredictionEvent
	limit  int
	err    error
}

func (f *fakeStorage) EnsureSchema(context.Context) error { return nil }

func (f *fakeStorage) InsertRuns(_ context.Context, xs []dom.TrainingRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.runs = append(f.runs, xs...)
	return nil
}

func (f *fakeStorage) InsertEvents(_ context.Context, xs []dom.PredictionEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, append([]dom.PredictionEvent(nil), xs...))
	return nil
}

func (f *fakeStorage) RecentRuns(_ context.Context, limit int) ([]dom.TrainingRun, error) {
	f.limit = limit
	return f.runs, nil
}

func (f *fakeStorage) TopLabels(_ context.Context, _ time.Time, limit int) ([]dom.LabelCount, error) {
	f.limit = limit
	return nil, nil
}

func (f *fakeStorage) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, b := range f.events {
		n += len(b)
	}
	return n
}

func TestRecordRun(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	s := New(st, Config{})
	if err := s.RecordRun(context.Background(), dom.TrainingRun{}); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing id err = %v", err)
	}
	if err := s.RecordRun(context.Background(), dom.TrainingRun{RunID: "r1", Estimator: "tree"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(st.runs) != 1 || st.runs[0].RunID != "r1" {
		t.Fatalf("runs = %+v", st.runs)
	}

	st.err = perr.Newf(perr.ErrorCodeDB, "boom")
	err := s.RecordRun(context.Background(), dom.TrainingRun{RunID: "r2"})
	if e, ok := perr.As(err); !ok || e.Op() != "analytics.record_run" || e.Code() != perr.ErrorCodeDB {
		t.Fatalf("err = %v", err)
	}
}

func TestLimitClamp(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	s := New(st, Config{HardLimit: 50})
	cases := []struct{ in, want int }{{0, 50}, {-3, 50}, {10, 10}, {500, 50}}
	for _, c := range cases {
		_, _ = s.RecentRuns(context.Background(), c.in)
		if st.limit != c.want {
			t.Fatalf("RecentRuns(%d) used %d", c.in, st.limit)
		}
		_, _ = s.TopLabels(context.Background(), time.Now(), c.in)
		if st.limit != c.want {
			t.Fatalf("TopLabels(%d) used %d", c.in, st.limit)
		}
	}
}

func TestEmitter_FlushesByBatchAndOnStop(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	e := NewEmitter(New(st, Config{}), EmitterConfig{Buffer: 16, Batch: 3, Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	go e.Run(ctx)

	for i := 0; i < 4; i++ {
		if !e.Emit(dom.PredictionEvent{EventID: string(rune('a' + i))}) {
			t.Fatalf("emit %d refused", i)
		}
	}
	testkit.Eventually(t, 2*time.Second, func() bool { return st.total() >= 3 })

	cancel()
	select {
	case <-e.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("emitter did not stop")
	}
	if st.total() != 4 {
		t.Fatalf("flushed %d events, want 4", st.total())
	}
}

func TestEmitter_FlushesOnTicker(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{}
	e := NewEmitter(New(st, Config{}), EmitterConfig{Batch: 100, Interval: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go e.Run(ctx)

	e.Emit(dom.PredictionEvent{EventID: "x"})
	testkit.Eventually(t, 2*time.Second, func() bool { return st.total() == 1 })
}

func TestEmitter_DropsWhenFullAndSurvivesWriteErrors(t *testing.T) {
	t.Parallel()

	st := &fakeStorage{err: errors.New("ch down")}
	e := NewEmitter(New(st, Config{}), EmitterConfig{Buffer: 2, Batch: 10, Interval: time.Hour})
	e.Emit(dom.PredictionEvent{})
	e.Emit(dom.PredictionEvent{})
	if e.Emit(dom.PredictionEvent{}) {
		t.Fatal("third emit should be dropped")
	}
	if e.Dropped() != 1 {
		t.Fatalf("dropped = %d", e.Dropped())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Run(ctx)
	if st.total() != 0 {
		t.Fatalf("failed writes should not be recorded")
	}
}
