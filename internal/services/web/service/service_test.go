package service

import (
	"context"
	"testing"
	"time"

	"disasterresponse/internal/core/multioutput"
	"disasterresponse/internal/core/pipeline"
	"disasterresponse/internal/core/tree"
	pnet "disasterresponse/internal/platform/net"
	andom "disasterresponse/internal/services/analytics/domain"
	msgdom "disasterresponse/internal/services/messages/domain"
	"disasterresponse/internal/services/web/appctx"
)

type recordSink struct {
	events []andom.PredictionEvent
}

func (r *recordSink) Emit(ev andom.PredictionEvent) bool {
	r.events = append(r.events, ev)
	return true
}

func app(t *testing.T) *appctx.Context {
	t.Helper()
	m := msgdom.Messages{
		Categories: []string{"related", "water", "offer"},
		Rows: []msgdom.Message{
			{ID: 1, Message: "Please send water", Genre: "direct", Flags: []int{1, 1, 0}},
			{ID: 2, Message: "We need water now", Genre: "direct", Flags: []int{1, 1, 0}},
			{ID: 3, Message: "Nice weather today", Genre: "social", Flags: []int{0, 0, 0}},
		},
	}
	p, err := pipeline.New(pipeline.Config{Estimator: multioutput.KindTree, Tree: tree.Params{Seed: 3}, Workers: 1})
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	if err := p.Fit(context.Background(), m.Texts(), m.Labels(), m.Categories); err != nil {
		t.Fatalf("fit: %v", err)
	}
	c, err := appctx.New(m, p)
	if err != nil {
		t.Fatalf("appctx: %v", err)
	}
	return c
}

func TestClassify_ZipsLabelsAndEmits(t *testing.T) {
	sink := &recordSink{}
	s := New(app(t), sink)
	s.now = func() time.Time { return time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC) }

	ctx := pnet.WithRequest(context.Background(), "req-1")
	res, err := s.Classify(ctx, "Please send water")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(res.Labels) != 3 {
		t.Fatalf("labels = %+v", res.Labels)
	}
	for i, c := range []string{"related", "water", "offer"} {
		if res.Labels[i].Category != c {
			t.Fatalf("label %d = %q", i, res.Labels[i].Category)
		}
	}
	if res.Labels[2].Flag != 0 {
		t.Fatalf("offer was never positive in training: %+v", res.Labels[2])
	}
	positive := 0
	for _, l := range res.Labels {
		positive += l.Flag
	}
	if positive != len(res.Positive) {
		t.Fatalf("positive %v vs labels %+v", res.Positive, res.Labels)
	}

	if len(sink.events) != 1 {
		t.Fatalf("events = %d", len(sink.events))
	}
	ev := sink.events[0]
	if ev.EventID == "" || ev.RequestID != "req-1" || ev.Query != "Please send water" || !ev.At.Equal(s.now()) {
		t.Fatalf("event = %+v", ev)
	}
}

func TestClassify_EmptyQueryWithoutSink(t *testing.T) {
	s := New(app(t), nil)
	res, err := s.Classify(context.Background(), "")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if len(res.Labels) != 3 || res.Positive == nil {
		t.Fatalf("result = %+v", res)
	}
	if len(s.Categories()) != 3 || len(s.Charts().Figures) != 2 {
		t.Fatalf("categories=%v", s.Categories())
	}
}
