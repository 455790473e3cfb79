// Package service classifies dashboard queries against the loaded application context
package service

import (
	"context"
	"time"

	pnet "disasterresponse/internal/platform/net"
	andom "disasterresponse/internal/services/analytics/domain"
	"disasterresponse/internal/services/web/appctx"
	"disasterresponse/internal/services/web/domain"

	"github.com/google/uuid"
)

// EventSink accepts prediction events without blocking
type EventSink interface {
	Emit(ev andom.PredictionEvent) bool
}

// Service implements domain.ClassifierPort
type Service struct {
	app    *appctx.Context
	events EventSink
	now    func() time.Time
}

// New constructs the classifier; events may be nil
func New(app *appctx.Context, events EventSink) *Service {
	return &Service{app: app, events: events, now: time.Now}
}

// Classify predicts every category for query and zips the flags with the names.
// An empty query still runs through the model
func (s *Service) Classify(ctx context.Context, query string) (domain.Classification, error) {
	flags, err := s.app.Model().PredictOne(ctx, query)
	if err != nil {
		return domain.Classification{}, err
	}
	cats := s.app.Categories()
	out := domain.Classification{
		Query:    query,
		Labels:   make([]domain.LabelFlag, len(cats)),
		Positive: []string{},
	}
	for i, c := range cats {
		out.Labels[i] = domain.LabelFlag{Category: c, Flag: flags[i]}
		if flags[i] != 0 {
			out.Positive = append(out.Positive, c)
		}
	}
	if s.events != nil {
		s.events.Emit(andom.PredictionEvent{
			EventID:   uuid.NewString(),
			At:        s.now().UTC(),
			RequestID: pnet.RequestID(ctx),
			Query:     query,
			Labels:    out.Positive,
		})
	}
	return out, nil
}

// Categories implements domain.ClassifierPort
func (s *Service) Categories() []string { return s.app.Categories() }

// Charts implements domain.ClassifierPort
func (s *Service) Charts() domain.Charts { return s.app.Charts() }
