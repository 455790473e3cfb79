// Package service implements the analytics ports over ClickHouse
package service

import (
	"context"
	"time"

	perr "disasterresponse/internal/platform/errors"
	dom "disasterresponse/internal/services/analytics/domain"
	"disasterresponse/internal/services/analytics/repo"
)

// Config for the analytics service
type Config struct {
	HardLimit int
}

// Service implements the writer and query ports directly against the CH repo
type Service struct {
	Storage repo.Storage
	Cfg     Config
}

// New constructs an analytics service with a required repo
func New(storage repo.Storage, cfg Config) *Service {
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 100
	}
	return &Service{Storage: storage, Cfg: cfg}
}

// RecordRun implements domain.RunWriterPort
func (s *Service) RecordRun(ctx context.Context, r dom.TrainingRun) error {
	if r.RunID == "" {
		return perr.WithField(perr.Validationf("analytics: run id is required"), "run_id")
	}
	return perr.WithOp(s.Storage.InsertRuns(ctx, []dom.TrainingRun{r}), "analytics.record_run")
}

// WriteEvents implements domain.EventWriterPort
func (s *Service) WriteEvents(ctx context.Context, xs []dom.PredictionEvent) error {
	return perr.WithOp(s.Storage.InsertEvents(ctx, xs), "analytics.write_events")
}

// RecentRuns implements domain.QueryPort
func (s *Service) RecentRuns(ctx context.Context, limit int) ([]dom.TrainingRun, error) {
	return s.Storage.RecentRuns(ctx, s.clamp(limit))
}

// TopLabels implements domain.QueryPort
func (s *Service) TopLabels(ctx context.Context, since time.Time, limit int) ([]dom.LabelCount, error) {
	return s.Storage.TopLabels(ctx, since, s.clamp(limit))
}

func (s *Service) clamp(limit int) int {
	if limit <= 0 || limit > s.Cfg.HardLimit {
		return s.Cfg.HardLimit
	}
	return limit
}
