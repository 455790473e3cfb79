// Package repo stores analytics rows in ClickHouse
package repo

import (
	"context"
	"fmt"
	"time"

	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/store"
	"disasterresponse/internal/services/analytics/domain"
)

// Storage defines the analytics repository
type Storage interface {
	EnsureSchema(ctx context.Context) error
	InsertRuns(ctx context.Context, xs []domain.TrainingRun) error
	InsertEvents(ctx context.Context, xs []domain.PredictionEvent) error
	RecentRuns(ctx context.Context, limit int) ([]domain.TrainingRun, error)
	TopLabels(ctx context.Context, since time.Time, limit int) ([]domain.LabelCount, error)
}

// CH implements Storage over the store.Clickhouse seam
type CH struct {
	c store.Clickhouse
}

// NewCH constructs a ClickHouse repo
func NewCH(c store.Clickhouse) *CH { return &CH{c: c} }

var _ Storage = (*CH)(nil)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS ` + domain.RunsTable + ` (
		run_id String,
		started_at DateTime64(3),
		finished_at DateTime64(3),
		estimator LowCardinality(String),
		params String,
		grid_search Bool,
		criterion_override LowCardinality(String),
		train_rows UInt32,
		test_rows UInt32,
		categories UInt16,
		subset_accuracy Float64,
		micro_f1 Float64,
		model_path String
	) ENGINE = MergeTree ORDER BY (started_at, run_id)`,
	`CREATE TABLE IF NOT EXISTS ` + domain.EventsTable + ` (
		event_id String,
		at DateTime64(3),
		request_id String,
		query String,
		labels Array(LowCardinality(String))
	) ENGINE = MergeTree ORDER BY (at, event_id)`,
}

// EnsureSchema creates both tables when missing
func (s *CH) EnsureSchema(ctx context.Context) error {
	for _, ddl := range schema {
		if err := s.c.Exec(ctx, ddl); err != nil {
			return perr.Wrap(err, perr.ErrorCodeDB, "analytics: create table")
		}
	}
	return nil
}

// InsertRuns implements Storage
func (s *CH) InsertRuns(ctx context.Context, xs []domain.TrainingRun) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, len(xs))
	for i, r := range xs {
		rows[i] = []any{
			r.RunID, r.StartedAt, r.FinishedAt, r.Estimator, r.Params, r.GridSearch,
			r.CriterionOverride, uint32(r.TrainRows), uint32(r.TestRows), uint16(r.Categories),
			r.SubsetAccuracy, r.MicroF1, r.ModelPath,
		}
	}
	if err := s.c.Insert(ctx, domain.RunsTable, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "analytics: insert %d runs", len(xs))
	}
	return nil
}

// InsertEvents implements Storage
func (s *CH) InsertEvents(ctx context.Context, xs []domain.PredictionEvent) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, len(xs))
	for i, e := range xs {
		labels := e.Labels
		if labels == nil {
			labels = []string{}
		}
		rows[i] = []any{e.EventID, e.At, e.RequestID, e.Query, labels}
	}
	if err := s.c.Insert(ctx, domain.EventsTable, rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "analytics: insert %d events", len(xs))
	}
	return nil
}

// RecentRuns implements Storage
func (s *CH) RecentRuns(ctx context.Context, limit int) ([]domain.TrainingRun, error) {
	rows, err := s.c.Query(ctx, fmt.Sprintf(`
		SELECT run_id, started_at, finished_at, estimator, params, grid_search,
			criterion_override, train_rows, test_rows, categories,
			subset_accuracy, micro_f1, model_path
		FROM %s
		ORDER BY started_at DESC, run_id
		LIMIT %d`, domain.RunsTable, limit))
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "analytics: query runs")
	}
	defer rows.Close()

	var out []domain.TrainingRun
	for rows.Next() {
		var (
			r           domain.TrainingRun
			train, test uint32
			categories  uint16
		)
		if err := rows.Scan(
			&r.RunID, &r.StartedAt, &r.FinishedAt, &r.Estimator, &r.Params, &r.GridSearch,
			&r.CriterionOverride, &train, &test, &categories,
			&r.SubsetAccuracy, &r.MicroF1, &r.ModelPath,
		); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "analytics: scan run")
		}
		r.TrainRows, r.TestRows, r.Categories = int(train), int(test), int(categories)
		out = append(out, r)
	}
	return out, perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "analytics: iterate runs")
}

// TopLabels implements Storage
func (s *CH) TopLabels(ctx context.Context, since time.Time, limit int) ([]domain.LabelCount, error) {
	rows, err := s.c.Query(ctx, fmt.Sprintf(`
		SELECT label, count() AS hits
		FROM %s
		ARRAY JOIN labels AS label
		WHERE at >= ?
		GROUP BY label
		ORDER BY hits DESC, label ASC
		LIMIT %d`, domain.EventsTable, limit), since)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "analytics: query labels")
	}
	defer rows.Close()

	var out []domain.LabelCount
	for rows.Next() {
		var lc domain.LabelCount
		if err := rows.Scan(&lc.Label, &lc.Hits); err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeDB, "analytics: scan label")
		}
		out = append(out, lc)
	}
	return out, perr.WrapIf(rows.Err(), perr.ErrorCodeDB, "analytics: iterate labels")
}
