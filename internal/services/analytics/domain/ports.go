package domain

import (
	"context"
	"time"
)

// RunWriterPort records training runs
type RunWriterPort interface {
	RecordRun(ctx context.Context, r TrainingRun) error
}

// EventWriterPort appends prediction events
type EventWriterPort interface {
	WriteEvents(ctx context.Context, xs []PredictionEvent) error
}

// QueryPort reads the recorded analytics back
type QueryPort interface {
	RecentRuns(ctx context.Context, limit int) ([]TrainingRun, error)
	TopLabels(ctx context.Context, since time.Time, limit int) ([]LabelCount, error)
}
