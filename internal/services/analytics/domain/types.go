// Package domain defines the analytics records appended to ClickHouse
package domain

import "time"

// Table names in ClickHouse
const (
	RunsTable   = "training_runs"
	EventsTable = "prediction_events"
)

// TrainingRun summarizes one trainer invocation
type TrainingRun struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	Estimator         string    `json:"estimator"`
	Params            string    `json:"params"`
	GridSearch        bool      `json:"grid_search"`
	CriterionOverride string    `json:"criterion_override,omitempty"`
	TrainRows         int       `json:"train_rows"`
	TestRows          int       `json:"test_rows"`
	Categories        int       `json:"categories"`
	SubsetAccuracy    float64   `json:"subset_accuracy"`
	MicroF1           float64   `json:"micro_f1"`
	ModelPath         string    `json:"model_path"`
}

// PredictionEvent is one classified query
type PredictionEvent struct {
	EventID   string    `json:"event_id"`
	At        time.Time `json:"at"`
	RequestID string    `json:"request_id,omitempty"`
	Query     string    `json:"query"`
	Labels    []string  `json:"labels"`
}

// LabelCount is how often a category was predicted in a window
type LabelCount struct {
	Label string `json:"label"`
	Hits  uint64 `json:"hits"`
}
