// Package domain defines the trainer's options and results
package domain

import (
	"time"

	"disasterresponse/internal/core/metrics"
	"disasterresponse/internal/core/modelselect"
	"disasterresponse/internal/core/pipeline"
	"disasterresponse/internal/core/tree"
)

// Options drive one training run. The YAML training config decodes onto it
// and CLI flags override what the file sets
type Options struct {
	// Database labels the source in progress output
	Database  string `yaml:"-" validate:"required"`
	ModelPath string `yaml:"-" validate:"required"`

	Pipeline pipeline.Config `yaml:",inline"`

	TestSize float64 `yaml:"test_size" validate:"gt=0,lt=1"`
	Seed     int64   `yaml:"seed"`

	GridSearch bool             `yaml:"grid_search"`
	Grid       modelselect.Grid `yaml:"grid"`
	Folds      int              `yaml:"folds" validate:"min=2"`
	// CriterionOverride replaces the searched criterion after a grid search, empty disables it
	CriterionOverride string `yaml:"criterion_override" validate:"omitempty,oneof=gini entropy"`

	// ReportPath receives the evaluation report as JSON when set
	ReportPath string `yaml:"report"`
}

// Dataset is the message table split into model inputs
type Dataset struct {
	Texts      []string
	Y          [][]int
	Categories []string
}

// Len is the number of rows
func (d Dataset) Len() int { return len(d.Texts) }

// Subset picks rows by index, in index order
func (d Dataset) Subset(idx []int) Dataset {
	out := Dataset{Texts: make([]string, len(idx)), Y: make([][]int, len(idx)), Categories: d.Categories}
	for i, j := range idx {
		out.Texts[i], out.Y[i] = d.Texts[j], d.Y[j]
	}
	return out
}

// Result summarizes a finished run
type Result struct {
	RunID      string              `json:"run_id"`
	Estimator  string              `json:"estimator"`
	Params     tree.Params         `json:"params"`
	Search     *modelselect.Result `json:"search,omitempty"`
	Report     metrics.Report      `json:"report"`
	TrainRows  int                 `json:"train_rows"`
	TestRows   int                 `json:"test_rows"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
}
