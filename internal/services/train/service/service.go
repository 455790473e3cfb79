// Package service loads the message table, trains the classification pipeline,
// evaluates it on a held-out split and writes the model artifact
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"disasterresponse/internal/core/metrics"
	"disasterresponse/internal/core/modelselect"
	"disasterresponse/internal/core/pipeline"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	"disasterresponse/internal/platform/net/http/bind"
	andom "disasterresponse/internal/services/analytics/domain"
	msgdom "disasterresponse/internal/services/messages/domain"
	dom "disasterresponse/internal/services/train/domain"

	"github.com/google/uuid"
)

// Service implements domain.RunnerPort
type Service struct {
	reader msgdom.ReaderPort
	runs   andom.RunWriterPort
	out    io.Writer
	now    func() time.Time
}

// New constructs the trainer; runs may be nil when no analytics sink is configured
// and out receives the operator progress lines and the report
func New(reader msgdom.ReaderPort, runs andom.RunWriterPort, out io.Writer) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{reader: reader, runs: runs, out: out, now: time.Now}
}

// Run executes load, split, optional search, fit, evaluate and save
func (s *Service) Run(ctx context.Context, opts dom.Options) (dom.Result, error) {
	if err := bind.Struct(opts); err != nil {
		return dom.Result{}, err
	}
	res := dom.Result{RunID: uuid.NewString(), StartedAt: s.now().UTC()}
	ctx = logger.WithRun(ctx, res.RunID)
	log := logger.C(ctx)

	fmt.Fprintf(s.out, "Loading data...\n    DATABASE: %s\n", opts.Database)
	data, err := s.LoadData(ctx)
	if err != nil {
		return res, err
	}
	trainIdx, testIdx, err := modelselect.Split(data.Len(), opts.TestSize, opts.Seed)
	if err != nil {
		return res, err
	}
	train, test := data.Subset(trainIdx), data.Subset(testIdx)
	res.TrainRows, res.TestRows = train.Len(), test.Len()
	log.Info().
		Int("rows", data.Len()).
		Int("train", train.Len()).
		Int("test", test.Len()).
		Int("categories", len(data.Categories)).
		Msg("data loaded")

	fmt.Fprintln(s.out, "Building model...")
	cfg := opts.Pipeline
	if opts.GridSearch {
		search, err := s.GridSearch(ctx, cfg, opts.Grid, opts.Folds, train)
		if err != nil {
			return res, err
		}
		res.Search = &search
		cfg.Tree = ApplyCriterionOverride(ctx, search.Best, opts.CriterionOverride)
	}
	model, err := BuildModel(cfg)
	if err != nil {
		return res, err
	}
	res.Estimator, res.Params = model.Classifier.Kind, model.Classifier.Params

	fmt.Fprintln(s.out, "Training model...")
	started := time.Now()
	if err := model.Fit(ctx, train.Texts, train.Y, train.Categories); err != nil {
		return res, perr.WithOp(err, "train.fit")
	}
	log.Info().Dur("took", time.Since(started)).Str("estimator", res.Estimator).Msg("model fitted")

	fmt.Fprintln(s.out, "Evaluating model...")
	res.Report, err = s.Evaluate(ctx, model, test)
	if err != nil {
		return res, err
	}
	if opts.ReportPath != "" {
		if err := WriteReport(opts.ReportPath, res); err != nil {
			return res, err
		}
	}

	fmt.Fprintf(s.out, "Saving model...\n    MODEL: %s\n", opts.ModelPath)
	if err := SaveModel(model, opts.ModelPath); err != nil {
		return res, err
	}
	fmt.Fprintln(s.out, "Trained model saved!")
	res.FinishedAt = s.now().UTC()

	s.record(ctx, opts, res)
	return res, nil
}

// LoadData reads the message table; texts are the message column and
// Y holds every category column in table order
func (s *Service) LoadData(ctx context.Context) (dom.Dataset, error) {
	m, err := s.reader.Load(ctx)
	if err != nil {
		return dom.Dataset{}, perr.WithOp(err, "train.load_data")
	}
	if len(m.Categories) == 0 {
		return dom.Dataset{}, perr.Validationf("train: %s has no category columns", msgdom.Table)
	}
	return dom.Dataset{Texts: m.Texts(), Y: m.Labels(), Categories: m.Categories}, nil
}

// BuildModel returns an unfitted pipeline for cfg
func BuildModel(cfg pipeline.Config) (*pipeline.Pipeline, error) {
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, perr.WithOp(err, "train.build_model")
	}
	return p, nil
}

// Evaluate predicts the held-out rows, prints the per-category report and logs the summary
func (s *Service) Evaluate(ctx context.Context, model *pipeline.Pipeline, test dom.Dataset) (metrics.Report, error) {
	pred, err := model.Predict(ctx, test.Texts)
	if err != nil {
		return metrics.Report{}, perr.WithOp(err, "train.evaluate")
	}
	rep, err := metrics.Evaluate(test.Categories, test.Y, pred)
	if err != nil {
		return metrics.Report{}, perr.WithOp(err, "train.evaluate")
	}
	if err := rep.WriteText(s.out); err != nil {
		return metrics.Report{}, perr.IOf(err, "write report")
	}
	logger.C(ctx).Info().
		Float64("subset_accuracy", rep.SubsetAccuracy).
		Float64("micro_f1", rep.MicroF1).
		Msg("model evaluated")
	return rep, nil
}

// SaveModel writes the artifact atomically
func SaveModel(model *pipeline.Pipeline, path string) error {
	return perr.WithOp(pipeline.Save(model, path), "train.save_model")
}

// WriteReport stores the run result as indented JSON
func WriteReport(path string, res dom.Result) error {
	b, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeJSON, "encode report")
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return perr.WithField(perr.IOf(err, "write report %s", path), "report")
	}
	return nil
}

// record appends the run to the analytics sink; failures only log
func (s *Service) record(ctx context.Context, opts dom.Options, res dom.Result) {
	if s.runs == nil {
		return
	}
	params, _ := json.Marshal(res.Params)
	run := andom.TrainingRun{
		RunID:          res.RunID,
		StartedAt:      res.StartedAt,
		FinishedAt:     res.FinishedAt,
		Estimator:      res.Estimator,
		Params:         string(params),
		GridSearch:     opts.GridSearch,
		TrainRows:      res.TrainRows,
		TestRows:       res.TestRows,
		Categories:     len(res.Report.Labels),
		SubsetAccuracy: res.Report.SubsetAccuracy,
		MicroF1:        res.Report.MicroF1,
		ModelPath:      opts.ModelPath,
	}
	if opts.GridSearch {
		run.CriterionOverride = opts.CriterionOverride
	}
	if err := s.runs.RecordRun(ctx, run); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("training run not recorded")
	}
}
