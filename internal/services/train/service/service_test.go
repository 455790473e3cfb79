package service

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"disasterresponse/internal/core/modelselect"
	"disasterresponse/internal/core/pipeline"
	"disasterresponse/internal/core/tree"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/testkit"
	andom "disasterresponse/internal/services/analytics/domain"
	msgdom "disasterresponse/internal/services/messages/domain"
	dom "disasterresponse/internal/services/train/domain"
)

type fakeReader struct {
	m   msgdom.Messages
	err error
}

func (f fakeReader) Load(context.Context) (msgdom.Messages, error) { return f.m, f.err }

type fakeRuns struct{ got []andom.TrainingRun }

func (f *fakeRuns) RecordRun(_ context.Context, r andom.TrainingRun) error {
	f.got = append(f.got, r)
	return nil
}

func corpus() msgdom.Messages {
	texts := []struct {
		msg   string
		flags []int
	}{
		{"We need clean drinking water", []int{1, 1, 0}},
		{"Water supply is contaminated please help", []int{1, 1, 0}},
		{"Flooding after the heavy storm", []int{1, 0, 1}},
		{"The hurricane destroyed roofs", []int{1, 0, 1}},
		{"Nice concert tonight downtown", []int{0, 0, 0}},
		{"Bottled water needed at the shelter", []int{1, 1, 0}},
		{"Storm winds and rain are getting stronger", []int{1, 0, 1}},
		{"Happy birthday to my friend", []int{0, 0, 0}},
		{"No water for three days in the village", []int{1, 1, 0}},
		{"Floods covered the main road", []int{1, 0, 1}},
		{"Watching football with family", []int{0, 0, 0}},
		{"Drinking water trucks have not arrived", []int{1, 1, 0}},
		{"Heavy rain caused landslides", []int{1, 0, 1}},
		{"Great movie at the cinema", []int{0, 0, 0}},
		{"Families asking for water and food", []int{1, 1, 0}},
	}
	m := msgdom.Messages{Categories: []string{"related", "water", "weather_related"}}
	for i, t := range texts {
		m.Rows = append(m.Rows, msgdom.Message{ID: int64(i + 1), Message: t.msg, Genre: "direct", Flags: t.flags})
	}
	return m
}

func options(t *testing.T) dom.Options {
	o := DefaultOptions()
	o.Database = "disaster.db"
	o.ModelPath = filepath.Join(t.TempDir(), "model.bin")
	o.Pipeline.Estimator = "tree"
	o.Pipeline.Workers = 2
	return o
}

func TestRun_TrainsEvaluatesAndSaves(t *testing.T) {
	var out bytes.Buffer
	runs := &fakeRuns{}
	s := New(fakeReader{m: corpus()}, runs, &out)
	o := options(t)
	o.ReportPath = filepath.Join(t.TempDir(), "report.json")

	res, err := s.Run(context.Background(), o)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.TrainRows != 12 || res.TestRows != 3 || res.Estimator != "tree" || res.RunID == "" {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Report.Labels) != 3 {
		t.Fatalf("report labels = %d", len(res.Report.Labels))
	}
	for _, want := range []string{
		"Loading data...\n    DATABASE: disaster.db",
		"Building model...",
		"Training model...",
		"Evaluating model...",
		"Category: water",
		"Saving model...\n    MODEL: " + o.ModelPath,
		"Trained model saved!",
	} {
		testkit.MustContain(t, out.String(), want)
	}

	p, err := pipeline.Load(o.ModelPath)
	if err != nil {
		t.Fatalf("load artifact: %v", err)
	}
	pred, err := p.Predict(context.Background(), []string{"need water urgently"})
	if err != nil || len(pred) != 1 || len(pred[0]) != 3 {
		t.Fatalf("predict shape %v err %v", pred, err)
	}

	b, err := os.ReadFile(o.ReportPath)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	var decoded dom.Result
	if err := json.Unmarshal(b, &decoded); err != nil || decoded.RunID != res.RunID {
		t.Fatalf("report json %v run %q", err, decoded.RunID)
	}

	if len(runs.got) != 1 || runs.got[0].RunID != res.RunID || runs.got[0].Categories != 3 {
		t.Fatalf("recorded runs = %+v", runs.got)
	}
}

func TestRun_GridSearchWithOverride(t *testing.T) {
	var out bytes.Buffer
	s := New(fakeReader{m: corpus()}, nil, &out)
	o := options(t)
	o.GridSearch = true
	o.Grid = modelselect.Grid{Criterion: []string{tree.Entropy}, MaxDepth: []int{2, 0}}
	o.CriterionOverride = tree.Gini

	res, err := s.Run(context.Background(), o)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Search == nil || len(res.Search.Candidates) != 2 {
		t.Fatalf("search = %+v", res.Search)
	}
	if res.Search.Best.Criterion != tree.Entropy {
		t.Fatalf("searched best = %+v", res.Search.Best)
	}
	if res.Params.Criterion != tree.Gini || res.Params.MaxDepth != res.Search.Best.MaxDepth {
		t.Fatalf("override not applied: %+v", res.Params)
	}
}

func TestApplyCriterionOverride(t *testing.T) {
	t.Parallel()

	best := tree.Params{Criterion: tree.Entropy, MaxDepth: 10}
	cases := []struct{ override, want string }{
		{"", tree.Entropy},
		{tree.Entropy, tree.Entropy},
		{tree.Gini, tree.Gini},
	}
	for _, c := range cases {
		got := ApplyCriterionOverride(context.Background(), best, c.override)
		if got.Criterion != c.want || got.MaxDepth != 10 {
			t.Fatalf("override %q: %+v", c.override, got)
		}
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	s := New(fakeReader{m: corpus()}, nil, nil)

	o := options(t)
	o.ModelPath = ""
	if _, err := s.Run(context.Background(), o); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("missing model path err = %v", err)
	}

	o = options(t)
	o.TestSize = 1.5
	if _, err := s.Run(context.Background(), o); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad test size err = %v", err)
	}

	o = options(t)
	o.CriterionOverride = "mse"
	if _, err := s.Run(context.Background(), o); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("bad override err = %v", err)
	}

	missing := New(fakeReader{err: perr.NotFoundf("Messages has no rows")}, nil, nil)
	_, err := missing.Run(context.Background(), options(t))
	if e, ok := perr.As(err); !ok || e.Code() != perr.ErrorCodeNotFound || e.Op() != "train.load_data" {
		t.Fatalf("load err = %v", err)
	}

	noCats := New(fakeReader{m: msgdom.Messages{Rows: []msgdom.Message{{ID: 1, Message: "x"}}}}, nil, nil)
	if _, err := noCats.Run(context.Background(), options(t)); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("no categories err = %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := testkit.WriteFile(t, "train.yaml", `
estimator: tree
workers: 3
vectorizer:
  max_features: 500
  min_df: 2
params:
  max_depth: 12
  criterion: entropy
test_size: 0.25
grid_search: true
grid:
  max_depth: [5, 10]
folds: 4
criterion_override: ""
report: out.json
`)
	o := DefaultOptions()
	if err := LoadConfigFile(path, &o); err != nil {
		t.Fatalf("load: %v", err)
	}
	if o.Pipeline.Estimator != "tree" || o.Pipeline.Workers != 3 || o.Pipeline.Vectorizer.MaxFeatures != 500 ||
		o.Pipeline.Tree.MaxDepth != 12 || o.Pipeline.Tree.Criterion != tree.Entropy {
		t.Fatalf("pipeline = %+v", o.Pipeline)
	}
	if o.TestSize != 0.25 || !o.GridSearch || len(o.Grid.MaxDepth) != 2 || o.Folds != 4 || o.CriterionOverride != "" || o.ReportPath != "out.json" {
		t.Fatalf("options = %+v", o)
	}
	if o.Seed != 42 {
		t.Fatalf("unset keys should keep defaults, seed = %d", o.Seed)
	}

	bad := testkit.WriteFile(t, "bad.yaml", "estimatr: tree\n")
	if err := LoadConfigFile(bad, &o); !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("unknown key err = %v", err)
	}
	if err := LoadConfigFile(filepath.Join(t.TempDir(), "none.yaml"), &o); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("missing file err = %v", err)
	}
}
