package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"disasterresponse/internal/platform/config"
	phttp "disasterresponse/internal/platform/net/http"
	"disasterresponse/internal/services/analytics/domain"
	ahttp "disasterresponse/internal/services/analytics/http"
)

type fakeQuery struct {
	since time.Time
	limit int
}

func (f *fakeQuery) RecentRuns(_ context.Context, limit int) ([]domain.TrainingRun, error) {
	f.limit = limit
	return []domain.TrainingRun{{RunID: "r1", Estimator: "forest"}}, nil
}

func (f *fakeQuery) TopLabels(_ context.Context, since time.Time, limit int) ([]domain.LabelCount, error) {
	f.since, f.limit = since, limit
	return nil, nil
}

func serve(t *testing.T, q domain.QueryPort, path string) *httptest.ResponseRecorder {
	t.Helper()
	srv := phttp.NewServer(config.New())
	ahttp.Register(srv.Router(), q)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRuns(t *testing.T) {
	q := &fakeQuery{}
	rec := serve(t, q, "/runs?limit=7")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data ahttp.RunsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Runs) != 1 || env.Data.Runs[0].RunID != "r1" || q.limit != 7 {
		t.Fatalf("runs = %+v limit %d", env.Data.Runs, q.limit)
	}
}

func TestLabels_DefaultWindowAndEmptyList(t *testing.T) {
	q := &fakeQuery{}
	rec := serve(t, q, "/labels")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if d := time.Since(q.since); d < 23*time.Hour || d > 25*time.Hour {
		t.Fatalf("window = %s", d)
	}
	var env struct {
		Data struct {
			Labels []domain.LabelCount `json:"labels"`
		} `json:"data"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.Data.Labels == nil {
		t.Fatalf("labels should encode as [] not null: %s", rec.Body.String())
	}
}

func TestBadLimit(t *testing.T) {
	rec := serve(t, &fakeQuery{}, "/labels?limit=abc")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", rec.Code)
	}
}
