// Package http provides the analytics read endpoints
package http

import (
	"net/http"
	"strconv"
	"time"

	"disasterresponse/internal/modkit/httpkit"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/services/analytics/domain"
)

type handlers struct {
	q domain.QueryPort
}

// Register mounts the analytics routes
func Register(r httpkit.Router, q domain.QueryPort) {
	h := &handlers{q: q}
	httpkit.Get(r, "/runs", h.runs)
	httpkit.Get(r, "/labels", h.labels)
}

// RunsResponse lists recent training runs
type RunsResponse struct {
	Runs []domain.TrainingRun `json:"runs"`
}

// LabelsResponse lists the most predicted categories
type LabelsResponse struct {
	Since  string              `json:"since"  example:"2026-10-14T00:00:00Z"`
	Labels []domain.LabelCount `json:"labels"`
}

// @Summary Recent training runs
// @Tags Analytics
// @Produce json
// @Param limit query int false "max rows"
// @Success 200 {object} RunsResponse
// @Router /analytics/runs [get]
func (h *handlers) runs(r *http.Request) (any, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return nil, err
	}
	xs, err := h.q.RecentRuns(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	if xs == nil {
		xs = []domain.TrainingRun{}
	}
	return RunsResponse{Runs: xs}, nil
}

// @Summary Most predicted categories
// @Tags Analytics
// @Produce json
// @Param hours query int false "look-back window in hours, default 24"
// @Param limit query int false "max rows"
// @Success 200 {object} LabelsResponse
// @Router /analytics/labels [get]
func (h *handlers) labels(r *http.Request) (any, error) {
	limit, err := intParam(r, "limit")
	if err != nil {
		return nil, err
	}
	hours, err := intParam(r, "hours")
	if err != nil {
		return nil, err
	}
	if hours <= 0 {
		hours = 24
	}
	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour).Truncate(time.Second)
	xs, err := h.q.TopLabels(r.Context(), since, limit)
	if err != nil {
		return nil, err
	}
	if xs == nil {
		xs = []domain.LabelCount{}
	}
	return LabelsResponse{Since: since.Format(time.RFC3339), Labels: xs}, nil
}

func intParam(r *http.Request, name string) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, perr.WithField(perr.InvalidArgf("%s must be a non-negative integer", name), name)
	}
	return n, nil
}
