package net_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	perr "disasterresponse/internal/platform/errors"
	pnet "disasterresponse/internal/platform/net"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil error -> 200", nil, http.StatusOK},
		{"generic error -> 500", errors.New("boom"), http.StatusInternalServerError},
		{"validation -> 400", perr.Validationf("query is required"), http.StatusBadRequest},
		{"not found -> 404", perr.NotFoundf("no such table"), http.StatusNotFound},
		{"model not loaded -> 503", perr.Unavailablef("model not loaded"), http.StatusServiceUnavailable},
		{"canceled -> 408", context.Canceled, http.StatusRequestTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pnet.HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("want %d got %d", tt.want, got)
			}
		})
	}
}
