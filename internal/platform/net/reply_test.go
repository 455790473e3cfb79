package net_test

import (
	"net/http"
	"testing"

	perr "disasterresponse/internal/platform/errors"
	pnet "disasterresponse/internal/platform/net"
)

func TestOK(t *testing.T) {
	status, w := pnet.OK(map[string]any{"x": 1}, "req-1")

	if status != http.StatusOK {
		t.Fatalf("status %d want %d", status, http.StatusOK)
	}
	if w.StatusCode != http.StatusOK || w.Status != http.StatusText(http.StatusOK) {
		t.Fatalf("wire status mismatch: %+v", w)
	}
	if w.RequestID != "req-1" {
		t.Fatalf("req id %q", w.RequestID)
	}
	if got, ok := w.Data.(map[string]any)["x"]; !ok || got != 1 {
		t.Fatalf("data mismatch: %+v", w.Data)
	}
}

func TestReply_CustomStatus(t *testing.T) {
	w := pnet.Reply(http.StatusAccepted, nil, "")
	if w.StatusCode != http.StatusAccepted || w.Status != "Accepted" || w.Data != nil {
		t.Fatalf("wire mismatch: %+v", w)
	}
}

func TestError_NilFallsBackToOK(t *testing.T) {
	status, w := pnet.Error(nil, "req-4")

	if status != http.StatusOK || w.StatusCode != http.StatusOK {
		t.Fatalf("status %d wire %+v", status, w)
	}
	if w.Error != "" || w.Code != 0 {
		t.Fatalf("expected no error/code, got error=%q code=%d", w.Error, w.Code)
	}
}

func TestError_ProjectErrorMapped(t *testing.T) {
	err := perr.WithField(perr.Validationf("query exceeds 5000 characters"), "query")

	status, w := pnet.Error(err, "req-5")

	if status != http.StatusBadRequest || w.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d wire %+v", status, w)
	}
	if w.Code != perr.ErrorCodeValidation || w.Field != "query" {
		t.Fatalf("code/field mismatch: %+v", w)
	}
	if w.Error != "query exceeds 5000 characters" || w.Data != nil {
		t.Fatalf("error body mismatch: %+v", w)
	}
}
