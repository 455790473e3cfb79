package ch

import (
	"context"
	"testing"
)

func TestBuildClientInfo(t *testing.T) {
	t.Parallel()

	ci := BuildClientInfo(" disaster-web ", "")
	if len(ci.Products) != 5 {
		t.Fatalf("products = %d, want 5", len(ci.Products))
	}
	if ci.Products[0].Name != "disasterresponse" || ci.Products[0].Version != "unknown" {
		t.Fatalf("tag product = %+v", ci.Products[0])
	}
	if ci.Products[1].Version != "disaster-web" {
		t.Fatalf("role should be trimmed: %+v", ci.Products[1])
	}
	if ci.Products[3].Version == "" {
		t.Fatalf("commit should never be empty")
	}
}

func TestOpenRejectsBadDSN(t *testing.T) {
	t.Parallel()

	if _, err := Open(context.Background(), Config{URL: "://nope"}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestInsertEmptyIsNoop(t *testing.T) {
	t.Parallel()

	var c CH
	if err := c.Insert(context.Background(), "prediction_events", nil); err != nil {
		t.Fatalf("empty insert should be a no-op: %v", err)
	}
}
