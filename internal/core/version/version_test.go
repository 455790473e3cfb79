package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	SetService("train-classifier")
	t.Cleanup(func() { SetService("disasterresponse") })

	bi := Info()
	if bi.Service != "train-classifier" || bi.Version != "dev" {
		t.Fatalf("info = %+v", bi)
	}
	if bi.Commit == "" || bi.Date == "" {
		t.Fatalf("commit and date must fall back to placeholders: %+v", bi)
	}
	if s := bi.String(); !strings.HasPrefix(s, "train-classifier dev (commit ") {
		t.Fatalf("string = %q", s)
	}
}
