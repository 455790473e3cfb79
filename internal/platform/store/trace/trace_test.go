package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestCompact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"select 1", "select 1"},
		{"  select   1  ", " select 1 "},
		{"SELECT\t*\nFROM\r\t\"Messages\"  WHERE id =  1", "SELECT * FROM \"Messages\" WHERE id = 1"},
		{"", ""},
	}
	for i, c := range cases {
		if got := Compact(c.in); got != c.want {
			t.Fatalf("case %d: Compact(%q) = %q, want %q", i, c.in, got, c.want)
		}
	}
}

func TestIsSlow(t *testing.T) {
	t.Parallel()

	if !IsSlow(5000, 5) || IsSlow(4999, 5) {
		t.Fatalf("threshold boundary wrong")
	}
	if IsSlow(1<<40, -1) {
		t.Fatalf("negative threshold should disable")
	}
}

func TestTracerLevelsAndArgCap(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := Tracer(zerolog.New(&buf).Level(zerolog.ErrorLevel), "sqlite")

	args := make([]any, 40)
	for i := range args {
		args[i] = i
	}
	tr.OnQuery(context.Background(), QueryEvent{SQL: "INSERT\n INTO t", Args: args, ElapsedUS: 1500})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT 1", Slow: true})
	tr.OnQuery(context.Background(), QueryEvent{SQL: "SELECT x", Err: errors.New("no such column")})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d: %s", len(lines), buf.String())
	}

	type line struct {
		Level   string  `json:"level"`
		SQL     string  `json:"sql"`
		Args    []any   `json:"args"`
		NArgs   int     `json:"n_args"`
		Elapsed float64 `json:"elapsed_ms"`
		Backend string  `json:"backend"`
		Error   string  `json:"error"`
	}
	var l0, l1, l2 line
	_ = json.Unmarshal([]byte(lines[0]), &l0)
	_ = json.Unmarshal([]byte(lines[1]), &l1)
	_ = json.Unmarshal([]byte(lines[2]), &l2)

	if l0.Level != "info" || l0.SQL != "INSERT INTO t" || len(l0.Args) != maxArgs || l0.NArgs != 40 || l0.Elapsed != 1.5 {
		t.Fatalf("first line mismatch: %+v", l0)
	}
	if l0.Backend != "sqlite" {
		t.Fatalf("backend tag missing: %+v", l0)
	}
	if l1.Level != "warn" {
		t.Fatalf("slow query should warn: %+v", l1)
	}
	if l2.Level != "error" || l2.Error != "no such column" {
		t.Fatalf("failed query should log error: %+v", l2)
	}
}
