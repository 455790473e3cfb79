package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"disasterresponse/internal/modkit/repokit"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/store"
	dom "disasterresponse/internal/services/messages/domain"
)

func openMemory(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{SQLite: store.SQLiteConfig{Enabled: true, Path: ":memory:"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	return New(st.DB, st.Dialect, DefaultOptions())
}

func strp(s string) *string { return &s }

func table() dom.Messages {
	return dom.Messages{
		Categories: []string{"related", "water", "weather_related"},
		Rows: []dom.Message{
			{ID: 2, Message: "Please send water", Original: strp("Tanpri voye dlo"), Genre: "direct", Flags: []int{1, 1, 1}},
			{ID: 7, Message: "Nice weather today", Genre: "social", Flags: []int{0, 0, 0}},
		},
	}
}

func TestReplaceAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openMemory(t)
	n, err := s.Replace(ctx, table())
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n != 2 {
		t.Fatalf("rows written = %d", n)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, table()) {
		t.Fatalf("load = %+v", got)
	}
	if got.Rows[1].Original != nil {
		t.Fatalf("NULL original should load as nil")
	}
}

func TestReplace_DropsPreviousTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openMemory(t)
	if _, err := s.Replace(ctx, table()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	next := dom.Messages{Categories: []string{"fire"}}
	for i := range 1200 {
		next.Rows = append(next.Rows, dom.Message{ID: int64(i), Message: fmt.Sprintf("message %d", i), Genre: "news", Flags: []int{i % 2}})
	}
	if n, err := s.Replace(ctx, next); err != nil || n != 1200 {
		t.Fatalf("replace: n=%d err=%v", n, err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got.Categories, []string{"fire"}) || len(got.Rows) != 1200 {
		t.Fatalf("categories=%v rows=%d", got.Categories, len(got.Rows))
	}
	if got.Rows[1199].Flags[0] != 1 {
		t.Fatalf("last row flags = %v", got.Rows[1199].Flags)
	}
}

func TestReplace_FailureKeepsOldTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openMemory(t)
	if _, err := s.Replace(ctx, table()); err != nil {
		t.Fatalf("replace: %v", err)
	}
	dup := table()
	dup.Rows[1].ID = dup.Rows[0].ID
	_, err := s.Replace(ctx, dup)
	if perr.CodeOf(err) != perr.ErrorCodeDuplicateKey {
		t.Fatalf("want duplicate key, got %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil || len(got.Rows) != 2 {
		t.Fatalf("old table should survive a failed replace: %v %v", got, err)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := openMemory(t)
	if _, err := s.Load(ctx); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("missing table: want not found, got %v", err)
	}
	bad := table()
	bad.Rows[0].Flags = []int{1}
	if _, err := s.Replace(ctx, bad); perr.CodeOf(err) != perr.ErrorCodeValidation {
		t.Fatalf("want validation, got %v", err)
	}
	empty := dom.Messages{Categories: []string{"water"}}
	if _, err := s.Replace(ctx, empty); err != nil {
		t.Fatalf("replace empty: %v", err)
	}
	if _, err := s.Load(ctx); perr.CodeOf(err) != perr.ErrorCodeNotFound {
		t.Fatalf("empty table: want not found, got %v", err)
	}

	none := New(nil, store.SQLite, DefaultOptions())
	if _, err := none.Load(ctx); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("want unavailable, got %v", err)
	}
	if _, err := none.Replace(ctx, table()); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("want unavailable, got %v", err)
	}
}

// flakyDB fails the first fails transactions with a Postgres deadlock
type flakyDB struct {
	repokit.TxRunner
	fails int
	calls int
}

func (f *flakyDB) Tx(ctx context.Context, fn func(repokit.Queryer) error) error {
	f.calls++
	if f.calls <= f.fails {
		return &pgconn.PgError{Code: "40P01", Message: "deadlock detected"}
	}
	return f.TxRunner.Tx(ctx, fn)
}

func openFlaky(t *testing.T, fails int, retries uint64) (*Service, *flakyDB) {
	t.Helper()
	st, err := store.Open(context.Background(), store.Config{SQLite: store.SQLiteConfig{Enabled: true, Path: ":memory:"}})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	db := &flakyDB{TxRunner: st.DB, fails: fails}
	return New(db, st.Dialect, Options{Retries: retries, RetryWait: time.Millisecond}), db
}

func TestReplace_RetriesContention(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name      string
		fails     int
		retries   uint64
		wantCalls int
		wantErr   bool
	}{
		{"clean", 0, 3, 1, false},
		{"recovers", 2, 3, 3, false},
		{"exhausted", 5, 2, 3, true},
		{"no retries", 1, 0, 1, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			s, db := openFlaky(t, tc.fails, tc.retries)
			n, err := s.Replace(context.Background(), table())
			if db.calls != tc.wantCalls {
				t.Fatalf("tx calls = %d, want %d", db.calls, tc.wantCalls)
			}
			if tc.wantErr {
				if !perr.Retryable(err) {
					t.Fatalf("want the contention error, got %v", err)
				}
				return
			}
			if err != nil || n != 2 {
				t.Fatalf("replace: n=%d err=%v", n, err)
			}
		})
	}
}

func TestReplace_PermanentErrorsAreNotRetried(t *testing.T) {
	t.Parallel()

	s, db := openFlaky(t, 0, 3)
	dup := table()
	dup.Rows[1].ID = dup.Rows[0].ID
	if _, err := s.Replace(context.Background(), dup); perr.CodeOf(err) != perr.ErrorCodeDuplicateKey {
		t.Fatalf("want duplicate key, got %v", err)
	}
	if db.calls != 1 {
		t.Fatalf("duplicate key retried %d times", db.calls-1)
	}
}

func TestReplace_CanceledContextStopsRetrying(t *testing.T) {
	t.Parallel()

	s, db := openFlaky(t, 10, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Replace(ctx, table()); err == nil {
		t.Fatal("expected an error")
	}
	if db.calls > 1 {
		t.Fatalf("canceled replace kept retrying: %d calls", db.calls)
	}
}

// scriptedDB records statements; anything but SET LOCAL fails with stop
type scriptedDB struct {
	execs []string
	stop  error
}

func (d *scriptedDB) Exec(_ context.Context, sql string, _ ...any) (repokit.CommandTag, error) {
	d.execs = append(d.execs, sql)
	if strings.HasPrefix(sql, "SET LOCAL") {
		return nil, nil
	}
	return nil, d.stop
}
func (d *scriptedDB) Query(context.Context, string, ...any) (repokit.Rows, error) { return nil, d.stop }
func (d *scriptedDB) QueryRow(context.Context, string, ...any) repokit.Row        { return nil }
func (d *scriptedDB) Tx(_ context.Context, fn func(repokit.Queryer) error) error {
	return fn(d)
}

func TestReplace_StatementTimeoutOpensTheTx(t *testing.T) {
	t.Parallel()

	cases := []struct {
		dialect store.Dialect
		first   string
	}{
		{store.Postgres, "SET LOCAL statement_timeout = 5000"},
		{store.SQLite, `DROP TABLE IF EXISTS "Messages"`},
	}
	for _, tc := range cases {
		db := &scriptedDB{stop: errors.New("stop")}
		s := New(db, tc.dialect, Options{StatementTimeout: 5 * time.Second})
		if _, err := s.Replace(context.Background(), table()); !errors.Is(err, db.stop) {
			t.Fatalf("%s: err = %v", tc.dialect, err)
		}
		if len(db.execs) == 0 || db.execs[0] != tc.first {
			t.Fatalf("%s: execs = %v", tc.dialect, db.execs)
		}
	}
}
