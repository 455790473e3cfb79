package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	perr "disasterresponse/internal/platform/errors"
)

type fakeTag int64

func (c fakeTag) String() string      { return "OK" }
func (c fakeTag) RowsAffected() int64 { return int64(c) }

type execCall struct {
	sql  string
	args []any
}

type fakeRowQuerier struct {
	execs   []execCall
	execTag func(args []any) CommandTag
	execErr error

	queryRows Rows
	queryErr  error

	qrVal any
	qrErr error
}

func (f *fakeRowQuerier) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	if f.execErr != nil {
		return fakeTag(0), f.execErr
	}
	if f.execTag != nil {
		return f.execTag(args), nil
	}
	return fakeTag(1), nil
}

func (f *fakeRowQuerier) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return f.queryRows, f.queryErr
}

func (f *fakeRowQuerier) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return fakeRow{val: f.qrVal, err: f.qrErr}
}

type fakeRow struct {
	val any
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	reflect.ValueOf(dest[0]).Elem().Set(reflect.ValueOf(r.val))
	return nil
}

type fakeRows struct {
	cols   []string
	data   [][]any
	idx    int
	err    error
	closed bool
}

func newRows(cols []string, data [][]any) *fakeRows {
	return &fakeRows{cols: cols, data: data, idx: -1}
}

func (r *fakeRows) Columns() []string { return r.cols }
func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.data)
}
func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(dest) != len(row) {
		return errors.New("dest len mismatch")
	}
	for i := range dest {
		dv := reflect.ValueOf(dest[i]).Elem()
		if row[i] == nil {
			dv.Set(reflect.Zero(dv.Type()))
			continue
		}
		dv.Set(reflect.ValueOf(row[i]))
	}
	return nil
}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) Close()     { r.closed = true }

func TestForEach(t *testing.T) {
	t.Parallel()

	rows := newRows([]string{"n"}, [][]any{{1}, {2}, {3}})
	var items []int
	err := ForEach(context.Background(), &fakeRowQuerier{queryRows: rows}, func(r Rows) error {
		var x int
		if err := r.Scan(&x); err != nil {
			return err
		}
		items = append(items, x)
		return nil
	}, "q")
	if err != nil || !reflect.DeepEqual(items, []int{1, 2, 3}) || !rows.closed {
		t.Fatalf("ForEach = %v, %v, closed=%v", items, err, rows.closed)
	}

	if err := ForEach(context.Background(), &fakeRowQuerier{queryErr: errors.New("boom")}, func(Rows) error { return nil }, "q"); err == nil {
		t.Fatalf("expected query error")
	}

	stop := errors.New("stop")
	err = ForEach(context.Background(), &fakeRowQuerier{queryRows: newRows([]string{"n"}, [][]any{{1}, {2}})}, func(Rows) error { return stop }, "q")
	if !errors.Is(err, stop) {
		t.Fatalf("callback error should bubble, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ForEach(ctx, &fakeRowQuerier{queryRows: newRows([]string{"n"}, [][]any{{1}})}, func(Rows) error { return nil }, "q")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("ForEach should stop on canceled ctx, got %v", err)
	}
}

func TestInsertManyChunksAndPlaceholders(t *testing.T) {
	t.Parallel()

	f := &fakeRowQuerier{execTag: func(args []any) CommandTag { return fakeTag(len(args) / 2) }}
	rows := make([][]any, 1201)
	for i := range rows {
		rows[i] = []any{i, "m"}
	}
	n, err := InsertMany(context.Background(), f, Postgres, "Messages", []string{"id", "message"}, rows)
	if err != nil {
		t.Fatalf("InsertMany err: %v", err)
	}
	if n != 1201 {
		t.Fatalf("written = %d, want 1201", n)
	}
	if len(f.execs) != 3 {
		t.Fatalf("statements = %d, want 3 (500+500+201)", len(f.execs))
	}
	first := f.execs[0].sql
	if !strings.HasPrefix(first, `INSERT INTO "Messages" ("id", "message") VALUES ($1, $2), ($3, $4)`) {
		t.Fatalf("unexpected sql head: %.80s", first)
	}
	if last := f.execs[2]; len(last.args) != 402 || !strings.HasSuffix(last.sql, "($401, $402)") {
		t.Fatalf("last chunk wrong: args=%d tail=%q", len(last.args), last.sql[len(last.sql)-20:])
	}
}

func TestInsertManyValidation(t *testing.T) {
	t.Parallel()

	f := &fakeRowQuerier{}
	if _, err := InsertMany(context.Background(), f, SQLite, "t", nil, nil); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("no columns should be invalid argument, got %v", err)
	}
	_, err := InsertMany(context.Background(), f, SQLite, "t", []string{"a", "b"}, [][]any{{1}})
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("short row should be validation error, got %v", err)
	}
	if len(f.execs) != 0 {
		t.Fatalf("nothing should have been executed")
	}
}
