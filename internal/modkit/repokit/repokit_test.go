package repokit

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/store"
	"disasterresponse/internal/platform/testkit"
)

type fakeQ struct {
	execs []string
}

func (f *fakeQ) Exec(_ context.Context, sql string, _ ...any) (CommandTag, error) {
	f.execs = append(f.execs, sql)
	return nil, nil
}
func (f *fakeQ) Query(context.Context, string, ...any) (Rows, error) { return nil, nil }
func (f *fakeQ) QueryRow(context.Context, string, ...any) Row        { return nil }
func (f *fakeQ) Tx(ctx context.Context, fn func(Queryer) error) error {
	return fn(f)
}

type fakeGuard struct {
	err         error
	hadDeadline bool
}

func (g *fakeGuard) Guard(ctx context.Context) error {
	_, g.hadDeadline = ctx.Deadline()
	return g.err
}

func TestDialectBinder(t *testing.T) {
	t.Parallel()

	b := DialectBinder(store.Postgres, func(q Queryer, d store.Dialect) string { return string(d) })
	if got := MustBind(b, &fakeQ{}); got != "postgres" {
		t.Fatalf("bound %q", got)
	}
	testkit.MustPanic(t, func() { MustBind(b, nil) })
}

func TestGuard(t *testing.T) {
	t.Parallel()

	g := &fakeGuard{}
	if err := Guard(context.Background(), g); err != nil || !g.hadDeadline {
		t.Fatalf("err=%v deadline=%v", err, g.hadDeadline)
	}
	g = &fakeGuard{err: errors.New("dial tcp: refused")}
	if err := Guard(context.Background(), g); perr.CodeOf(err) != perr.ErrorCodeUnavailable {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if err := Guard(context.Background(), nil); err == nil {
		t.Fatalf("nil store should fail")
	}
}

func TestWithBeginHooks_OrderAndShortCircuit(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	var seen []string
	hook := func(name string, err error) BeginHook {
		return func(context.Context, Queryer) error {
			seen = append(seen, name)
			return err
		}
	}

	tx := WithBeginHooks(q, hook("a", nil), hook("b", nil))
	err := WithTx(context.Background(), tx, func(Queryer) error { seen = append(seen, "fn"); return nil })
	if err != nil || len(seen) != 3 || seen[2] != "fn" {
		t.Fatalf("seen=%v err=%v", seen, err)
	}

	seen = nil
	boom := errors.New("boom")
	tx = WithBeginHooks(q, hook("a", boom), hook("b", nil))
	if err := tx.Tx(context.Background(), func(Queryer) error { seen = append(seen, "fn"); return nil }); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("short circuit failed: %v", seen)
	}

	if WithBeginHooks(q) != TxRunner(q) {
		t.Fatalf("no hooks should return inner")
	}
}

func TestStatementTimeout(t *testing.T) {
	t.Parallel()

	q := &fakeQ{}
	ctx := context.Background()
	_ = StatementTimeout(store.SQLite, time.Second)(ctx, q)
	_ = StatementTimeout(store.Postgres, 0)(ctx, q)
	if len(q.execs) != 0 {
		t.Fatalf("unexpected execs %v", q.execs)
	}
	_ = StatementTimeout(store.Postgres, 90*time.Second)(ctx, q)
	if len(q.execs) != 1 || q.execs[0] != "SET LOCAL statement_timeout = 90000" {
		t.Fatalf("execs %v", q.execs)
	}
}
