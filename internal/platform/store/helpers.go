package store

import (
	"context"
	"strings"

	perr "disasterresponse/internal/platform/errors"
)

// ForEach streams rows to fn; fn sees the live Rows so it can read Columns
func ForEach(ctx context.Context, q RowQuerier, fn func(Rows) error, sql string, args ...any) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

// InsertMany writes rows into table with multi-row INSERTs sized to the dialect's
// bind-parameter ceiling. Every row must have len(cols) values. Returns rows written
func InsertMany(ctx context.Context, q RowQuerier, d Dialect, table string, cols []string, rows [][]any) (int64, error) {
	if len(cols) == 0 {
		return 0, perr.InvalidArgf("insert into %s: no columns", table)
	}
	perStmt := d.MaxParams() / len(cols)
	if perStmt < 1 {
		return 0, perr.InvalidArgf("insert into %s: %d columns exceed parameter limit", table, len(cols))
	}
	perStmt = min(perStmt, 500)

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.Quote(c)
	}
	head := "INSERT INTO " + d.Quote(table) + " (" + strings.Join(quoted, ", ") + ") VALUES "

	var written int64
	for lo := 0; lo < len(rows); lo += perStmt {
		hi := min(lo+perStmt, len(rows))
		chunk := rows[lo:hi]

		var b strings.Builder
		b.WriteString(head)
		args := make([]any, 0, len(chunk)*len(cols))
		for i, r := range chunk {
			if len(r) != len(cols) {
				return written, perr.Validationf("insert into %s: row %d has %d values, want %d", table, lo+i, len(r), len(cols))
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Tuple(len(args)+1, len(cols)))
			args = append(args, r...)
		}
		tag, err := q.Exec(ctx, b.String(), args...)
		if err != nil {
			return written, err
		}
		written += tag.RowsAffected()
	}
	return written, nil
}
