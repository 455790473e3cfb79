// Package repo provides SQL access to the message table for SQLite and Postgres
package repo

import (
	"context"
	"database/sql"
	"strings"

	"disasterresponse/internal/modkit/repokit"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/store"
	dom "disasterresponse/internal/services/messages/domain"
)

// Repo defines the repository contract for the message table
type Repo interface {
	Drop(ctx context.Context) error
	Create(ctx context.Context, categories []string) error
	Insert(ctx context.Context, m dom.Messages) (int64, error)
	Load(ctx context.Context) (dom.Messages, error)
}

type queries struct {
	q repokit.Queryer
	d store.Dialect
}

// New returns a binder whose SQL follows dialect d
func New(d store.Dialect) repokit.Binder[Repo] {
	return repokit.DialectBinder(d, func(q repokit.Queryer, d store.Dialect) Repo {
		return &queries{q: q, d: d}
	})
}

func (r *queries) table() string { return r.d.Quote(dom.Table) }

func (r *queries) Drop(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, "DROP TABLE IF EXISTS "+r.table()); err != nil {
		return perr.FromDBf(err, "drop %s", dom.Table)
	}
	return nil
}

func (r *queries) Create(ctx context.Context, categories []string) error {
	cols := []string{
		r.d.Quote(dom.ColID) + " " + r.d.IntType() + " PRIMARY KEY",
		r.d.Quote(dom.ColMessage) + " " + r.d.TextType() + " NOT NULL",
		r.d.Quote(dom.ColOriginal) + " " + r.d.TextType(),
		r.d.Quote(dom.ColGenre) + " " + r.d.TextType() + " NOT NULL",
	}
	for _, c := range categories {
		cols = append(cols, r.d.Quote(c)+" "+r.d.IntType()+" NOT NULL")
	}
	ddl := "CREATE TABLE " + r.table() + " (\n\t" + strings.Join(cols, ",\n\t") + "\n)"
	if _, err := r.q.Exec(ctx, ddl); err != nil {
		return perr.FromDBf(err, "create %s", dom.Table)
	}
	return nil
}

func (r *queries) Insert(ctx context.Context, m dom.Messages) (int64, error) {
	rows := make([][]any, len(m.Rows))
	for i, msg := range m.Rows {
		row := make([]any, 0, len(dom.BaseColumns)+len(msg.Flags))
		row = append(row, msg.ID, msg.Message, msg.Original, msg.Genre)
		for _, f := range msg.Flags {
			row = append(row, int64(f))
		}
		rows[i] = row
	}
	n, err := store.InsertMany(ctx, r.q, r.d, dom.Table, m.Columns(), rows)
	if err != nil {
		if _, ours := perr.As(err); ours {
			return n, err
		}
		return n, perr.FromDBf(err, "insert into %s", dom.Table)
	}
	return n, nil
}

// Load reads every row; label columns are whatever follows the base columns
func (r *queries) Load(ctx context.Context) (dom.Messages, error) {
	var (
		out    dom.Messages
		idx    map[string]int
		labels []int
	)
	err := store.ForEach(ctx, r.q, func(rows store.Rows) error {
		if idx == nil {
			var err error
			idx, labels, out.Categories, err = layout(rows.Columns())
			if err != nil {
				return err
			}
		}
		cols := rows.Columns()
		var (
			id       int64
			message  string
			original sql.NullString
			genre    sql.NullString
		)
		flags := make([]int64, len(labels))
		dst := make([]any, len(cols))
		var skip any
		for i := range dst {
			dst[i] = &skip
		}
		dst[idx[dom.ColID]] = &id
		dst[idx[dom.ColMessage]] = &message
		if k, ok := idx[dom.ColOriginal]; ok {
			dst[k] = &original
		}
		dst[idx[dom.ColGenre]] = &genre
		for j, k := range labels {
			dst[k] = &flags[j]
		}
		if err := rows.Scan(dst...); err != nil {
			return perr.FromDBf(err, "scan %s", dom.Table)
		}
		msg := dom.Message{ID: id, Message: message, Genre: genre.String, Flags: make([]int, len(flags))}
		if original.Valid {
			s := original.String
			msg.Original = &s
		}
		for j, f := range flags {
			msg.Flags[j] = int(f)
		}
		out.Rows = append(out.Rows, msg)
		return nil
	}, "SELECT * FROM "+r.table()+" ORDER BY "+r.d.Quote(dom.ColID))
	if err != nil {
		if _, ours := perr.As(err); ours {
			return dom.Messages{}, err
		}
		return dom.Messages{}, perr.FromDBf(err, "load %s", dom.Table)
	}
	if idx == nil {
		return dom.Messages{}, perr.NotFoundf("%s has no rows", dom.Table)
	}
	return out, nil
}

// layout locates the base columns and returns label column positions and names
func layout(cols []string) (map[string]int, []int, []string, error) {
	idx := make(map[string]int, len(dom.BaseColumns))
	var labels []int
	var names []string
	for i, c := range cols {
		if dom.IsBase(c) {
			idx[c] = i
			continue
		}
		labels = append(labels, i)
		names = append(names, c)
	}
	for _, need := range []string{dom.ColID, dom.ColMessage, dom.ColGenre} {
		if _, ok := idx[need]; !ok {
			return nil, nil, nil, perr.WithField(perr.Validationf("%s has no %q column", dom.Table, need), need)
		}
	}
	return idx, labels, names, nil
}
