package store

import (
	"strconv"
	"strings"
)

// Dialect names the SQL flavour of the relational seam
type Dialect string

// Supported dialects
const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// Placeholder returns the i-th (1-based) bind marker
func (d Dialect) Placeholder(i int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(i)
	}
	return "?"
}

// Tuple renders "(p, p, ...)" for n values whose first marker is number start
func (d Dialect) Tuple(start, n int) string {
	var b strings.Builder
	b.Grow(n * 4)
	b.WriteByte('(')
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(d.Placeholder(start + i))
	}
	b.WriteByte(')')
	return b.String()
}

// Quote double-quotes an identifier; both backends accept ANSI quoting
func (d Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// IntType is the column type used for 64-bit integers
func (d Dialect) IntType() string {
	if d == Postgres {
		return "BIGINT"
	}
	return "INTEGER"
}

// TextType is the column type used for free text
func (d Dialect) TextType() string { return "TEXT" }

// MaxParams is the bind-parameter ceiling per statement
func (d Dialect) MaxParams() int {
	if d == Postgres {
		return 65535
	}
	return 32766
}
