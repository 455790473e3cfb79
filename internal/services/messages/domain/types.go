// Package domain holds the message table shared by the ETL, the trainer and the web app
package domain

import "slices"

// Table is the relational table every binary reads or writes
const Table = "Messages"

// Leading columns, always in this order before the category flags
const (
	ColID       = "id"
	ColMessage  = "message"
	ColOriginal = "original"
	ColGenre    = "genre"
)

// BaseColumns are the non label columns
var BaseColumns = []string{ColID, ColMessage, ColOriginal, ColGenre}

// IsBase reports whether col is one of BaseColumns
func IsBase(col string) bool { return slices.Contains(BaseColumns, col) }

// Message is one row; Flags[i] belongs to the table's Categories[i]
type Message struct {
	ID       int64
	Message  string
	Original *string
	Genre    string
	Flags    []int
}

// Messages is a whole table in memory
type Messages struct {
	Categories []string
	Rows       []Message
}

// Columns lists every column in table order
func (m Messages) Columns() []string {
	return append(slices.Clone(BaseColumns), m.Categories...)
}

// Texts returns the message column
func (m Messages) Texts() []string {
	out := make([]string, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Message
	}
	return out
}

// Labels returns the flags as rows by categories
func (m Messages) Labels() [][]int {
	out := make([][]int, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Flags
	}
	return out
}

// Category returns the column index of name, or -1
func (m Messages) Category(name string) int { return slices.Index(m.Categories, name) }
