// Package domain holds the in-flight frame the ETL builds before it becomes the message table
package domain

import (
	"slices"

	msgdom "disasterresponse/internal/services/messages/domain"
)

// Row is one merged messages and categories record
type Row struct {
	ID       int64
	Message  string
	Original *string
	Genre    string
	// Raw is the combined "name-digit;name-digit" field, empty once expanded
	Raw   string
	Flags []int
}

// Frame is the merged table; Categories is nil until the raw field is expanded
type Frame struct {
	Categories []string
	Rows       []Row
}

// Expanded reports whether the category field has been split into flags
func (f Frame) Expanded() bool { return f.Categories != nil }

// Messages converts an expanded frame into the stored table shape
func (f Frame) Messages() msgdom.Messages {
	out := msgdom.Messages{Categories: slices.Clone(f.Categories), Rows: make([]msgdom.Message, len(f.Rows))}
	for i, r := range f.Rows {
		out.Rows[i] = msgdom.Message{
			ID:       r.ID,
			Message:  r.Message,
			Original: r.Original,
			Genre:    r.Genre,
			Flags:    slices.Clone(r.Flags),
		}
	}
	return out
}

// Stats counts what cleaning changed
type Stats struct {
	Merged       int   `json:"merged"`
	Duplicates   int   `json:"duplicates"`
	DuplicateIDs int   `json:"duplicate_ids"`
	ClampedFlags int   `json:"clamped_flags"`
	Written      int64 `json:"written"`
}

// Input names the two CSV sources
type Input struct {
	MessagesPath   string `validate:"required"`
	CategoriesPath string `validate:"required"`
}
