package domain

import "context"

// WriterPort replaces the table wholesale
type WriterPort interface {
	Replace(ctx context.Context, m Messages) (int64, error)
}

// ReaderPort loads the whole table
type ReaderPort interface {
	Load(ctx context.Context) (Messages, error)
}
