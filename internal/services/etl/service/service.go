// Package service runs the extract, clean and save steps of the ETL
package service

import (
	"context"
	"fmt"
	"io"

	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	"disasterresponse/internal/platform/net/http/bind"
	dom "disasterresponse/internal/services/etl/domain"
	msgdom "disasterresponse/internal/services/messages/domain"
)

// Config tunes the runner
type Config struct {
	StrictFlags bool
	// Target names the database in progress output
	Target string
}

// Service implements domain.RunnerPort
type Service struct {
	writer msgdom.WriterPort
	cfg    Config
	out    io.Writer
}

// New constructs the runner; out receives the operator progress lines and may be nil
func New(w msgdom.WriterPort, cfg Config, out io.Writer) *Service {
	if out == nil {
		out = io.Discard
	}
	return &Service{writer: w, cfg: cfg, out: out}
}

// Run loads both CSVs, cleans the merged frame and replaces the message table
func (s *Service) Run(ctx context.Context, in dom.Input) (dom.Stats, error) {
	if err := bind.Struct(in); err != nil {
		return dom.Stats{}, err
	}
	log := logger.C(ctx)

	fmt.Fprintf(s.out, "Loading data...\n    MESSAGES: %s\n    CATEGORIES: %s\n", in.MessagesPath, in.CategoriesPath)
	f, err := Load(in.MessagesPath, in.CategoriesPath)
	if err != nil {
		return dom.Stats{}, perr.WithOp(err, "etl.load")
	}
	merged := len(f.Rows)
	if err := ctx.Err(); err != nil {
		return dom.Stats{}, perr.Wrap(err, perr.ErrorCodeCanceled, "etl canceled")
	}

	fmt.Fprintln(s.out, "Cleaning data...")
	f, st, err := Clean(f, CleanOptions{StrictFlags: s.cfg.StrictFlags})
	if err != nil {
		return dom.Stats{}, perr.WithOp(err, "etl.clean")
	}
	st.Merged = merged
	log.Info().
		Int("merged", st.Merged).
		Int("kept", len(f.Rows)).
		Int("duplicates", st.Duplicates).
		Int("duplicate_ids", st.DuplicateIDs).
		Int("clamped_flags", st.ClampedFlags).
		Int("categories", len(f.Categories)).
		Msg("frame cleaned")

	fmt.Fprintf(s.out, "Saving data...\n    DATABASE: %s\n", s.cfg.Target)
	n, err := s.writer.Replace(ctx, f.Messages())
	if err != nil {
		return st, perr.WithOp(err, "etl.save")
	}
	st.Written = n
	fmt.Fprintln(s.out, "Cleaned data saved to database!")
	return st, nil
}
