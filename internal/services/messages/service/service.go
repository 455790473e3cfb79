// Package service implements the message table ports over a relational store
package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"disasterresponse/internal/modkit/repokit"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	"disasterresponse/internal/platform/store"
	dom "disasterresponse/internal/services/messages/domain"
	"disasterresponse/internal/services/messages/repo"
)

// Options tune the replace transaction
type Options struct {
	// StatementTimeout bounds each statement of the replace tx; Postgres only
	StatementTimeout time.Duration
	// Retries is how many extra attempts a contended replace gets
	Retries   uint64
	RetryWait time.Duration
}

// DefaultOptions returns the replace settings used when nothing is configured
func DefaultOptions() Options {
	return Options{StatementTimeout: 2 * time.Minute, Retries: 3, RetryWait: 100 * time.Millisecond}
}

// Service implements domain.WriterPort and domain.ReaderPort
type Service struct {
	DB    repokit.TxRunner
	Repos repokit.Binder[repo.Repo]
	opt   Options
}

// New constructs the service over db. Transactions on db carry opt.StatementTimeout
func New(db repokit.TxRunner, d store.Dialect, opt Options) *Service {
	if db != nil {
		db = repokit.WithBeginHooks(db, repokit.StatementTimeout(d, opt.StatementTimeout))
	}
	if opt.RetryWait <= 0 {
		opt.RetryWait = DefaultOptions().RetryWait
	}
	return &Service{DB: db, Repos: repo.New(d), opt: opt}
}

// Replace drops, recreates and fills the table in one transaction. Lock
// contention (SQLite busy, Postgres deadlock or serialization) reruns the whole tx
func (s *Service) Replace(ctx context.Context, m dom.Messages) (int64, error) {
	if s.DB == nil {
		return 0, perr.Unavailablef("messages: no database configured")
	}
	for i, r := range m.Rows {
		if len(r.Flags) != len(m.Categories) {
			return 0, perr.Validationf("messages: row %d has %d flags for %d categories", i, len(r.Flags), len(m.Categories))
		}
	}
	var n int64
	attempt := func() error {
		err := repokit.WithTx(ctx, s.DB, func(q repokit.Queryer) error {
			r := repokit.MustBind(s.Repos, q)
			if err := r.Drop(ctx); err != nil {
				return err
			}
			if err := r.Create(ctx, m.Categories); err != nil {
				return err
			}
			var err error
			n, err = r.Insert(ctx, m)
			return err
		})
		if err != nil && !perr.Retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		logger.C(ctx).Warn().Err(err).Dur("wait", wait).Msg("messages replace contended, retrying")
	}
	if err := backoff.RetryNotify(attempt, s.retryPolicy(ctx), notify); err != nil {
		return 0, perr.WithOp(err, "messages.replace")
	}
	logger.C(ctx).Debug().Int64("rows", n).Int("categories", len(m.Categories)).Msg("messages table replaced")
	return n, nil
}

func (s *Service) retryPolicy(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.opt.RetryWait
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, s.opt.Retries), ctx)
}

// Load reads the whole table
func (s *Service) Load(ctx context.Context) (dom.Messages, error) {
	if s.DB == nil {
		return dom.Messages{}, perr.Unavailablef("messages: no database configured")
	}
	m, err := repokit.MustBind(s.Repos, s.DB).Load(ctx)
	if err != nil {
		return dom.Messages{}, perr.WithOp(err, "messages.load")
	}
	return m, nil
}
