// Package appctx holds the table and model the dashboard loads once at startup.
// A Context is immutable after New and safe to share across requests
package appctx

import (
	"context"
	"slices"
	"time"

	"disasterresponse/internal/core/pipeline"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	msgdom "disasterresponse/internal/services/messages/domain"
	"disasterresponse/internal/services/web/domain"
)

// Context is the process-wide read-only state
type Context struct {
	table     msgdom.Messages
	model     *pipeline.Pipeline
	charts    domain.Charts
	loadedAt  time.Time
	modelPath string
}

// New checks that the model predicts one flag per table category and
// precomputes the charts
func New(table msgdom.Messages, model *pipeline.Pipeline) (*Context, error) {
	if model == nil {
		return nil, perr.Modelf("appctx: no model")
	}
	if got, want := len(model.Categories), len(table.Categories); got != want {
		return nil, perr.WithField(perr.Modelf("appctx: model predicts %d categories but %s has %d", got, msgdom.Table, want), "categories")
	}
	if !slices.Equal(model.Categories, table.Categories) {
		logger.Named("appctx").Warn().
			Strs("model", model.Categories).
			Strs("table", table.Categories).
			Msg("model category names differ from the table; labels follow the table")
	}
	return &Context{
		table:    table,
		model:    model,
		charts:   domain.BuildCharts(table),
		loadedAt: time.Now().UTC(),
	}, nil
}

// Load reads the table through reader and the artifact at modelPath, then calls New
func Load(ctx context.Context, reader msgdom.ReaderPort, modelPath string) (*Context, error) {
	table, err := reader.Load(ctx)
	if err != nil {
		return nil, perr.WithOp(err, "appctx.load_table")
	}
	model, err := pipeline.Load(modelPath)
	if err != nil {
		return nil, perr.WithOp(err, "appctx.load_model")
	}
	c, err := New(table, model)
	if err != nil {
		return nil, err
	}
	c.modelPath = modelPath
	logger.Named("appctx").Info().
		Int("rows", len(table.Rows)).
		Int("categories", len(table.Categories)).
		Str("model", modelPath).
		Msg("application context loaded")
	return c, nil
}

// Model returns the fitted pipeline
func (c *Context) Model() *pipeline.Pipeline { return c.model }

// Categories returns the table's category names in column order
func (c *Context) Categories() []string { return slices.Clone(c.table.Categories) }

// Rows is the number of loaded messages
func (c *Context) Rows() int { return len(c.table.Rows) }

// Charts returns the precomputed index figures
func (c *Context) Charts() domain.Charts { return c.charts }

// LoadedAt is when the context was built
func (c *Context) LoadedAt() time.Time { return c.loadedAt }

// ModelPath is the artifact the model came from, empty when built in memory
func (c *Context) ModelPath() string { return c.modelPath }
