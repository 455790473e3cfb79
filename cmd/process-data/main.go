// Command process-data joins the messages and categories CSVs, cleans them
// and replaces the Messages table in the target database
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"disasterresponse/internal/core/version"
	"disasterresponse/internal/modkit"
	mmodule "disasterresponse/internal/modkit/module"
	"disasterresponse/internal/platform/config"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	"disasterresponse/internal/platform/store"
	etldom "disasterresponse/internal/services/etl/domain"
	etlmod "disasterresponse/internal/services/etl/module"
	msgmod "disasterresponse/internal/services/messages/module"

	"github.com/spf13/cobra"
)

const service = "process-data"

const usage = "Please provide the filepaths of the messages and categories " +
	"datasets as the first and second argument respectively, as " +
	"well as the filepath of the database to save the cleaned data " +
	"to as the third argument. \n\nExample: process-data " +
	"disaster_messages.csv disaster_categories.csv " +
	"DisasterResponse.db"

func main() {
	version.SetService(service)
	initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("process-data failed")
		stop()
		os.Exit(1)
	}
}

func initLogger() {
	opt := logger.FromEnv()
	if opt.Service == "" {
		opt.Service = service
	}
	logger.Init(opt)
}

func newCommand(out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "process-data <messages_csv> <categories_csv> <db_path>",
		Short:         "Load, clean and store the disaster messages dataset",
		Version:       version.Info().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 3 {
				_, _ = fmt.Fprintln(out, usage)
				return nil
			}
			return run(cmd.Context(), out, args[0], args[1], args[2])
		},
	}
}

func run(ctx context.Context, out io.Writer, messages, categories, dbPath string) error {
	if err := config.LoadEnvFile(); err != nil {
		return perr.Wrap(err, perr.ErrorCodeIO, "load config file")
	}
	cfg := config.New()

	st, err := store.Open(ctx, store.ConfigFromEnv(cfg, dbPath, service), store.WithLogger(*logger.Get()))
	if err != nil {
		return perr.WithOp(perr.FromDB(err, "open database"), "process-data.open")
	}
	defer func() {
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.FromStore(cfg, st)
	msgs := msgmod.New(deps)
	etl := etlmod.New(deps, dbPath, out, etlmod.WithMessages(msgs))

	runner := mmodule.MustPortsOf[etldom.RunnerPort](etl)
	stats, err := runner.Run(ctx, etldom.Input{MessagesPath: messages, CategoriesPath: categories})
	if err != nil {
		return err
	}
	logger.Get().Debug().Interface("stats", stats).Msg("process-data done")
	return nil
}
