// Command train-classifier fits the message classifier on the Messages table,
// prints the evaluation report and saves the model artifact
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
	anmod "disasterresponse/internal/services/analytics/module"
	msgmod "disasterresponse/internal/services/messages/module"
	trdom "disasterresponse/internal/services/train/domain"
	trmod "disasterresponse/internal/services/train/module"
	trsvc "disasterresponse/internal/services/train/service"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const service = "train-classifier"

const usage = "Please provide the filepath of the disaster messages database " +
	"as the first argument and the filepath of the model file to " +
	"save the model to as the second argument. \n\nExample: " +
	"train-classifier ../data/DisasterResponse.db classifier.bin"

func main() {
	version.SetService(service)
	initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand(os.Stdout).ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("train-classifier failed")
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

// flags mirror the Options a YAML --config can also set
type flags struct {
	config            string
	estimator         string
	gridSearch        bool
	report            string
	criterionOverride string
	workers           int
	maxFeatures       int
	minDF             int
	testSize          float64
	seed              int64
	folds             int
}

func newCommand(out io.Writer) *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "train-classifier <db_path> <model_path>",
		Short:         "Train, evaluate and save the disaster message classifier",
		Version:       version.Info().String(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				_, _ = fmt.Fprintln(out, usage)
				return nil
			}
			if err := config.LoadEnvFile(); err != nil {
				return perr.Wrap(err, perr.ErrorCodeIO, "load config file")
			}
			opts, err := resolveOptions(config.New(), cmd.Flags(), f)
			if err != nil {
				return err
			}
			opts.Database, opts.ModelPath = args[0], args[1]
			return run(cmd.Context(), out, opts)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.config, "config", "", "YAML training config (estimator, vectorizer, grid)")
	fs.StringVar(&f.estimator, "estimator", "forest", "estimator kind: forest or tree")
	fs.BoolVar(&f.gridSearch, "grid-search", false, "run the cross-validated parameter search before fitting")
	fs.StringVar(&f.report, "report", "", "write the evaluation report as JSON to this path")
	fs.StringVar(&f.criterionOverride, "criterion-override", "gini", "criterion forced after grid search; empty keeps the searched one")
	fs.IntVar(&f.workers, "workers", 0, "parallel label fits and tokenizer workers (default NumCPU)")
	fs.IntVar(&f.maxFeatures, "max-features", trsvc.DefaultMaxFeatures, "keep the N most frequent terms; 0 keeps the whole vocabulary")
	fs.IntVar(&f.minDF, "min-df", trsvc.DefaultMinDF, "drop terms found in fewer documents")
	fs.Float64Var(&f.testSize, "test-size", 0.2, "held-out fraction for evaluation")
	fs.Int64Var(&f.seed, "seed", 42, "split and estimator seed")
	fs.IntVar(&f.folds, "folds", trsvc.DefaultFolds, "cross-validation folds for grid search")
	return cmd
}

// resolveOptions layers defaults, TRAIN_* config, the --config file, then flags the user set
func resolveOptions(cfg config.Conf, fs *pflag.FlagSet, f flags) (trdom.Options, error) {
	opts := trmod.FromConfig(cfg)
	if f.config != "" {
		if err := trsvc.LoadConfigFile(f.config, &opts); err != nil {
			return opts, err
		}
	}
	if fs.Changed("estimator") {
		opts.Pipeline.Estimator = f.estimator
	}
	if fs.Changed("grid-search") {
		opts.GridSearch = f.gridSearch
	}
	if fs.Changed("report") {
		opts.ReportPath = f.report
	}
	if fs.Changed("criterion-override") {
		opts.CriterionOverride = f.criterionOverride
	}
	if fs.Changed("workers") {
		opts.Pipeline.Workers = f.workers
	}
	if fs.Changed("max-features") {
		opts.Pipeline.Vectorizer.MaxFeatures = f.maxFeatures
	}
	if fs.Changed("min-df") {
		opts.Pipeline.Vectorizer.MinDF = f.minDF
	}
	if fs.Changed("test-size") {
		opts.TestSize = f.testSize
	}
	if fs.Changed("seed") {
		opts.Seed = f.seed
	}
	if fs.Changed("folds") {
		opts.Folds = f.folds
	}
	return opts, nil
}

func run(ctx context.Context, out io.Writer, opts trdom.Options) error {
	cfg := config.New()
	st, err := store.Open(ctx, store.ConfigFromEnv(cfg, opts.Database, service), store.WithLogger(*logger.Get()))
	if err != nil {
		return perr.WithOp(perr.FromDB(err, "open database"), "train-classifier.open")
	}
	defer func() {
		if err := st.Close(context.WithoutCancel(ctx)); err != nil {
			logger.Get().Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.FromStore(cfg, st)
	msgs := msgmod.New(deps)
	analytics := anmod.New(deps)
	if analytics.Enabled() {
		if err := analytics.EnsureSchema(ctx); err != nil {
			logger.Get().Warn().Err(err).Msg("analytics schema unavailable; runs will not be recorded")
		}
	}

	train := trmod.New(deps, out, trmod.WithDepsModules(msgs, analytics))
	runner := mmodule.MustPortsOf[trdom.RunnerPort](train)
	res, err := runner.Run(ctx, opts)
	if err != nil {
		return err
	}
	logger.Get().Debug().Str("run_id", res.RunID).Msg("train-classifier done")
	return nil
}
