// @title         Disaster Response API
// @version       1.0
// @description   Multi-label classification of disaster messages
// @BasePath      /api/v1

// Command disaster-web serves the dashboard, the query page and the JSON API
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"disasterresponse/internal/core/version"
	"disasterresponse/internal/modkit"
	"disasterresponse/internal/modkit/httpkit"
	mmodule "disasterresponse/internal/modkit/module"
	"disasterresponse/internal/platform/config"
	perr "disasterresponse/internal/platform/errors"
	"disasterresponse/internal/platform/logger"
	phttp "disasterresponse/internal/platform/net/http"
	"disasterresponse/internal/platform/store"
	anmod "disasterresponse/internal/services/analytics/module"
	msgmod "disasterresponse/internal/services/messages/module"
	"disasterresponse/internal/services/web"
	"disasterresponse/internal/services/web/appctx"
	webmod "disasterresponse/internal/services/web/module"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
)

const service = "disaster-web"

func main() {
	version.SetService(service)
	initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().ExecuteContext(ctx); err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("disaster-web failed")
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

func newCommand() *cobra.Command {
	var dbPath, modelPath string
	cmd := &cobra.Command{
		Use:           "disaster-web",
		Short:         "Serve the disaster response dashboard",
		Version:       version.Info().String(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadEnvFile(); err != nil {
				return perr.Wrap(err, perr.ErrorCodeIO, "load config file")
			}
			cfg := config.New()
			o := webmod.FromConfig(cfg)
			if cmd.Flags().Changed("db") {
				o.Database = dbPath
			}
			if cmd.Flags().Changed("model") {
				o.ModelPath = modelPath
			}
			return run(cmd.Context(), cfg, o)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database holding the Messages table (default WEB_DATABASE)")
	cmd.Flags().StringVar(&modelPath, "model", "", "model artifact path (default WEB_MODEL_PATH)")
	return cmd
}

func run(ctx context.Context, cfg config.Conf, o webmod.Options) error {
	log := logger.Get()

	st, err := store.Open(ctx, store.ConfigFromEnv(cfg, o.Database, service), store.WithLogger(*log))
	if err != nil {
		return perr.WithOp(perr.FromDB(err, "open database"), "disaster-web.open")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to close store")
		}
	}()

	deps := modkit.FromStore(cfg, st)
	msgs := msgmod.New(deps)
	app, err := appctx.Load(ctx, mmodule.MustPortsOf[msgmod.Ports](msgs).Reader, o.ModelPath)
	if err != nil {
		return err
	}

	analytics := anmod.New(deps)
	if analytics.Enabled() {
		if err := analytics.EnsureSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("analytics schema unavailable; prediction events may be lost")
		}
	}

	srv := phttp.NewServer(cfg, func(m *chi.Mux) {
		m.Use(httpkit.CommonStack(cfg)...)
	})
	if err := web.Mount(srv.Router(), web.Options{
		Deps:           deps,
		App:            app,
		Analytics:      analytics,
		Service:        service,
		EnableSwagger:  o.EnableSwagger,
		EnableProfiler: o.EnableProfiler,
	}); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if em := mmodule.MustPortsOf[anmod.Ports](analytics).Emitter; em != nil {
		go em.Run(ctx)
		defer func() {
			cancel()
			<-em.Done()
			if n := em.Dropped(); n > 0 {
				log.Warn().Int("dropped", n).Msg("prediction events dropped")
			}
		}()
	}

	grace := cfg.MayDuration("WEB_SHUTDOWN_GRACE", 10*time.Second)
	if err := srv.Run(ctx, grace); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "http server stopped")
	}
	return nil
}
