package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/jeopardy/internal/config"
	"github.com/robalobadob/jeopardy/internal/controller"
	"github.com/robalobadob/jeopardy/internal/history"
	"github.com/robalobadob/jeopardy/internal/httpserver"
	"github.com/robalobadob/jeopardy/internal/metrics"
	"github.com/robalobadob/jeopardy/internal/telemetry"
	"github.com/robalobadob/jeopardy/internal/trivia"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Options{
		Service:     "jeopardy-board",
		Version:     version,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up tracing")
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("flush traces")
		}
	}()

	m := metrics.New("jeopardy", prometheus.DefaultRegisterer)

	provider, err := newProvider(cfg, m)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load trivia fixture")
	}

	opts := controller.Options{
		Selector: trivia.NewSelector(provider, cfg.PoolSize, nil),
		Loader:   trivia.NewLoader(provider, cfg.FetchConcurrency),
		Metrics:  m,
	}
	srvOpts := httpserver.Options{
		Gatherer:     prometheus.DefaultGatherer,
		ClientOrigin: cfg.ClientOrigin,
		CycleTimeout: cfg.CycleTimeout,
	}

	if cfg.HistoryDB != "" {
		hist, err := history.Open(cfg.HistoryDB)
		if err != nil {
			log.Fatal().Err(err).Str("dsn", cfg.HistoryDB).Msg("failed to open history db")
		}
		defer hist.Close()
		opts.Recorder = hist
		srvOpts.History = hist
	}

	ctrl := controller.New(opts)
	srvOpts.Controller = ctrl

	// The first deal is best effort; the page offers Restart if it failed.
	startCtx, cancel := context.WithTimeout(ctx, cfg.CycleTimeout)
	if err := ctrl.Start(startCtx); err != nil {
		log.Warn().Err(err).Msg("initial deal failed; serving an empty board")
	}
	cancel()

	srv, err := httpserver.New(srvOpts)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build server")
	}
	log.Info().Str("port", cfg.Port).Msg("starting jeopardy board")
	if err := srv.Start(ctx, cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg config.Config) {
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newProvider returns the fixture when one is configured, else the HTTP API client.
func newProvider(cfg config.Config, m *metrics.Metrics) (trivia.Provider, error) {
	switch cfg.FixtureFile {
	case "":
		return trivia.NewClient(cfg.TriviaAPIURL,
			trivia.WithTimeout(cfg.FetchTimeout),
			trivia.WithMetrics(m),
		), nil
	default:
		f, err := trivia.LoadFixture(cfg.FixtureFile)
		if err != nil {
			return nil, err
		}
		log.Info().Str("file", cfg.FixtureFile).Int("categories", f.Len()).Msg("serving trivia fixture")
		return f, nil
	}
}
