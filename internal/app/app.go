package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/strokeguard-backend/internal/advice"
	"github.com/yungbote/strokeguard-backend/internal/artifact"
	"github.com/yungbote/strokeguard-backend/internal/config"
	"github.com/yungbote/strokeguard-backend/internal/dataset"
	httpapi "github.com/yungbote/strokeguard-backend/internal/http"
	httpH "github.com/yungbote/strokeguard-backend/internal/http/handlers"
	"github.com/yungbote/strokeguard-backend/internal/observability"
	"github.com/yungbote/strokeguard-backend/internal/platform/logger"
	"github.com/yungbote/strokeguard-backend/internal/scoring"
)

type App struct {
	Log    *logger.Logger
	Config *config.Config

	store        *artifact.Store
	dataset      *dataset.Store
	server       *httpapi.Server
	otelShutdown func(context.Context) error
}

// New loads configuration, the model bundle and the dataset, and wires the HTTP server.
// A missing or invalid bundle degrades scoring; a dataset failure is fatal.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Environment: cfg.Env,
		Version:     cfg.Telemetry.Version,
	})

	var metrics *observability.Metrics
	if cfg.Telemetry.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	var (
		store *artifact.Store
		ds    *dataset.Store
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		store = artifact.Open(cfg.Artifact.Path)
		return nil
	})
	g.Go(func() error {
		var err error
		ds, err = dataset.Load(gctx, log, dataset.Options{
			Path:          cfg.Dataset.Path,
			OutcomeColumn: cfg.Dataset.OutcomeColumn,
			DSN:           cfg.Dataset.DSN,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	if store.State() == artifact.StateDegraded {
		log.Warn("model bundle unavailable, scoring disabled", "path", cfg.Artifact.Path, "error", store.Err())
	} else {
		b, _ := store.Bundle()
		log.Info("model bundle loaded", "path", cfg.Artifact.Path, "model_type", b.Model().Type(), "columns", len(b.Schema()))
	}
	metrics.SetModelLoaded(store.State() == artifact.StateLoaded)

	eng, err := newEngine(cfg.Generator)
	if err != nil {
		_ = ds.Close()
		log.Sync()
		return nil, err
	}

	scorer := scoring.New(store, cfg.Features.BooleanColumns, log, metrics)
	advisor := advice.New(eng, cfg.Generator, log, metrics)

	srv := httpapi.NewServer(cfg.HTTP, httpapi.RouterConfig{
		Log:             log,
		Metrics:         metrics,
		ServiceName:     cfg.Telemetry.ServiceName,
		CORSOrigins:     cfg.HTTP.CORSOrigins,
		MaxRequestBytes: cfg.HTTP.MaxRequestBytes,
		PredictHandler:  httpH.NewPredictHandler(scorer, log),
		StatsHandler:    httpH.NewStatsHandler(ds),
		AdviceHandler:   httpH.NewAdviceHandler(advisor),
		ModelHandler:    httpH.NewModelHandler(store),
		HealthHandler:   httpH.NewHealthHandler(store),
	})

	return &App{
		Log:          log,
		Config:       cfg,
		store:        store,
		dataset:      ds,
		server:       srv,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.Log.Info("http server listening", "addr", a.Config.HTTP.Addr, "generator", a.Config.Generator.Type)
	return a.server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.dataset != nil {
		if err := a.dataset.Close(); err != nil {
			a.Log.Warn("dataset close failed", "error", err)
		}
	}
	a.Log.Sync()
}
