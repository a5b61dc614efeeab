// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ManuGH/filmshelf/internal/api"
	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/ManuGH/filmshelf/internal/daemon"
	"github.com/ManuGH/filmshelf/internal/health"
	xglog "github.com/ManuGH/filmshelf/internal/log"
	"github.com/ManuGH/filmshelf/internal/store"
	"github.com/ManuGH/filmshelf/internal/telemetry"
	"github.com/ManuGH/filmshelf/internal/views"
	"github.com/ManuGH/filmshelf/internal/watch"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// services holds the wired runtime built from a resolved configuration.
type services struct {
	store    *store.Store
	tracing  *telemetry.Provider
	api      *api.Server
	deps     daemon.Deps
	appOpts  []daemon.AppOption
	healthMg *health.Manager
}

// buildServices loads the catalog and wires the HTTP surface. It does not
// bind any listener.
func buildServices(ctx context.Context, cfg config.AppConfig, logger zerolog.Logger) (*services, error) {
	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.Tracing.Enabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.Tracing.Exporter,
		Endpoint:       cfg.Tracing.Endpoint,
		SamplingRate:   cfg.Tracing.SamplingRate,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	st := store.New(cfg.DataFile,
		store.WithLogger(xglog.Derive(func(c *zerolog.Context) {
			*c = c.Str(xglog.FieldComponent, "store").Str("data_dir", health.DataDir(cfg.DataFile))
		})),
		store.WithTracer(telemetry.Tracer(telemetry.InstrumentationName+"/store")),
	)
	if err := st.Load(ctx); err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	pages, err := newPages(cfg.TemplatesDir)
	if err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("load templates: %w", err)
	}

	hm := health.NewManager(cfg.Version)
	hm.RegisterChecker(health.NewFileChecker("data-file", cfg.DataFile))
	hm.RegisterChecker(health.NewWritableDirChecker("data-dir", health.DataDir(cfg.DataFile)))
	hm.RegisterChecker(health.NewCatalogChecker(st.Len))

	metricsAddr := config.MetricsListenAddr(cfg)
	var metricsHandler http.Handler
	opts := []api.ServerOption{api.WithHealthManager(hm)}
	if cfg.Metrics.Enabled {
		metricsHandler = promhttp.Handler()
		if metricsAddr == "" {
			opts = append(opts, api.WithMetricsHandler(metricsHandler))
		}
	}

	srv, err := api.New(cfg, st, pages, opts...)
	if err != nil {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("build api: %w", err)
	}

	appOpts := []daemon.AppOption{daemon.WithReloader(st)}
	if cfg.Watch {
		appOpts = append(appOpts, daemon.WithWatcher(watch.New(st, watch.DefaultDebounce)))
	}

	return &services{
		store:   st,
		tracing: tp,
		api:     srv,
		deps: daemon.Deps{
			Logger:         logger,
			APIHandler:     srv.Handler(),
			MetricsAddr:    metricsAddr,
			MetricsHandler: metricsHandler,
		},
		appOpts:  appOpts,
		healthMg: hm,
	}, nil
}

// newPages uses the embedded templates unless an override directory is set.
func newPages(dir string) (*views.Renderer, error) {
	if strings.TrimSpace(dir) == "" {
		return views.New()
	}
	return views.NewFromDir(dir)
}

// registerHooks wires the exit hooks. The store only writes if a flush
// failed earlier. Hooks run LIFO, so the tracer is flushed last.
func (s *services) registerHooks(mgr daemon.Manager) {
	mgr.RegisterShutdownHook("tracing", s.tracing.Shutdown)
	mgr.RegisterShutdownHook("store", s.store.Sync)
}
