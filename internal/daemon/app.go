// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package daemon

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/ManuGH/filmshelf/internal/log"
	"github.com/rs/zerolog"
)

// Reloader re-reads the catalog from disk.
type Reloader interface {
	Reload(ctx context.Context) (bool, error)
}

// Runner is a background task that runs until ctx is cancelled.
type Runner interface {
	Run(ctx context.Context) error
}

// App owns the long-lived runtime lifecycle (file watcher, reload signal)
// and delegates server management to Manager.
type App struct {
	logger       zerolog.Logger
	manager      Manager
	reloader     Reloader
	watcher      Runner
	reloadSignal os.Signal
}

// AppOption configures an App.
type AppOption func(*App)

// WithReloader reloads the catalog on SIGHUP.
func WithReloader(r Reloader) AppOption {
	return func(a *App) { a.reloader = r }
}

// WithWatcher runs w alongside the servers.
func WithWatcher(w Runner) AppOption {
	return func(a *App) { a.watcher = w }
}

// NewApp creates a new App orchestrator.
func NewApp(logger zerolog.Logger, manager Manager, opts ...AppOption) *App {
	a := &App{
		logger:       logger,
		manager:      manager,
		reloadSignal: syscall.SIGHUP,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts all owned background subsystems and blocks until ctx is cancelled or a fatal error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.manager == nil {
		return ErrMissingManager
	}

	g, ctx := errgroup.WithContext(ctx)

	// The watcher is best-effort: a failure is logged, the servers keep running.
	if a.watcher != nil {
		g.Go(func() error {
			if err := a.watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().
					Err(err).
					Str(log.FieldEvent, "watch.failed").
					Msg("data file watcher stopped")
			}
			return nil
		})
	}

	// SIGHUP trigger for manual reload.
	if a.reloader != nil && a.reloadSignal != nil {
		g.Go(func() error {
			hupChan := make(chan os.Signal, 1)
			signal.Notify(hupChan, a.reloadSignal)
			defer signal.Stop(hupChan)

			for {
				select {
				case <-ctx.Done():
					return nil
				case <-hupChan:
					a.reload(ctx)
				}
			}
		})
	}

	// Main server lifecycle.
	g.Go(func() error {
		err := a.manager.Start(ctx)
		if err != nil {
			_ = a.manager.Shutdown(context.Background())
		}
		return err
	})

	return g.Wait()
}

func (a *App) reload(ctx context.Context) {
	a.logger.Info().
		Str(log.FieldEvent, "store.reload_signal").
		Str("signal", a.reloadSignal.String()).
		Msg("received reload signal, reloading data file")

	changed, err := a.reloader.Reload(ctx)
	if err != nil {
		a.logger.Warn().
			Err(err).
			Str(log.FieldEvent, "store.reload_failed").
			Msg("data file reload failed")
		return
	}
	a.logger.Info().
		Bool("changed", changed).
		Str(log.FieldEvent, "store.reloaded").
		Msg("data file reload finished")
}
