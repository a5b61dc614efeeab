// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package watch reloads the catalog when its data file is edited by hand.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/filmshelf/internal/log"
)

// DefaultDebounce coalesces bursts of events from editors and atomic renames.
const DefaultDebounce = 250 * time.Millisecond

// Reloader is the part of the store the watcher drives.
type Reloader interface {
	Path() string
	Reload(ctx context.Context) (bool, error)
}

// Watcher watches the directory holding the data file. The directory, not
// the file, is watched because atomic replacement swaps the inode.
type Watcher struct {
	target   Reloader
	debounce time.Duration
	logger   zerolog.Logger
}

// New returns a Watcher for target. A non-positive debounce selects DefaultDebounce.
func New(target Reloader, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		target:   target,
		debounce: debounce,
		logger:   xglog.WithComponent("watch"),
	}
}

// Run blocks until ctx is cancelled, reloading the target after changes.
func (w *Watcher) Run(ctx context.Context) error {
	path, err := filepath.Abs(w.target.Path())
	if err != nil {
		return fmt.Errorf("resolve data file path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = fw.Close() }()

	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch data dir: %w", err)
	}

	w.logger.Info().
		Str(xglog.FieldEvent, "watch.started").
		Str(xglog.FieldPath, path).
		Msg("watching data file for external changes")

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Str(xglog.FieldEvent, "watch.stopped").Msg("data file watcher stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug().
				Str(xglog.FieldEvent, "watch.file_changed").
				Str(xglog.FieldOp, event.Op.String()).
				Msg("data file changed")
			timer.Reset(w.debounce)

		case <-timer.C:
			w.reload(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().
				Err(err).
				Str(xglog.FieldEvent, "watch.error").
				Msg("data file watcher error")
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	changed, err := w.target.Reload(ctx)
	if err != nil {
		w.logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "watch.reload_failed").
			Msg("automatic catalog reload failed, keeping previous catalog")
		return
	}
	if changed {
		w.logger.Info().
			Str(xglog.FieldEvent, "watch.reloaded").
			Msg("catalog reloaded after external change")
	}
}
