// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package store holds the video catalog in memory and mirrors it to a single
// JSON file after every mutation.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ManuGH/filmshelf/internal/film"
	xglog "github.com/ManuGH/filmshelf/internal/log"
	"github.com/ManuGH/filmshelf/internal/metrics"
	"github.com/ManuGH/filmshelf/internal/telemetry"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrCorrupt is returned when the data file exists but does not hold a valid
// list of video records.
var ErrCorrupt = errors.New("data file is corrupt")

// Mutation names used in logs, metrics and spans.
const (
	opAppend = "append"
	opUpdate = "update"
	opRemove = "remove"
	opFlush  = "flush"
	opLoad   = "load"
	opReload = "reload"
)

// Store owns the ordered video sequence and its backing file. All methods are
// safe for concurrent use; a mutation and the flush that follows it run under
// one exclusive lock.
type Store struct {
	path string

	mu     sync.RWMutex
	videos []film.Video
	// last holds the file bytes most recently written or read, so that
	// Reload can ignore change notifications caused by our own flushes.
	last []byte
	// dirty is set while memory holds a mutation whose flush failed.
	dirty bool

	logger zerolog.Logger
	tracer trace.Tracer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithTracer overrides the tracer used for store spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Store) { s.tracer = t }
}

// New returns an empty Store backed by path. Call Load before serving.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:   path,
		videos: []film.Video{},
		logger: xglog.WithComponent("store"),
		tracer: telemetry.Tracer(telemetry.InstrumentationName + "/store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Len returns the number of records held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.videos)
}

// Load reads the backing file into memory. A missing file is created holding
// an empty list. A file that cannot be parsed yields an error wrapping
// ErrCorrupt and leaves the Store unchanged.
func (s *Store) Load(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, opLoad)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if dir := filepath.Dir(s.path); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				metrics.IncStoreLoad("startup", metrics.OutcomeFailure)
				return fmt.Errorf("create data dir: %w", err)
			}
		}
		s.videos = []film.Video{}
		if err := s.flushLocked(ctx); err != nil {
			metrics.IncStoreLoad("startup", metrics.OutcomeFailure)
			return fmt.Errorf("initialise data file: %w", err)
		}
		s.logger.Info().
			Str(xglog.FieldEvent, "store.initialised").
			Str(xglog.FieldPath, s.path).
			Msg("data file not found, created empty catalog")
		metrics.IncStoreLoad("startup", metrics.OutcomeSuccess)
		return nil
	}
	if err != nil {
		metrics.IncStoreLoad("startup", metrics.OutcomeFailure)
		return fmt.Errorf("read data file: %w", err)
	}

	videos, err := film.DecodeList(data)
	if err != nil {
		metrics.IncStoreLoad("startup", metrics.OutcomeFailure)
		return fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}

	s.videos = videos
	s.last = data
	metrics.RecordStoreRecords(len(videos))
	metrics.IncStoreLoad("startup", metrics.OutcomeSuccess)
	s.logger.Info().
		Str(xglog.FieldEvent, "store.loaded").
		Str(xglog.FieldPath, s.path).
		Int(xglog.FieldRecords, len(videos)).
		Msg("catalog loaded")
	return nil
}

// Reload re-reads the backing file after an external change. It reports
// whether the in-memory sequence was replaced. Content identical to what the
// Store last wrote or read is ignored, as is a file that has disappeared.
func (s *Store) Reload(ctx context.Context) (changed bool, err error) {
	ctx, span := s.startSpan(ctx, opReload)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	logger := xglog.WithContext(ctx, s.logger)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Warn().
			Str(xglog.FieldEvent, "store.reload_skipped").
			Str(xglog.FieldPath, s.path).
			Msg("data file missing, keeping in-memory catalog")
		return false, nil
	}
	if err != nil {
		metrics.IncStoreLoad(opReload, metrics.OutcomeFailure)
		return false, fmt.Errorf("read data file: %w", err)
	}
	if bytes.Equal(data, s.last) {
		return false, nil
	}

	videos, err := film.DecodeList(data)
	if err != nil {
		metrics.IncStoreLoad(opReload, metrics.OutcomeFailure)
		return false, fmt.Errorf("%w: %s: %w", ErrCorrupt, s.path, err)
	}

	s.videos = videos
	s.last = data
	metrics.RecordStoreRecords(len(videos))
	metrics.IncStoreLoad(opReload, metrics.OutcomeSuccess)
	logger.Info().
		Str(xglog.FieldEvent, "store.reloaded").
		Str(xglog.FieldPath, s.path).
		Int(xglog.FieldRecords, len(videos)).
		Msg("catalog reloaded from disk")
	return true, nil
}

// List returns a copy of the full sequence in order.
func (s *Store) List() []film.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]film.Video, len(s.videos))
	copy(out, s.videos)
	return out
}

// Find returns the first record with the given id.
func (s *Store) Find(id int) (film.Video, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.videos[i], true
	}
	return film.Video{}, false
}

// Append adds v to the end of the sequence and flushes. Ids are not checked
// for uniqueness.
func (s *Store) Append(ctx context.Context, v film.Video) (err error) {
	ctx, span := s.startSpan(ctx, opAppend)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.videos = append(s.videos, v)
	if err := s.flushLocked(ctx); err != nil {
		metrics.IncStoreMutation(opAppend, metrics.OutcomeFailure)
		return err
	}
	metrics.IncStoreMutation(opAppend, metrics.OutcomeSuccess)
	s.logMutation(ctx, opAppend, v.ID)
	return nil
}

// Update overwrites name, author, description and genre of the first record
// with the given id, then flushes. It returns false without touching the file
// when no record matches.
func (s *Store) Update(ctx context.Context, id int, fields film.Video) (updated bool, err error) {
	ctx, span := s.startSpan(ctx, opUpdate)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	span.SetAttributes(telemetry.VideoAttributes(id, i >= 0)...)
	if i < 0 {
		metrics.IncStoreMutation(opUpdate, metrics.OutcomeNotFound)
		return false, nil
	}

	s.videos[i].Overwrite(fields)
	if err := s.flushLocked(ctx); err != nil {
		metrics.IncStoreMutation(opUpdate, metrics.OutcomeFailure)
		return false, err
	}
	metrics.IncStoreMutation(opUpdate, metrics.OutcomeSuccess)
	s.logMutation(ctx, opUpdate, id)
	return true, nil
}

// Remove deletes the first record with the given id, flushes, and returns
// the removed record. It returns false without touching the file when no
// record matches.
func (s *Store) Remove(ctx context.Context, id int) (removed film.Video, ok bool, err error) {
	ctx, span := s.startSpan(ctx, opRemove)
	defer func() { endSpan(span, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	span.SetAttributes(telemetry.VideoAttributes(id, i >= 0)...)
	if i < 0 {
		metrics.IncStoreMutation(opRemove, metrics.OutcomeNotFound)
		return film.Video{}, false, nil
	}

	removed = s.videos[i]
	s.videos = append(s.videos[:i], s.videos[i+1:]...)
	if err := s.flushLocked(ctx); err != nil {
		metrics.IncStoreMutation(opRemove, metrics.OutcomeFailure)
		return film.Video{}, false, err
	}
	metrics.IncStoreMutation(opRemove, metrics.OutcomeSuccess)
	s.logMutation(ctx, opRemove, id)
	return removed, true, nil
}

// Flush writes the full sequence to the backing file, replacing its contents.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked(ctx)
}

// Sync flushes only if a previous flush failed, so a clean catalog never
// overwrites edits made to the file by hand.
func (s *Store) Sync(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	return s.flushLocked(ctx)
}

func (s *Store) flushLocked(ctx context.Context) (err error) {
	ctx, span := s.startSpan(ctx, opFlush)
	defer func() { endSpan(span, err) }()

	start := time.Now()
	data, err := film.Marshal(s.videos)
	if err != nil {
		metrics.RecordFlush(time.Since(start), 0, err)
		return fmt.Errorf("encode catalog: %w", err)
	}
	logger := xglog.WithContext(ctx, s.logger)
	if err := writeFile(ctx, s.path, data); err != nil {
		s.dirty = true
		metrics.RecordFlush(time.Since(start), 0, err)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "store.flush_failed").
			Str(xglog.FieldPath, s.path).
			Msg("failed to write data file")
		return fmt.Errorf("write data file: %w", err)
	}
	s.last = data
	s.dirty = false
	metrics.RecordFlush(time.Since(start), len(data), nil)
	metrics.RecordStoreRecords(len(s.videos))
	span.SetAttributes(telemetry.StoreAttributes(opFlush, s.path, len(s.videos))...)

	logger.Debug().
		Str(xglog.FieldEvent, "store.flushed").
		Str(xglog.FieldPath, s.path).
		Int(xglog.FieldRecords, len(s.videos)).
		Int(xglog.FieldBytes, len(data)).
		Dur(xglog.FieldDuration, time.Since(start)).
		Msg("catalog flushed")
	return nil
}

// indexLocked returns the position of the first record with id, or -1.
func (s *Store) indexLocked(id int) int {
	for i := range s.videos {
		if s.videos[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) logMutation(ctx context.Context, op string, id int) {
	logger := xglog.WithContext(ctx, s.logger)
	logger.Info().
		Str(xglog.FieldEvent, "store."+op).
		Str(xglog.FieldOp, op).
		Int(xglog.FieldVideoID, id).
		Int(xglog.FieldRecords, len(s.videos)).
		Msg("catalog mutated")
}

func (s *Store) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.tracer.Start(ctx, "store."+op, trace.WithAttributes(
		attribute.String(telemetry.StoreOpKey, op),
		attribute.String(telemetry.StorePathKey, s.path),
	))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		errType := "io"
		if errors.Is(err, ErrCorrupt) {
			errType = "corrupt"
		}
		span.RecordError(err)
		span.SetAttributes(telemetry.ErrorAttributes(err, errType)...)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
