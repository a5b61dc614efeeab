// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package api provides the HTTP surface of filmshelf: HTML pages for browsing
// the catalog and JSON endpoints for changing it.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/ManuGH/filmshelf/internal/film"
	"github.com/ManuGH/filmshelf/internal/health"
)

// Catalog is the record store behind the handlers.
type Catalog interface {
	List() []film.Video
	Find(id int) (film.Video, bool)
	Append(ctx context.Context, v film.Video) error
	Update(ctx context.Context, id int, fields film.Video) (bool, error)
	Remove(ctx context.Context, id int) (film.Video, bool, error)
}

// Pages renders the HTML views.
type Pages interface {
	RenderList(w io.Writer, videos []film.Video) error
	RenderDetail(w io.Writer, v *film.Video) error
}

var (
	// ErrMissingCatalog is returned by New when no Catalog is supplied.
	ErrMissingCatalog = errors.New("api: catalog is required")
	// ErrMissingPages is returned by New when no Pages renderer is supplied.
	ErrMissingPages = errors.New("api: page renderer is required")
)

// maxBodyBytes caps request bodies on mutating endpoints.
const maxBodyBytes = 1 << 20

// Server represents the HTTP API server for filmshelf.
type Server struct {
	cfg           config.AppConfig
	catalog       Catalog
	pages         Pages
	healthManager *health.Manager
	metrics       http.Handler // mounted at /metrics when non-nil
	handler       http.Handler
}

// ServerOption allows functional configuration of the Server.
type ServerOption func(*Server)

// WithHealthManager serves /healthz and /readyz from m.
func WithHealthManager(m *health.Manager) ServerOption {
	return func(s *Server) {
		s.healthManager = m
	}
}

// WithMetricsHandler mounts h at /metrics on the API router.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) {
		s.metrics = h
	}
}
