// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/ManuGH/filmshelf/internal/health"
)

// New creates and initializes a new HTTP API server.
func New(cfg config.AppConfig, catalog Catalog, pages Pages, opts ...ServerOption) (*Server, error) {
	if catalog == nil {
		return nil, ErrMissingCatalog
	}
	if pages == nil {
		return nil, ErrMissingPages
	}

	s := &Server{
		cfg:     cfg,
		catalog: catalog,
		pages:   pages,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.healthManager == nil {
		s.healthManager = health.NewManager(cfg.Version)
	}

	s.handler = s.routes()
	return s, nil
}

// Handler returns the fully wired router.
func (s *Server) Handler() http.Handler {
	return s.handler
}
