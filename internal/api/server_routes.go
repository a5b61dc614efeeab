// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ManuGH/filmshelf/internal/api/middleware"
)

// TracingService names the tracer used for inbound requests.
const TracingService = "filmshelf-api"

func (s *Server) routes() http.Handler {
	r := s.newRouter()
	s.registerPublicRoutes(r)
	s.registerFilmRoutes(r)
	return r
}

func (s *Server) newRouter() chi.Router {
	return middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins: s.cfg.API.AllowedOrigins,

		EnableSecurityHeaders: true,
		CSP:                   middleware.DefaultCSP,

		EnableMetrics:  s.cfg.Metrics.Enabled,
		TracingService: tracingService(s.cfg.Tracing.Enabled),
		EnableLogging:  true,

		RateLimitEnabled:  s.cfg.API.RateLimit.Enabled,
		RateLimitRequests: s.cfg.API.RateLimit.Requests,
		RateLimitWindow:   s.cfg.API.RateLimit.Window,
	})
}

func tracingService(enabled bool) string {
	if !enabled {
		return ""
	}
	return TracingService
}

func (s *Server) registerPublicRoutes(r chi.Router) {
	r.Get("/healthz", s.healthManager.ServeHealth)
	r.Get("/readyz", s.healthManager.ServeReady)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
}

func (s *Server) registerFilmRoutes(r chi.Router) {
	r.Get("/", s.handleIndex)
	r.Get("/films/{video_id}", s.handleDetail)

	// Both spellings create a record.
	r.Post("/films/", s.handleCreate)
	r.Post("/films", s.handleCreate)

	r.Put("/films/{video_id}", s.handleUpdate)
	r.Delete("/films/{video_id}", s.handleDelete)
}
