// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"strings"

	"github.com/ManuGH/filmshelf/internal/metrics"
	"github.com/ManuGH/filmshelf/internal/validate"
)

var tracingExporters = []string{"grpc", "http"}

const maxHeaderBytesLimit = 16 << 20

// Validate validates an AppConfig using the centralized validation package
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.DataFile("dataFile", cfg.DataFile)
	v.Directory("templatesDir", cfg.TemplatesDir)

	if _, err := validate.ParseLogLevel(strings.ToLower(cfg.LogLevel)); err != nil {
		v.AddError("logLevel", "invalid log level (must be: debug, info, warn, error)", cfg.LogLevel)
	}

	v.ListenAddr("api.listenAddr", cfg.API.ListenAddr)
	if cfg.API.RateLimit.Enabled {
		v.Positive("api.rateLimit.requests", cfg.API.RateLimit.Requests)
		if cfg.API.RateLimit.Window <= 0 {
			v.AddError("api.rateLimit.window", "window must be positive", cfg.API.RateLimit.Window)
		}
	}

	if addr := MetricsListenAddr(cfg); addr != "" {
		v.ListenAddr("metrics.listenAddr", addr)
		if addr == cfg.API.ListenAddr {
			v.AddError("metrics.listenAddr", "must differ from api.listenAddr", addr)
		}
	}

	if cfg.Tracing.Enabled {
		v.OneOf("tracing.exporter", cfg.Tracing.Exporter, tracingExporters)
		v.NotEmpty("tracing.endpoint", cfg.Tracing.Endpoint)
	}
	v.FloatRange("tracing.samplingRate", cfg.Tracing.SamplingRate, 0, 1)

	v.Range("server.maxHeaderBytes", cfg.Server.MaxHeaderBytes, 0, maxHeaderBytesLimit)

	if err := v.Err(); err != nil {
		metrics.IncConfigValidationError()
		return err
	}
	return nil
}
