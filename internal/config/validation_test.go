// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/ManuGH/filmshelf/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		mutate    func(*AppConfig)
		wantField string
	}{
		{name: "defaults are valid", mutate: func(*AppConfig) {}},
		{
			name:      "empty data file",
			mutate:    func(c *AppConfig) { c.DataFile = "" },
			wantField: "dataFile",
		},
		{
			name:      "data file is a directory",
			mutate:    func(c *AppConfig) { c.DataFile = dir },
			wantField: "dataFile",
		},
		{
			name:      "templates dir missing",
			mutate:    func(c *AppConfig) { c.TemplatesDir = filepath.Join(dir, "missing") },
			wantField: "templatesDir",
		},
		{
			name:      "bad log level",
			mutate:    func(c *AppConfig) { c.LogLevel = "trace2" },
			wantField: "logLevel",
		},
		{
			name:      "bad listen address",
			mutate:    func(c *AppConfig) { c.API.ListenAddr = "8080" },
			wantField: "api.listenAddr",
		},
		{
			name:      "non-positive rate limit",
			mutate:    func(c *AppConfig) { c.API.RateLimit.Requests = 0 },
			wantField: "api.rateLimit.requests",
		},
		{
			name: "rate limit ignored when disabled",
			mutate: func(c *AppConfig) {
				c.API.RateLimit.Enabled = false
				c.API.RateLimit.Requests = 0
			},
		},
		{
			name: "metrics listener collides with api",
			mutate: func(c *AppConfig) {
				c.Metrics.Enabled = true
				c.Metrics.ListenAddr = c.API.ListenAddr
			},
			wantField: "metrics.listenAddr",
		},
		{
			name: "unknown exporter",
			mutate: func(c *AppConfig) {
				c.Tracing.Enabled = true
				c.Tracing.Exporter = "zipkin"
			},
			wantField: "tracing.exporter",
		},
		{
			name:      "sampling rate above one",
			mutate:    func(c *AppConfig) { c.Tracing.SamplingRate = 1.5 },
			wantField: "tracing.samplingRate",
		},
		{
			name:      "header limit too large",
			mutate:    func(c *AppConfig) { c.Server.MaxHeaderBytes = 64 << 20 },
			wantField: "server.maxHeaderBytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.DataFile = filepath.Join(dir, "data.json")
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)

			var verr validate.ValidationError
			require.True(t, errors.As(err, &verr), "expected validate.ValidationError, got %T", err)
			fields := make([]string, 0, len(verr.Errors()))
			for _, e := range verr.Errors() {
				fields = append(fields, e.Field)
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}
