// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerformStartupChecks(t *testing.T) {
	dir := t.TempDir()

	cfg := config.Default()
	cfg.DataFile = filepath.Join(dir, "nested", "data.json")

	require.NoError(t, PerformStartupChecks(context.Background(), cfg))

	info, err := os.Stat(filepath.Join(dir, "nested"))
	require.NoError(t, err, "data directory should be created")
	assert.True(t, info.IsDir())
}

func TestPerformStartupChecks_Failures(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name   string
		mutate func(*config.AppConfig)
	}{
		{
			name:   "data dir is a file",
			mutate: func(c *config.AppConfig) { c.DataFile = filepath.Join(file, "data.json") },
		},
		{
			name:   "bad listen address",
			mutate: func(c *config.AppConfig) { c.API.ListenAddr = "nowhere" },
		},
		{
			name: "bad metrics address",
			mutate: func(c *config.AppConfig) {
				c.Metrics.Enabled = true
				c.Metrics.ListenAddr = ":99999"
			},
		},
		{
			name:   "templates dir missing",
			mutate: func(c *config.AppConfig) { c.TemplatesDir = filepath.Join(dir, "missing") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.DataFile = filepath.Join(dir, "data.json")
			tt.mutate(&cfg)
			assert.Error(t, PerformStartupChecks(context.Background(), cfg))
		})
	}
}

func TestPerformStartupChecks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := config.Default()
	cfg.DataFile = filepath.Join(t.TempDir(), "data.json")
	assert.ErrorIs(t, PerformStartupChecks(ctx, cfg), context.Canceled)
}
