// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ManuGH/filmshelf/internal/config"
	"github.com/ManuGH/filmshelf/internal/log"
	"github.com/rs/zerolog"
)

// PerformStartupChecks validates the environment before the server starts.
func PerformStartupChecks(ctx context.Context, cfg config.AppConfig) error {
	logger := log.WithComponent("startup-check")
	logger.Info().Msg("Running pre-flight startup checks...")

	if err := ctx.Err(); err != nil {
		return err
	}

	// 1. Data Directory Permissions
	if err := checkDataDir(logger, DataDir(cfg.DataFile)); err != nil {
		return fmt.Errorf("data directory check failed: %w", err)
	}

	// 2. Targeted Validations
	if err := checkTargetedValidations(logger, cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	logger.Info().Msg("All startup checks passed")
	return nil
}

func checkDataDir(logger zerolog.Logger, path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("cannot create directory %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	res := NewWritableDirChecker("data_dir", path).Check(context.Background())
	if res.Status != StatusHealthy {
		return fmt.Errorf("directory is not writable: %s (error: %s)", path, res.Error)
	}

	logger.Info().Str("path", path).Msg("Data directory is writable")
	return nil
}

func checkTargetedValidations(logger zerolog.Logger, cfg config.AppConfig) error {
	// a. Listen Address (Parseable)
	if err := checkListenAddr(cfg.API.ListenAddr); err != nil {
		return fmt.Errorf("invalid API listen address: %w", err)
	}
	logger.Info().Str("addr", cfg.API.ListenAddr).Msg("API listen address is valid")

	if addr := config.MetricsListenAddr(cfg); addr != "" {
		if err := checkListenAddr(addr); err != nil {
			return fmt.Errorf("invalid metrics listen address: %w", err)
		}
	}

	// b. Existing data file must be readable
	if _, err := os.Stat(cfg.DataFile); err == nil {
		if err := checkFileReadable(cfg.DataFile); err != nil {
			return fmt.Errorf("data file error: %w", err)
		}
	}

	// c. Template overrides
	if cfg.TemplatesDir != "" {
		info, err := os.Stat(cfg.TemplatesDir)
		if err != nil {
			return fmt.Errorf("templates dir: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("templates dir is not a directory: %s", cfg.TemplatesDir)
		}
		logger.Info().Str("path", cfg.TemplatesDir).Msg("Template overrides found")
	}

	tempDir := filepath.Clean(os.TempDir())
	dataDir, err := filepath.Abs(DataDir(cfg.DataFile))
	if err == nil && tempDir != "." && (dataDir == tempDir || strings.HasPrefix(dataDir, tempDir+string(filepath.Separator))) {
		logger.Warn().
			Str(log.FieldPath, cfg.DataFile).
			Msg("data file is under temp; the catalog may be lost on reboot")
	}

	return nil
}

func checkListenAddr(addr string) error {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(port)
	if err != nil || n < 0 || n > 65535 {
		return fmt.Errorf("invalid port %q in %q", port, addr)
	}
	return nil
}

func checkFileReadable(path string) error {
	f, err := os.Open(path) // #nosec G304 -- path comes from operator config; verifying readability is expected
	if err != nil {
		return err
	}
	return f.Close()
}
