// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath      string
	version         string
	ConsumedEnvKeys map[string]struct{} // Mechanical tracking of consumed keys
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

func (l *Loader) envString(key, defaultVal string) string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseString(key, defaultVal)
}

func (l *Loader) envBool(key string, defaultVal bool) bool {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseBool(key, defaultVal)
}

func (l *Loader) envInt(key string, defaultVal int) int {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseInt(key, defaultVal)
}

func (l *Loader) envDuration(key string, defaultVal time.Duration) time.Duration {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseDuration(key, defaultVal)
}

func (l *Loader) envFloat(key string, defaultVal float64) float64 {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseFloat(key, defaultVal)
}

func (l *Loader) envList(key string, defaultVal []string) []string {
	l.ConsumedEnvKeys[key] = struct{}{}
	return ParseStringList(key, defaultVal)
}

// Load loads configuration with precedence: ENV > File > Defaults.
// The result is not validated; callers run Validate.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Default()

	if l.configPath != "" {
		if err := l.loadFile(l.configPath, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	return cfg, nil
}

// loadFile decodes path on top of cfg. Keys absent from the file keep the
// values already in cfg.
func (l *Loader) loadFile(path string, cfg *AppConfig) error {
	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	return decodeStrict(data, cfg)
}

func decodeStrict(data []byte, cfg *AppConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true) // Reject unknown fields

	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ErrMultipleDocuments
	}
	return nil
}

func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.DataFile = l.envString(EnvPrefix+"DATA_FILE", cfg.DataFile)
	cfg.TemplatesDir = l.envString(EnvPrefix+"TEMPLATES_DIR", cfg.TemplatesDir)
	cfg.LogLevel = strings.ToLower(l.envString(EnvPrefix+"LOG_LEVEL", cfg.LogLevel))
	cfg.LogService = l.envString(EnvPrefix+"LOG_SERVICE", cfg.LogService)
	cfg.Watch = l.envBool(EnvPrefix+"WATCH", cfg.Watch)

	cfg.API.ListenAddr = l.envString(EnvPrefix+"LISTEN", cfg.API.ListenAddr)
	cfg.API.AllowedOrigins = l.envList(EnvPrefix+"ALLOWED_ORIGINS", cfg.API.AllowedOrigins)
	cfg.API.RateLimit.Enabled = l.envBool(EnvPrefix+"RATELIMIT_ENABLED", cfg.API.RateLimit.Enabled)
	cfg.API.RateLimit.Requests = l.envInt(EnvPrefix+"RATELIMIT_REQUESTS", cfg.API.RateLimit.Requests)
	cfg.API.RateLimit.Window = l.envDuration(EnvPrefix+"RATELIMIT_WINDOW", cfg.API.RateLimit.Window)

	cfg.Metrics.Enabled = l.envBool(EnvPrefix+"METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.ListenAddr = l.envString(EnvPrefix+"METRICS_LISTEN", cfg.Metrics.ListenAddr)

	cfg.Tracing.Enabled = l.envBool(EnvPrefix+"TRACING_ENABLED", cfg.Tracing.Enabled)
	cfg.Tracing.Exporter = strings.ToLower(l.envString(EnvPrefix+"TRACING_EXPORTER", cfg.Tracing.Exporter))
	cfg.Tracing.Endpoint = l.envString(EnvPrefix+"TRACING_ENDPOINT", cfg.Tracing.Endpoint)
	cfg.Tracing.SamplingRate = l.envFloat(EnvPrefix+"TRACING_SAMPLING_RATE", cfg.Tracing.SamplingRate)

	cfg.Server.ReadTimeout = l.envDuration(EnvPrefix+"SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration(EnvPrefix+"SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.IdleTimeout = l.envDuration(EnvPrefix+"SERVER_IDLE_TIMEOUT", cfg.Server.IdleTimeout)
	cfg.Server.MaxHeaderBytes = l.envInt(EnvPrefix+"SERVER_MAX_HEADER_BYTES", cfg.Server.MaxHeaderBytes)
	cfg.Server.ShutdownTimeout = l.envDuration(EnvPrefix+"SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)
}

// Load is a convenience wrapper: load and validate in one step.
func Load(configPath, version string) (AppConfig, error) {
	cfg, err := NewLoader(configPath, version).Load()
	if err != nil {
		return cfg, err
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
