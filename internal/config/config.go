// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

// Package config provides configuration management for filmshelf.
package config

import "time"

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "FILMSHELF_"

// AppConfig is the fully resolved process configuration.
type AppConfig struct {
	Version      string              `yaml:"-" json:"version,omitempty"`
	DataFile     string              `yaml:"dataFile" json:"dataFile"`
	TemplatesDir string              `yaml:"templatesDir,omitempty" json:"templatesDir,omitempty"`
	LogLevel     string              `yaml:"logLevel" json:"logLevel"`
	LogService   string              `yaml:"logService" json:"logService"`
	Watch        bool                `yaml:"watch" json:"watch"`
	API          APIConfig           `yaml:"api" json:"api"`
	Metrics      MetricsConfig       `yaml:"metrics" json:"metrics"`
	Tracing      TracingConfig       `yaml:"tracing" json:"tracing"`
	Server       ServerRuntimeConfig `yaml:"server" json:"server"`
}

// APIConfig configures the HTTP API listener.
type APIConfig struct {
	ListenAddr     string          `yaml:"listenAddr" json:"listenAddr"`
	AllowedOrigins []string        `yaml:"allowedOrigins,omitempty" json:"allowedOrigins,omitempty"`
	RateLimit      RateLimitConfig `yaml:"rateLimit" json:"rateLimit"`
}

// RateLimitConfig is a per-client request budget.
type RateLimitConfig struct {
	Enabled  bool          `yaml:"enabled" json:"enabled"`
	Requests int           `yaml:"requests" json:"requests"`
	Window   time.Duration `yaml:"window" json:"window"`
}

// MetricsConfig controls Prometheus exposition. An empty ListenAddr mounts
// /metrics on the API router.
type MetricsConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled"`
	ListenAddr string `yaml:"listenAddr,omitempty" json:"listenAddr,omitempty"`
}

// TracingConfig configures the OpenTelemetry exporter.
type TracingConfig struct {
	Enabled      bool    `yaml:"enabled" json:"enabled"`
	Exporter     string  `yaml:"exporter" json:"exporter"`
	Endpoint     string  `yaml:"endpoint" json:"endpoint"`
	SamplingRate float64 `yaml:"samplingRate" json:"samplingRate"`
}

// ServerRuntimeConfig holds HTTP server timeouts as they appear in the file.
type ServerRuntimeConfig struct {
	ReadTimeout     time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" json:"idleTimeout"`
	MaxHeaderBytes  int           `yaml:"maxHeaderBytes" json:"maxHeaderBytes"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" json:"shutdownTimeout"`
}

// Default returns the configuration used when neither file nor ENV set a value.
func Default() AppConfig {
	return AppConfig{
		DataFile:   "data.json",
		LogLevel:   "info",
		LogService: "filmshelf",
		API: APIConfig{
			ListenAddr: ":8080",
			RateLimit: RateLimitConfig{
				Enabled:  true,
				Requests: 600,
				Window:   time.Minute,
			},
		},
		Tracing: TracingConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
		Server: defaultServerRuntimeConfig(),
	}
}
