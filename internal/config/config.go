// Package config provides configuration management for the insar-sbas toolkit.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the complete application configuration loaded from environment variables.
type Config struct {
	ASF     ASFConfig     `envPrefix:"ASF_"`
	HyP3    HyP3Config    `envPrefix:"HYP3_"`
	Store   StoreConfig   `envPrefix:"STORE_"`
	MintPy  MintPyConfig  `envPrefix:"MINTPY_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Logging LoggingConfig `envPrefix:"LOG_"`
}

// ASFConfig contains ASF search API client configuration.
type ASFConfig struct {
	BaseURL string        `env:"BASE_URL" envDefault:"https://api.daac.asf.alaska.edu"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// HyP3Config contains the on-demand processing API client configuration.
type HyP3Config struct {
	BaseURL string `env:"BASE_URL" envDefault:"https://hyp3-api.asf.alaska.edu"`
	// Token is an Earthdata Login bearer token. Job submission and
	// result download require it; catalog search does not.
	Token        string        `env:"TOKEN" envDefault:""`
	Timeout      time.Duration `env:"TIMEOUT" envDefault:"60s"`
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"60s"`
}

// StoreConfig contains the local job store configuration.
type StoreConfig struct {
	Path string `env:"PATH" envDefault:"insar-sbas.db"`
}

// MintPyConfig contains the time-series tool configuration.
type MintPyConfig struct {
	// Executable is the smallbaselineApp entry point, either on PATH
	// or an absolute path.
	Executable string        `env:"EXECUTABLE" envDefault:"smallbaselineApp.py"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"4h"`
}

// ServerConfig contains HTTP status server configuration.
type ServerConfig struct {
	Host            string        `env:"HOST" envDefault:"0.0.0.0"`
	Port            int           `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"text"`
}

// Load parses configuration from environment variables with the INSAR_ prefix.
// It returns an error if required fields are missing or invalid.
func Load() (*Config, error) {
	cfg := &Config{}

	opts := env.Options{
		Prefix:          "INSAR_",
		RequiredIfNoDef: true,
	}

	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.ASF.BaseURL == "" {
		return fmt.Errorf("ASF base URL is required")
	}
	if c.ASF.Timeout <= 0 {
		return fmt.Errorf("ASF timeout must be positive, got %s", c.ASF.Timeout)
	}

	if c.HyP3.BaseURL == "" {
		return fmt.Errorf("HyP3 base URL is required")
	}
	if c.HyP3.Timeout <= 0 {
		return fmt.Errorf("HyP3 timeout must be positive, got %s", c.HyP3.Timeout)
	}
	if c.HyP3.PollInterval <= 0 {
		return fmt.Errorf("HyP3 poll interval must be positive, got %s", c.HyP3.PollInterval)
	}

	if c.Store.Path == "" {
		return fmt.Errorf("store path is required")
	}

	if c.MintPy.Executable == "" {
		return fmt.Errorf("mintpy executable is required")
	}
	if c.MintPy.Timeout <= 0 {
		return fmt.Errorf("mintpy timeout must be positive, got %s", c.MintPy.Timeout)
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server shutdown timeout must be positive, got %s", c.Server.ShutdownTimeout)
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Logging.Level)
	}

	validLogFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("invalid log format %q, must be one of: json, text", c.Logging.Format)
	}

	return nil
}

// Address returns the server listen address in the format "host:port".
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
