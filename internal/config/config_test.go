package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("INSAR_HYP3_TOKEN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HyP3.Token != "" {
		t.Errorf("expected empty token without INSAR_HYP3_TOKEN, got %s", cfg.HyP3.Token)
	}

	if cfg.ASF.BaseURL != "https://api.daac.asf.alaska.edu" {
		t.Errorf("expected default ASF base URL, got %s", cfg.ASF.BaseURL)
	}

	if cfg.HyP3.BaseURL != "https://hyp3-api.asf.alaska.edu" {
		t.Errorf("expected default HyP3 base URL, got %s", cfg.HyP3.BaseURL)
	}

	if cfg.HyP3.PollInterval != 60*time.Second {
		t.Errorf("expected default poll interval 60s, got %s", cfg.HyP3.PollInterval)
	}

	if cfg.Store.Path != "insar-sbas.db" {
		t.Errorf("expected default store path insar-sbas.db, got %s", cfg.Store.Path)
	}

	if cfg.MintPy.Executable != "smallbaselineApp.py" {
		t.Errorf("expected default mintpy executable, got %s", cfg.MintPy.Executable)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Logging.Level)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("INSAR_ASF_TIMEOUT", "45s")
	os.Setenv("INSAR_HYP3_TOKEN", "test-token")
	os.Setenv("INSAR_HYP3_POLL_INTERVAL", "30s")
	os.Setenv("INSAR_STORE_PATH", "/tmp/jobs.db")
	os.Setenv("INSAR_SERVER_PORT", "9090")
	os.Setenv("INSAR_LOG_LEVEL", "debug")
	os.Setenv("INSAR_LOG_FORMAT", "json")

	defer func() {
		os.Unsetenv("INSAR_ASF_TIMEOUT")
		os.Unsetenv("INSAR_HYP3_TOKEN")
		os.Unsetenv("INSAR_HYP3_POLL_INTERVAL")
		os.Unsetenv("INSAR_STORE_PATH")
		os.Unsetenv("INSAR_SERVER_PORT")
		os.Unsetenv("INSAR_LOG_LEVEL")
		os.Unsetenv("INSAR_LOG_FORMAT")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ASF.Timeout != 45*time.Second {
		t.Errorf("expected ASF timeout 45s, got %s", cfg.ASF.Timeout)
	}

	if cfg.HyP3.Token != "test-token" {
		t.Errorf("expected token test-token, got %s", cfg.HyP3.Token)
	}

	if cfg.HyP3.PollInterval != 30*time.Second {
		t.Errorf("expected poll interval 30s, got %s", cfg.HyP3.PollInterval)
	}

	if cfg.Store.Path != "/tmp/jobs.db" {
		t.Errorf("expected store path /tmp/jobs.db, got %s", cfg.Store.Path)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Logging.Level)
	}

	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format json, got %s", cfg.Logging.Format)
	}
}

func validConfig() *Config {
	return &Config{
		ASF: ASFConfig{
			BaseURL: "https://api.daac.asf.alaska.edu",
			Timeout: 30 * time.Second,
		},
		HyP3: HyP3Config{
			BaseURL:      "https://hyp3-api.asf.alaska.edu",
			Timeout:      60 * time.Second,
			PollInterval: 60 * time.Second,
		},
		Store:  StoreConfig{Path: "insar-sbas.db"},
		MintPy: MintPyConfig{Executable: "smallbaselineApp.py", Timeout: time.Hour},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError bool
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:      "missing ASF base URL",
			mutate:    func(c *Config) { c.ASF.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "negative ASF timeout",
			mutate:    func(c *Config) { c.ASF.Timeout = -1 * time.Second },
			wantError: true,
		},
		{
			name:      "missing HyP3 base URL",
			mutate:    func(c *Config) { c.HyP3.BaseURL = "" },
			wantError: true,
		},
		{
			name:      "zero poll interval",
			mutate:    func(c *Config) { c.HyP3.PollInterval = 0 },
			wantError: true,
		},
		{
			name:      "empty store path",
			mutate:    func(c *Config) { c.Store.Path = "" },
			wantError: true,
		},
		{
			name:      "empty mintpy executable",
			mutate:    func(c *Config) { c.MintPy.Executable = "" },
			wantError: true,
		},
		{
			name:      "port too large",
			mutate:    func(c *Config) { c.Server.Port = 70000 },
			wantError: true,
		},
		{
			name:      "port zero",
			mutate:    func(c *Config) { c.Server.Port = 0 },
			wantError: true,
		},
		{
			name:      "invalid log level",
			mutate:    func(c *Config) { c.Logging.Level = "verbose" },
			wantError: true,
		},
		{
			name:      "invalid log format",
			mutate:    func(c *Config) { c.Logging.Format = "xml" },
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantError && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	s := ServerConfig{Host: "127.0.0.1", Port: 9090}
	if got := s.Address(); got != "127.0.0.1:9090" {
		t.Errorf("expected 127.0.0.1:9090, got %s", got)
	}
}
