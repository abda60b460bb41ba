package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAPIURL    = "https://techchallengeblog.onrender.com"
	defaultTimeout   = 10 * time.Second
	defaultPageLimit = 10
)

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type SessionConfig struct {
	Dir string
}

type ShellConfig struct {
	Port string
}

type ObservabilityConfig struct {
	ServiceName  string
	MetricsAddr  string
	PprofAddr    string
	OTLPEndpoint string
}

type Config struct {
	API           APIConfig
	Session       SessionConfig
	Shell         ShellConfig
	Observability ObservabilityConfig
	PageLimit     int
	LogLevel      string
}

func Load() (*Config, error) {
	timeout, err := time.ParseDuration(getEnvOrDefault("TECHBLOG_TIMEOUT", defaultTimeout.String()))
	if err != nil {
		return nil, fmt.Errorf("TECHBLOG_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("TECHBLOG_TIMEOUT must be positive, got %s", timeout)
	}

	limit, err := strconv.Atoi(getEnvOrDefault("TECHBLOG_PAGE_LIMIT", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit <= 0 {
		return nil, fmt.Errorf("TECHBLOG_PAGE_LIMIT must be a positive integer")
	}

	sessionDir := os.Getenv("TECHBLOG_SESSION_DIR")
	if sessionDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		sessionDir = filepath.Join(home, ".techblog")
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL: strings.TrimRight(getEnvOrDefault("TECHBLOG_API_URL", defaultAPIURL), "/"),
			Timeout: timeout,
		},
		Session: SessionConfig{
			Dir: sessionDir,
		},
		Shell: ShellConfig{
			Port: getEnvOrDefault("TECHBLOG_SHELL_PORT", "8093"),
		},
		Observability: ObservabilityConfig{
			ServiceName:  getEnvOrDefault("TECHBLOG_SERVICE_NAME", "techblog"),
			MetricsAddr:  os.Getenv("TECHBLOG_METRICS_ADDR"),
			PprofAddr:    os.Getenv("TECHBLOG_PPROF_ADDR"),
			OTLPEndpoint: os.Getenv("TECHBLOG_OTLP_ENDPOINT"),
		},
		PageLimit: limit,
		LogLevel:  getEnvOrDefault("TECHBLOG_LOG_LEVEL", "warn"),
	}

	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("TECHBLOG_API_URL is not an absolute URL: %q", cfg.API.BaseURL)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
