package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	BackofficeURL  string
	BookingsURL    string
	Port           string
	AllowedOrigins []string
	HTTPTimeout    time.Duration
	LogLevel       slog.Level
}

// fileConfig is the YAML shape; env variables override whatever the file set.
type fileConfig struct {
	BackofficeURL      string   `yaml:"backoffice_url"`
	BookingsURL        string   `yaml:"bookings_url"`
	Port               string   `yaml:"port"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
	HTTPTimeoutSeconds int      `yaml:"http_timeout_seconds"`
	LogLevel           string   `yaml:"log_level"`
}

// Load builds the config from an optional YAML file plus environment
// variables. Pass "" to skip the file.
func Load(path string) (Config, error) {
	cfg := Config{
		Port:        "8080",
		HTTPTimeout: 15 * time.Second,
		LogLevel:    slog.LevelInfo,
	}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		var fc fileConfig
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
		applyFile(&cfg, fc)
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyFile(cfg *Config, fc fileConfig) {
	if fc.BackofficeURL != "" {
		cfg.BackofficeURL = fc.BackofficeURL
	}
	if fc.BookingsURL != "" {
		cfg.BookingsURL = fc.BookingsURL
	}
	if fc.Port != "" {
		cfg.Port = fc.Port
	}
	if len(fc.AllowedOrigins) > 0 {
		cfg.AllowedOrigins = fc.AllowedOrigins
	}
	if fc.HTTPTimeoutSeconds > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTPTimeoutSeconds) * time.Second
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = parseLevel(fc.LogLevel)
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BACKOFFICE_API_URL"); v != "" {
		cfg.BackofficeURL = v
	}
	if v := os.Getenv("BOOKINGS_API_URL"); v != "" {
		cfg.BookingsURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitCSV(v)
	}
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = parseLevel(v)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
