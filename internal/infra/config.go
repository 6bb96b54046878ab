package infra

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents application configuration. Values come from, in order of
// precedence: environment variables, the YAML file named by GALLERY_CONFIG,
// built-in defaults.
type Config struct {
	AppEnv             string
	Port               string
	LogLevel           string
	StorageBackend     string
	StoragePath        string
	StorageURL         string
	WebRoot            string
	DefaultUser        string
	BodyLimitBytes     int64
	RequestTimeout     time.Duration
	HTTPReadTimeout    time.Duration
	HTTPWriteTimeout   time.Duration
	HTTPIdleTimeout    time.Duration
	RateLimitPerMin    int
	CORSAllowedOrigins []string
}

// fileConfig mirrors the YAML overlay. Durations are in seconds.
type fileConfig struct {
	AppEnv                string   `yaml:"app_env"`
	Port                  string   `yaml:"port"`
	LogLevel              string   `yaml:"log_level"`
	StorageBackend        string   `yaml:"storage_backend"`
	StoragePath           string   `yaml:"storage_path"`
	StorageURL            string   `yaml:"storage_url"`
	WebRoot               string   `yaml:"web_root"`
	DefaultUser           string   `yaml:"default_user"`
	BodyLimitBytes        int      `yaml:"body_limit_bytes"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	ReadTimeoutSeconds    int      `yaml:"http_read_timeout_seconds"`
	WriteTimeoutSeconds   int      `yaml:"http_write_timeout_seconds"`
	IdleTimeoutSeconds    int      `yaml:"http_idle_timeout_seconds"`
	RateLimitPerMinute    int      `yaml:"rate_limit_per_minute"`
	CORSAllowedOrigins    []string `yaml:"cors_allowed_origins"`
}

const (
	DefaultBodyLimitBytes = 4096000
	DefaultRequestTimeout = 30
)

// LoadConfig loads configuration and applies defaults where needed.
func LoadConfig() (*Config, error) {
	var fc fileConfig
	if path := strings.TrimSpace(os.Getenv("GALLERY_CONFIG")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", or(fc.AppEnv, "development")),
		Port:             getEnv("PORT", or(fc.Port, "8080")),
		LogLevel:         getEnv("LOG_LEVEL", fc.LogLevel),
		StorageBackend:   strings.ToLower(getEnv("STORAGE_BACKEND", or(fc.StorageBackend, "fs"))),
		StoragePath:      getEnv("STORAGE_PATH", or(fc.StoragePath, "volume")),
		StorageURL:       getEnv("STORAGE_URL", fc.StorageURL),
		WebRoot:          getEnv("WEB_ROOT", fc.WebRoot),
		DefaultUser:      getEnv("DEFAULT_USER", or(fc.DefaultUser, "user")),
		BodyLimitBytes:   int64(getEnvInt("BODY_LIMIT_BYTES", orInt(fc.BodyLimitBytes, DefaultBodyLimitBytes))),
		RequestTimeout:   time.Second * time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", orInt(fc.RequestTimeoutSeconds, DefaultRequestTimeout))),
		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", orInt(fc.ReadTimeoutSeconds, 15))),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", orInt(fc.WriteTimeoutSeconds, 35))),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", orInt(fc.IdleTimeoutSeconds, 60))),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", orInt(fc.RateLimitPerMinute, 120)),
	}

	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		cfg.CORSAllowedOrigins = splitList(v)
	} else {
		cfg.CORSAllowedOrigins = splitList(strings.Join(fc.CORSAllowedOrigins, ","))
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case "fs":
		if strings.TrimSpace(c.StoragePath) == "" {
			return errors.New("STORAGE_PATH is required for the fs backend")
		}
	case "blob":
		if strings.TrimSpace(c.StorageURL) == "" {
			return errors.New("STORAGE_URL is required for the blob backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND %q is not supported", c.StorageBackend)
	}
	if c.BodyLimitBytes <= 0 {
		return errors.New("BODY_LIMIT_BYTES must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func or(v, fallback string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func orInt(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
