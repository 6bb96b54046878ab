// Package config loads the settings of the gallery command line client.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultServer  = "http://localhost:8080"
	DefaultTimeout = 60 * time.Second
)

type Config struct {
	Server    string
	Timeout   time.Duration
	LogLevel  string
	ForeignID uint32
}

// Load reads .env files when present, then the environment.
func Load() Config {
	_ = godotenv.Load(".env", ".env.local")

	c := Config{
		Server:    getenv("GALLERY_SERVER", DefaultServer),
		Timeout:   DefaultTimeout,
		LogLevel:  getenv("LOG_LEVEL", "warn"),
		ForeignID: 1,
	}
	if v, err := strconv.Atoi(os.Getenv("GALLERY_TIMEOUT_SECONDS")); err == nil && v > 0 {
		c.Timeout = time.Duration(v) * time.Second
	}
	if v, err := strconv.ParseUint(os.Getenv("GALLERY_FOREIGN_ID"), 10, 32); err == nil {
		c.ForeignID = uint32(v)
	}
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
