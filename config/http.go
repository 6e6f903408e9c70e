package config

import (
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

type HTTPConfig struct {
	DefaultTimeout  time.Duration `env:"HTTP_DEFAULT_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

var HTTP = loadHTTPConfig()

func loadHTTPConfig() HTTPConfig {
	cfg := HTTPConfig{
		DefaultTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}

	if v := os.Getenv("HTTP_DEFAULT_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.DefaultTimeout = d
		}
	}

	if v := os.Getenv("HTTP_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}

	return cfg
}

func DefaultClient() *http.Client {
	return &http.Client{
		Timeout: HTTP.DefaultTimeout,
	}
}
