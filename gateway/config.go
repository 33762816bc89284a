package gateway

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// Config is the configuration for the payment gateway application.
type Config struct {
	HTTPAddr string
	// BankBaseURL is the acquiring bank's base URI; the client POSTs to its
	// /payments path.
	BankBaseURL string
	// BankTimeout bounds the single outbound bank call.
	BankTimeout time.Duration
	// IdempotencyTTL is how long a cached response stays valid for its key.
	IdempotencyTTL time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:       "localhost:8080",
		BankBaseURL:    "http://localhost:8081",
		BankTimeout:    10 * time.Second,
		IdempotencyTTL: 24 * time.Hour,
	}
}

// LoadConfig reads a .env file when present, then the environment, falling
// back to defaults for anything unset.
func LoadConfig(logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file found, relying on environment variables")
	}

	config := DefaultConfig()
	config.HTTPAddr = getenv("HTTP_ADDR", config.HTTPAddr)
	config.BankBaseURL = getenv("BANK_BASE_URL", config.BankBaseURL)
	config.BankTimeout = getenvDuration(logger, "BANK_TIMEOUT", config.BankTimeout)
	config.IdempotencyTTL = getenvDuration(logger, "IDEMPOTENCY_TTL", config.IdempotencyTTL)

	return config
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvDuration(logger *slog.Logger, k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Info("invalid duration; using default", slog.String("key", k), slog.Any("err", err))
		return def
	}

	return d
}
