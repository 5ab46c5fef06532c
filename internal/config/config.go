package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"spese/internal/core"
	"spese/internal/export"
)

type Config struct {
	// HTTP Server
	Port string

	// Backend selection
	DataBackend  string
	SQLiteDBPath string

	// Currencies: amounts are stored in BaseCurrency and shown in
	// DisplayCurrency unless a request asks otherwise.
	BaseCurrency    string
	DisplayCurrency string

	// Live exchange rates; an empty URL keeps the static table.
	RatesURL             string
	RatesAPIKey          string
	RatesRefreshInterval time.Duration
	RatesTimeout         time.Duration

	// AMQP; an empty URL disables change events.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Caches
	CacheTTL  time.Duration
	CacheSize int

	// Report worker
	ReportsDir    string
	ReportsFormat string

	// Logging
	LogLevel  string
	LogFormat string
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/spese.db"),

		BaseCurrency:    strings.ToUpper(getEnv("BASE_CURRENCY", "USD")),
		DisplayCurrency: strings.ToUpper(getEnv("DISPLAY_CURRENCY", "USD")),

		RatesURL:             getEnv("RATES_URL", ""),
		RatesAPIKey:          getEnv("RATES_API_KEY", ""),
		RatesRefreshInterval: getEnvDuration("RATES_REFRESH_INTERVAL", time.Hour),
		RatesTimeout:         getEnvDuration("RATES_TIMEOUT", 5*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "spese"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "records_changed"),

		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize: getEnvInt("CACHE_SIZE", 100),

		ReportsDir:    getEnv("REPORTS_DIR", "./data/reports"),
		ReportsFormat: getEnv("REPORTS_FORMAT", "json"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),
	}
}

// LiveRates reports whether a live rate endpoint is configured.
func (c *Config) LiveRates() bool {
	return c.RatesURL != ""
}

// EventsEnabled reports whether change events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate currencies
	if !core.KnownCurrency(c.BaseCurrency) {
		errors = append(errors, fmt.Sprintf("invalid base currency '%s': must be an ISO 4217 code", c.BaseCurrency))
	}
	if !core.KnownCurrency(c.DisplayCurrency) {
		errors = append(errors, fmt.Sprintf("invalid display currency '%s': must be an ISO 4217 code", c.DisplayCurrency))
	}

	// Validate live rates
	if c.RatesURL != "" {
		if parsedURL, err := url.Parse(c.RatesURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid rates URL '%s': %v", c.RatesURL, err))
		} else if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid rates URL scheme '%s': must be 'http' or 'https'", parsedURL.Scheme))
		}
	}
	if c.RatesRefreshInterval < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid rates refresh interval %v: must be at least 1 minute", c.RatesRefreshInterval))
	} else if c.RatesRefreshInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid rates refresh interval %v: must be at most 24 hours", c.RatesRefreshInterval))
	}
	if c.RatesTimeout <= 0 || c.RatesTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid rates timeout %v: must be between 0 and 1 minute", c.RatesTimeout))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate caches
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}

	if _, err := export.ByName(c.ReportsFormat); err != nil {
		errors = append(errors, fmt.Sprintf("invalid reports format '%s': must be one of %v", c.ReportsFormat, export.Formats()))
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be 'text' or 'json'", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
