package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries process-level settings sourced from the environment.
type Config struct {
	Environment    string
	ServiceName    string
	ServiceVersion string
	HTTPAddr       string

	DatabaseDSN string

	// Catalog platform (Admin GraphQL) settings shared by every shop client.
	CatalogAPIVersion string
	CatalogTimeout    time.Duration

	// Marketing delivery settings.
	MarketingTimeout time.Duration

	// Notification request matching.
	RequestPageSize int

	// Per-shop marketing config cache.
	ConfigCacheTTL time.Duration

	Tracing TracingConfig
}

// TracingConfig controls the optional OTLP trace exporter.
type TracingConfig struct {
	Enabled          bool
	ExporterEndpoint string
	SamplingRatio    float64
}

// Load reads configuration from the environment. A local .env file is
// honored when present so dev setups do not need exported variables.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Environment:       envString("APP_ENV", "development"),
		ServiceName:       envString("SERVICE_NAME", "backinstock"),
		ServiceVersion:    envString("SERVICE_VERSION", "dev"),
		HTTPAddr:          envString("HTTP_ADDR", ":8080"),
		DatabaseDSN:       envString("DATABASE_DSN", ""),
		CatalogAPIVersion: envString("CATALOG_API_VERSION", "2024-07"),
		CatalogTimeout:    envDuration("CATALOG_TIMEOUT", 10*time.Second),
		MarketingTimeout:  envDuration("MARKETING_TIMEOUT", 10*time.Second),
		RequestPageSize:   envInt("REQUEST_PAGE_SIZE", 100),
		ConfigCacheTTL:    envDuration("CONFIG_CACHE_TTL", 5*time.Minute),
		Tracing: TracingConfig{
			Enabled:          envBool("TRACING_ENABLED", false),
			ExporterEndpoint: envString("TRACING_EXPORTER_ENDPOINT", ""),
			SamplingRatio:    envFloat("TRACING_SAMPLING_RATIO", 1.0),
		},
	}
}

// IsProduction reports whether the process runs with production settings.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func envString(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
