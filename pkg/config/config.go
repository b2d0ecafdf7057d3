package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the runtime configuration for the soiling pipeline.
// All environment variables are read here and nowhere else; the
// per-instrument registry (files, columns, thresholds) lives in its own
// YAML file, see internal/registry.
type Config struct {
	// Paths
	DataDir      string // raw per-instrument CSV exports
	OutputDir    string // pipeline outputs (sessions, aligned, sr, weekly, compare)
	RegistryPath string // instrument registry YAML

	// Site geolocation for the solar-position model
	Site SiteConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// SiteConfig holds the fixed geolocation of the measurement site.
type SiteConfig struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeM    float64
}

// Load reads configuration from environment variables. Only this
// function calls os.Getenv().
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		DataDir:      getEnv("SOILING_DATA_DIR", "datos"),
		OutputDir:    getEnv("SOILING_OUTPUT_DIR", "resultados"),
		RegistryPath: getEnv("SOILING_REGISTRY_PATH", "config/instruments.yaml"),

		Site: SiteConfig{
			// PSDA site in the Atacama desert.
			LatitudeDeg:  getEnvAsFloat("SOILING_SITE_LATITUDE", -24.08992287800815),
			LongitudeDeg: getEnvAsFloat("SOILING_SITE_LONGITUDE", -69.92873664034512),
			AltitudeM:    getEnvAsFloat("SOILING_SITE_ALTITUDE_M", 500),
		},

		LogLevel:  getEnv("SOILING_LOG_LEVEL", "info"),
		LogFormat: getEnv("SOILING_LOG_FORMAT", "console"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are sane
func (c *Config) validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("SOILING_DATA_DIR must not be empty")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("SOILING_OUTPUT_DIR must not be empty")
	}
	if c.Site.LatitudeDeg < -90 || c.Site.LatitudeDeg > 90 {
		return fmt.Errorf("SOILING_SITE_LATITUDE must be in [-90, 90], got %v", c.Site.LatitudeDeg)
	}
	if c.Site.LongitudeDeg < -180 || c.Site.LongitudeDeg > 180 {
		return fmt.Errorf("SOILING_SITE_LONGITUDE must be in [-180, 180], got %v", c.Site.LongitudeDeg)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env", // Current directory
	}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}
