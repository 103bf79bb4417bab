package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// HTTP listen address
	ListenAddr string

	// Resource paths
	DataDir string

	// Gameplay
	StartingBalance int64

	// Heart puzzle API
	HeartAPIURL string

	// Elasticsearch game-history mirror
	ElasticsearchEnabled  bool
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchPrefix   string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	startingBalance, err := getEnvInt64("STARTING_BALANCE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		ListenAddr:            getEnvWithDefault("LISTEN_ADDR", ":8087"),
		DataDir:               getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		StartingBalance:       startingBalance,
		HeartAPIURL:           os.Getenv("HEART_API_URL"),
		ElasticsearchEnabled:  os.Getenv("ELASTICSEARCH_ENABLED") == "true",
		ElasticsearchURL:      getEnvWithDefault("ELASTICSEARCH_URL", "http://localhost:9200"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchPrefix:   getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "casino"),
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks if all required configuration is present
func (c *Config) validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	if c.StartingBalance <= 0 {
		return fmt.Errorf("STARTING_BALANCE must be positive")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return parsed, nil
}
