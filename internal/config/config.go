package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kylodelgado/nychapp/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Config holds all configuration settings
type Config struct {
	API struct {
		BaseURL        string `json:"base_url"`
		Key            string `json:"key"`
		TimeoutSeconds int    `json:"timeout_seconds"`
	} `json:"api"`
	Database struct {
		Path string `json:"path"`
	} `json:"database"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
}

// LoadConfig loads configuration from a JSON file, then applies environment
// overrides so the API key never has to live in the file.
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			logger.Warn("Failed to close config file", zap.Error(closeErr))
		}
	}()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns the default configuration with environment overrides
// applied. This is what runs when no config file is given.
func DefaultConfig() *Config {
	config := &Config{}
	config.API.BaseURL = "https://nych.repairshopr.com/api/v1"
	config.API.TimeoutSeconds = 15
	config.Database.Path = "nychapp.db"
	config.Logging.Level = "info"
	config.Logging.Path = "nychapp.log"
	config.applyEnv()
	return config
}

// Validate checks that the settings a live run needs are present.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("config: api base URL is required")
	}
	if c.API.Key == "" {
		return errors.New("config: api key is required (set NYCH_API_KEY)")
	}
	if c.Database.Path == "" {
		return errors.New("config: database path is required")
	}
	return nil
}

// Timeout returns the configured API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// applyEnv layers environment variables over the current values. A .env file
// is honored when present; missing is fine.
func (c *Config) applyEnv() {
	_ = godotenv.Load(".env")

	if v := os.Getenv("NYCH_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("NYCH_API_KEY"); v != "" {
		c.API.Key = v
	}
	if v := os.Getenv("NYCH_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("NYCH_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
