/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Prefix is the environment variable prefix of all settings.
const Prefix = "RESOURCEKIT"

// Config holds all resourcekit configuration.
type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Cache    CacheConfig    `yaml:"cache"`
	REST     RESTConfig     `yaml:"rest"`
	SQL      SQLConfig      `yaml:"sql"`
	DynamoDB DynamoDBConfig `yaml:"dynamodb"`
	Logging  LogConfig      `yaml:"logging"`
	Notifier NotifierConfig `yaml:"notifier"`
}

// StorageConfig selects the storage engine and its key namespace.
type StorageConfig struct {
	// Backend is one of local, rest, mysql, dynamodb.
	Backend string `split_words:"true" default:"local" yaml:"backend"`
	Version string `split_words:"true" default:"1" yaml:"version"`
	Prefix  string `split_words:"true" default:"resourcekit" yaml:"prefix"`
	// Path is the file of the local key/value backend.
	Path string `split_words:"true" default:"resourcekit.json" yaml:"path"`
}

// CacheConfig configures the local caching decorator.
type CacheConfig struct {
	Enabled bool          `split_words:"true" default:"true" yaml:"enabled"`
	Path    string        `split_words:"true" default:"resourcekit-cache.json" yaml:"path"`
	Expiry  time.Duration `split_words:"true" default:"1h" yaml:"expiry"`
}

// RESTConfig configures the REST engine.
type RESTConfig struct {
	BaseURL    string        `split_words:"true" default:"http://localhost:8080" yaml:"baseURL"`
	Timeout    time.Duration `split_words:"true" default:"30s" yaml:"timeout"`
	RetryCount int           `split_words:"true" default:"3" yaml:"retryCount"`
	RateLimit  float64       `split_words:"true" default:"0" yaml:"rateLimit"`
}

// SQLConfig configures the relational engine.
type SQLConfig struct {
	DSN string `split_words:"true" default:"" yaml:"dsn"`
}

// DynamoDBConfig configures the DynamoDB engine.
type DynamoDBConfig struct {
	Region    string `split_words:"true" default:"us-east-1" yaml:"region"`
	Table     string `split_words:"true" default:"" yaml:"table"`
	AccessKey string `split_words:"true" default:"" yaml:"accessKey"`
	SecretKey string `split_words:"true" default:"" yaml:"secretKey"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `split_words:"true" default:"info" yaml:"level"`
	Development bool   `split_words:"true" default:"false" yaml:"development"`
}

// NotifierConfig configures change notification.
type NotifierConfig struct {
	Delay time.Duration `split_words:"true" default:"50ms" yaml:"delay"`
}

// Load loads configuration from environment variables, after merging an optional
// .env file of the working directory into the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads a YAML configuration file on top of Default.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Backend: "local",
			Version: "1",
			Prefix:  "resourcekit",
			Path:    "resourcekit.json",
		},
		Cache: CacheConfig{
			Enabled: true,
			Path:    "resourcekit-cache.json",
			Expiry:  time.Hour,
		},
		REST: RESTConfig{
			BaseURL:    "http://localhost:8080",
			Timeout:    30 * time.Second,
			RetryCount: 3,
		},
		DynamoDB: DynamoDBConfig{
			Region: "us-east-1",
		},
		Logging: LogConfig{
			Level: "info",
		},
		Notifier: NotifierConfig{
			Delay: 50 * time.Millisecond,
		},
	}
}
