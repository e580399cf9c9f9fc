/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package config loads server settings from .env, an optional YAML file and
// the environment, in that order of increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/importer/ddb"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load
const (
	EnvAddr          = "VSTORE_ADDR"
	EnvLogLevel      = "VSTORE_LOG_LEVEL"
	EnvLogFormat     = "VSTORE_LOG_FORMAT"
	EnvDefaultStores = "VSTORE_DEFAULT_STORES"
	EnvAWSAccessKey  = "AWS_ACCESS_KEY"
	EnvAWSSecretKey  = "AWS_SECRET_KEY"
	EnvAWSRegion     = "AWS_REGION"
	EnvDDBEndpoint   = "AWS_DDB_ENDPOINT"
)

// Config holds every runtime setting of the server
type Config struct {
	Addr          string          `yaml:"addr"`
	LogLevel      string          `yaml:"logLevel"`
	LogFormat     string          `yaml:"logFormat"`
	DefaultStores []string        `yaml:"defaultStores"`
	Import        ImportConfig    `yaml:"import"`
	RateLimit     RateLimitConfig `yaml:"rateLimit"`
	DynamoDB      ddb.Credentials `yaml:"dynamodb"`
}

// ImportConfig bounds remote imports
type ImportConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxBodySize int64         `yaml:"maxBodySize"`
}

// RateLimitConfig configures per-client request limiting. A zero
// RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requestsPerSecond"`
	Burst             int     `yaml:"burst"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Addr:          ":8080",
		LogLevel:      "info",
		LogFormat:     "text",
		DefaultStores: []string{"virtualStore1"},
		Import: ImportConfig{
			Timeout:     30 * time.Second,
			MaxBodySize: 10 << 20,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}
}

// Load builds the configuration. A missing .env file is not an error; a
// missing YAML file is only an error when path is non-empty.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.Addr, EnvAddr)
	setString(&c.LogLevel, EnvLogLevel)
	setString(&c.LogFormat, EnvLogFormat)
	setString(&c.DynamoDB.AccessKey, EnvAWSAccessKey)
	setString(&c.DynamoDB.SecretKey, EnvAWSSecretKey)
	setString(&c.DynamoDB.Region, EnvAWSRegion)
	setString(&c.DynamoDB.Endpoint, EnvDDBEndpoint)

	if v, ok := os.LookupEnv(EnvDefaultStores); ok {
		c.DefaultStores = splitList(v)
	}
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("addr is required")
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, expected text or json", c.LogFormat)
	}
	if c.Import.Timeout <= 0 {
		return fmt.Errorf("import timeout must be positive")
	}
	if c.Import.MaxBodySize <= 0 {
		return fmt.Errorf("import maxBodySize must be positive")
	}
	if c.RateLimit.RequestsPerSecond < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		return fmt.Errorf("rate limit burst must be positive when a rate is set")
	}
	return nil
}

// NewLogger builds a logrus logger from the level and format settings
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
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

// String renders the non-secret settings for startup logs
func (c *Config) String() string {
	return "addr=" + c.Addr +
		" logLevel=" + c.LogLevel +
		" defaultStores=" + strings.Join(c.DefaultStores, ",") +
		" rateLimit=" + strconv.FormatFloat(c.RateLimit.RequestsPerSecond, 'g', -1, 64) +
		" dynamodb=" + strconv.FormatBool(c.DynamoDB.Configured())
}
