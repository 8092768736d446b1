// Package config loads service configuration from an optional YAML file and
// environment variables. Environment variables always win over file values.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Configuration validation errors.
var (
	ErrInvalidUpstreamTimeout = errors.New("invalid UPSTREAM_TIMEOUT")
	ErrInvalidShutdownTimeout = errors.New("invalid SHUTDOWN_TIMEOUT")
	ErrPublishWithoutBrokers  = errors.New("PUBLISH_ENABLED is true but KAFKA_BROKERS is not set")
	ErrPublishWithoutTopic    = errors.New("PUBLISH_ENABLED is true but KAFKA_SINK_TOPIC is not set")
)

// Config holds all service settings.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream API configuration. Both keys are optional: a missing census
	// key degrades result quality, a missing BLS key nulls the labor fields.
	CensusAPIKey    string
	CensusBaseURL   string
	BLSAPIKey       string
	BLSBaseURL      string
	UpstreamTimeout time.Duration

	// Optional analysis-result publishing.
	KafkaBrokers   []string
	KafkaSinkTopic string
	PublishEnabled bool
}

// fileConfig is the YAML schema. Durations are strings ("30s") so the file
// reads the same as the corresponding environment variables.
type fileConfig struct {
	HTTPAddr        string `yaml:"http_addr"`
	LogLevel        string `yaml:"log_level"`
	LogFormat       string `yaml:"log_format"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`

	CensusAPIKey    string `yaml:"census_api_key"`
	CensusBaseURL   string `yaml:"census_base_url"`
	BLSAPIKey       string `yaml:"bls_api_key"`
	BLSBaseURL      string `yaml:"bls_base_url"`
	UpstreamTimeout string `yaml:"upstream_timeout"`

	KafkaBrokers   []string `yaml:"kafka_brokers"`
	KafkaSinkTopic string   `yaml:"kafka_sink_topic"`
	PublishEnabled *bool    `yaml:"publish_enabled"`
}

// Load reads configuration, applying defaults where unset. When
// CITYSCOUT_CONFIG names a YAML file, its values are layered under the
// environment.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:        ":8080",
		LogLevel:        "info",
		LogFormat:       "json",
		ShutdownTimeout: 10 * time.Second,
		CensusBaseURL:   "https://api.census.gov/data",
		BLSBaseURL:      "https://api.bls.gov/publicAPI/v2/timeseries/data/",
		UpstreamTimeout: 30 * time.Second,
	}

	if path := os.Getenv("CITYSCOUT_CONFIG"); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if v := os.Getenv("PUBLISH_ENABLED"); v != "" {
		cfg.PublishEnabled = v == "true"
	}

	if cfg.PublishEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, ErrPublishWithoutBrokers
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, ErrPublishWithoutTopic
		}
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIfPresent(&cfg.HTTPAddr, fc.HTTPAddr)
	setIfPresent(&cfg.LogLevel, fc.LogLevel)
	setIfPresent(&cfg.LogFormat, fc.LogFormat)
	setIfPresent(&cfg.CensusAPIKey, fc.CensusAPIKey)
	setIfPresent(&cfg.CensusBaseURL, fc.CensusBaseURL)
	setIfPresent(&cfg.BLSAPIKey, fc.BLSAPIKey)
	setIfPresent(&cfg.BLSBaseURL, fc.BLSBaseURL)
	setIfPresent(&cfg.KafkaSinkTopic, fc.KafkaSinkTopic)
	if len(fc.KafkaBrokers) > 0 {
		cfg.KafkaBrokers = fc.KafkaBrokers
	}
	if fc.PublishEnabled != nil {
		cfg.PublishEnabled = *fc.PublishEnabled
	}

	if err := setDuration(&cfg.ShutdownTimeout, fc.ShutdownTimeout, ErrInvalidShutdownTimeout); err != nil {
		return err
	}
	return setDuration(&cfg.UpstreamTimeout, fc.UpstreamTimeout, ErrInvalidUpstreamTimeout)
}

func setIfPresent(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v string, invalid error) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return invalid
	}
	*dst = d
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.HTTPAddr = envOrDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envOrDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envOrDefault("LOG_FORMAT", cfg.LogFormat)
	cfg.CensusAPIKey = envOrDefault("CENSUS_API_KEY", cfg.CensusAPIKey)
	cfg.CensusBaseURL = envOrDefault("CENSUS_BASE_URL", cfg.CensusBaseURL)
	cfg.BLSAPIKey = envOrDefault("BLS_API_KEY", cfg.BLSAPIKey)
	cfg.BLSBaseURL = envOrDefault("BLS_BASE_URL", cfg.BLSBaseURL)
	cfg.KafkaSinkTopic = envOrDefault("KAFKA_SINK_TOPIC", cfg.KafkaSinkTopic)

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.KafkaBrokers = splitBrokers(v)
	}

	var err error
	cfg.UpstreamTimeout, err = envDuration("UPSTREAM_TIMEOUT", cfg.UpstreamTimeout, ErrInvalidUpstreamTimeout)
	if err != nil {
		return err
	}
	cfg.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout, ErrInvalidShutdownTimeout)
	if err != nil {
		return err
	}
	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration, invalid error) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, invalid
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
