// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package config loads the producer/consumer demo configuration.
//
// Values come from built-in defaults, an optional YAML file, and
// PRODCONS_-prefixed environment variables, in increasing precedence:
//
//	PRODCONS_QUEUE_CAPACITY=8 PRODCONS_DRIVER_PRODUCERS=4 prodcons
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PRODCONS"

// Config is the complete demo configuration.
type Config struct {
	Queue   QueueConfig   `mapstructure:"queue"`
	Driver  DriverConfig  `mapstructure:"driver"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// QueueConfig shapes the shared queue.
type QueueConfig struct {
	Capacity  int  `mapstructure:"capacity"`
	SeedCount int  `mapstructure:"seed_count"` // Random values placed at construction
	Broadcast bool `mapstructure:"broadcast"`  // Wake all waiters instead of one
	Spin      int  `mapstructure:"spin"`       // 0 disables spin-before-park
}

// DriverConfig shapes the producer and consumer workers.
type DriverConfig struct {
	Producers      int   `mapstructure:"producers"`
	Consumers      int   `mapstructure:"consumers"`
	OpsPerProducer int   `mapstructure:"ops_per_producer"`
	MaxValue       int   `mapstructure:"max_value"` // Values are drawn from [0, MaxValue]
	Seed           int64 `mapstructure:"seed"`      // 0 seeds from the clock
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level      string `mapstructure:"level"`    // debug, info, warn, error
	Encoding   string `mapstructure:"encoding"` // json, console
	File       string `mapstructure:"file"`     // Empty logs to stderr only
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
}

// Loader handles configuration loading and validation.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads defaults, then the file at path if non-empty, then the
// environment, and validates the result. A missing file is not an error.
func (l *Loader) Load(path string) (*Config, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, errors.Wrap(err, "failed to read config file")
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return &cfg, nil
}

// setDefaults mirrors the original demo: one producer and one consumer
// making 50 moves each over a 20-slot buffer seeded with 3 values below 40.
func (l *Loader) setDefaults() {
	l.v.SetDefault("queue.capacity", 20)
	l.v.SetDefault("queue.seed_count", 3)
	l.v.SetDefault("queue.broadcast", false)
	l.v.SetDefault("queue.spin", 0)

	l.v.SetDefault("driver.producers", 1)
	l.v.SetDefault("driver.consumers", 1)
	l.v.SetDefault("driver.ops_per_producer", 50)
	l.v.SetDefault("driver.max_value", 39)
	l.v.SetDefault("driver.seed", 0)

	l.v.SetDefault("log.level", "info")
	l.v.SetDefault("log.encoding", "console")
	l.v.SetDefault("log.file", "")
	l.v.SetDefault("log.max_size_mb", 10)
	l.v.SetDefault("log.max_backups", 3)

	l.v.SetDefault("metrics.enabled", false)
	l.v.SetDefault("metrics.addr", ":9090")
}

// Validate checks cross-field constraints.
func Validate(cfg *Config) error {
	q, d := cfg.Queue, cfg.Driver
	switch {
	case q.Capacity < 1:
		return errors.Errorf("queue.capacity must be positive, got %d", q.Capacity)
	case q.SeedCount < 0 || q.SeedCount > q.Capacity:
		return errors.Errorf("queue.seed_count must be in [0, %d], got %d", q.Capacity, q.SeedCount)
	case q.Spin < 0:
		return errors.Errorf("queue.spin must not be negative, got %d", q.Spin)
	case d.Producers < 1:
		return errors.Errorf("driver.producers must be positive, got %d", d.Producers)
	case d.Consumers < 1:
		return errors.Errorf("driver.consumers must be positive, got %d", d.Consumers)
	case d.OpsPerProducer < 0:
		return errors.Errorf("driver.ops_per_producer must not be negative, got %d", d.OpsPerProducer)
	case d.MaxValue < 0:
		return errors.Errorf("driver.max_value must not be negative, got %d", d.MaxValue)
	}

	switch strings.ToLower(cfg.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Log.Level)
	}
	switch strings.ToLower(cfg.Log.Encoding) {
	case "json", "console":
	default:
		return errors.Errorf("log.encoding must be json or console, got %q", cfg.Log.Encoding)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Addr == "" {
		return errors.New("metrics.addr is required when metrics are enabled")
	}
	return nil
}
