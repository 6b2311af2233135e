// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Generation parameters.
	Seed         int64
	CellCount    int
	HotspotCount int
	H3Resolution int

	// Periodic activity.
	FlushInterval   time.Duration
	ProduceInterval time.Duration
	ProduceBatch    int

	StatsCacheSize int

	// Optional Kafka bridge: consume raw observations, publish flushed summaries.
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPAddr:  envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic: envOrDefault("KAFKA_SOURCE_TOPIC", "raw-car-observations"),
		KafkaSinkTopic:   envOrDefault("KAFKA_SINK_TOPIC", "weather-cell-summaries"),
		KafkaGroupID:     envOrDefault("KAFKA_GROUP_ID", "cardata-mock"),
	}

	var err error
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FlushInterval, err = durationEnv("FLUSH_INTERVAL", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.ProduceInterval, err = durationEnv("PRODUCE_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}
	if cfg.Seed, err = int64Env("SEED", 42); err != nil {
		return nil, err
	}
	if cfg.CellCount, err = intEnv("CELL_COUNT", 25000); err != nil {
		return nil, err
	}
	if cfg.HotspotCount, err = intEnv("HOTSPOT_COUNT", 2000); err != nil {
		return nil, err
	}
	if cfg.H3Resolution, err = intEnv("H3_RESOLUTION", 7); err != nil {
		return nil, err
	}
	if cfg.ProduceBatch, err = intEnv("PRODUCE_BATCH", 25); err != nil {
		return nil, err
	}
	if cfg.StatsCacheSize, err = intEnv("STATS_CACHE_SIZE", 10000); err != nil {
		return nil, err
	}
	cfg.KafkaEnabled = os.Getenv("KAFKA_ENABLED") == "true"

	if cfg.CellCount <= 0 {
		return nil, errors.New("CELL_COUNT must be positive")
	}
	if cfg.HotspotCount < 0 {
		return nil, errors.New("HOTSPOT_COUNT must not be negative")
	}
	if cfg.FlushInterval <= 0 || cfg.ProduceInterval <= 0 {
		return nil, errors.New("FLUSH_INTERVAL and PRODUCE_INTERVAL must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SlogFormat returns the configured handler format ("json" or "text").
func (c *Config) SlogFormat() string {
	return c.LogFormat
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(s string) []string {
	var out []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
