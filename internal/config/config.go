// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Sim SimConfig
	Log LogConfig
}

// SimConfig holds simulation defaults; flags may override them per run.
type SimConfig struct {
	Scenario  string // path to a scenario file, empty for the built-in one
	MaxRounds int    // 0 means defer to the scenario
	Seed      int64  // 0 means derive from the clock
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Sim: SimConfig{
			Scenario:  os.Getenv("HERALD_SCENARIO"),
			MaxRounds: getEnvAsIntOrDefault("HERALD_MAX_ROUNDS", 0),
			Seed:      getEnvAsInt64OrDefault("HERALD_SEED", 0),
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("HERALD_LOG_LEVEL", "info"),
			Pretty: getEnvAsBoolOrDefault("HERALD_LOG_PRETTY", false),
		},
	}

	if cfg.Sim.MaxRounds < 0 {
		return nil, fmt.Errorf("HERALD_MAX_ROUNDS cannot be negative")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
