// Package config loads the service configuration at startup.
//
// An optional YAML file named by JOBS_CONFIG_FILE is read first; environment
// variables then override it field by field. Loading fails fast when a
// required value is still missing.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const configFileEnv = "JOBS_CONFIG_FILE"

// Config holds all runtime configuration for the jobs service.
type Config struct {
	Port                  string `yaml:"port" env:"JOBS_PORT"`
	GRPCPort              string `yaml:"grpcPort" env:"JOBS_GRPC_PORT"`
	DatabaseURL           string `yaml:"databaseUrl" env:"DATABASE_URL"`
	RedisURL              string `yaml:"redisUrl" env:"REDIS_URL"`
	LogLevel              string `yaml:"logLevel" env:"LOG_LEVEL"`
	HealthIntervalMinutes int    `yaml:"healthIntervalMinutes" env:"HEALTH_INTERVAL_MINUTES"`
}

func defaults() *Config {
	return &Config{
		Port:                  "8083",
		GRPCPort:              "9083",
		LogLevel:              "info",
		HealthIntervalMinutes: 1,
	}
}

// Load reads the optional config file, applies environment overrides and
// returns a validated Config.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv(configFileEnv); path != "" {
		if err := fromYAML(path, cfg); err != nil {
			return nil, err
		}
	}

	if err := overrideEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromYAML(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config file %s: %w", path, err)
	}
	return nil
}

// overrideEnv sets every field carrying an env tag whose variable is set.
func overrideEnv(cfg *Config) error {
	v := reflect.ValueOf(cfg).Elem()
	t := v.Type()
	for i := range t.NumField() {
		key := t.Field(i).Tag.Get("env")
		raw, ok := os.LookupEnv(key)
		if key == "" || !ok || raw == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("%s must be an integer: %w", key, err)
			}
			field.SetInt(int64(n))
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}
	if c.HealthIntervalMinutes < 1 {
		return fmt.Errorf("HEALTH_INTERVAL_MINUTES must be >= 1")
	}
	return nil
}
