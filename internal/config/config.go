// Package config loads settings for the seedrand binaries from an
// optional YAML file followed by SEEDRAND_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/opd-ai/go-seedrand"
)

// Seed interpretations.
const (
	SeedAuto   = "auto"   // Decimal integers are integers, anything else a string
	SeedInt    = "int"    // Must parse as a decimal integer
	SeedString = "string" // Always a string
)

// Config holds the settings shared by the CLI and the service.
type Config struct {
	Seed     string `yaml:"seed" env:"SEEDRAND_SEED"`
	SeedType string `yaml:"seed_type" env:"SEEDRAND_SEED_TYPE"`
	Kind     string `yaml:"kind" env:"SEEDRAND_KIND"`
	Count    int    `yaml:"count" env:"SEEDRAND_COUNT"`
	Jump     int64  `yaml:"jump" env:"SEEDRAND_JUMP"`

	Log    LogConfig    `yaml:"log" envPrefix:"SEEDRAND_LOG_"`
	Server ServerConfig `yaml:"server" envPrefix:"SEEDRAND_SERVER_"`
}

// LogConfig selects the logger output.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"` // console or json
}

// ServerConfig configures the HTTP draw service.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"ADDR"`
	MaxCount     int           `yaml:"max_count" env:"MAX_COUNT"`
	MaxAdvance   int64         `yaml:"max_advance" env:"MAX_ADVANCE"` // Largest descriptor position accepted
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SeedType: SeedAuto,
		Kind:     seedrand.KindFloat64.String(),
		Count:    10,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Addr:         ":5808",
			MaxCount:     1 << 20,
			MaxAdvance:   1 << 28,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Load returns Default overlaid with the YAML file at path, if path is
// not empty, and then with environment variables. The result is
// validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.SeedType {
	case SeedAuto, SeedInt, SeedString:
	default:
		return fmt.Errorf("config: seed_type must be auto, int or string, got %q", c.SeedType)
	}
	if _, err := c.SeedValue(); err != nil {
		return err
	}
	if _, err := seedrand.ParseKind(c.Kind); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Count < 0 {
		return errors.New("config: count must not be negative")
	}
	if c.Jump < 0 || c.Jump%2 != 0 {
		return fmt.Errorf("config: jump must be even and non-negative, got %d", c.Jump)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: log format must be console or json, got %q", c.Log.Format)
	}
	if c.Server.MaxCount <= 0 {
		return errors.New("config: server max_count must be positive")
	}
	if c.Server.MaxAdvance <= 0 {
		return errors.New("config: server max_advance must be positive")
	}
	if c.Server.Addr == "" {
		return errors.New("config: server addr is required")
	}
	return nil
}

// SeedValue converts the configured seed to seed material. An empty seed
// yields nil, which seeds from OS entropy.
func (c *Config) SeedValue() (any, error) {
	return ParseSeed(c.Seed, c.SeedType)
}

// ParseSeed interprets s according to seedType.
func ParseSeed(s, seedType string) (any, error) {
	if s == "" && seedType != SeedString {
		return nil, nil
	}
	switch seedType {
	case SeedString:
		return s, nil
	case SeedInt, SeedAuto, "":
		n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
		if ok {
			if n.IsInt64() {
				return n.Int64(), nil
			}
			return n, nil
		}
		if seedType == SeedInt {
			return nil, fmt.Errorf("config: seed %q is not a decimal integer", s)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("config: unknown seed type %q", seedType)
	}
}
