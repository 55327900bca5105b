package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Console   ConsoleConfig   `toml:"console"`
	Memory    MemoryConfig    `toml:"memory"`
	Server    ServerConfig    `toml:"server"`
	Logging   LogConfig       `toml:"logging"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ConsoleConfig holds serial line configuration.
type ConsoleConfig struct {
	Baud  int  `envconfig:"CONSOLE_BAUD" default:"0" toml:"baud"`
	Stdin bool `envconfig:"CONSOLE_STDIN" default:"true" toml:"stdin"`
	PTY   bool `envconfig:"CONSOLE_PTY" default:"false" toml:"pty"`
}

// MemoryConfig holds per-process arena sizes.
type MemoryConfig struct {
	UserBytes   int `envconfig:"PROC_USER_MEM" default:"4096" toml:"user_bytes"`
	KernelBytes int `envconfig:"PROC_KERNEL_MEM" default:"4096" toml:"kernel_bytes"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port    string `envconfig:"PORT" default:"8000" toml:"port"`
	Host    string `envconfig:"HOST" default:"127.0.0.1" toml:"host"`
	Enabled bool   `envconfig:"SERVER_ENABLED" default:"true" toml:"enabled"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" toml:"level"`
	Development bool   `envconfig:"LOG_DEV" default:"false" toml:"development"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100" toml:"requests_per_second"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200" toml:"burst"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true" toml:"enabled"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile loads configuration from the environment and then overlays the
// TOML file at path. Keys present in the file win over the environment.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
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
		Console: ConsoleConfig{
			Baud:  0,
			Stdin: true,
			PTY:   false,
		},
		Memory: MemoryConfig{
			UserBytes:   4096,
			KernelBytes: 4096,
		},
		Server: ServerConfig{
			Port:    "8000",
			Host:    "127.0.0.1",
			Enabled: true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
