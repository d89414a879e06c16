// Package config loads runtime settings from the environment, with optional
// .env.local and .env files for local development.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/RichardoC/advisory-board/internal/advisor"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr         string        `mapstructure:"addr"`
	OpenAI       OpenAIConfig  `mapstructure:"openai"`
	DatabaseURL  string        `mapstructure:"database_url"`
	SessionTTL   time.Duration `mapstructure:"session_ttl"`
	RelayTimeout time.Duration `mapstructure:"relay_timeout"`
	LogLevel     string        `mapstructure:"log_level"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// EnvFiles are read in order; values already set in the environment win.
var EnvFiles = []string{".env.local", ".env"}

var bindings = map[string]string{
	"addr":            "ADDR",
	"openai.api_key":  "OPENAI_API_KEY",
	"openai.base_url": "OPENAI_BASE_URL",
	"openai.model":    "OPENAI_MODEL",
	"database_url":    "DATABASE_URL",
	"session_ttl":     "SESSION_TTL",
	"relay_timeout":   "RELAY_TIMEOUT",
	"log_level":       "LOG_LEVEL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("addr", ":3000")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", advisor.DefaultModel)
	v.SetDefault("database_url", "")
	v.SetDefault("session_ttl", 30*time.Minute)
	v.SetDefault("relay_timeout", 60*time.Second)
	v.SetDefault("log_level", "info")
}

func Load() (*Config, error) {
	for _, f := range EnvFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot run with. A missing API key is
// allowed: relay calls then fail as authentication errors.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("ADDR must not be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.RelayTimeout < 0 {
		return fmt.Errorf("RELAY_TIMEOUT must not be negative, got %s", c.RelayTimeout)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown LOG_LEVEL %q", c.LogLevel)
	}
	return nil
}

// SessionDSN turns DATABASE_URL into a go-sqlite3 DSN. An empty result means
// sessions stay in memory.
func (c *Config) SessionDSN() string {
	return strings.TrimPrefix(strings.TrimSpace(c.DatabaseURL), "sqlite://")
}
