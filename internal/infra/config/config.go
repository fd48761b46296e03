// Package config provides application-wide configuration loaded from env vars and
// an optional YAML file. All fields have safe defaults so the binary runs locally
// without any setup; only the relay needs OPENROUTER_API_KEY to forward anything.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/matiasleandrokruk/relaychat/internal/infra/llm"
)

// Config holds runtime configuration for relaychat.
type Config struct {
	// Relay server
	Host string `mapstructure:"host" yaml:"host"` // HOST, default "0.0.0.0"
	Port int    `mapstructure:"port" yaml:"port"` // PORT, default 3001

	// Upstream provider
	OpenRouterAPIKey  string        `mapstructure:"openrouter_api_key" yaml:"openrouter_api_key"`   // OPENROUTER_API_KEY, no default
	OpenRouterBaseURL string        `mapstructure:"openrouter_base_url" yaml:"openrouter_base_url"` // OPENROUTER_BASE_URL
	HTTPReferer       string        `mapstructure:"http_referer" yaml:"http_referer"`               // HTTP_REFERER
	AppTitle          string        `mapstructure:"app_title" yaml:"app_title"`                     // APP_TITLE
	DefaultModel      string        `mapstructure:"default_model" yaml:"default_model"`             // DEFAULT_MODEL
	UpstreamTimeout   time.Duration `mapstructure:"upstream_timeout" yaml:"upstream_timeout"`       // UPSTREAM_TIMEOUT, e.g. "60s"

	// Optional throttling of /api routes; 0 disables it
	RateLimitRPS   float64 `mapstructure:"rate_limit_rps" yaml:"rate_limit_rps"`     // RELAY_RATE_LIMIT_RPS
	RateLimitBurst int     `mapstructure:"rate_limit_burst" yaml:"rate_limit_burst"` // RELAY_RATE_LIMIT_BURST

	// Terminal client
	RelayURL string `mapstructure:"relay_url" yaml:"relay_url"` // RELAYCHAT_URL; empty runs the gateway in-process
	DBPath   string `mapstructure:"db_path" yaml:"db_path"`     // RELAYCHAT_DB

	// Logging
	LogLevel  string `mapstructure:"log_level" yaml:"log_level"`   // LOG_LEVEL, default "info"
	LogFormat string `mapstructure:"log_format" yaml:"log_format"` // LOG_FORMAT, "text" or "json"
}

const redactedValue = "<redacted>"

// envBindings maps config keys to their environment variables.
var envBindings = map[string]string{
	"host":                "HOST",
	"port":                "PORT",
	"openrouter_api_key":  "OPENROUTER_API_KEY",
	"openrouter_base_url": "OPENROUTER_BASE_URL",
	"http_referer":        "HTTP_REFERER",
	"app_title":           "APP_TITLE",
	"default_model":       "DEFAULT_MODEL",
	"upstream_timeout":    "UPSTREAM_TIMEOUT",
	"rate_limit_rps":      "RELAY_RATE_LIMIT_RPS",
	"rate_limit_burst":    "RELAY_RATE_LIMIT_BURST",
	"relay_url":           "RELAYCHAT_URL",
	"db_path":             "RELAYCHAT_DB",
	"log_level":           "LOG_LEVEL",
	"log_format":          "LOG_FORMAT",
}

// Load builds the configuration. Precedence, highest first: environment
// variables, the YAML file at path (skipped when path is empty), defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 3001)
	v.SetDefault("openrouter_api_key", "")
	v.SetDefault("openrouter_base_url", llm.DefaultOpenRouterURL)
	v.SetDefault("http_referer", llm.DefaultReferer)
	v.SetDefault("app_title", llm.DefaultTitle)
	v.SetDefault("default_model", llm.DefaultModel)
	v.SetDefault("upstream_timeout", llm.DefaultTimeout)
	v.SetDefault("rate_limit_rps", 0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("relay_url", "")
	v.SetDefault("db_path", defaultDBPath())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Validate rejects values no component could run with.
func (c Config) Validate() error {
	var errs []error
	if c.Port < 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("upstream_timeout must be positive"))
	}
	if c.RateLimitRPS < 0 {
		errs = append(errs, errors.New("rate_limit_rps must not be negative"))
	}
	return errors.Join(errs...)
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.OpenRouterAPIKey != "" {
		c.OpenRouterAPIKey = redactedValue
	}
	return c
}

// YAML renders the redacted configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".relaychat", "state.db")
	}
	return filepath.Join(home, ".relaychat", "state.db")
}
