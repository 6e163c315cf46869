package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the process configuration, read from the environment.
type Config struct {
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	ServiceName     string        `mapstructure:"OTEL_SERVICE_NAME"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	LogLevel       string `mapstructure:"LOG_LEVEL"`
	LogDevelopment bool   `mapstructure:"LOG_DEVELOPMENT"`

	TracesEnabled  bool `mapstructure:"OTEL_TRACES_ENABLED"`
	MetricsEnabled bool `mapstructure:"OTEL_METRICS_ENABLED"`
	LogsEnabled    bool `mapstructure:"OTEL_LOGS_ENABLED"`

	SessionIdleTTL       time.Duration `mapstructure:"SESSION_IDLE_TTL"`
	SessionSweepInterval time.Duration `mapstructure:"SESSION_SWEEP_INTERVAL"`
	SessionMax           int           `mapstructure:"SESSION_MAX"`
}

var defaults = map[string]any{
	"HTTP_ADDR":              ":8080",
	"OTEL_SERVICE_NAME":      "go-chi-keypad",
	"SHUTDOWN_TIMEOUT":       "5s",
	"LOG_LEVEL":              "info",
	"LOG_DEVELOPMENT":        false,
	"OTEL_TRACES_ENABLED":    true,
	"OTEL_METRICS_ENABLED":   true,
	"OTEL_LOGS_ENABLED":      false,
	"SESSION_IDLE_TTL":       "30m",
	"SESSION_SWEEP_INTERVAL": "1m",
	"SESSION_MAX":            10000,
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env.
func Load(envFiles ...string) (*Config, error) {
	if err := loadDotEnv(envFiles...); err != nil {
		return nil, err
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	if c.ServiceName == "" {
		errs = append(errs, errors.New("OTEL_SERVICE_NAME must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if c.SessionIdleTTL <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_IDLE_TTL must be positive, got %s", c.SessionIdleTTL))
	}
	if c.SessionSweepInterval <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %s", c.SessionSweepInterval))
	}
	if c.SessionMax <= 0 {
		errs = append(errs, fmt.Errorf("SESSION_MAX must be positive, got %d", c.SessionMax))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
