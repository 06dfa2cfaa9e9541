// Package config loads keeper options from environment variables, so
// deployments can rewire storage paths and logging without code changes.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/keeperkv/keeper"
	"github.com/keeperkv/keeper/logging"
)

// envConfig mirrors the KEEPER_* environment surface.
type envConfig struct {
	DefaultTTL  time.Duration `env:"KEEPER_DEFAULT_TTL" envDefault:"168h"`
	DurablePath string        `env:"KEEPER_DURABLE_PATH"`
	CookiePath  string        `env:"KEEPER_COOKIE_PATH"`
	LogLevel    string        `env:"KEEPER_LOG_LEVEL" envDefault:"info"`
	LogFormat   string        `env:"KEEPER_LOG_FORMAT" envDefault:"json"`
}

// FromEnv builds keeper options from the process environment. Unset
// variables fall back to the library defaults (seven day TTL, no durable
// tier, temp-dir cookie jar, JSON info-level logging).
func FromEnv() (keeper.Options, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return keeper.Options{}, fmt.Errorf("parse env: %w", err)
	}

	return keeper.Options{
		DefaultTTL:  cfg.DefaultTTL,
		DurablePath: cfg.DurablePath,
		CookiePath:  cfg.CookiePath,
		Logger: logging.NewLogger(&logging.LoggerConfig{
			Level:  logging.ParseLevel(cfg.LogLevel),
			Format: cfg.LogFormat,
		}),
	}, nil
}

// NewFromEnv is a convenience constructor applying FromEnv on top of any
// explicit overrides.
func NewFromEnv(optFns ...func(o *keeper.Options)) (*keeper.Keeper, error) {
	opts, err := FromEnv()
	if err != nil {
		return nil, err
	}
	fns := append([]func(o *keeper.Options){func(o *keeper.Options) { *o = opts }}, optFns...)
	return keeper.New(fns...), nil
}
