package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config holds server configuration. Variables use the DATEFINDER_ prefix,
// e.g. DATEFINDER_PORT, DATEFINDER_DATABASE_URL.
type Config struct {
	Port int `envconfig:"PORT" default:"8080"`

	// DatabaseURL is the Postgres DSN. When empty the server runs on the
	// in-memory store (useful for local development and demos).
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// BaseURL is the externally reachable address used in invite links.
	BaseURL string `envconfig:"BASE_URL" default:"http://localhost:8080"`

	PurgeCron     string `envconfig:"PURGE_CRON" default:"0 3 * * *"`
	RetentionDays int    `envconfig:"RETENTION_DAYS" default:"30"`

	RankedLimit int `envconfig:"RANKED_LIMIT" default:"10"`
}

// New parses configuration from the environment.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DATEFINDER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	log.Info().
		Int("port", cfg.Port).
		Bool("database_configured", cfg.DatabaseURL != "").
		Str("base_url", cfg.BaseURL).
		Str("purge_cron", cfg.PurgeCron).
		Int("retention_days", cfg.RetentionDays).
		Msg("configuration loaded")

	return &cfg, nil
}

// HTTPAddr returns the listen address.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
