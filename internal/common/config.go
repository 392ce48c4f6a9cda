// Package common provides shared utilities for Folio
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment string          `toml:"environment"`
	Files       FilesConfig     `toml:"files"`
	Pricing     PricingConfig   `toml:"pricing"`
	Server      ServerConfig    `toml:"server"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Mail        MailConfig      `toml:"mail"`
	Logging     LoggingConfig   `toml:"logging"`
}

// FilesConfig holds the paths of the data files the engine reads and writes.
type FilesConfig struct {
	Portfolio string `toml:"portfolio"` // portfolio definition (JSON)
	Overrides string `toml:"overrides"` // local price overrides (JSON), optional
	History   string `toml:"history"`   // history series (CSV)
	FXRates   string `toml:"fx_rates"`  // static FX rate table (CSV), optional
}

// PricingConfig holds price source configuration.
type PricingConfig struct {
	OverridesOnly bool         `toml:"overrides_only"` // disable online sources entirely
	Yahoo         ClientConfig `toml:"yahoo"`
	Stooq         ClientConfig `toml:"stooq"`
}

// ClientConfig holds HTTP client configuration for a price source.
type ClientConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *ClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host             string `toml:"host"`
	Port             int    `toml:"port"`
	MaxHistoryPoints int    `toml:"max_history_points"` // chart series truncation
}

// SchedulerConfig holds the daily snapshot job configuration.
type SchedulerConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // e.g. "0 18 * * *" for 18:00 daily
}

// MailConfig holds SMTP settings for the daily report.
// Credentials live here (file or environment), never in code.
type MailConfig struct {
	Enabled    bool   `toml:"enabled"`
	Sender     string `toml:"sender"`
	Recipient  string `toml:"recipient"`
	Credential string `toml:"credential"` // app password for the sender account
	Server     string `toml:"server"`
	Port       int    `toml:"port"`
}

// Addr returns the host:port SMTP address.
func (c *MailConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server, c.Port)
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Files: FilesConfig{
			Portfolio: "portfolio.json",
			Overrides: "price_overrides.json",
			History:   "history.csv",
			FXRates:   "fx_rates.csv",
		},
		Pricing: PricingConfig{
			Yahoo: ClientConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				RateLimit: 5,
				Timeout:   "10s",
			},
			Stooq: ClientConfig{
				BaseURL:   "https://stooq.com",
				RateLimit: 5,
				Timeout:   "10s",
			},
		},
		Server: ServerConfig{
			Host:             "0.0.0.0",
			Port:             8080,
			MaxHistoryPoints: 90,
		},
		Scheduler: SchedulerConfig{
			Enabled: false,
			Cron:    "0 18 * * 1-5",
		},
		Mail: MailConfig{
			Server: "smtp.gmail.com",
			Port:   587,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped; later files override earlier ones.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("FOLIO_PORTFOLIO_FILE"); v != "" {
		config.Files.Portfolio = v
	}
	if v := os.Getenv("FOLIO_OVERRIDES_FILE"); v != "" {
		config.Files.Overrides = v
	}
	if v := os.Getenv("FOLIO_HISTORY_FILE"); v != "" {
		config.Files.History = v
	}
	if v := os.Getenv("FOLIO_FX_RATES_FILE"); v != "" {
		config.Files.FXRates = v
	}

	if v := os.Getenv("FOLIO_OVERRIDES_ONLY"); v != "" {
		config.Pricing.OverridesOnly = strings.EqualFold(v, "true") || v == "1"
	}

	// Mail overrides — the credential in particular should come from the
	// environment in any shared deployment.
	if v := os.Getenv("FOLIO_MAIL_SENDER"); v != "" {
		config.Mail.Sender = v
	}
	if v := os.Getenv("FOLIO_MAIL_RECIPIENT"); v != "" {
		config.Mail.Recipient = v
	}
	if v := os.Getenv("FOLIO_MAIL_CREDENTIAL"); v != "" {
		config.Mail.Credential = v
	}
	if v := os.Getenv("FOLIO_MAIL_SERVER"); v != "" {
		config.Mail.Server = v
	}
	if v := os.Getenv("FOLIO_MAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			config.Mail.Port = p
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
