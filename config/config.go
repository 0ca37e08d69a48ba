package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradebook/journal"
)

// Environment variables that override the journal defaults.
const (
	EnvDefaultFee      = "TRADEBOOK_DEFAULT_FEE"
	EnvPlaceholderNote = "TRADEBOOK_PLACEHOLDER_NOTE"
)

// Config represents the complete tradebook configuration
type Config struct {
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Export  ExportConfig  `json:"export" yaml:"export"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Log     LogConfig     `json:"log" yaml:"log"`
}

// JournalConfig contains ledger defaults
type JournalConfig struct {
	DefaultFee      decimal.Decimal `json:"default_fee" yaml:"default_fee"`
	PlaceholderNote string          `json:"placeholder_note" yaml:"placeholder_note"`
	Currency        string          `json:"currency" yaml:"currency"`
	Timezone        string          `json:"timezone" yaml:"timezone"` // IANA name, "Local" or "UTC"
}

// ExportConfig contains export defaults
type ExportConfig struct {
	Order string `json:"order" yaml:"order"` // "asc" or "desc"
	BOM   bool   `json:"bom" yaml:"bom"`
}

// ServerConfig contains HTTP API parameters
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
	Mode string `json:"mode" yaml:"mode"` // gin mode: debug, release, test
}

// LogConfig contains logging parameters
type LogConfig struct {
	Level       string `json:"level" yaml:"level"`
	Encoding    string `json:"encoding" yaml:"encoding"` // "json" or "console"
	Development bool   `json:"development" yaml:"development"`
}

// LoadFromFile loads configuration from a file (JSON or YAML)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Load returns the file configuration at path, or the defaults when path is
// empty, with environment overrides applied on top.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyEnv(envFiles...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv loads .env files (missing files are ignored) and applies the
// TRADEBOOK_* overrides.
func (c *Config) ApplyEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if v, ok := os.LookupEnv(EnvDefaultFee); ok && strings.TrimSpace(v) != "" {
		fee, err := journal.ParseNumber(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDefaultFee, err)
		}
		c.Journal.DefaultFee = fee
	}
	if v, ok := os.LookupEnv(EnvPlaceholderNote); ok && strings.TrimSpace(v) != "" {
		c.Journal.PlaceholderNote = v
	}
	return c.Validate()
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Journal.DefaultFee.IsNegative() {
		return fmt.Errorf("journal.default_fee must not be negative")
	}
	if strings.TrimSpace(c.Journal.PlaceholderNote) == "" {
		return fmt.Errorf("journal.placeholder_note is required")
	}
	if c.Journal.Currency == "" {
		return fmt.Errorf("journal.currency is required")
	}
	if money.GetCurrency(c.Journal.Currency) == nil {
		return fmt.Errorf("unknown currency: %s", c.Journal.Currency)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("journal.timezone: %w", err)
	}
	if o := c.Export.Order; o != "" && o != "asc" && o != "desc" {
		return fmt.Errorf("export.order must be 'asc' or 'desc'")
	}
	if c.Log.Encoding != "" && c.Log.Encoding != "json" && c.Log.Encoding != "console" {
		return fmt.Errorf("log.encoding must be 'json' or 'console'")
	}
	return nil
}

// Location resolves the journal timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Journal.Timezone {
	case "", "Local":
		return time.Local, nil
	}
	return time.LoadLocation(c.Journal.Timezone)
}

// LedgerOptions translates the journal settings into ledger options.
func (c *Config) LedgerOptions() []journal.Option {
	opts := []journal.Option{
		journal.WithDefaultFee(c.Journal.DefaultFee),
		journal.WithPlaceholderNote(c.Journal.PlaceholderNote),
	}
	if loc, err := c.Location(); err == nil {
		opts = append(opts, journal.WithLocation(loc))
	}
	return opts
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Journal: JournalConfig{
			DefaultFee:      decimal.NewFromInt(journal.DefaultFee),
			PlaceholderNote: journal.PlaceholderNote,
			Currency:        "ILS",
			Timezone:        "Local",
		},
		Export: ExportConfig{
			Order: "asc",
			BOM:   true,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8501",
			Mode: "release",
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "console",
		},
	}
}
