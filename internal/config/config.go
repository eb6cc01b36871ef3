// Package config assembles resolver configuration from the environment.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/ledger-resolve/internal/engine"
)

// Config is the complete runtime configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Log      LogConfig
	Matching engine.Settings
}

// DatabaseConfig contains data source settings
type DatabaseConfig struct {
	URL            string
	Table          string `validate:"required"`
	MaxConnections int    `validate:"min=1"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string
	Port int `validate:"min=1,max=65535"`

	// APIKey, when set, is required in the X-API-Key header of API calls
	APIKey string
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Pretty bool
}

// Default values
const (
	DefaultTable          = "ledger"
	DefaultMaxConnections = 10
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8080
	DefaultLogLevel       = "info"
)

// Load reads .env files and the environment into a validated Config
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables without validating it
func FromEnv() *Config {
	defaults := engine.DefaultSettings()

	return &Config{
		Database: DatabaseConfig{
			URL:            GetEnv("DB_URL", ""),
			Table:          GetEnv("DB_TABLE", DefaultTable),
			MaxConnections: GetEnvInt("DB_MAX_CONNECTIONS", DefaultMaxConnections),
		},
		Server: ServerConfig{
			Host:   GetEnv("WEB_HOST", DefaultHost),
			Port:   GetEnvInt("WEB_PORT", DefaultPort),
			APIKey: GetEnv("WEB_API_KEY", ""),
		},
		Log: LogConfig{
			Level:  GetEnv("LOG_LEVEL", DefaultLogLevel),
			Pretty: GetEnvBool("PRETTY_LOGS", false),
		},
		Matching: engine.Settings{
			Tiers: engine.Tiers{
				NameStrict:          GetEnvInt("NAME_STRICT", defaults.NameStrict),
				NameMedium:          GetEnvInt("NAME_MEDIUM", defaults.NameMedium),
				NameLoose:           GetEnvInt("NAME_LOOSE", defaults.NameLoose),
				AddressLoose:        GetEnvInt("ADDRESS_LOOSE", defaults.AddressLoose),
				MobileExactRequired: GetEnvBool("MOBILE_EXACT_REQUIRED", defaults.MobileExactRequired),
			},
			CandidateLimit: GetEnvInt("CANDIDATE_LIMIT", defaults.CandidateLimit),
			ResultLimit:    GetEnvInt("RESULT_LIMIT", defaults.ResultLimit),
			MaxHops:        GetEnvInt("MAX_HOPS", defaults.MaxHops),
		},
	}
}

var validate = validator.New()

// Validate checks every section, including the matching thresholds
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
