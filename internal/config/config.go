package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	BackendDatabricks = "databricks"
	BackendPostgres   = "postgres"
)

// Config holds all configuration for the ERD API.
// Values come from an optional config.yaml, overridden by environment variables.
// Secrets (tokens, DSNs) are only read from the environment.
type Config struct {
	BindAddr    string `yaml:"bind_addr" env:"BIND_ADDR" env-default:""`
	Port        int    `yaml:"port" env:"PORT" env-default:"8000"`
	Env         string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	LogLevel    string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	APIPrefix   string `yaml:"api_prefix" env:"API_PREFIX" env-default:"/api"`
	CORSOrigins string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	Version     string `yaml:"-"`

	Warehouse  WarehouseConfig  `yaml:"warehouse"`
	Databricks DatabricksConfig `yaml:"databricks"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Auth       AuthConfig       `yaml:"auth"`
}

// WarehouseConfig selects the backend that executes metadata statements.
type WarehouseConfig struct {
	Backend string `yaml:"backend" env:"WAREHOUSE_BACKEND" env-default:"databricks"`
}

// DatabricksConfig holds the workspace the service credential talks to.
type DatabricksConfig struct {
	Host  string `yaml:"host" env:"DATABRICKS_HOST" env-default:""`
	Token string `yaml:"-" env:"DATABRICKS_TOKEN"`
}

// PostgresConfig describes a PostgreSQL server exposed as a single warehouse.
type PostgresConfig struct {
	DSN         string `yaml:"-" env:"POSTGRES_DSN"`
	WarehouseID string `yaml:"warehouse_id" env:"POSTGRES_WAREHOUSE_ID" env-default:"postgres"`
	MaxConns    int    `yaml:"max_conns" env:"POSTGRES_MAX_CONNS" env-default:"10"`
}

// AuthConfig controls when a forwarded access token is trusted for on-behalf-of calls.
type AuthConfig struct {
	MinTokenLength  int    `yaml:"min_token_length" env:"AUTH_MIN_TOKEN_LENGTH" env-default:"20"`
	PlaceholdersStr string `yaml:"placeholder_tokens" env:"AUTH_PLACEHOLDER_TOKENS" env-default:"undefined,null,***,*"`

	// Placeholders is parsed from PlaceholdersStr.
	Placeholders []string `yaml:"-"`
}

// Load reads config.yaml (if present) and the environment.
// The version is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	var err error
	if _, statErr := os.Stat("config.yaml"); statErr == nil {
		err = cleanenv.ReadConfig("config.yaml", cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	cfg.parseComplexFields()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) parseComplexFields() {
	c.Auth.Placeholders = splitList(c.Auth.PlaceholdersStr)
	c.Warehouse.Backend = strings.ToLower(strings.TrimSpace(c.Warehouse.Backend))
	c.APIPrefix = "/" + strings.Trim(c.APIPrefix, "/")
	if c.APIPrefix == "/" {
		c.APIPrefix = ""
	}
}

// Validate checks that the selected backend has what it needs.
func (c *Config) Validate() error {
	switch c.Warehouse.Backend {
	case BackendDatabricks:
		if c.Databricks.Host == "" {
			return errors.New("DATABRICKS_HOST is required for the databricks backend")
		}
	case BackendPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown warehouse backend %q", c.Warehouse.Backend)
	}

	if c.Auth.MinTokenLength < 0 {
		return errors.New("AUTH_MIN_TOKEN_LENGTH must not be negative")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// AllowedOrigins returns the parsed CORS origin list.
func (c *Config) AllowedOrigins() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
