package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// PathEnv overrides the config file location.
const PathEnv = "STATFORGE_CONFIG"

// DefaultPath is used when PathEnv is unset.
const DefaultPath = "config/statc.yaml"

// Store drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Statc holds all configuration for the statc CLI.
type Statc struct {
	LogLevel string `yaml:"log_level" env:"STATFORGE_LOG_LEVEL"`

	// Definition files loaded when no file arguments are given.
	TemplateFiles []string `yaml:"template_files" env:"STATFORGE_TEMPLATE_FILES" envSeparator:","`
	StatFiles     []string `yaml:"stat_files" env:"STATFORGE_STAT_FILES" envSeparator:","`

	Store StoreConfig `yaml:"store"`
}

// StoreConfig selects where entity stat configs are kept.
type StoreConfig struct {
	Driver     string         `yaml:"driver" env:"STATFORGE_STORE_DRIVER"`
	SQLitePath string         `yaml:"sqlite_path" env:"STATFORGE_SQLITE_PATH"`
	Database   DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"STATFORGE_DB_HOST"`
	Port     int    `yaml:"port" env:"STATFORGE_DB_PORT"`
	User     string `yaml:"user" env:"STATFORGE_DB_USER"`
	Password string `yaml:"password" env:"STATFORGE_DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"STATFORGE_DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"STATFORGE_DB_SSLMODE"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultStatc returns Statc config with sensible defaults.
func DefaultStatc() Statc {
	return Statc{
		LogLevel: "info",
		Store: StoreConfig{
			Driver:     DriverSQLite,
			SQLitePath: "statforge.db",
			Database: DatabaseConfig{
				Host:     "127.0.0.1",
				Port:     5432,
				User:     "statforge",
				Password: "statforge",
				DBName:   "statforge",
				SSLMode:  "disable",
			},
		},
	}
}

// LoadStatc loads statc config from a YAML file and applies environment
// overrides. If the file doesn't exist, defaults are used.
func LoadStatc(path string) (Statc, error) {
	cfg := DefaultStatc()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg fields from STATFORGE_* environment variables.
// Unset variables leave fields untouched.
func ApplyEnv(cfg *Statc) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks values that have a closed set of options.
func (c Statc) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("store.sqlite_path is required for driver %q", DriverSQLite)
		}
	case DriverPostgres:
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}
	return nil
}

// Path returns the config path from PathEnv, or DefaultPath.
func Path() string {
	if p := os.Getenv(PathEnv); p != "" {
		return p
	}
	return DefaultPath
}
