// Package config loads task manager settings from defaults, a YAML file,
// a .env file and TASKMGR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override, e.g. TASKMGR_STORE_BACKEND.
const EnvPrefix = "TASKMGR"

// Store backends.
const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config holds all task manager configuration.
type Config struct {
	API    APIConfig    `yaml:"api" mapstructure:"api"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Web    WebConfig    `yaml:"web" mapstructure:"web"`
	Client ClientConfig `yaml:"client" mapstructure:"client"`
}

// APIConfig configures the backend REST service.
type APIConfig struct {
	// Listen is the address the API server binds.
	Listen string `yaml:"listen" mapstructure:"listen"`
	// CORSOrigins lists allowed origins; "*" allows all.
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Backend is one of file, sqlite, postgres.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Path is the JSON document (file) or database file (sqlite).
	Path string `yaml:"path" mapstructure:"path"`
	// DSN is the connection string for postgres.
	DSN string `yaml:"dsn,omitempty" mapstructure:"dsn"`
}

// WebConfig configures the server-rendered board.
type WebConfig struct {
	Listen string `yaml:"listen" mapstructure:"listen"`
}

// ClientConfig configures how board clients reach the API.
type ClientConfig struct {
	APIURL  string        `yaml:"api_url" mapstructure:"api_url"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Listen:      "0.0.0.0:3000",
			CORSOrigins: []string{"*"},
		},
		Store: StoreConfig{
			Backend: BackendFile,
			Path:    "task-mgr-db.json",
		},
		Web: WebConfig{
			Listen: "127.0.0.1:8000",
		},
		Client: ClientConfig{
			APIURL:  "http://127.0.0.1:3000",
			Timeout: 5 * time.Second,
		},
	}
}

// DefaultPath returns ~/.taskmgr/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".taskmgr", "config.yaml")
	}
	return filepath.Join(home, ".taskmgr", "config.yaml")
}

// LoadDotEnv loads variables from a .env file without overriding the
// existing environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from path. An empty path means DefaultPath, which
// may be absent. An explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.listen", cfg.API.Listen)
	v.SetDefault("api.cors_origins", cfg.API.CORSOrigins)
	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.path", cfg.Store.Path)
	v.SetDefault("store.dsn", cfg.Store.DSN)
	v.SetDefault("web.listen", cfg.Web.Listen)
	v.SetDefault("client.api_url", cfg.Client.APIURL)
	v.SetDefault("client.timeout", cfg.Client.Timeout)
}

// Save writes cfg as YAML, creating parent directories if needed.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := cfg.YAML()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// YAML renders cfg in the on-disk format.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	return data, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile, BackendSQLite:
		if strings.TrimSpace(c.Store.Path) == "" {
			return fmt.Errorf("store.path is required for backend %q", c.Store.Backend)
		}
	case BackendPostgres:
		if strings.TrimSpace(c.Store.DSN) == "" {
			return fmt.Errorf("store.dsn is required for backend %q", c.Store.Backend)
		}
	default:
		return fmt.Errorf("invalid store backend %q, must be: file, sqlite, or postgres", c.Store.Backend)
	}

	if c.Client.Timeout <= 0 {
		return fmt.Errorf("client.timeout must be positive")
	}
	if strings.TrimSpace(c.Client.APIURL) == "" {
		return fmt.Errorf("client.api_url is required")
	}
	return nil
}
