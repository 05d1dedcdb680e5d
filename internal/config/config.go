package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverEmbedded = "embedded"
	DriverPostgres = "postgres"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Source    SourceConfig    `yaml:"source"`
	Feed      FeedConfig      `yaml:"feed"`
	Home      HomeConfig      `yaml:"home"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Activity  ActivityConfig  `yaml:"activity"`
	Tailscale TailscaleConfig `yaml:"tailscale"`
	Log       LogConfig       `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// SourceConfig selects where workouts come from.
type SourceConfig struct {
	Remote  bool          `yaml:"remote"`
	BaseURL string        `yaml:"base_url"`
	Delay   time.Duration `yaml:"delay"`
}

type FeedConfig struct {
	StaleTime time.Duration `yaml:"stale_time"`
	Retries   int           `yaml:"retries"`
	Backoff   time.Duration `yaml:"backoff"`
	CacheMB   int           `yaml:"cache_mb"`
}

type HomeConfig struct {
	WeeklyGoal  int    `yaml:"weekly_goal"`
	Unit        string `yaml:"unit"`
	RecentLimit int    `yaml:"recent_limit"`
}

type CatalogConfig struct {
	Driver string `yaml:"driver"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns    int           `yaml:"max_conns"`
	MaxConnIdle time.Duration `yaml:"max_conn_idle"`
}

type AuthConfig struct {
	APIKey string `yaml:"api_key"`
}

type ActivityConfig struct {
	StateDir string `yaml:"state_dir"`
}

type TailscaleConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Hostname string `yaml:"hostname"`
	StateDir string `yaml:"state_dir"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Source: SourceConfig{Delay: 400 * time.Millisecond},
		Feed: FeedConfig{
			StaleTime: 5 * time.Minute,
			Retries:   2,
			Backoff:   500 * time.Millisecond,
			CacheMB:   8,
		},
		Home:      HomeConfig{WeeklyGoal: 150, Unit: "mins", RecentLimit: 5},
		Catalog:   CatalogConfig{Driver: DriverEmbedded},
		Database:  DatabaseConfig{Port: 5432, SSLMode: "disable"},
		Activity:  ActivityConfig{StateDir: "~/.fitfeed"},
		Tailscale: TailscaleConfig{Hostname: "fitfeed"},
		Log:       LogConfig{Level: "info", Format: "text"},
	}
}

// DSN returns a PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	sslmode := d.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, sslmode)
}

// Dir returns the state directory with a leading ~ expanded.
func (a ActivityConfig) Dir() (string, error) {
	if a.StateDir != "~" && !strings.HasPrefix(a.StateDir, "~/") {
		return a.StateDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(a.StateDir, "~")), nil
}

// NewLogger builds the process logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Load reads config from a YAML file over the defaults, then applies
// environment variable overrides. Env vars use the prefix FITFEED_ and
// underscore-separated paths:
//
//	FITFEED_SERVER_HOST, FITFEED_SERVER_PORT,
//	FITFEED_SOURCE_REMOTE, FITFEED_SOURCE_BASE_URL, FITFEED_SOURCE_DELAY,
//	FITFEED_CATALOG_DRIVER,
//	FITFEED_DB_HOST, FITFEED_DB_PORT, FITFEED_DB_NAME,
//	FITFEED_DB_USER, FITFEED_DB_PASSWORD, FITFEED_DB_SSLMODE,
//	FITFEED_AUTH_API_KEY, FITFEED_ACTIVITY_STATE_DIR, FITFEED_LOG_LEVEL
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return finish(cfg)
}

// LoadOptional is Load, except that a missing file means the defaults.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return finish(Default())
	}
	return cfg, err
}

func finish(cfg *Config) (*Config, error) {
	applyEnvOverrides(cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FITFEED_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("FITFEED_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("FITFEED_SOURCE_REMOTE"); v != "" {
		if remote, err := strconv.ParseBool(v); err == nil {
			cfg.Source.Remote = remote
		}
	}
	if v := os.Getenv("FITFEED_SOURCE_BASE_URL"); v != "" {
		cfg.Source.BaseURL = v
	}
	if v := os.Getenv("FITFEED_SOURCE_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Source.Delay = d
		}
	}
	if v := os.Getenv("FITFEED_CATALOG_DRIVER"); v != "" {
		cfg.Catalog.Driver = v
	}
	if v := os.Getenv("FITFEED_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("FITFEED_DB_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("FITFEED_DB_NAME"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("FITFEED_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("FITFEED_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("FITFEED_DB_SSLMODE"); v != "" {
		cfg.Database.SSLMode = v
	}
	if v := os.Getenv("FITFEED_AUTH_API_KEY"); v != "" {
		cfg.Auth.APIKey = v
	}
	if v := os.Getenv("FITFEED_ACTIVITY_STATE_DIR"); v != "" {
		cfg.Activity.StateDir = v
	}
	if v := os.Getenv("FITFEED_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port == 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Source.Remote && c.Source.BaseURL == "" {
		return fmt.Errorf("source.base_url is required when source.remote is set")
	}
	if c.Source.Delay < 0 {
		return fmt.Errorf("source.delay must not be negative")
	}
	if c.Feed.StaleTime < 0 {
		return fmt.Errorf("feed.stale_time must not be negative")
	}
	if c.Feed.Retries < 0 {
		return fmt.Errorf("feed.retries must not be negative")
	}
	if c.Feed.Backoff < 0 {
		return fmt.Errorf("feed.backoff must not be negative")
	}

	switch c.Catalog.Driver {
	case DriverEmbedded:
	case DriverPostgres:
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required")
		}
		if c.Database.Port == 0 {
			return fmt.Errorf("database.port is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("database.name is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("database.user is required")
		}
		if c.Database.MaxConns < 0 {
			return fmt.Errorf("database.max_conns must not be negative")
		}
		if c.Auth.APIKey == "" {
			return fmt.Errorf("auth.api_key is required")
		}
	default:
		return fmt.Errorf("catalog.driver must be %q or %q, got %q", DriverEmbedded, DriverPostgres, c.Catalog.Driver)
	}

	if c.Log.Format != "" && c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	return nil
}
