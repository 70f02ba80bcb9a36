package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Storage  StorageConfig  `yaml:"storage"`
	JWT      JWTConfig      `yaml:"jwt"`
	Log      LogConfig      `yaml:"log"`
	Feed     FeedConfig     `yaml:"feed"`
	Content  ContentConfig  `yaml:"content"`
	Profile  ProfileConfig  `yaml:"profile"`
	Cache    CacheConfig    `yaml:"cache"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

// StorageConfig selects the storage backend
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
}

// FeedConfig bounds feed pagination
type FeedConfig struct {
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
}

// ContentConfig holds the maximum lengths of user supplied text
type ContentConfig struct {
	MaxCaption  int `yaml:"max_caption"`
	MaxRef      int `yaml:"max_ref"`
	MaxCategory int `yaml:"max_category"`
	MaxComment  int `yaml:"max_comment"`
	MaxHandle   int `yaml:"max_handle"`
	MaxName     int `yaml:"max_name"`
	MaxBio      int `yaml:"max_bio"`
}

// ProfileConfig holds the values used when optional profile fields are absent
type ProfileConfig struct {
	DefaultName string `yaml:"default_name"`
	DefaultBio  string `yaml:"default_bio"`
	PostsLimit  int    `yaml:"posts_limit"`
}

// CacheConfig sizes the post detail cache. Size 0 disables it.
type CacheConfig struct {
	Size int           `yaml:"size"`
	TTL  time.Duration `yaml:"ttl"`
}

// MetricsConfig holds Prometheus configuration
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates the result
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Host, "0.0.0.0")
	setDefault(&c.Server.Port, 8080)
	setDefault(&c.Server.ShutdownTimeout, 15*time.Second)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")

	setDefault(&c.Storage.Driver, DriverPostgres)
	setDefault(&c.JWT.TTL, 365*24*time.Hour)
	setDefault(&c.Log.Level, "info")

	setDefault(&c.Feed.DefaultPageSize, 10)
	setDefault(&c.Feed.MaxPageSize, 50)

	setDefault(&c.Content.MaxCaption, 255)
	setDefault(&c.Content.MaxRef, 255)
	setDefault(&c.Content.MaxCategory, 50)
	setDefault(&c.Content.MaxComment, 500)
	setDefault(&c.Content.MaxHandle, 80)
	setDefault(&c.Content.MaxName, 100)
	setDefault(&c.Content.MaxBio, 250)

	setDefault(&c.Profile.PostsLimit, 30)
	setDefault(&c.Cache.TTL, 30*time.Second)
	setDefault(&c.Metrics.Namespace, "feed")
}

// Validate reports inconsistent settings
func (c *Config) Validate() error {
	var errs []error
	if c.Storage.Driver != DriverPostgres && c.Storage.Driver != DriverMemory {
		errs = append(errs, fmt.Errorf("storage.driver must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Storage.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt.secret is required"))
	}
	if c.Feed.MaxPageSize < 1 {
		errs = append(errs, errors.New("feed.max_page_size must be positive"))
	}
	if c.Feed.DefaultPageSize < 1 || c.Feed.DefaultPageSize > c.Feed.MaxPageSize {
		errs = append(errs, fmt.Errorf("feed.default_page_size must be within [1, %d]", c.Feed.MaxPageSize))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, errors.New("cache.size must not be negative"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Addr returns the listen address of the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}
