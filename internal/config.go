package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Persistence modes.
const (
	PersistenceEnabled  = "enabled"
	PersistenceDisabled = "disabled"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Content ContentConfig     `yaml:"content"`
	SQLite  SQLiteConfig      `yaml:"sqlite"`
	Publish PublishConfig     `yaml:"publish"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Content.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Publish.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ContentConfig holds the path to the article content directory.
type ContentConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the content configuration.
func (c *ContentConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// PublishConfig holds the publication toggles. Both are read once at
// process start and fixed for the process lifetime.
//
// Persistence controls whether resolved article state is written to the
// store at all:
//   - "enabled" (default): batches are persisted per article.
//   - "disabled": the store receives zero write calls; the pipeline runs
//     purely in memory.
type PublishConfig struct {
	DraftsVisible bool          `yaml:"drafts_visible"`
	Persistence   string        `yaml:"persistence"`
	StoreTimeout  time.Duration `yaml:"store_timeout"`
}

// Validate validates the publish configuration.
func (c *PublishConfig) Validate() error {
	// Normalise empty mode to "enabled" so a config without a publish
	// section keeps durable behaviour.
	if c.Persistence == "" {
		c.Persistence = PersistenceEnabled
	}
	if c.StoreTimeout == 0 {
		c.StoreTimeout = 5 * time.Second
	}
	if c.StoreTimeout < 0 {
		return fmt.Errorf("publish: store_timeout must be positive")
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Persistence, validation.Required, validation.In(PersistenceEnabled, PersistenceDisabled)),
	)
}

// PersistenceEnabled returns true when batches are written to the store.
func (c *PublishConfig) PersistenceEnabled() bool {
	return c.Persistence == PersistenceEnabled
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Content: ContentConfig{
			Path: "./content",
		},
		SQLite: SQLiteConfig{
			Path: "./emphasize.db",
		},
		Publish: PublishConfig{
			DraftsVisible: false,
			Persistence:   PersistenceEnabled,
			StoreTimeout:  5 * time.Second,
		},
	}
}
