package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jaehui/notisync/internal/syncer"
)

// Store backends.
const (
	BackendNotion = "notion"
	BackendSQLite = "sqlite"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Calendar CalendarConfig    `yaml:"calendar"`
	Store    StoreConfig       `yaml:"store"`
	Sync     SyncConfig        `yaml:"sync"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Calendar.Validate(); err != nil {
		return err
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return c.Sync.Validate()
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

// HTTPConfig holds the serve-mode HTTP configuration.
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

// CalendarConfig identifies the source calendar and its credentials.
type CalendarConfig struct {
	ID              string `yaml:"id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// Validate validates the calendar configuration.
func (c *CalendarConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.ID, validation.Required),
		validation.Field(&c.CredentialsFile, validation.Required),
	)
}

// StoreConfig selects and configures the record store backend.
//
// Backend controls where synced records live:
//   - "notion" (default): pages in a Notion database.
//   - "sqlite": a local database file, for offline runs.
type StoreConfig struct {
	Backend string       `yaml:"backend"`
	Notion  NotionConfig `yaml:"notion"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

// Validate validates the store configuration.
func (c *StoreConfig) Validate() error {
	// Normalise empty backend to notion for minimal configs.
	if c.Backend == "" {
		c.Backend = BackendNotion
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendNotion, BackendSQLite)),
	); err != nil {
		return err
	}
	switch c.Backend {
	case BackendNotion:
		return c.Notion.Validate()
	default:
		return c.SQLite.Validate()
	}
}

// NotionConfig holds the Notion integration token, the target database,
// and the database's property names. The token is normally supplied via
// environment expansion (token: ${NOTION_TOKEN}).
type NotionConfig struct {
	Token              string `yaml:"token"`
	DatabaseID         string `yaml:"database_id"`
	TitleProperty      string `yaml:"title_property"`
	DateProperty       string `yaml:"date_property"`
	ExternalIDProperty string `yaml:"external_id_property"`
}

// Validate validates the Notion configuration.
func (c *NotionConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.DatabaseID, validation.Required),
	)
}

// SQLiteConfig holds the local record-store database path.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// SyncConfig holds the reconciler and window settings.
type SyncConfig struct {
	// Window selects the pass window: "current-month" or "rolling-24h".
	Window string `yaml:"window"`
	// Timezone is the fixed UTC offset windows are computed in, "+09:00" form.
	Timezone string `yaml:"timezone"`
	// UntitledTitle is substituted for events that arrive without a title.
	UntitledTitle string `yaml:"untitled_title"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Window, validation.Required,
			validation.In(syncer.StrategyCurrentMonth, syncer.StrategyRolling24h)),
		validation.Field(&c.Timezone, validation.Required),
	); err != nil {
		return err
	}
	if _, err := syncer.ParseOffset(c.Timezone); err != nil {
		return fmt.Errorf("sync: %w", err)
	}
	return nil
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
		Store: StoreConfig{
			Backend: BackendNotion,
			SQLite: SQLiteConfig{
				Path: "./notisync.db",
			},
		},
		Sync: SyncConfig{
			Window:        syncer.StrategyCurrentMonth,
			Timezone:      "+09:00",
			UntitledTitle: "Untitled",
		},
	}
}
