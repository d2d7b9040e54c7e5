// Package config loads application configuration from environment
// variables, with defaults baked into struct tags.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	ContactLog ContactLogConfig
	Storage    StorageConfig
	Mail       MailConfig
	Log        LogConfig

	FrontendURL string `env:"FRONTEND_URL" env-default:"http://localhost:3000"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `env:"PORT"                    env-default:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the host:port the server should bind.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	MaxConns int32  `env:"DATABASE_MAX_CONNS" env-default:"25"`
	MinConns int32  `env:"DATABASE_MIN_CONNS" env-default:"5"`
}

// ContactLogConfig holds the settings for the shared contact workbook.
// Either SASURL (a pre-signed blob URL) or ConnectionString must be set for
// the contact log to be active; SASURL wins when both are present.
type ContactLogConfig struct {
	ConnectionString string `env:"AZURE_STORAGE_CONNECTION_STRING"`
	SASURL           string `env:"EXCEL_SAS_URL"`
	Container        string `env:"EXCEL_CONTAINER" env-default:"forms"`
	BlobName         string `env:"EXCEL_BLOB_NAME" env-default:"contact.xlsx"`
}

// Configured reports whether any blob destination is set.
func (c ContactLogConfig) Configured() bool {
	return c.SASURL != "" || c.ConnectionString != ""
}

// StorageConfig holds product image storage settings. When no Azure
// connection string is configured, images are stored on the local disk.
type StorageConfig struct {
	ImageContainer string `env:"AZURE_IMAGE_CONTAINER" env-default:"product-images"`
	LocalDir       string `env:"UPLOAD_DIR"            env-default:"uploads"`
	LocalURLPrefix string `env:"UPLOAD_URL_PREFIX"     env-default:"/uploads"`
}

// MailConfig holds SMTP relay settings.
type MailConfig struct {
	Host      string `env:"SMTP_HOST"`
	Port      int    `env:"SMTP_PORT" env-default:"587"`
	Username  string `env:"SMTP_USER"`
	Password  string `env:"SMTP_PASS"`
	From      string `env:"FROM_EMAIL"`
	Recipient string `env:"RECIPIENT_EMAIL" env-default:"support@vancr.in"`
}

// Configured reports whether outbound mail can be sent.
func (c MailConfig) Configured() bool {
	return c.Host != "" && c.From != ""
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads configuration from environment variables and defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that struct tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Mail.Port <= 0 || c.Mail.Port > 65535 {
		return fmt.Errorf("smtp port %d out of range", c.Mail.Port)
	}
	if c.ContactLog.Container == "" || c.ContactLog.BlobName == "" {
		return fmt.Errorf("contact log container and blob name must not be empty")
	}
	return nil
}
