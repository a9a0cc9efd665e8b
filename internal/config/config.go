package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Catalog  CatalogConfig
	Notify   NotifyConfig
	SMTP     SMTPConfig
	Redis    RedisConfig
	S3       S3Config
	Media    MediaConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `envconfig:"SERVER_PORT" default:"8080"`
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string `envconfig:"DB_HOST" default:"localhost"`
	Port            int    `envconfig:"DB_PORT" default:"5432"`
	User            string `envconfig:"DB_USER" default:"postgres"`
	Password        string `envconfig:"DB_PASSWORD"`
	Database        string `envconfig:"DB_NAME" default:"quickcart"`
	MaxConnections  int    `envconfig:"DB_MAX_CONNECTIONS" default:"25"`
	MinConnections  int    `envconfig:"DB_MIN_CONNECTIONS" default:"5"`
	MaxConnLifetime int    `envconfig:"DB_MAX_CONN_LIFETIME" default:"300"` // seconds
	AutoMigrate     bool   `envconfig:"DB_AUTO_MIGRATE" default:"false"`
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"` // "json" or "console"
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// APIKey guards the admin endpoints.
	APIKey            string `envconfig:"API_KEY"`
	JWTSecret         string `envconfig:"JWT_SECRET"`
	JWTIssuer         string `envconfig:"JWT_ISSUER" default:"quickcart"`
	JWTExpiryMinutes  int    `envconfig:"JWT_EXPIRATION_MINUTES" default:"1440"`
	PasswordMinLength int    `envconfig:"PASSWORD_MIN_LENGTH" default:"8"`
}

// TokenTTL returns the lifetime of issued access tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.JWTExpiryMinutes) * time.Minute
}

// CatalogConfig holds catalogue browsing configuration.
type CatalogConfig struct {
	PageSize int `envconfig:"CATALOG_PAGE_SIZE" default:"12"`
}

// NotifyConfig controls the order confirmation email.
type NotifyConfig struct {
	Enabled     bool          `envconfig:"ENABLE_EMAIL_SENDING" default:"false"`
	Driver      string        `envconfig:"NOTIFY_DRIVER" default:"log"` // "smtp" or "log"
	From        string        `envconfig:"NOTIFY_FROM" default:"no-reply@quickcart.local"`
	SkipDomains []string      `envconfig:"NOTIFY_SKIP_DOMAINS" default:"test.local"`
	SendTimeout time.Duration `envconfig:"NOTIFY_SEND_TIMEOUT" default:"10s"`
}

// SMTPConfig holds the outbound mail server settings.
type SMTPConfig struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
}

// Address returns the SMTP server address.
func (c SMTPConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// RedisConfig holds the idempotency store configuration.
type RedisConfig struct {
	Enabled        bool          `envconfig:"REDIS_ENABLED" default:"false"`
	URL            string        `envconfig:"REDIS_URL"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`
}

// S3Config holds AWS S3 configuration for product images.
type S3Config struct {
	Enabled bool   `envconfig:"S3_ENABLED" default:"false"`
	Bucket  string `envconfig:"S3_BUCKET"`
	Region  string `envconfig:"S3_REGION" default:"us-east-1"`
	Prefix  string `envconfig:"S3_PREFIX" default:"products/"` // Key prefix within bucket
}

// MediaConfig holds local asset directories.
type MediaConfig struct {
	Root          string `envconfig:"MEDIA_ROOT" default:"media"`
	SeedImagesDir string `envconfig:"SEED_IMAGES_DIR" default:"imgs"`
}

// Load loads configuration from environment variables.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadTooling loads the configuration needed by the command-line tools. Only
// the database and S3 settings are validated; API secrets may be absent.
func LoadTooling() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg, err := FromEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Database.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := cfg.S3.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// FromEnv populates a Config from the process environment without validating it.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	if c.Auth.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if c.Auth.JWTExpiryMinutes < 1 {
		return fmt.Errorf("JWT expiration must be at least 1 minute")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	if c.Catalog.PageSize < 1 {
		return fmt.Errorf("catalog page size must be at least 1")
	}

	if c.Notify.Enabled {
		switch c.Notify.Driver {
		case "log":
		case "smtp":
			if c.SMTP.Host == "" {
				return fmt.Errorf("SMTP host is required when the smtp notify driver is used")
			}
		default:
			return fmt.Errorf("invalid notify driver: %s (must be smtp or log)", c.Notify.Driver)
		}
		if c.Notify.SendTimeout <= 0 {
			return fmt.Errorf("notify send timeout must be positive")
		}
	}

	if c.Redis.Enabled && c.Redis.URL == "" {
		return fmt.Errorf("redis URL is required when redis is enabled")
	}

	return c.S3.Validate()
}

// Validate checks the database settings on their own; the CLI only needs these.
func (c *DatabaseConfig) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Port)
	}

	if c.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.MinConnections > c.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	return nil
}

// Validate checks the S3 settings when S3 is enabled.
func (c *S3Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Bucket == "" {
		return fmt.Errorf("S3 bucket is required when S3 is enabled")
	}
	if c.Region == "" {
		return fmt.Errorf("S3 region is required when S3 is enabled")
	}
	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// IsSkippedDomain reports whether mail to domain should not be sent.
func (c NotifyConfig) IsSkippedDomain(domain string) bool {
	for _, d := range c.SkipDomains {
		if strings.EqualFold(strings.TrimSpace(d), domain) {
			return true
		}
	}
	return false
}
