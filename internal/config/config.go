package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	API      APIConfig
	Logger   LoggerConfig
	State    StateConfig
	Database DatabaseConfig
	S3       S3Config
	Cart     CartConfig
	Tracking TrackingConfig
}

// APIConfig holds settings for the remote restaurant API.
type APIConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// StateConfig selects where local state (guest id, auth, address) is persisted.
type StateConfig struct {
	Backend string // "file", "memory", "postgres" or "s3"
	Dir     string
}

// DatabaseConfig holds settings for the Postgres state backend.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// S3Config holds AWS S3 settings for the S3 state backend.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // key prefix within the bucket (e.g., "storefront/")
}

// CartConfig holds cart composer settings.
type CartConfig struct {
	QuantityDebounce time.Duration
}

// TrackingConfig holds visitor beacon settings.
type TrackingConfig struct {
	Enabled         bool
	SectionDebounce time.Duration
	UserAgent       string // empty means the platform default
	Ref             string
}

// Backend names accepted by STATE_BACKEND.
const (
	BackendFile     = "file"
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendS3       = "s3"
)

// Load loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:  getEnv("STOREFRONT_API_URL", "http://localhost:8000"),
			Timeout:  getEnvAsDuration("STOREFRONT_API_TIMEOUT", 15*time.Second),
			CacheTTL: getEnvAsDuration("STOREFRONT_CACHE_TTL", 30*time.Second),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		State: StateConfig{
			Backend: getEnv("STATE_BACKEND", BackendFile),
			Dir:     getEnv("STATE_DIR", defaultStateDir()),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 5),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 1),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "storefront/"),
		},
		Cart: CartConfig{
			QuantityDebounce: getEnvAsDuration("CART_QUANTITY_DEBOUNCE", time.Second),
		},
		Tracking: TrackingConfig{
			Enabled:         getEnvAsBool("TRACKING_ENABLED", true),
			SectionDebounce: getEnvAsDuration("TRACKING_SECTION_DEBOUNCE", 500*time.Millisecond),
			UserAgent:       getEnv("TRACKING_USER_AGENT", ""),
			Ref:             getEnv("TRACKING_REF", "direct"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL: %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid API base URL scheme: %s (must be http or https)", u.Scheme)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API timeout must be positive")
	}

	if c.API.CacheTTL < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
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

	switch c.State.Backend {
	case BackendMemory:
	case BackendFile:
		if c.State.Dir == "" {
			return fmt.Errorf("state directory is required for the file backend")
		}
	case BackendPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case BackendS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required for the s3 backend")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required for the s3 backend")
		}
	default:
		return fmt.Errorf("invalid state backend: %s (must be file, memory, postgres, or s3)", c.State.Backend)
	}

	if c.Cart.QuantityDebounce <= 0 {
		return fmt.Errorf("cart quantity debounce must be positive")
	}

	if c.Tracking.SectionDebounce <= 0 {
		return fmt.Errorf("tracking section debounce must be positive")
	}

	return nil
}

func (c *DatabaseConfig) validate() error {
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

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDuration retrieves an environment variable as a duration ("1s", "500ms")
// or returns a default value.
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
