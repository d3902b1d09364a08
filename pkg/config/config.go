package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	// Application
	AppEnv string
	UserID string

	// Database
	DatabaseDriver string
	DatabaseURL    string
	SQLitePath     string

	// API
	APIAddr        string
	RequestTimeout time.Duration
	MetricsEnabled bool

	// MCP
	MCPAddr      string
	MCPAuthToken string

	// Engine
	DefaultHorizonDays int
	MaxHorizonDays     int
	Granularity        time.Duration
	Grace              time.Duration
	DayStart           string
	DayEnd             string
	ShortlistSize      int
	WidenDays          int

	// Calendar
	CalendarProvider   string
	ICSSource          string
	CalDAVURL          string
	CalDAVUsername     string
	CalDAVPassword     string
	CalDAVCalendarPath string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRefreshToken string
	GoogleCalendarID   string

	// Circuit breaker around the calendar provider
	BreakerFailureThreshold int
	BreakerTimeout          time.Duration
	BreakerInterval         time.Duration
	BreakerCallTimeout      time.Duration
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		UserID: getEnv("SLOTWISE_USER_ID", "00000000-0000-0000-0000-000000000001"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", ""),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		SQLitePath:     getEnv("SQLITE_PATH", ""),

		APIAddr:        getEnv("SLOTWISE_API_ADDR", "0.0.0.0:8080"),
		RequestTimeout: getDurationEnv("SLOTWISE_REQUEST_TIMEOUT", 15*time.Second),
		MetricsEnabled: getBoolEnv("SLOTWISE_METRICS_ENABLED", true),

		MCPAddr:      getEnv("SLOTWISE_MCP_ADDR", "127.0.0.1:8082"),
		MCPAuthToken: getEnv("SLOTWISE_MCP_AUTH_TOKEN", ""),

		DefaultHorizonDays: getIntEnv("SLOTWISE_DEFAULT_HORIZON_DAYS", 7),
		MaxHorizonDays:     getIntEnv("SLOTWISE_MAX_HORIZON_DAYS", 90),
		Granularity:        getDurationEnv("SLOTWISE_GRANULARITY", 15*time.Minute),
		Grace:              getDurationEnv("SLOTWISE_GRACE", 5*time.Minute),
		DayStart:           getEnv("SLOTWISE_DAY_START", "08:00"),
		DayEnd:             getEnv("SLOTWISE_DAY_END", "21:00"),
		ShortlistSize:      getIntEnv("SLOTWISE_SHORTLIST_SIZE", 3),
		WidenDays:          getIntEnv("SLOTWISE_WIDEN_DAYS", 14),

		CalendarProvider:   getEnv("CALENDAR_PROVIDER", ""),
		ICSSource:          getEnv("CALENDAR_ICS_SOURCE", ""),
		CalDAVURL:          getEnv("CALDAV_URL", ""),
		CalDAVUsername:     getEnv("CALDAV_USERNAME", ""),
		CalDAVPassword:     getEnv("CALDAV_PASSWORD", ""),
		CalDAVCalendarPath: getEnv("CALDAV_CALENDAR_PATH", ""),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),
		GoogleCalendarID:   getEnv("GOOGLE_CALENDAR_ID", "primary"),

		BreakerFailureThreshold: getIntEnv("CALENDAR_BREAKER_FAILURES", 3),
		BreakerTimeout:          getDurationEnv("CALENDAR_BREAKER_TIMEOUT", 30*time.Second),
		BreakerInterval:         getDurationEnv("CALENDAR_BREAKER_INTERVAL", time.Minute),
		BreakerCallTimeout:      getDurationEnv("CALENDAR_CALL_TIMEOUT", 10*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be corrected by falling back to defaults.
func (c *Config) Validate() error {
	if c.DefaultHorizonDays <= 0 {
		return fmt.Errorf("SLOTWISE_DEFAULT_HORIZON_DAYS must be positive, got %d", c.DefaultHorizonDays)
	}
	if c.MaxHorizonDays < c.DefaultHorizonDays {
		return fmt.Errorf("SLOTWISE_MAX_HORIZON_DAYS (%d) must be at least the default horizon (%d)",
			c.MaxHorizonDays, c.DefaultHorizonDays)
	}
	if c.Granularity <= 0 {
		return fmt.Errorf("SLOTWISE_GRANULARITY must be positive, got %s", c.Granularity)
	}
	if c.ShortlistSize <= 0 {
		return fmt.Errorf("SLOTWISE_SHORTLIST_SIZE must be positive, got %d", c.ShortlistSize)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// DefaultHorizon returns the default search length.
func (c *Config) DefaultHorizon() time.Duration {
	return time.Duration(c.DefaultHorizonDays) * 24 * time.Hour
}

// MaxHorizon returns the longest accepted search range.
func (c *Config) MaxHorizon() time.Duration {
	return time.Duration(c.MaxHorizonDays) * 24 * time.Hour
}

// ResolvedSQLitePath returns the SQLite file, defaulting to ~/.slotwise/slotwise.db.
func (c *Config) ResolvedSQLitePath() string {
	if c.SQLitePath != "" {
		return expandHome(c.SQLitePath)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".slotwise", "slotwise.db")
	}
	return filepath.Join(home, ".slotwise", "slotwise.db")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
