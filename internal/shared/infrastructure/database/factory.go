package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config selects and configures the profile store backend.
type Config struct {
	// Driver is detected from URL when empty or "auto".
	Driver Driver
	// URL is the PostgreSQL connection string.
	URL string
	// SQLitePath defaults to ~/.slotwise/slotwise.db.
	SQLitePath string
	// MaxConns caps the PostgreSQL pool size.
	MaxConns int
}

// Connection is an open store. Concrete connections expose their native
// handle (*sql.DB or *pgxpool.Pool) for repositories.
type Connection interface {
	Driver() Driver
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close() error
}

// Opener opens a connection for one driver.
type Opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]Opener{}

// Register makes a driver available to NewConnection. Driver packages call it from init.
func Register(driver Driver, open Opener) {
	openers[driver] = open
}

// NewConnection opens a connection for the configured or detected driver.
func NewConnection(ctx context.Context, cfg Config) (Connection, error) {
	driver := cfg.Driver
	if driver == "" || driver == "auto" {
		driver = DetectDriver(cfg.URL)
	}
	if driver == DriverSQLite && cfg.SQLitePath == "" && cfg.URL != "" {
		cfg.SQLitePath = strings.TrimPrefix(cfg.URL, "sqlite://")
	}

	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath returns the per-user database location.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".slotwise", "slotwise.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
