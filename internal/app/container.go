package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	"github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/slotwise/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	slotQueries "github.com/felixgeelhaar/slotwise/internal/slots/application/queries"
	"github.com/felixgeelhaar/slotwise/internal/slots/application/services"
	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Observability
	Metrics    observability.Metrics
	Prometheus *observability.PrometheusMetrics // nil when metrics are disabled
	Health     *observability.HealthRegistry

	// Repositories
	ProfileRepo profileDomain.Repository

	// Calendar
	CalendarProvider calendarApp.BusyEventProvider // nil when no provider is configured

	// Engine
	Engine *services.SlotEngine

	// Handlers
	ComputeSlotsHandler  *slotQueries.ComputeSlotsHandler
	UpdateProfileHandler *profileCommands.UpdateProfileHandler
	GetProfileHandler    *profileQueries.GetProfileHandler

	// DefaultUserID is used when a caller does not identify itself.
	DefaultUserID uuid.UUID
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config: cfg,
		Logger: logger,
		Health: observability.NewHealthRegistry(),
	}

	if cfg.MetricsEnabled {
		c.Prometheus = observability.NewPrometheusMetrics("slotwise")
		c.Metrics = c.Prometheus
	} else {
		c.Metrics = observability.NoopMetrics{}
	}

	if cfg.UserID != "" {
		id, err := uuid.Parse(cfg.UserID)
		if err != nil {
			return nil, fmt.Errorf("invalid SLOTWISE_USER_ID: %w", err)
		}
		c.DefaultUserID = id
	}

	engineConfig, err := EngineConfig(cfg)
	if err != nil {
		return nil, err
	}
	c.Engine = services.NewSlotEngine(engineConfig, logger.With("component", "slot_engine"))

	// Open the profile store and bring its schema up to date
	conn, err := database.NewConnection(ctx, database.Config{
		Driver:     database.Driver(cfg.DatabaseDriver),
		URL:        cfg.DatabaseURL,
		SQLitePath: sqlitePath(cfg),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))
	logger.Info("connected to database", "driver", c.DBDriver.String())

	c.ProfileRepo, err = NewProfileRepository(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	c.CalendarProvider, err = NewBusyEventProvider(cfg, time.Local, c.Metrics, logger.With("component", "calendar"))
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to configure calendar provider: %w", err)
	}
	if rp, ok := c.CalendarProvider.(*calendarApp.ResilientProvider); ok {
		c.Health.Register("calendar", observability.ProviderHealthChecker(rp.Name(), rp.State))
		logger.Info("calendar provider configured", "provider", rp.Name())
	}

	c.ComputeSlotsHandler = slotQueries.NewComputeSlotsHandler(c.Engine, c.ProfileRepo, c.CalendarProvider, c.Metrics, logger)
	c.UpdateProfileHandler = profileCommands.NewUpdateProfileHandler(c.ProfileRepo)
	c.GetProfileHandler = profileQueries.NewGetProfileHandler(c.ProfileRepo)

	return c, nil
}

// Close releases all resources.
func (c *Container) Close() error {
	if c.DBConn != nil {
		return c.DBConn.Close()
	}
	return nil
}

// EngineConfig derives the slot engine configuration from application config.
func EngineConfig(cfg *config.Config) (services.EngineConfig, error) {
	ec := services.DefaultEngineConfig()
	ec.DefaultHorizon = cfg.DefaultHorizon()
	ec.MaxHorizon = cfg.MaxHorizon()
	ec.Granularity = cfg.Granularity
	ec.Grace = cfg.Grace
	ec.ShortlistSize = cfg.ShortlistSize

	start, err := domain.ParseTimeOfDay(cfg.DayStart)
	if err != nil {
		return ec, fmt.Errorf("invalid SLOTWISE_DAY_START: %w", err)
	}
	end, err := domain.ParseTimeOfDay(cfg.DayEnd)
	if err != nil {
		return ec, fmt.Errorf("invalid SLOTWISE_DAY_END: %w", err)
	}
	window := domain.DailyWindow{Start: start, End: end}
	if err := window.Validate(); err != nil {
		return ec, fmt.Errorf("invalid day window %s: %w", window, err)
	}
	ec.Availability.DayWindow = window
	return ec, nil
}

func sqlitePath(cfg *config.Config) string {
	if cfg.DatabaseURL != "" && cfg.SQLitePath == "" {
		// let the factory derive the path from a sqlite:// URL
		return ""
	}
	return cfg.ResolvedSQLitePath()
}
