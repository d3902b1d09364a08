package cli

import (
	"log/slog"

	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	profileCommands "github.com/felixgeelhaar/slotwise/internal/profile/application/commands"
	profileQueries "github.com/felixgeelhaar/slotwise/internal/profile/application/queries"
	profileDomain "github.com/felixgeelhaar/slotwise/internal/profile/domain"
	slotQueries "github.com/felixgeelhaar/slotwise/internal/slots/application/queries"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Slot computation
	Engine              slotQueries.SlotComputer
	ComputeSlotsHandler *slotQueries.ComputeSlotsHandler

	// Profile
	ProfileRepo          profileDomain.Repository
	GetProfileHandler    *profileQueries.GetProfileHandler
	UpdateProfileHandler *profileCommands.UpdateProfileHandler

	// Calendar provider from configuration; nil when none is configured
	CalendarProvider calendarApp.BusyEventProvider

	Metrics observability.Metrics
	Health  *observability.HealthRegistry
	Logger  *slog.Logger

	// WidenDays is the default widening step for --widen.
	WidenDays int

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	engine slotQueries.SlotComputer,
	profiles profileDomain.Repository,
	provider calendarApp.BusyEventProvider,
	metrics observability.Metrics,
	logger *slog.Logger,
) *App {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &App{
		Engine:               engine,
		ComputeSlotsHandler:  slotQueries.NewComputeSlotsHandler(engine, profiles, provider, metrics, logger),
		ProfileRepo:          profiles,
		GetProfileHandler:    profileQueries.NewGetProfileHandler(profiles),
		UpdateProfileHandler: profileCommands.NewUpdateProfileHandler(profiles),
		CalendarProvider:     provider,
		Metrics:              metrics,
		Logger:               logger,
		WidenDays:            slotQueries.DefaultWidenDays,
		CurrentUserID:        uuid.Nil,
	}
}

// ComputeHandlerWith returns a compute handler that reads busy events from
// provider instead of the configured one.
func (a *App) ComputeHandlerWith(provider calendarApp.BusyEventProvider) *slotQueries.ComputeSlotsHandler {
	return slotQueries.NewComputeSlotsHandler(a.Engine, a.ProfileRepo, provider, a.Metrics, a.Logger)
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(id uuid.UUID) {
	a.CurrentUserID = id
}

// SetHealth updates the health registry.
func (a *App) SetHealth(h *observability.HealthRegistry) {
	a.Health = h
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
