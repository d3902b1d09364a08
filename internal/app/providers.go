package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	calendarDomain "github.com/felixgeelhaar/slotwise/internal/calendar/domain"
	"github.com/felixgeelhaar/slotwise/internal/calendar/infrastructure/caldav"
	"github.com/felixgeelhaar/slotwise/internal/calendar/infrastructure/google"
	"github.com/felixgeelhaar/slotwise/internal/calendar/infrastructure/ics"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

// NewBusyEventProvider builds the configured calendar provider. It returns
// nil for ProviderNone. Remote providers are wrapped in a circuit breaker.
func NewBusyEventProvider(cfg *config.Config, loc *time.Location, metrics observability.Metrics, logger *slog.Logger) (calendarApp.BusyEventProvider, error) {
	kind, err := calendarDomain.ParseProviderType(cfg.CalendarProvider)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	var provider calendarApp.BusyEventProvider
	switch kind {
	case calendarDomain.ProviderNone:
		return nil, nil

	case calendarDomain.ProviderICS:
		if cfg.ICSSource == "" {
			return nil, fmt.Errorf("%s provider requires CALENDAR_ICS_SOURCE", kind)
		}
		provider = ics.NewProvider(cfg.ICSSource, loc, logger)

	case calendarDomain.ProviderCalDAV:
		baseURL := cfg.CalDAVURL
		if baseURL == "" {
			baseURL = defaultCalDAVURL(cfg.CalendarProvider)
		}
		if baseURL == "" {
			return nil, fmt.Errorf("%s provider requires CALDAV_URL", kind)
		}
		p := caldav.NewProvider(baseURL, cfg.CalDAVUsername, cfg.CalDAVPassword, logger).WithLocation(loc)
		if cfg.CalDAVCalendarPath != "" {
			p = p.WithCalendarPath(cfg.CalDAVCalendarPath)
		}
		provider = p

	case calendarDomain.ProviderGoogle:
		if cfg.GoogleClientID == "" || cfg.GoogleRefreshToken == "" {
			return nil, fmt.Errorf("%s provider requires GOOGLE_CLIENT_ID and GOOGLE_REFRESH_TOKEN", kind)
		}
		tokens := google.NewRefreshTokenSource(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRefreshToken)
		provider = google.NewProvider(tokens, logger).WithCalendarID(cfg.GoogleCalendarID)

	default:
		return nil, fmt.Errorf("unsupported calendar provider: %s", kind)
	}

	if !kind.IsRemote() {
		return provider, nil
	}
	return calendarApp.NewResilientProvider(kind.String(), provider, breakerConfig(cfg), metrics, logger), nil
}

func breakerConfig(cfg *config.Config) calendarApp.BreakerConfig {
	bc := calendarApp.DefaultBreakerConfig()
	if cfg.BreakerFailureThreshold > 0 {
		bc.FailureThreshold = uint32(cfg.BreakerFailureThreshold)
	}
	if cfg.BreakerTimeout > 0 {
		bc.Timeout = cfg.BreakerTimeout
	}
	if cfg.BreakerInterval > 0 {
		bc.Interval = cfg.BreakerInterval
	}
	if cfg.BreakerCallTimeout > 0 {
		bc.CallTimeout = cfg.BreakerCallTimeout
	}
	return bc
}

// defaultCalDAVURL maps hosted CalDAV aliases to their well-known servers.
func defaultCalDAVURL(alias string) string {
	switch strings.ToLower(strings.TrimSpace(alias)) {
	case "apple", "icloud":
		return caldav.AppleCalDAVURL
	case "fastmail":
		return caldav.FastmailCalDAVURL
	default:
		return ""
	}
}
