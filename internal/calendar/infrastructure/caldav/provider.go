package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	"github.com/felixgeelhaar/slotwise/internal/calendar/infrastructure/ics"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// Common CalDAV server URLs
const (
	AppleCalDAVURL    = "https://caldav.icloud.com"
	FastmailCalDAVURL = "https://caldav.fastmail.com"
)

// Provider reads busy events from a CalDAV calendar (Apple Calendar, Fastmail, Nextcloud, etc.).
type Provider struct {
	baseURL      string
	username     string
	password     string // App-specific password for Apple
	calendarPath string // Specific calendar path, or empty for the first one found
	loc          *time.Location
	httpClient   *http.Client
	logger       *slog.Logger
}

// NewProvider creates a CalDAV busy-event provider.
func NewProvider(baseURL, username, password string, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		baseURL:    baseURL,
		username:   username,
		password:   password,
		loc:        time.UTC,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// WithCalendarPath sets the specific calendar path to use.
func (p *Provider) WithCalendarPath(path string) *Provider {
	p.calendarPath = path
	return p
}

// WithLocation sets the zone used for floating event times.
func (p *Provider) WithLocation(loc *time.Location) *Provider {
	if loc != nil {
		p.loc = loc
	}
	return p
}

// BusyEvents queries the calendar for VEVENTs overlapping [start, end).
func (p *Provider) BusyEvents(ctx context.Context, _ uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	client, err := p.getClient()
	if err != nil {
		return nil, err
	}

	calPath, err := p.findCalendarPath(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendar: %w", err)
	}

	objects, err := client.QueryCalendar(ctx, calPath, calendarQuery(start, end))
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar: %w", err)
	}

	events := busyEventsFromObjects(objects, start, end, p.loc)
	p.logger.DebugContext(ctx, "caldav events loaded", "calendar", calPath, "objects", len(objects), "events", len(events))
	return events, nil
}

func (p *Provider) getClient() (*caldav.Client, error) {
	client, err := caldav.NewClient(webdav.HTTPClientWithBasicAuth(p.httpClient, p.username, p.password), p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return client, nil
}

func (p *Provider) findCalendarPath(ctx context.Context, client *caldav.Client) (string, error) {
	if p.calendarPath != "" {
		return p.calendarPath, nil
	}

	principal, err := client.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal: %w", err)
	}

	homeSet, err := client.FindCalendarHomeSet(ctx, principal)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	cals, err := client.FindCalendars(ctx, homeSet)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	if len(cals) == 0 {
		return "", fmt.Errorf("no calendars found")
	}

	// First calendar is usually the default
	p.calendarPath = cals[0].Path
	return p.calendarPath, nil
}

// calendarQuery asks for the full VEVENTs so recurrences can be expanded locally.
func calendarQuery(start, end time.Time) *caldav.CalendarQuery {
	return &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     "VCALENDAR",
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name: "VCALENDAR",
			Comps: []caldav.CompFilter{
				{
					Name:  ical.CompEvent,
					Start: start,
					End:   end,
				},
			},
		},
	}
}

func busyEventsFromObjects(objects []caldav.CalendarObject, start, end time.Time, loc *time.Location) []slots.CalendarBusyEvent {
	var events []slots.CalendarBusyEvent
	for _, obj := range objects {
		if obj.Data == nil {
			continue
		}
		events = append(events, ics.Expand(obj.Data, start, end, loc)...)
	}
	return events
}

var _ calendarApp.BusyEventProvider = (*Provider)(nil)
