package google

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Endpoint is Google's OAuth2 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// TokenSourceProvider yields OAuth2 credentials for a user.
type TokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// RefreshTokenSource serves every user from one offline refresh token, the
// single-user setup the CLI and a self-hosted API use.
type RefreshTokenSource struct {
	config       *oauth2.Config
	refreshToken string
}

// NewRefreshTokenSource creates a token source for a Google OAuth client.
func NewRefreshTokenSource(clientID, clientSecret, refreshToken string) *RefreshTokenSource {
	return &RefreshTokenSource{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/calendar.readonly"},
		},
		refreshToken: refreshToken,
	}
}

func (s *RefreshTokenSource) TokenSource(ctx context.Context, _ uuid.UUID) (oauth2.TokenSource, error) {
	if s.refreshToken == "" {
		return nil, fmt.Errorf("google refresh token not configured")
	}
	return s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: s.refreshToken}), nil
}

// Provider reads busy events from Google Calendar.
type Provider struct {
	tokens     TokenSourceProvider
	logger     *slog.Logger
	baseURL    string
	calendarID string
}

// NewProvider creates a Google Calendar provider reading the primary calendar.
func NewProvider(tokens TokenSourceProvider, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{
		tokens:     tokens,
		logger:     logger,
		baseURL:    defaultBaseURL,
		calendarID: "primary",
	}
}

// WithBaseURL points the provider at another API root.
func (p *Provider) WithBaseURL(baseURL string) *Provider {
	if baseURL != "" {
		p.baseURL = baseURL
	}
	return p
}

// WithCalendarID sets the calendar to read.
func (p *Provider) WithCalendarID(calendarID string) *Provider {
	if calendarID != "" {
		p.calendarID = calendarID
	}
	return p
}

type eventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
	TimeZone string `json:"timeZone"`
}

type eventList struct {
	TimeZone      string `json:"timeZone"`
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID           string    `json:"id"`
		Summary      string    `json:"summary"`
		Status       string    `json:"status"`
		Transparency string    `json:"transparency"`
		Start        eventTime `json:"start"`
		End          eventTime `json:"end"`
	} `json:"items"`
}

// BusyEvents lists the calendar's expanded events overlapping [start, end).
func (p *Provider) BusyEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	if p.tokens == nil {
		return nil, fmt.Errorf("oauth service not configured")
	}
	tokenSource, err := p.tokens.TokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Timeout: 15 * time.Second,
		Transport: &oauth2.Transport{
			Base:   http.DefaultTransport,
			Source: tokenSource,
		},
	}

	var events []slots.CalendarBusyEvent
	pageToken := ""
	for {
		page, err := p.listPage(ctx, client, start, end, pageToken)
		if err != nil {
			return nil, err
		}
		events = append(events, convertItems(page, start, end)...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	p.logger.DebugContext(ctx, "google events loaded", "calendar_id", p.calendarID, "events", len(events))
	return events, nil
}

func (p *Provider) listPage(ctx context.Context, client *http.Client, start, end time.Time, pageToken string) (*eventList, error) {
	query := url.Values{}
	query.Set("timeMin", start.UTC().Format(time.RFC3339))
	query.Set("timeMax", end.UTC().Format(time.RFC3339))
	query.Set("singleEvents", "true")
	query.Set("orderBy", "startTime")
	query.Set("showDeleted", "false")
	if pageToken != "" {
		query.Set("pageToken", pageToken)
	}
	listURL := fmt.Sprintf("%s/calendars/%s/events?%s", p.baseURL, url.PathEscape(p.calendarID), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var page eventList
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

func convertItems(page *eventList, start, end time.Time) []slots.CalendarBusyEvent {
	calLoc := time.UTC
	if page.TimeZone != "" {
		if loc, err := time.LoadLocation(page.TimeZone); err == nil {
			calLoc = loc
		}
	}

	events := make([]slots.CalendarBusyEvent, 0, len(page.Items))
	for _, item := range page.Items {
		if item.Transparency == "transparent" {
			continue
		}
		from, ok := parseEventTime(item.Start, calLoc)
		if !ok {
			continue
		}
		to, ok := parseEventTime(item.End, calLoc)
		if !ok {
			continue
		}
		window, err := slots.NewTimeWindow(from, to)
		if err != nil || !window.Start().Before(end) || !window.End().After(start) {
			continue
		}
		status, err := slots.ParseEventStatus(item.Status)
		if err != nil {
			status = slots.EventStatusConfirmed
		}
		events = append(events, slots.CalendarBusyEvent{Window: window, Status: status, Summary: item.Summary})
	}
	return events
}

// parseEventTime handles both timed and all-day values. All-day dates are
// midnights in the event's zone, or the calendar's when unset.
func parseEventTime(t eventTime, calLoc *time.Location) (time.Time, bool) {
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		return parsed, err == nil
	}
	if t.Date != "" {
		loc := calLoc
		if t.TimeZone != "" {
			if l, err := time.LoadLocation(t.TimeZone); err == nil {
				loc = l
			}
		}
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		return parsed, err == nil
	}
	return time.Time{}, false
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return fmt.Errorf("calendar request failed: status=%d body=%s", resp.StatusCode, string(body))
}

var _ calendarApp.BusyEventProvider = (*Provider)(nil)
