package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

type staticTokens struct{}

func (staticTokens) TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error) {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"}), nil
}

var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func TestProvider_BusyEvents(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "/calendars/primary/events", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("singleEvents"))
		assert.Equal(t, "2025-01-06T00:00:00Z", r.URL.Query().Get("timeMin"))

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("pageToken") == "" {
			_, _ = w.Write([]byte(`{
				"timeZone": "UTC",
				"nextPageToken": "p2",
				"items": [
					{"id": "1", "summary": "Planning", "status": "confirmed",
					 "start": {"dateTime": "2025-01-06T10:00:00Z"}, "end": {"dateTime": "2025-01-06T11:00:00Z"}},
					{"id": "2", "summary": "Out of office", "status": "confirmed",
					 "start": {"date": "2025-01-07"}, "end": {"date": "2025-01-08"}},
					{"id": "3", "summary": "Optional talk", "status": "confirmed", "transparency": "transparent",
					 "start": {"dateTime": "2025-01-06T15:00:00Z"}, "end": {"dateTime": "2025-01-06T16:00:00Z"}}
				]
			}`))
			return
		}
		assert.Equal(t, "p2", r.URL.Query().Get("pageToken"))
		_, _ = w.Write([]byte(`{
			"items": [
				{"id": "4", "summary": "Maybe lunch", "status": "tentative",
				 "start": {"dateTime": "2025-01-06T12:00:00+01:00"}, "end": {"dateTime": "2025-01-06T13:00:00+01:00"}}
			]
		}`))
	}))
	defer server.Close()

	p := NewProvider(staticTokens{}, nil).WithBaseURL(server.URL)
	events, err := p.BusyEvents(context.Background(), uuid.New(), monday, monday.AddDate(0, 0, 7))
	require.NoError(t, err)

	assert.Equal(t, 2, requests)
	require.Len(t, events, 3)
	assert.Equal(t, "Planning", events[0].Summary)
	assert.Equal(t, 24*time.Hour, events[1].Window.Duration())
	assert.Equal(t, monday.AddDate(0, 0, 1), events[1].Window.Start().UTC())
	assert.Equal(t, slots.EventStatusTentative, events[2].Status)
	assert.Equal(t, monday.Add(11*time.Hour), events[2].Window.Start().UTC())
}

func TestProvider_CustomCalendarID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendars/team@example.com/events", r.URL.Path)
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	p := NewProvider(staticTokens{}, nil).WithBaseURL(server.URL).WithCalendarID("team@example.com")
	events, err := p.BusyEvents(context.Background(), uuid.New(), monday, monday.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestProvider_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	p := NewProvider(staticTokens{}, nil).WithBaseURL(server.URL)
	_, err := p.BusyEvents(context.Background(), uuid.New(), monday, monday.AddDate(0, 0, 1))
	assert.ErrorContains(t, err, "status=429")
}

func TestProvider_NoTokens(t *testing.T) {
	_, err := NewProvider(nil, nil).BusyEvents(context.Background(), uuid.New(), monday, monday.AddDate(0, 0, 1))
	assert.ErrorContains(t, err, "oauth service not configured")
}

func TestRefreshTokenSource(t *testing.T) {
	_, err := NewRefreshTokenSource("id", "secret", "").TokenSource(context.Background(), uuid.New())
	assert.Error(t, err)

	src, err := NewRefreshTokenSource("id", "secret", "refresh").TokenSource(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, src)
}
