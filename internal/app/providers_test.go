package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	calendarApp "github.com/felixgeelhaar/slotwise/internal/calendar/application"
	"github.com/felixgeelhaar/slotwise/pkg/config"
	"github.com/felixgeelhaar/slotwise/pkg/observability"
)

func TestNewBusyEventProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantNil  bool
		wantName string
		errMsg   string
	}{
		{name: "none", cfg: config.Config{}, wantNil: true},
		{name: "ics", cfg: config.Config{CalendarProvider: "ics", ICSSource: "/tmp/cal.ics"}, wantName: "ics"},
		{name: "ics without source", cfg: config.Config{CalendarProvider: "ics"}, errMsg: "CALENDAR_ICS_SOURCE"},
		{name: "icloud alias", cfg: config.Config{CalendarProvider: "iCloud", CalDAVUsername: "me"}, wantName: "caldav"},
		{name: "caldav without url", cfg: config.Config{CalendarProvider: "caldav"}, errMsg: "CALDAV_URL"},
		{
			name:     "google",
			cfg:      config.Config{CalendarProvider: "google", GoogleClientID: "id", GoogleRefreshToken: "rt", GoogleCalendarID: "primary"},
			wantName: "google",
		},
		{name: "google without token", cfg: config.Config{CalendarProvider: "google", GoogleClientID: "id"}, errMsg: "GOOGLE_REFRESH_TOKEN"},
		{name: "unknown", cfg: config.Config{CalendarProvider: "outlook"}, errMsg: "unknown calendar provider"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewBusyEventProvider(&tt.cfg, time.UTC, observability.NewInMemoryMetrics(), nil)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, provider)
				return
			}
			rp, ok := provider.(*calendarApp.ResilientProvider)
			require.True(t, ok, "remote providers are wrapped in a breaker")
			assert.Equal(t, tt.wantName, rp.Name())
			assert.Equal(t, "closed", rp.State())
		})
	}
}

func TestBreakerConfig(t *testing.T) {
	bc := breakerConfig(&config.Config{
		BreakerFailureThreshold: 5,
		BreakerTimeout:          time.Minute,
		BreakerCallTimeout:      2 * time.Second,
	})
	assert.Equal(t, uint32(5), bc.FailureThreshold)
	assert.Equal(t, time.Minute, bc.Timeout)
	assert.Equal(t, 2*time.Second, bc.CallTimeout)
	assert.Equal(t, calendarApp.DefaultBreakerConfig().Interval, bc.Interval)
}
