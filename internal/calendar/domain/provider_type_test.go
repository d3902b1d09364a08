package domain_test

import (
	"testing"

	"github.com/felixgeelhaar/slotwise/internal/calendar/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderType_IsValid(t *testing.T) {
	tests := []struct {
		provider domain.ProviderType
		valid    bool
	}{
		{domain.ProviderNone, true},
		{domain.ProviderICS, true},
		{domain.ProviderCalDAV, true},
		{domain.ProviderGoogle, true},
		{domain.ProviderType("microsoft"), false},
		{domain.ProviderType(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.provider.IsValid())
		})
	}
}

func TestProviderType_Capabilities(t *testing.T) {
	assert.True(t, domain.ProviderGoogle.RequiresOAuth())
	assert.False(t, domain.ProviderCalDAV.RequiresOAuth())

	assert.True(t, domain.ProviderICS.IsRemote())
	assert.False(t, domain.ProviderNone.IsRemote())

	assert.Equal(t, "Google Calendar", domain.ProviderGoogle.DisplayName())
	assert.Equal(t, "custom", domain.ProviderType("custom").DisplayName())
}

func TestParseProviderType(t *testing.T) {
	tests := []struct {
		in   string
		want domain.ProviderType
	}{
		{"", domain.ProviderNone},
		{"ICS", domain.ProviderICS},
		{" caldav ", domain.ProviderCalDAV},
		{"icloud", domain.ProviderCalDAV},
		{"google", domain.ProviderGoogle},
	}
	for _, tt := range tests {
		got, err := domain.ParseProviderType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := domain.ParseProviderType("outlook")
	assert.ErrorContains(t, err, "unknown calendar provider")
}

func TestAllProviderTypes(t *testing.T) {
	for _, p := range domain.AllProviderTypes() {
		assert.True(t, p.IsValid())
	}
}
