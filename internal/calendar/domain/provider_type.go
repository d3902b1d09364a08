package domain

import (
	"fmt"
	"strings"
)

// ProviderType names a source of busy events.
type ProviderType string

const (
	// ProviderNone disables calendar lookups; requests must carry their own events.
	ProviderNone ProviderType = "none"
	// ProviderICS reads an iCalendar file or feed URL.
	ProviderICS ProviderType = "ics"
	// ProviderCalDAV is generic CalDAV (Apple, Fastmail, Nextcloud, self-hosted).
	ProviderCalDAV ProviderType = "caldav"
	// ProviderGoogle is Google Calendar (OAuth2 + Calendar API).
	ProviderGoogle ProviderType = "google"
)

func (p ProviderType) String() string {
	return string(p)
}

// IsValid returns true if the provider type is recognized.
func (p ProviderType) IsValid() bool {
	switch p {
	case ProviderNone, ProviderICS, ProviderCalDAV, ProviderGoogle:
		return true
	default:
		return false
	}
}

// RequiresOAuth returns true if the provider uses OAuth2 for authentication.
func (p ProviderType) RequiresOAuth() bool {
	return p == ProviderGoogle
}

// IsRemote reports whether lookups may go over the network and belong behind a breaker.
func (p ProviderType) IsRemote() bool {
	return p == ProviderICS || p == ProviderCalDAV || p == ProviderGoogle
}

// DisplayName returns a human-readable name for the provider.
func (p ProviderType) DisplayName() string {
	switch p {
	case ProviderNone:
		return "No calendar"
	case ProviderICS:
		return "iCalendar feed"
	case ProviderCalDAV:
		return "CalDAV"
	case ProviderGoogle:
		return "Google Calendar"
	default:
		return string(p)
	}
}

// ParseProviderType parses a configured provider name; empty means none.
func ParseProviderType(s string) (ProviderType, error) {
	p := ProviderType(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case "":
		return ProviderNone, nil
	case "apple", "icloud", "fastmail", "nextcloud":
		return ProviderCalDAV, nil
	}
	if !p.IsValid() {
		return "", fmt.Errorf("unknown calendar provider %q", s)
	}
	return p, nil
}

// AllProviderTypes returns all supported provider types.
func AllProviderTypes() []ProviderType {
	return []ProviderType{
		ProviderNone,
		ProviderICS,
		ProviderCalDAV,
		ProviderGoogle,
	}
}
