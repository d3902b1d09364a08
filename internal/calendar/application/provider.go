// Package application exposes calendar sources to the slot engine.
package application

import (
	"context"
	"errors"
	"time"

	slots "github.com/felixgeelhaar/slotwise/internal/slots/domain"
	"github.com/google/uuid"
)

// ErrProviderUnavailable is returned when a provider's breaker is open or
// rejecting calls.
var ErrProviderUnavailable = errors.New("calendar provider unavailable")

// BusyEventProvider returns the events on a user's calendar overlapping [start, end).
type BusyEventProvider interface {
	BusyEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error)
}

// ProviderFunc adapts a function to BusyEventProvider.
type ProviderFunc func(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error)

func (f ProviderFunc) BusyEvents(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	return f(ctx, userID, start, end)
}

// StaticProvider serves a fixed event list, the same for every user.
type StaticProvider struct {
	events []slots.CalendarBusyEvent
}

// NewStaticProvider creates a provider over events.
func NewStaticProvider(events []slots.CalendarBusyEvent) *StaticProvider {
	return &StaticProvider{events: events}
}

// BusyEvents returns the stored events overlapping [start, end).
func (p *StaticProvider) BusyEvents(_ context.Context, _ uuid.UUID, start, end time.Time) ([]slots.CalendarBusyEvent, error) {
	return FilterOverlapping(p.events, start, end), nil
}

// FilterOverlapping keeps events whose window overlaps [start, end).
func FilterOverlapping(events []slots.CalendarBusyEvent, start, end time.Time) []slots.CalendarBusyEvent {
	out := make([]slots.CalendarBusyEvent, 0, len(events))
	for _, e := range events {
		if e.Window.Start().Before(end) && e.Window.End().After(start) {
			out = append(out, e)
		}
	}
	return out
}
