package domain

import (
	"fmt"
	"strings"
)

// EventStatus is the participation status of a calendar event.
type EventStatus string

const (
	EventStatusConfirmed EventStatus = "confirmed"
	EventStatusTentative EventStatus = "tentative"
	EventStatusCancelled EventStatus = "cancelled"
)

// ParseEventStatus accepts calendar status spellings case-insensitively.
// An empty status is treated as confirmed, matching iCalendar's default.
func ParseEventStatus(s string) (EventStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "confirmed":
		return EventStatusConfirmed, nil
	case "tentative":
		return EventStatusTentative, nil
	case "cancelled", "canceled":
		return EventStatusCancelled, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEventStatus, s)
	}
}

// CalendarBusyEvent is a one-off event already on the user's calendar.
type CalendarBusyEvent struct {
	Window  TimeWindow
	Status  EventStatus
	Summary string
}

// IsBusy reports whether the event blocks time. Cancelled events do not.
func (e CalendarBusyEvent) IsBusy() bool {
	return e.Status == EventStatusConfirmed || e.Status == EventStatusTentative
}

// BusyWindows returns the windows of every event that blocks time.
func BusyWindows(events []CalendarBusyEvent) []TimeWindow {
	windows := make([]TimeWindow, 0, len(events))
	for _, e := range events {
		if e.IsBusy() {
			windows = append(windows, e.Window)
		}
	}
	return windows
}
