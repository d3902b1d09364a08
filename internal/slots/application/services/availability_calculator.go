package services

import (
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// AvailabilityConfig bounds the part of each day that may be offered.
type AvailabilityConfig struct {
	DayWindow   domain.DailyWindow // searchable hours of every day
	MidDayBreak domain.DailyWindow // kept free inside constraints with AllowMidDayBreak
}

// DefaultAvailabilityConfig searches 08:00-21:00 with a 12:00-14:00 lunch break.
func DefaultAvailabilityConfig() AvailabilityConfig {
	return AvailabilityConfig{
		DayWindow:   domain.DailyWindow{Start: domain.ClockTime(8, 0), End: domain.ClockTime(21, 0)},
		MidDayBreak: domain.DefaultMidDayBreak,
	}
}

// DayAvailability lists the free windows of one calendar day, in order.
type DayAvailability struct {
	Date time.Time
	Free []domain.TimeWindow
}

// AvailabilityCalculator turns recurring rules and busy events into a per-day free timeline.
type AvailabilityCalculator struct {
	config AvailabilityConfig
}

// NewAvailabilityCalculator creates a calculator.
func NewAvailabilityCalculator(config AvailabilityConfig) *AvailabilityCalculator {
	return &AvailabilityCalculator{config: config}
}

// FreeWindows returns one entry per calendar day touched by searchRange.
// A day fully consumed by constraints has no free windows.
func (c *AvailabilityCalculator) FreeWindows(
	constraints []domain.RecurringConstraint,
	events []domain.CalendarBusyEvent,
	searchRange domain.TimeWindow,
	loc *time.Location,
) []DayAvailability {
	blocked := domain.BusyWindows(events)
	for _, rc := range constraints {
		blocked = append(blocked, rc.Occurrences(searchRange, loc, c.config.MidDayBreak)...)
	}
	blocked = domain.Normalize(blocked)

	days := domain.DaysIn(searchRange, loc)
	timeline := make([]DayAvailability, 0, len(days))
	for _, day := range days {
		entry := DayAvailability{Date: day}
		if bounds, ok := c.config.DayWindow.On(day); ok {
			if searchable, ok := bounds.Intersect(searchRange); ok {
				// Subtract clips each block to the day, which splits midnight-spanning events.
				entry.Free = domain.Subtract(searchable, []domain.TimeWindow{searchable}, blocked)
			}
		}
		timeline = append(timeline, entry)
	}
	return timeline
}

// Flatten joins the free windows of every day into one ordered list.
func Flatten(days []DayAvailability) []domain.TimeWindow {
	var out []domain.TimeWindow
	for _, d := range days {
		out = append(out, d.Free...)
	}
	return out
}
