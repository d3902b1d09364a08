package services

import (
	"time"

	"github.com/felixgeelhaar/slotwise/internal/slots/domain"
)

// monday is 2025-01-06, a Monday.
var monday = time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

func at(day, hour, minute int) time.Time {
	return monday.AddDate(0, 0, day).Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func window(start, end time.Time) domain.TimeWindow {
	return domain.MustTimeWindow(start, end)
}

func weekdayConstraint(start, end domain.TimeOfDay) domain.RecurringConstraint {
	return domain.RecurringConstraint{
		DaysOfWeek: []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		StartTime:  start,
		EndTime:    end,
	}
}

func candidateAt(start time.Time, minutes int) Candidate {
	end := start.Add(time.Duration(minutes) * time.Minute)
	return Candidate{Start: start, End: end, FreeWindow: window(start, end)}
}
