package domain

import (
	"time"
)

// TimeSlot is a scored candidate window proposed to the user.
type TimeSlot struct {
	Date            time.Time `json:"date"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	Score           int       `json:"score"`
	Reason          string    `json:"reason"`
}

// Window returns the slot as a TimeWindow.
func (s TimeSlot) Window() TimeWindow {
	return TimeWindow{start: s.StartTime, end: s.EndTime}
}
