package domain

import (
	"fmt"
	"time"
)

// MinutesPerDay is the upper bound of a TimeOfDay ("24:00").
const MinutesPerDay = 24 * 60

// TimeOfDay is a wall-clock time expressed as minutes since midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from hour and minute. 24:00 is accepted as end of day.
func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || minute < 0 || minute > 59 {
		return 0, ErrInvalidTimeOfDay
	}
	t := TimeOfDay(hour*60 + minute)
	if t > MinutesPerDay {
		return 0, ErrInvalidTimeOfDay
	}
	return t, nil
}

// ClockTime panics on invalid input. Used for compile-time constants and tables.
func ClockTime(hour, minute int) TimeOfDay {
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		panic(fmt.Sprintf("clock time %02d:%02d: %v", hour, minute, err))
	}
	return t
}

// ParseTimeOfDay parses an "HH:MM" string.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if n, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil || n != 2 || len(s) < 4 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	t, err := NewTimeOfDay(hour, minute)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return t, nil
}

// TimeOfDayOf returns the wall-clock time of t in its own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) Hour() int   { return int(t) / 60 }
func (t TimeOfDay) Minute() int { return int(t) % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// On returns the instant this wall-clock time falls on for the calendar day of day.
// 24:00 yields midnight of the following day.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, day.Location())
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// DailyWindow is a wall-clock range within a single day, such as opening hours.
type DailyWindow struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Validate checks that the window is non-empty and does not cross midnight.
func (d DailyWindow) Validate() error {
	if d.Start < 0 || d.End > MinutesPerDay || d.End <= d.Start {
		return fmt.Errorf("%w: daily window %s-%s", ErrInvalidTimeWindow, d.Start, d.End)
	}
	return nil
}

// On returns the concrete window for the calendar day of day.
func (d DailyWindow) On(day time.Time) (TimeWindow, bool) {
	start, end := d.Start.On(day), d.End.On(day)
	if !end.After(start) {
		return TimeWindow{}, false
	}
	return TimeWindow{start: start, end: end}, true
}

func (d DailyWindow) String() string {
	return d.Start.String() + "-" + d.End.String()
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDate reports whether a and b fall on the same calendar day in their own locations.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysIn lists local midnights for every calendar day touched by w.
func DaysIn(w TimeWindow, loc *time.Location) []time.Time {
	var days []time.Time
	end := w.end.In(loc)
	for day := StartOfDay(w.start.In(loc)); day.Before(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}
