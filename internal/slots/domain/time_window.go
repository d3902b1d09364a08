package domain

import (
	"fmt"
	"time"
)

// TimeWindow is a half-open interval [start, end) with start strictly before end.
type TimeWindow struct {
	start time.Time
	end   time.Time
}

// NewTimeWindow creates a window, rejecting empty or inverted ranges.
func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if !end.After(start) {
		return TimeWindow{}, ErrInvalidTimeWindow
	}
	return TimeWindow{start: start, end: end}, nil
}

// MustTimeWindow is like NewTimeWindow but panics on malformed input.
// Interval arithmetic uses it where a bad window means a bug.
func MustTimeWindow(start, end time.Time) TimeWindow {
	w, err := NewTimeWindow(start, end)
	if err != nil {
		panic(fmt.Sprintf("time window %s - %s: %v", start.Format(time.RFC3339), end.Format(time.RFC3339), err))
	}
	return w
}

func (w TimeWindow) Start() time.Time        { return w.start }
func (w TimeWindow) End() time.Time          { return w.end }
func (w TimeWindow) Duration() time.Duration { return w.end.Sub(w.start) }
func (w TimeWindow) IsZero() bool            { return w.start.IsZero() && w.end.IsZero() }

// Midpoint returns the instant halfway through the window.
func (w TimeWindow) Midpoint() time.Time {
	return w.start.Add(w.Duration() / 2)
}

// Contains reports whether t lies in [start, end).
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.start) && t.Before(w.end)
}

// ContainsWindow reports whether other lies entirely inside w.
func (w TimeWindow) ContainsWindow(other TimeWindow) bool {
	return !other.start.Before(w.start) && !other.end.After(w.end)
}

// Overlaps reports whether the two windows share any instant.
func (w TimeWindow) Overlaps(other TimeWindow) bool {
	return w.start.Before(other.end) && other.start.Before(w.end)
}

// Intersect returns the overlap of two windows, if any.
func (w TimeWindow) Intersect(other TimeWindow) (TimeWindow, bool) {
	start := laterOf(w.start, other.start)
	end := earlierOf(w.end, other.end)
	if !end.After(start) {
		return TimeWindow{}, false
	}
	return TimeWindow{start: start, end: end}, true
}

// In returns the same window expressed in loc.
func (w TimeWindow) In(loc *time.Location) TimeWindow {
	return TimeWindow{start: w.start.In(loc), end: w.end.In(loc)}
}

func (w TimeWindow) String() string {
	return fmt.Sprintf("[%s, %s)", w.start.Format(time.RFC3339), w.end.Format(time.RFC3339))
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
